package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/taller-autos/neoauto-etl/internal"
	"github.com/taller-autos/neoauto-etl/internal/db"
	"github.com/taller-autos/neoauto-etl/internal/log"
	"github.com/taller-autos/neoauto-etl/internal/util/assert"
)

const defaultInitiator = "manual_command"

// JobStore persists scraping job state. The pipeline is the only writer.
type JobStore interface {
	CreateJob(ctx context.Context, initiatedBy string) (*db.ScrapingJobModel, error)
	GetJob(ctx context.Context, id int64) (*db.ScrapingJobModel, error)
	UpdateJob(ctx context.Context, job *db.ScrapingJobModel) error
}

type Extractor interface {
	Extract(ctx context.Context, maxPages int) ([]internal.RawListing, int, error)
}

type Transformer interface {
	Transform(raw []internal.RawListing) []internal.NormalizedListing
}

type Loader interface {
	Load(ctx context.Context, listings []internal.NormalizedListing, job *db.ScrapingJobModel) int
}

// Pipeline drives one full extract-transform-load run under a scraping job.
type Pipeline struct {
	jobs        JobStore
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      log.Logger
}

type Options struct {
	// MaxPages caps the number of catalog pages, 0 means all.
	MaxPages int
	// JobId reuses an existing job row instead of creating one.
	JobId int64
	// InitiatedBy tags a newly created job.
	InitiatedBy string
}

func New(jobs JobStore, extractor Extractor, transformer Transformer, loader Loader, logger log.Logger) *Pipeline {
	assert.NotNil(jobs, "pipeline requires a job store")
	assert.NotNil(extractor, "pipeline requires an extractor")

	return &Pipeline{
		jobs:        jobs,
		extractor:   extractor,
		transformer: transformer,
		loader:      loader,
		logger:      logger,
	}
}

// Run executes the pipeline and returns the finalized job. The job always
// reaches a terminal state: completed on success, failed with the captured
// error text otherwise. A fatal error is returned to the caller as well.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*db.ScrapingJobModel, error) {
	job, err := p.obtainJob(ctx, opts)
	if err != nil {
		return nil, err
	}

	jobLogger := p.logger.WithField("JobId", job.Id)

	job.Status = db.JobStatusRunning
	if err := p.jobs.UpdateJob(ctx, job); err != nil {
		return job, p.fail(ctx, job, jobLogger, err)
	}

	jobLogger.Info("starting extraction")
	listings, totalPages, err := p.extractor.Extract(ctx, opts.MaxPages)
	if err != nil {
		return job, p.fail(ctx, job, jobLogger, err)
	}

	job.TotalRecordsExtracted = len(listings)
	job.TotalPagesScraped = totalPages
	if err := p.jobs.UpdateJob(ctx, job); err != nil {
		return job, p.fail(ctx, job, jobLogger, err)
	}
	jobLogger.WithField("RecordsExtracted", len(listings)).Info("extraction finished")

	normalized := p.transformer.Transform(listings)
	jobLogger.WithField("RecordsTransformed", len(normalized)).Info("transformation finished")

	loaded := p.loader.Load(ctx, normalized, job)
	job.TotalRecordsLoaded = loaded
	jobLogger.WithField("RecordsLoaded", loaded).Info("load finished")

	now := time.Now().UTC()
	job.Status = db.JobStatusCompleted
	job.CompletedAt = &now
	job.LogMessages = fmt.Sprintf("scrape succeeded: %d records loaded", loaded)
	if err := p.jobs.UpdateJob(ctx, job); err != nil {
		return job, err
	}

	return job, nil
}

func (p *Pipeline) obtainJob(ctx context.Context, opts Options) (*db.ScrapingJobModel, error) {
	if opts.JobId > 0 {
		return p.jobs.GetJob(ctx, opts.JobId)
	}

	initiatedBy := opts.InitiatedBy
	if initiatedBy == "" {
		initiatedBy = defaultInitiator
	}

	return p.jobs.CreateJob(ctx, initiatedBy)
}

// fail moves the job to its failed terminal state and hands the cause back
// to the caller. A persistence error at this point is only logged: the cause
// of the failure matters more than the bookkeeping.
func (p *Pipeline) fail(ctx context.Context, job *db.ScrapingJobModel, logger log.Logger, cause error) error {
	now := time.Now().UTC()
	job.Status = db.JobStatusFailed
	job.ErrorMessage = cause.Error()
	job.CompletedAt = &now

	if err := p.jobs.UpdateJob(ctx, job); err != nil {
		logger.WithError(err).Error("failed to persist failed job state")
	}

	logger.WithError(cause).Error("pipeline run failed")

	return cause
}
