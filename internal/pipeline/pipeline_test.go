package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/taller-autos/neoauto-etl/internal"
	"github.com/taller-autos/neoauto-etl/internal/db"
	"github.com/taller-autos/neoauto-etl/internal/log"
)

func newTestLogger() log.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

type fakeJobStore struct {
	jobs   map[int64]*db.ScrapingJobModel
	nextId int64

	// statuses seen by UpdateJob, in order
	transitions []string
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[int64]*db.ScrapingJobModel)}
}

func (s *fakeJobStore) CreateJob(_ context.Context, initiatedBy string) (*db.ScrapingJobModel, error) {
	s.nextId++
	job := &db.ScrapingJobModel{
		Id:          s.nextId,
		InitiatedBy: initiatedBy,
		Status:      db.JobStatusPending,
		StartedAt:   time.Now().UTC(),
	}
	s.jobs[job.Id] = job
	return job, nil
}

func (s *fakeJobStore) GetJob(_ context.Context, id int64) (*db.ScrapingJobModel, error) {
	job, exists := s.jobs[id]
	if !exists {
		return nil, fmt.Errorf("job %d not found", id)
	}
	return job, nil
}

func (s *fakeJobStore) UpdateJob(_ context.Context, job *db.ScrapingJobModel) error {
	if _, exists := s.jobs[job.Id]; !exists {
		return fmt.Errorf("job %d not found", job.Id)
	}
	s.jobs[job.Id] = job
	s.transitions = append(s.transitions, job.Status)
	return nil
}

type fakeExtractor struct {
	listings   []internal.RawListing
	totalPages int
	err        error
}

func (e *fakeExtractor) Extract(context.Context, int) ([]internal.RawListing, int, error) {
	if e.err != nil {
		return nil, 0, e.err
	}
	return e.listings, e.totalPages, nil
}

type fakeTransformer struct{}

func (fakeTransformer) Transform(raw []internal.RawListing) []internal.NormalizedListing {
	normalized := make([]internal.NormalizedListing, 0, len(raw))
	for _, r := range raw {
		normalized = append(normalized, internal.NormalizedListing{Code: r.Code, Title: r.Title})
	}
	return normalized
}

type fakeLoader struct {
	called bool
	loaded int
}

func (l *fakeLoader) Load(_ context.Context, listings []internal.NormalizedListing, _ *db.ScrapingJobModel) int {
	l.called = true
	l.loaded = len(listings)
	return l.loaded
}

func rawListings(n int) []internal.RawListing {
	listings := make([]internal.RawListing, 0, n)
	for i := 0; i < n; i++ {
		listings = append(listings, internal.RawListing{Code: fmt.Sprintf("%d", i)})
	}
	return listings
}

func TestRunCompletes(t *testing.T) {
	jobs := newFakeJobStore()
	loader := &fakeLoader{}
	p := New(jobs, &fakeExtractor{listings: rawListings(38), totalPages: 2}, fakeTransformer{}, loader, newTestLogger())

	job, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if job.Status != db.JobStatusCompleted {
		t.Errorf("Status = %q, want %q", job.Status, db.JobStatusCompleted)
	}
	if job.InitiatedBy != "manual_command" {
		t.Errorf("InitiatedBy = %q, want manual_command", job.InitiatedBy)
	}
	if job.TotalPagesScraped != 2 {
		t.Errorf("TotalPagesScraped = %d, want 2", job.TotalPagesScraped)
	}
	if job.TotalRecordsExtracted != 38 {
		t.Errorf("TotalRecordsExtracted = %d, want 38", job.TotalRecordsExtracted)
	}
	if job.TotalRecordsLoaded != 38 {
		t.Errorf("TotalRecordsLoaded = %d, want 38", job.TotalRecordsLoaded)
	}
	if job.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
	if job.LogMessages == "" {
		t.Error("LogMessages not set")
	}
	if job.Duration() == nil {
		t.Error("Duration() = nil after completion")
	}

	// pending row must have transitioned through running before completing
	if len(jobs.transitions) == 0 || jobs.transitions[0] != db.JobStatusRunning {
		t.Errorf("first persisted transition = %v, want running", jobs.transitions)
	}
	if last := jobs.transitions[len(jobs.transitions)-1]; last != db.JobStatusCompleted {
		t.Errorf("last persisted transition = %q, want completed", last)
	}
}

func TestRunFailsOnExtractionError(t *testing.T) {
	jobs := newFakeJobStore()
	loader := &fakeLoader{}
	cause := errors.New("fetching 'https://neoauto.com/venta-de-autos' failed with status 503")
	p := New(jobs, &fakeExtractor{err: cause}, fakeTransformer{}, loader, newTestLogger())

	job, err := p.Run(context.Background(), Options{})
	if !errors.Is(err, cause) {
		t.Fatalf("Run() error = %v, want the extraction failure", err)
	}

	if job.Status != db.JobStatusFailed {
		t.Errorf("Status = %q, want %q", job.Status, db.JobStatusFailed)
	}
	if job.ErrorMessage == "" {
		t.Error("ErrorMessage not set")
	}
	if job.CompletedAt == nil {
		t.Error("CompletedAt not set on failure")
	}
	if loader.called {
		t.Error("loader was called after fatal extraction failure")
	}

	if last := jobs.transitions[len(jobs.transitions)-1]; last != db.JobStatusFailed {
		t.Errorf("last persisted transition = %q, want failed", last)
	}
}

func TestRunReusesExistingJob(t *testing.T) {
	jobs := newFakeJobStore()
	existing, _ := jobs.CreateJob(context.Background(), "scheduler")

	p := New(jobs, &fakeExtractor{listings: rawListings(3), totalPages: 1}, fakeTransformer{}, &fakeLoader{}, newTestLogger())

	job, err := p.Run(context.Background(), Options{JobId: existing.Id})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if job.Id != existing.Id {
		t.Errorf("job id = %d, want %d", job.Id, existing.Id)
	}
	if job.InitiatedBy != "scheduler" {
		t.Errorf("InitiatedBy = %q, want the existing job's tag", job.InitiatedBy)
	}
	if job.Status != db.JobStatusCompleted {
		t.Errorf("Status = %q, want %q", job.Status, db.JobStatusCompleted)
	}
}

func TestRunUnknownJobId(t *testing.T) {
	p := New(newFakeJobStore(), &fakeExtractor{}, fakeTransformer{}, &fakeLoader{}, newTestLogger())

	if _, err := p.Run(context.Background(), Options{JobId: 42}); err == nil {
		t.Fatal("Run() error = nil, want unknown job failure")
	}
}

func TestRunPropagatesInitiator(t *testing.T) {
	jobs := newFakeJobStore()
	p := New(jobs, &fakeExtractor{totalPages: 1}, fakeTransformer{}, &fakeLoader{}, newTestLogger())

	job, err := p.Run(context.Background(), Options{InitiatedBy: "cron"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if job.InitiatedBy != "cron" {
		t.Errorf("InitiatedBy = %q, want cron", job.InitiatedBy)
	}
}
