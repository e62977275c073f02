package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"time"

	"github.com/taller-autos/neoauto-etl/internal/db"
	"github.com/taller-autos/neoauto-etl/internal/fetcher"
	"github.com/taller-autos/neoauto-etl/internal/log"
	"github.com/taller-autos/neoauto-etl/internal/pipeline"
	"github.com/taller-autos/neoauto-etl/internal/scraper"
	"github.com/taller-autos/neoauto-etl/internal/util"
	"github.com/uptrace/bun"
)

func Run(ctx context.Context, connection *bun.DB, config *util.Config) error {
	var dryRun bool
	var maxPages int
	var jobId int64
	flag.BoolVar(&dryRun, "dry", false, "extract and transform without writing to the database")
	flag.IntVar(&maxPages, "max-pages", 0, "maximum number of catalog pages to scrape (0 = all)")
	flag.Int64Var(&jobId, "job-id", 0, "id of an existing scraping job to run under")
	flag.Parse()

	logger := log.GetLogger()

	if dryRun {
		logger = log.AddGlobalField("DryRun", dryRun)
	}

	origin, err := catalogOrigin(config.CatalogBaseUrl.Value)
	if err != nil {
		return err
	}

	httpFetcher := fetcher.New(time.Duration(config.HttpTimeout()) * time.Second)
	extractor := scraper.NewExtractor(httpFetcher, config.CatalogBaseUrl.Value, logger)
	transformer := scraper.NewTransformer(origin, logger)

	if dryRun {
		listings, totalPages, err := extractor.Extract(ctx, maxPages)
		if err != nil {
			return err
		}

		normalized := transformer.Transform(listings)
		fmt.Printf("dry run: %d pages, %d records extracted, nothing written\n", totalPages, len(normalized))

		return nil
	}

	store := db.NewStore(connection)
	loader := scraper.NewLoader(store, logger)

	p := pipeline.New(store, extractor, transformer, loader, logger)
	job, err := p.Run(ctx, pipeline.Options{MaxPages: maxPages, JobId: jobId})
	if err != nil {
		return err
	}

	fmt.Printf("scrape completed: job=%d pages=%d extracted=%d loaded=%d", job.Id,
		job.TotalPagesScraped, job.TotalRecordsExtracted, job.TotalRecordsLoaded)
	if duration := job.Duration(); duration != nil {
		fmt.Printf(" duration=%.2fs", *duration)
	}
	fmt.Println()

	return nil
}

// catalogOrigin reduces the catalog base url to its scheme://host origin,
// the prefix relative detail links are resolved against.
func catalogOrigin(baseUrl string) (string, error) {
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return "", fmt.Errorf("invalid catalog base url %q: %w", baseUrl, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("catalog base url %q is not absolute", baseUrl)
	}

	return parsed.Scheme + "://" + parsed.Host, nil
}
