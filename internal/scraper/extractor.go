package scraper

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/taller-autos/neoauto-etl/internal"
	"github.com/taller-autos/neoauto-etl/internal/log"
	"github.com/taller-autos/neoauto-etl/internal/parser"
)

// PageFetcher retrieves one catalog page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Extractor walks the paginated catalog and accumulates raw listings.
type Extractor struct {
	fetcher PageFetcher
	baseUrl string
	logger  log.Logger
}

func NewExtractor(fetcher PageFetcher, baseUrl string, logger log.Logger) *Extractor {
	return &Extractor{
		fetcher: fetcher,
		baseUrl: baseUrl,
		logger:  logger,
	}
}

// Extract fetches page 1, resolves the total page count, then fetches and
// parses every page in order. It returns all listings plus the resolved page
// count. A failed first-page fetch is fatal; a failed later page contributes
// nothing and extraction continues.
func (e *Extractor) Extract(ctx context.Context, maxPages int) ([]internal.RawListing, int, error) {
	content, err := e.fetcher.Fetch(ctx, e.baseUrl)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching first catalog page: %w", err)
	}

	totalPages := parser.ResolveTotalPages(content, maxPages)
	e.logger.WithField("TotalPages", totalPages).Info("resolved catalog page count")

	listings := make([]internal.RawListing, 0)
	for page := 1; page <= totalPages; page++ {
		pageUrl := fmt.Sprintf("%s?page=%d", e.baseUrl, page)
		pageLogger := e.logger.WithFields(logrus.Fields{
			"Page":       page,
			"TotalPages": totalPages,
			"Url":        pageUrl,
		})
		pageLogger.Debug("scraping page")

		pageContent, err := e.fetcher.Fetch(ctx, pageUrl)
		if err != nil {
			pageLogger.WithError(err).Warn("failed to fetch page, skipping")
			continue
		}

		pageListings := parser.ParsePage(pageContent, pageLogger)
		pageLogger.WithField("ListingCount", len(pageListings)).Debug("parsed page")

		listings = append(listings, pageListings...)
	}

	return listings, totalPages, nil
}
