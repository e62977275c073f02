package scraper

import (
	"context"
	"time"

	"github.com/taller-autos/neoauto-etl/internal"
	"github.com/taller-autos/neoauto-etl/internal/db"
	"github.com/taller-autos/neoauto-etl/internal/log"
)

// CarStore is the durable write side of the pipeline.
type CarStore interface {
	UpsertCar(ctx context.Context, car *db.CarModel) error
}

// Loader upserts normalized listings keyed by codigo.
type Loader struct {
	store  CarStore
	logger log.Logger
}

func NewLoader(store CarStore, logger log.Logger) *Loader {
	return &Loader{
		store:  store,
		logger: logger,
	}
}

// Load writes every listing and returns the number of successful upserts.
// A failed record is logged and skipped; it never aborts the batch.
func (l *Loader) Load(ctx context.Context, listings []internal.NormalizedListing, job *db.ScrapingJobModel) int {
	var jobId *int64
	if job != nil {
		jobId = &job.Id
	}

	loaded := 0
	for _, listing := range listings {
		car := &db.CarModel{
			Codigo:        listing.Code,
			Title:         listing.Title,
			Link:          listing.Link,
			Tag:           listing.Tag,
			Image:         listing.Image,
			Fuel:          listing.Fuel,
			Location:      listing.Location,
			Price:         listing.Price,
			Brand:         listing.Brand,
			Year:          listing.Year,
			Advertiser:    listing.Advertiser,
			Category:      listing.Category,
			Subcategory:   listing.Subcategory,
			Transmission:  listing.Transmission,
			Slug:          listing.Slug,
			Fecha:         time.Now().UTC(),
			ScrapingJobId: jobId,
		}

		if err := l.store.UpsertCar(ctx, car); err != nil {
			l.logger.WithError(err).WithField("Codigo", listing.Code).Warn("failed to load record, skipping")
			continue
		}

		loaded++
	}

	return loaded
}
