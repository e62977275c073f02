package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/taller-autos/neoauto-etl/internal/util"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

func GetConnection(config *util.Config) (*bun.DB, error) {
	sqlDb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(config.DbConnectionString.Value)))
	db := bun.NewDB(sqlDb, pgdialect.New())

	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(false),

		// BUNDEBUG=1 logs failed queries
		// BUNDEBUG=2 logs all queries
		bundebug.FromEnv("BUNDEBUG")))

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// Store wraps a connection with the queries the pipeline needs.
type Store struct {
	conn bun.IDB
}

func NewStore(conn bun.IDB) *Store {
	return &Store{conn: conn}
}

func (s *Store) CreateJob(ctx context.Context, initiatedBy string) (*ScrapingJobModel, error) {
	job := &ScrapingJobModel{
		InitiatedBy: initiatedBy,
		Status:      JobStatusPending,
		StartedAt:   time.Now().UTC(),
	}

	_, err := s.conn.NewInsert().Model(job).Returning("id").Exec(ctx)
	if err != nil {
		return nil, err
	}

	return job, nil
}

func (s *Store) GetJob(ctx context.Context, id int64) (*ScrapingJobModel, error) {
	job := new(ScrapingJobModel)
	err := s.conn.NewSelect().Model(job).Where("sj.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return job, nil
}

func (s *Store) UpdateJob(ctx context.Context, job *ScrapingJobModel) error {
	_, err := s.conn.NewUpdate().Model(job).WherePK().Exec(ctx)

	return err
}

// UpsertCar inserts a listing row or, when a row with the same codigo
// already exists, overwrites its fields and advances fecha and the job
// back-reference.
func (s *Store) UpsertCar(ctx context.Context, car *CarModel) error {
	_, err := s.conn.NewInsert().Model(car).
		On("CONFLICT (codigo) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("link = EXCLUDED.link").
		Set("tag = EXCLUDED.tag").
		Set("image = EXCLUDED.image").
		Set("fuel = EXCLUDED.fuel").
		Set("location = EXCLUDED.location").
		Set("price = EXCLUDED.price").
		Set("brand = EXCLUDED.brand").
		Set("year = EXCLUDED.year").
		Set("advertiser = EXCLUDED.advertiser").
		Set("category = EXCLUDED.category").
		Set("subcategory = EXCLUDED.subcategory").
		Set("transmission = EXCLUDED.transmission").
		Set("slug = EXCLUDED.slug").
		Set("fecha = EXCLUDED.fecha").
		Set("scraping_job_id = EXCLUDED.scraping_job_id").
		Exec(ctx)

	return err
}
