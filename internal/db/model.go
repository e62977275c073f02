package db

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// CarModel is one catalog listing row, uniquely keyed by codigo.
type CarModel struct {
	bun.BaseModel `bun:"table:tbl_auto_raw_taller,alias:car"`
	Id            int64     `bun:"id,pk,autoincrement"`
	Codigo        string    `bun:"codigo,notnull,unique"`
	Title         string    `bun:"title,notnull"`
	Link          string    `bun:"link,notnull"`
	Tag           *string   `bun:"tag"`
	Image         *string   `bun:"image"`
	Fuel          string    `bun:"fuel,notnull"`
	Location      string    `bun:"location,notnull"`
	Price         *float64  `bun:"price"`
	Brand         string    `bun:"brand,notnull"`
	Year          int       `bun:"year,notnull"`
	Advertiser    *string   `bun:"advertiser"`
	Category      *string   `bun:"category"`
	Subcategory   *string   `bun:"subcategory"`
	Transmission  string    `bun:"transmission,notnull"`
	Slug          *string   `bun:"slug"`
	Fecha         time.Time `bun:"fecha,notnull"`
	ScrapingJobId *int64    `bun:"scraping_job_id"`
}

// ScrapingJobModel tracks one pipeline run from pending to a terminal state.
type ScrapingJobModel struct {
	bun.BaseModel         `bun:"table:scraping_jobs,alias:sj"`
	Id                    int64      `bun:"id,pk,autoincrement"`
	InitiatedBy           string     `bun:"initiated_by,notnull"`
	Status                string     `bun:"status,notnull"`
	StartedAt             time.Time  `bun:"started_at,notnull"`
	CompletedAt           *time.Time `bun:"completed_at"`
	TotalPagesScraped     int        `bun:"total_pages_scraped,notnull"`
	TotalRecordsExtracted int        `bun:"total_records_extracted,notnull"`
	TotalRecordsLoaded    int        `bun:"total_records_loaded,notnull"`
	LogMessages           string     `bun:"log_messages,notnull,default:''"`
	ErrorMessage          string     `bun:"error_message,notnull,default:''"`
}

// Duration returns the run length in seconds, nil until the job is terminal.
func (j *ScrapingJobModel) Duration() *float64 {
	if j.CompletedAt == nil {
		return nil
	}

	seconds := j.CompletedAt.Sub(j.StartedAt).Seconds()
	return &seconds
}
