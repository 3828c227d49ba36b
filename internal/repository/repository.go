package repository

import (
	"context"
	"database/sql"
	"time"

	"messana_bridge/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.Event) error
	List(ctx context.Context, from, to time.Time, typ, device string) ([]models.Event, error)
}

// ReadingRepo stores the per-zone history written after every successful refresh.
type ReadingRepo interface {
	AppendBatch(ctx context.Context, rows []models.ZoneReading) error
	List(ctx context.Context, device string, zone int, from, to time.Time, limit int) ([]models.ZoneReading, error)
}

type Repository struct {
	EventRepo   EventRepo
	ReadingRepo ReadingRepo
	Auth        Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo:   NewEventSQLite(db),
		ReadingRepo: NewReadingSQLite(db),
		Auth:        NewUserRepository(db),
	}
}

// timeLayout is how timestamps are written so that range filters compare lexically.
const timeLayout = "2006-01-02 15:04:05.000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
