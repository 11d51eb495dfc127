package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"harbor-control/internal/model"
)

// Repository aggregate entry point of all repositories.
type Repository struct {
	db      *gorm.DB
	Boat    BoatRepository
	Traffic TrafficRepository
}

// NewRepository builds the aggregate. loc is the zone traffic dates and times
// are interpreted in when occurred_at is derived.
func NewRepository(db *gorm.DB, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	if db != nil {
		db = db.Set(model.ZoneSetting, loc).Session(&gorm.Session{})
	}
	return newRepository(db)
}

func newRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:      db,
		Boat:    NewBoatRepo(db),
		Traffic: NewTrafficRepo(db),
	}
}

// BeginTx starts a transaction. A Repository without a database (tests)
// returns a nil tx.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx repositories bound to tx. A nil tx returns r itself.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return newRepository(tx)
}

// InTx runs fn inside one transaction; any error or panic rolls it back.
func (r *Repository) InTx(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepository(tx))
	})
}
