package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"harbor-control/internal/model"
	"harbor-control/pkg/database"
)

// BoatVisibility which lifecycle stage a boat listing shows.
type BoatVisibility int

const (
	// VisibleActive neither deleted nor archived.
	VisibleActive BoatVisibility = iota
	// VisiblePending soft-deleted, not yet archived.
	VisiblePending
	// VisibleArchived archived.
	VisibleArchived
	// VisibleAll every row.
	VisibleAll
)

func (v BoatVisibility) apply(db *gorm.DB) *gorm.DB {
	switch v {
	case VisibleActive:
		return db.Where("deleted = ? AND archived = ?", false, false)
	case VisiblePending:
		return db.Where("deleted = ? AND archived = ?", true, false)
	case VisibleArchived:
		return db.Where("archived = ?", true)
	}
	return db
}

// BoatRepository boat data access.
type BoatRepository interface {
	Create(ctx context.Context, boat *model.Boat) error
	GetByID(ctx context.Context, id uint) (*model.Boat, error)
	List(ctx context.Context, vis BoatVisibility, q ListQuery) ([]model.Boat, int64, error)
	ListPendingDeletion(ctx context.Context) ([]model.Boat, error)
	ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]model.Boat, error)
	// UpdateEditable writes the form columns of an active boat and reports
	// the number of rows matched.
	UpdateEditable(ctx context.Context, boat *model.Boat) (int64, error)
	UpdateWhere(ctx context.Context, upd database.ConditionalUpdate) (int64, error)
	SetState(ctx context.Context, id uint, state model.State) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type boatRepo struct {
	db *gorm.DB
}

// NewBoatRepo creates a BoatRepository.
func NewBoatRepo(db *gorm.DB) BoatRepository {
	return &boatRepo{db: db}
}

func (r *boatRepo) Create(ctx context.Context, boat *model.Boat) error {
	boat.Deleted, boat.DeletedAt = false, nil
	boat.Archived, boat.ArchivedAt = false, nil
	return r.db.WithContext(ctx).Create(boat).Error
}

func (r *boatRepo) GetByID(ctx context.Context, id uint) (*model.Boat, error) {
	var boat model.Boat
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&boat).Error
	if err != nil {
		return nil, err
	}
	return &boat, nil
}

func (r *boatRepo) List(ctx context.Context, vis BoatVisibility, q ListQuery) ([]model.Boat, int64, error) {
	db := q.applySearch(vis.apply(r.db.WithContext(ctx).Model(&model.Boat{})))

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var boats []model.Boat
	err := q.applyWindow(q.applyOrder(db)).Find(&boats).Error
	return boats, total, err
}

func (r *boatRepo) ListPendingDeletion(ctx context.Context) ([]model.Boat, error) {
	var boats []model.Boat
	err := VisiblePending.apply(r.db.WithContext(ctx)).
		Order("deleted_at DESC, created_at DESC, id DESC").
		Find(&boats).Error
	return boats, err
}

// ListDeletedBefore pending boats soft-deleted at or before cutoff, oldest first.
func (r *boatRepo) ListDeletedBefore(ctx context.Context, cutoff time.Time) ([]model.Boat, error) {
	var boats []model.Boat
	err := VisiblePending.apply(r.db.WithContext(ctx)).
		Where("deleted_at IS NOT NULL AND deleted_at <= ?", cutoff).
		Order("deleted_at ASC, id ASC").
		Find(&boats).Error
	return boats, err
}

func (r *boatRepo) UpdateEditable(ctx context.Context, boat *model.Boat) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(boat).
		Where("deleted = ? AND archived = ?", false, false).
		Select(model.EditableColumns).
		Updates(boat)
	return result.RowsAffected, result.Error
}

func (r *boatRepo) UpdateWhere(ctx context.Context, upd database.ConditionalUpdate) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Boat{}).
		Where(upd.Guard.Where, upd.Guard.Args...).
		Updates(upd.Changes)
	return result.RowsAffected, result.Error
}

func (r *boatRepo) SetState(ctx context.Context, id uint, state model.State) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Boat{}).
		Where("id = ?", id).
		Update("state", state)
	return result.RowsAffected, result.Error
}

// Delete removes the row. Traffic entries keep their copied fields and lose
// the reference.
func (r *boatRepo) Delete(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.TrafficEntry{}).
			Where("boat_id = ?", id).
			Update("boat_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Boat{})
		affected = result.RowsAffected
		return result.Error
	})
	return affected, err
}
