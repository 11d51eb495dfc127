package repository

import (
	"context"

	"gorm.io/gorm"

	"harbor-control/internal/model"
	"harbor-control/internal/pagination"
)

// TrafficRepository traffic entry data access.
type TrafficRepository interface {
	Create(ctx context.Context, entry *model.TrafficEntry) error
	GetByID(ctx context.Context, id uint) (*model.TrafficEntry, error)
	// List one window of entries plus the filtered total. q.Limit <= 0 lists all.
	List(ctx context.Context, q ListQuery) ([]model.TrafficEntry, int64, error)
	// Days a day-keyed view over the filtered, sorted collection.
	Days(q ListQuery) pagination.DaySource[model.TrafficEntry]

	// ListUnderived entries with id > afterID whose derived columns are missing.
	ListUnderived(ctx context.Context, afterID uint, limit int) ([]model.TrafficEntry, error)
	CountWithoutDate(ctx context.Context) (int64, error)
	// SaveDerived re-derives and writes only occurred_at and traffic_day.
	SaveDerived(ctx context.Context, entry *model.TrafficEntry) error
}

type trafficRepo struct {
	db *gorm.DB
}

// NewTrafficRepo creates a TrafficRepository.
func NewTrafficRepo(db *gorm.DB) TrafficRepository {
	return &trafficRepo{db: db}
}

func (r *trafficRepo) Create(ctx context.Context, entry *model.TrafficEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *trafficRepo) GetByID(ctx context.Context, id uint) (*model.TrafficEntry, error) {
	var entry model.TrafficEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *trafficRepo) List(ctx context.Context, q ListQuery) ([]model.TrafficEntry, int64, error) {
	db := q.applySearch(r.db.WithContext(ctx).Model(&model.TrafficEntry{}))

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.TrafficEntry
	err := q.applyWindow(q.applyOrder(db)).Find(&entries).Error
	return entries, total, err
}

func (r *trafficRepo) Days(q ListQuery) pagination.DaySource[model.TrafficEntry] {
	return &TrafficDaySource{db: r.db, query: q}
}

const underivedCondition = "tr_date IS NOT NULL AND (traffic_day IS NULL OR (tr_time IS NOT NULL AND occurred_at IS NULL))"

func (r *trafficRepo) ListUnderived(ctx context.Context, afterID uint, limit int) ([]model.TrafficEntry, error) {
	var entries []model.TrafficEntry
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Where(underivedCondition).
		Order("id ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *trafficRepo) CountWithoutDate(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.TrafficEntry{}).
		Where("tr_date IS NULL").
		Count(&n).Error
	return n, err
}

func (r *trafficRepo) SaveDerived(ctx context.Context, entry *model.TrafficEntry) error {
	return r.db.WithContext(ctx).
		Model(entry).
		Select("occurred_at", "traffic_day").
		Updates(entry).Error
}
