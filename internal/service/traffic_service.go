package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"harbor-control/config"
	"harbor-control/internal/dto"
	"harbor-control/internal/model"
	"harbor-control/internal/pagination"
	"harbor-control/internal/repository"
	pkgerrors "harbor-control/pkg/errors"
)

// ── traffic module errors ──

var (
	ErrTrafficEntryNotFound = errors.New("traffic entry not found")
)

// DefaultBackfillBatch rows re-derived per batch.
const DefaultBackfillBatch = 200

// TrafficService records and lists boat movements.
type TrafficService interface {
	// Create records an entry and, when it is linked to a boat, moves the
	// boat to the state implied by the direction, in one transaction.
	Create(ctx context.Context, form *dto.TrafficForm) (*dto.TrafficCreateResult, error)
	GetByID(ctx context.Context, id uint) (*dto.TrafficEntryResponse, error)
	List(ctx context.Context, params *dto.ListParams) (*dto.TrafficListResult, error)
	// Backfill re-derives occurred_at and traffic_day where they are missing.
	Backfill(ctx context.Context, batchSize int) (*dto.BackfillSummary, error)
}

type trafficService struct {
	repo             *repository.Repository
	defaultPer       int
	maxPer           int
	includeEmptyDays bool
	logger           *zap.Logger
}

// NewTrafficService creates a TrafficService.
func NewTrafficService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TrafficService {
	return &trafficService{
		repo:             repo,
		defaultPer:       cfg.Pagination.DefaultPer,
		maxPer:           cfg.Pagination.MaxPer,
		includeEmptyDays: cfg.Pagination.IncludeEmptyDays,
		logger:           logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *trafficService) Create(ctx context.Context, form *dto.TrafficForm) (*dto.TrafficCreateResult, error) {
	v := pkgerrors.NewValidationError()
	entry, boatID := cleanTrafficForm(form, v)

	var boat *model.Boat
	if boatID != nil {
		b, err := s.repo.Boat.GetByID(ctx, *boatID)
		switch {
		case err == nil:
			boat = b
			entry.BoatID = boatID
		case isNotFound(err):
			v.Add("boat_id", msgUnknownBoat)
		default:
			s.logger.Error("load linked boat failed", zap.Uint("boat_id", *boatID), zap.Error(err))
			return nil, err
		}
	}
	completeFromBoat(entry, boat, v)
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	result := &dto.TrafficCreateResult{}
	err := s.repo.InTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Traffic.Create(ctx, entry); err != nil {
			return err
		}
		if entry.BoatID == nil {
			return nil
		}
		state, ok := entry.Direction.BoatState()
		if !ok {
			return nil
		}
		affected, err := tx.Boat.SetState(ctx, *entry.BoatID, state)
		if err != nil {
			return err
		}
		result.BoatUpdated = affected > 0
		return nil
	})
	if err != nil {
		s.logger.Error("create traffic entry failed", zap.Error(err))
		return nil, err
	}

	result.ID = entry.ID
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *trafficService) GetByID(ctx context.Context, id uint) (*dto.TrafficEntryResponse, error) {
	entry, err := s.repo.Traffic.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrTrafficEntryNotFound
		}
		s.logger.Error("load traffic entry failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toTrafficResponse(entry), nil
}

// ────────────────────── List ──────────────────────

func (s *trafficService) List(ctx context.Context, params *dto.ListParams) (*dto.TrafficListResult, error) {
	q, sortKey := trafficListQuery(params)
	result := &dto.TrafficListResult{
		Mode: params.PaginationMode(dto.ModeDay),
		Sort: sortKey,
		Dir:  params.Direction(),
		Q:    q.Search,
	}

	var entries []model.TrafficEntry
	if result.Mode == dto.ModeDay {
		p, err := pagination.NewDayPaginator(ctx, s.repo.Traffic.Days(q), s.includeEmptyDays)
		if err != nil {
			s.logger.Error("build day paginator failed", zap.Error(err))
			return nil, err
		}

		var page *pagination.DayPage[model.TrafficEntry]
		if day, derr := pagination.ParseDay(params.Day); params.Day != "" && derr == nil {
			page, err = p.PageNumber(ctx, p.PageForDay(day))
		} else {
			page, err = p.Page(ctx, params.Page)
		}
		if err != nil {
			if errors.Is(err, pagination.ErrInvalidPage) {
				return nil, err
			}
			s.logger.Error("load traffic day failed", zap.Error(err))
			return nil, err
		}

		entries = page.Entries
		result.Page, result.NumPages = page.Number, page.NumPages
		if page.Day != nil {
			result.Day = page.Day.String()
		}
	} else {
		per := params.PageSize(s.defaultPer, s.maxPer)
		_, total, err := s.repo.Traffic.List(ctx, repository.ListQuery{
			Search: q.Search, SearchColumns: q.SearchColumns, Limit: 1,
		})
		if err != nil {
			s.logger.Error("count traffic failed", zap.Error(err))
			return nil, err
		}
		page, numPages, err := windowFor(params.Page, total, per)
		if err != nil {
			return nil, err
		}

		q.Offset, q.Limit = (page-1)*per, per
		entries, total, err = s.repo.Traffic.List(ctx, q)
		if err != nil {
			s.logger.Error("list traffic failed", zap.Error(err))
			return nil, err
		}
		result.Page, result.NumPages = page, numPages
		result.Total, result.Per = total, per
	}

	result.Entries = make([]dto.TrafficEntryResponse, 0, len(entries))
	for i := range entries {
		result.Entries = append(result.Entries, *toTrafficResponse(&entries[i]))
	}
	return result, nil
}

// ────────────────────── Backfill ──────────────────────

func (s *trafficService) Backfill(ctx context.Context, batchSize int) (*dto.BackfillSummary, error) {
	if batchSize <= 0 {
		batchSize = DefaultBackfillBatch
	}

	summary := &dto.BackfillSummary{}
	var afterID uint
	for {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		rows, err := s.repo.Traffic.ListUnderived(ctx, afterID, batchSize)
		if err != nil {
			s.logger.Error("list underived traffic failed", zap.Uint("after_id", afterID), zap.Error(err))
			return summary, err
		}
		if len(rows) == 0 {
			break
		}

		for i := range rows {
			summary.Scanned++
			if err := s.repo.Traffic.SaveDerived(ctx, &rows[i]); err != nil {
				s.logger.Error("save derived fields failed", zap.Uint("id", rows[i].ID), zap.Error(err))
				return summary, err
			}
			if rows[i].TrafficDay != nil {
				summary.Updated++
			}
		}
		afterID = rows[len(rows)-1].ID
	}

	noDate, err := s.repo.Traffic.CountWithoutDate(ctx)
	if err != nil {
		s.logger.Error("count undated traffic failed", zap.Error(err))
		return summary, err
	}
	summary.NoDate = int(noDate)

	s.logger.Info("occurred_at backfill finished",
		zap.Int("scanned", summary.Scanned),
		zap.Int("updated", summary.Updated),
		zap.Int("no_date", summary.NoDate),
	)
	return summary, nil
}

// ── conversion ──

func toTrafficResponse(e *model.TrafficEntry) *dto.TrafficEntryResponse {
	resp := &dto.TrafficEntryResponse{
		ID:             e.ID,
		BoatID:         e.BoatID,
		BoatType:       e.BoatType.String(),
		BoatTypeLabel:  e.BoatType.Label(),
		Name:           e.Name,
		Berth:          e.Berth,
		Direction:      e.Direction.String(),
		DirectionLabel: e.Direction.Label(),
		Passengers:     e.Passengers,
		Purpose:        e.Purpose,
		Comments:       e.Comments,
		OccurredAt:     e.OccurredAt,
		When:           displayWhen(e),
		CreatedAt:      e.CreatedAt.Format(timestampLayout),
	}
	if e.TrDate != nil {
		resp.TrDate = e.TrDate.Format(model.DayLayout)
	}
	if e.TrTime != nil {
		resp.TrTime = *e.TrTime
	}
	if e.ExpectedReturnDate != nil {
		resp.Edr = e.ExpectedReturnDate.Format(model.DayLayout)
	}
	if e.ExpectedReturnTime != nil {
		resp.Etr = *e.ExpectedReturnTime
	}
	if e.TrafficDay != nil {
		resp.TrafficDay = *e.TrafficDay
	}
	return resp
}
