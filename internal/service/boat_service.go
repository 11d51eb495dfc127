package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"harbor-control/config"
	"harbor-control/internal/dto"
	"harbor-control/internal/model"
	"harbor-control/internal/repository"
)

// ── boat module errors ──

var (
	ErrBoatNotFound    = errors.New("boat not found")
	ErrBoatNotEditable = errors.New("boat is pending deletion or archived and cannot be edited")
)

// BoatService boat CRUD.
type BoatService interface {
	Create(ctx context.Context, form *dto.BoatForm) (*dto.BoatResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.BoatResponse, error)
	Update(ctx context.Context, id uint, form *dto.BoatForm) (*dto.BoatResponse, error)
	List(ctx context.Context, params *dto.ListParams) (*dto.BoatListResult, error)
	// Selectable active boats by name, for linking traffic entries.
	Selectable(ctx context.Context) ([]dto.BoatResponse, error)
	// Delete removes the row outright; the soft-delete workflow is in LifecycleService.
	Delete(ctx context.Context, id uint) error
}

type boatService struct {
	repo       *repository.Repository
	defaultPer int
	maxPer     int
	logger     *zap.Logger
}

// NewBoatService creates a BoatService.
func NewBoatService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) BoatService {
	return &boatService{
		repo:       repo,
		defaultPer: cfg.Pagination.DefaultPer,
		maxPer:     cfg.Pagination.MaxPer,
		logger:     logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *boatService) Create(ctx context.Context, form *dto.BoatForm) (*dto.BoatResponse, error) {
	boat, err := cleanBoatForm(form)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Boat.Create(ctx, boat); err != nil {
		s.logger.Error("create boat failed", zap.String("name", boat.Name), zap.Error(err))
		return nil, err
	}
	return toBoatResponse(boat), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *boatService) GetByID(ctx context.Context, id uint) (*dto.BoatResponse, error) {
	boat, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toBoatResponse(boat), nil
}

func (s *boatService) load(ctx context.Context, id uint) (*model.Boat, error) {
	boat, err := s.repo.Boat.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrBoatNotFound
		}
		s.logger.Error("load boat failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return boat, nil
}

// ────────────────────── Update ──────────────────────

func (s *boatService) Update(ctx context.Context, id uint, form *dto.BoatForm) (*dto.BoatResponse, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Active() {
		return nil, ErrBoatNotEditable
	}

	changes, err := cleanBoatForm(form)
	if err != nil {
		return nil, err
	}

	current.BoatType = changes.BoatType
	current.Name = changes.Name
	current.Berth = changes.Berth
	current.State = changes.State
	current.CheckIn = changes.CheckIn
	current.CheckOut = changes.CheckOut

	affected, err := s.repo.Boat.UpdateEditable(ctx, current)
	if err != nil {
		s.logger.Error("update boat failed", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	if affected == 0 {
		// soft-deleted or archived since it was read
		return nil, ErrBoatNotEditable
	}
	return toBoatResponse(current), nil
}

// ────────────────────── List ──────────────────────

func (s *boatService) List(ctx context.Context, params *dto.ListParams) (*dto.BoatListResult, error) {
	q, sortKey := boatListQuery(params)
	per := params.PageSize(s.defaultPer, s.maxPer)

	// count first so an out of range page is rejected before fetching rows
	_, total, err := s.repo.Boat.List(ctx, repository.VisibleActive, repository.ListQuery{
		Search: q.Search, SearchColumns: q.SearchColumns, Limit: 1,
	})
	if err != nil {
		s.logger.Error("count boats failed", zap.Error(err))
		return nil, err
	}
	page, numPages, err := windowFor(params.Page, total, per)
	if err != nil {
		return nil, err
	}

	q.Offset, q.Limit = (page-1)*per, per
	boats, total, err := s.repo.Boat.List(ctx, repository.VisibleActive, q)
	if err != nil {
		s.logger.Error("list boats failed", zap.Error(err))
		return nil, err
	}

	result := &dto.BoatListResult{
		Boats:    make([]dto.BoatResponse, 0, len(boats)),
		Total:    total,
		Page:     page,
		Per:      per,
		NumPages: numPages,
		Sort:     sortKey,
		Dir:      params.Direction(),
		Q:        q.Search,
	}
	for i := range boats {
		result.Boats = append(result.Boats, *toBoatResponse(&boats[i]))
	}
	return result, nil
}

func (s *boatService) Selectable(ctx context.Context) ([]dto.BoatResponse, error) {
	_, col := repository.BoatSort("name")
	boats, _, err := s.repo.Boat.List(ctx, repository.VisibleActive, repository.ListQuery{SortColumn: col})
	if err != nil {
		s.logger.Error("list selectable boats failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.BoatResponse, 0, len(boats))
	for i := range boats {
		out = append(out, *toBoatResponse(&boats[i]))
	}
	return out, nil
}

// ────────────────────── Delete ──────────────────────

func (s *boatService) Delete(ctx context.Context, id uint) error {
	affected, err := s.repo.Boat.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete boat failed", zap.Uint("id", id), zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrBoatNotFound
	}
	s.logger.Info("boat deleted", zap.Uint("id", id))
	return nil
}

// ── conversion ──

const timestampLayout = time.RFC3339

func toBoatResponse(b *model.Boat) *dto.BoatResponse {
	resp := &dto.BoatResponse{
		ID:            b.ID,
		BoatType:      b.BoatType.String(),
		BoatTypeLabel: b.BoatType.Label(),
		Name:          b.Name,
		Berth:         b.Berth,
		State:         b.State.String(),
		StateLabel:    b.State.Label(),
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		Deleted:       b.Deleted,
		Archived:      b.Archived,
		CreatedAt:     b.CreatedAt.Format(timestampLayout),
		UpdatedAt:     b.UpdatedAt.Format(timestampLayout),
	}
	if b.DeletedAt != nil {
		resp.DeletedAt = b.DeletedAt.Format(timestampLayout)
	}
	if b.ArchivedAt != nil {
		resp.ArchivedAt = b.ArchivedAt.Format(timestampLayout)
	}
	return resp
}
