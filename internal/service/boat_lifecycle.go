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
	"harbor-control/pkg/database"
)

// ── lifecycle errors ──

var (
	ErrBoatAlreadyDeleted  = errors.New("boat is already deleted")
	ErrBoatAlreadyArchived = errors.New("boat is already archived")
	ErrBoatNotDeleted      = errors.New("boat is not deleted")
)

// LifecycleService soft-delete, archive and cancel transitions of a boat.
//
// active --SoftDelete--> pending --Archive--> archived
// pending --CancelDelete--> active
//
// Each transition re-checks its precondition in the WHERE clause, so of two
// concurrent identical requests one reports Affected=false instead of failing.
type LifecycleService interface {
	SoftDelete(ctx context.Context, id uint) (*dto.LifecycleResult, error)
	Archive(ctx context.Context, id uint) (*dto.LifecycleResult, error)
	CancelDelete(ctx context.Context, id uint) (*dto.LifecycleResult, error)
	ListPending(ctx context.Context) ([]dto.PendingDeletionResponse, error)
	// ArchiveExpired archives, one at a time, every pending boat deleted more
	// than the configured delay ago. Per-boat failures are collected, not fatal.
	ArchiveExpired(ctx context.Context) (*dto.ArchiveSummary, error)
}

type lifecycleService struct {
	repo         *repository.Repository
	retry        database.RetryPolicy
	archiveAfter time.Duration
	now          func() time.Time
	logger       *zap.Logger
}

// NewLifecycleService creates a LifecycleService.
func NewLifecycleService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) LifecycleService {
	return &lifecycleService{
		repo: repo,
		retry: database.RetryPolicy{
			Attempts: cfg.Lifecycle.RetryAttempts,
			Backoff:  cfg.Lifecycle.RetryBackoff,
		},
		archiveAfter: cfg.Lifecycle.AutoArchiveAfter,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger,
	}
}

// ────────────────────── SoftDelete ──────────────────────

func (s *lifecycleService) SoftDelete(ctx context.Context, id uint) (*dto.LifecycleResult, error) {
	boat, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if boat.Deleted {
		return nil, ErrBoatAlreadyDeleted
	}

	return s.apply(ctx, id, "soft delete", database.ConditionalUpdate{
		Guard: database.Guard{Where: "id = ? AND deleted = ?", Args: []interface{}{id, false}},
		Changes: map[string]interface{}{
			"deleted":    true,
			"deleted_at": s.now(),
		},
	})
}

// ────────────────────── Archive ──────────────────────

func (s *lifecycleService) Archive(ctx context.Context, id uint) (*dto.LifecycleResult, error) {
	boat, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if boat.Archived {
		return nil, ErrBoatAlreadyArchived
	}
	if !boat.Deleted {
		return nil, ErrBoatNotDeleted
	}

	return s.apply(ctx, id, "archive", database.ConditionalUpdate{
		Guard: database.Guard{
			Where: "id = ? AND deleted = ? AND archived = ?",
			Args:  []interface{}{id, true, false},
		},
		Changes: map[string]interface{}{
			"archived":    true,
			"archived_at": s.now(),
		},
	})
}

// ────────────────────── CancelDelete ──────────────────────

func (s *lifecycleService) CancelDelete(ctx context.Context, id uint) (*dto.LifecycleResult, error) {
	boat, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if boat.Archived {
		return nil, ErrBoatAlreadyArchived
	}
	if !boat.Deleted {
		return nil, ErrBoatNotDeleted
	}

	// archived = false keeps an archived boat from losing its deleted flag
	return s.apply(ctx, id, "cancel delete", database.ConditionalUpdate{
		Guard: database.Guard{
			Where: "id = ? AND deleted = ? AND archived = ?",
			Args:  []interface{}{id, true, false},
		},
		Changes: map[string]interface{}{
			"deleted":    false,
			"deleted_at": nil,
		},
	})
}

func (s *lifecycleService) load(ctx context.Context, id uint) (*model.Boat, error) {
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

func (s *lifecycleService) apply(ctx context.Context, id uint, op string, upd database.ConditionalUpdate) (*dto.LifecycleResult, error) {
	affected, err := database.RetryOnLock(ctx, s.retry, func(ctx context.Context) (int64, error) {
		return s.repo.Boat.UpdateWhere(ctx, upd)
	})
	if err != nil {
		s.logger.Error("boat transition failed", zap.String("op", op), zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	if affected == 0 {
		s.logger.Info("boat transition had no effect", zap.String("op", op), zap.Uint("id", id))
	}
	return &dto.LifecycleResult{ID: id, Affected: affected > 0}, nil
}

// ────────────────────── ListPending ──────────────────────

func (s *lifecycleService) ListPending(ctx context.Context) ([]dto.PendingDeletionResponse, error) {
	boats, err := s.repo.Boat.ListPendingDeletion(ctx)
	if err != nil {
		s.logger.Error("list pending deletions failed", zap.Error(err))
		return nil, err
	}

	now := s.now()
	out := make([]dto.PendingDeletionResponse, 0, len(boats))
	for i := range boats {
		item := dto.PendingDeletionResponse{BoatResponse: *toBoatResponse(&boats[i])}
		if at := boats[i].DeletedAt; at != nil {
			item.ArchiveDueAt = at.Add(s.archiveAfter)
			if left := item.ArchiveDueAt.Sub(now); left > 0 {
				item.RemainingSeconds = int64(left / time.Second)
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// ────────────────────── ArchiveExpired ──────────────────────

func (s *lifecycleService) ArchiveExpired(ctx context.Context) (*dto.ArchiveSummary, error) {
	cutoff := s.now().Add(-s.archiveAfter)
	boats, err := s.repo.Boat.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("list expired pending deletions failed", zap.Error(err))
		return nil, err
	}

	summary := &dto.ArchiveSummary{Candidates: len(boats)}
	for _, b := range boats {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := s.Archive(ctx, b.ID)
		switch {
		case err == nil && res.Affected:
			summary.Archived++
		case err == nil,
			errors.Is(err, ErrBoatAlreadyArchived),
			errors.Is(err, ErrBoatNotDeleted),
			errors.Is(err, ErrBoatNotFound):
			// someone else got there first
			summary.Skipped++
		default:
			summary.Failed = append(summary.Failed, b.ID)
		}
	}

	if summary.Candidates > 0 {
		s.logger.Info("auto-archive sweep finished",
			zap.Int("candidates", summary.Candidates),
			zap.Int("archived", summary.Archived),
			zap.Int("skipped", summary.Skipped),
			zap.Uints("failed", summary.Failed),
		)
	}
	return summary, nil
}
