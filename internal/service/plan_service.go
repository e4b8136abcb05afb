package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"github.com/milosz-sonski/training-plans-api/internal/events"
	"github.com/milosz-sonski/training-plans-api/internal/observability"
	"github.com/milosz-sonski/training-plans-api/internal/repository"
	"github.com/milosz-sonski/training-plans-api/internal/storage"
	"go.uber.org/zap"
)

// Common service errors
var (
	ErrNotFound           = errors.New("training plan not found")
	ErrIDMismatch         = errors.New("id mismatch")
	ErrInvalidModel       = errors.New("invalid model")
	ErrAlreadyExists      = errors.New("training plan already exists")
	ErrStorageUnavailable = errors.New("export storage not configured")
)

// TrainingPlanService implements the operations on the plan collection
type TrainingPlanService struct {
	repo      repository.TrainingPlanRepository
	publisher events.Publisher
	storage   storage.S3Interface
	logger    *zap.SugaredLogger
	now       func() time.Time
}

// NewTrainingPlanService creates a new plan service. store may be nil, in
// which case ExportSnapshot returns ErrStorageUnavailable.
func NewTrainingPlanService(
	repo repository.TrainingPlanRepository,
	publisher events.Publisher,
	store storage.S3Interface,
	logger *zap.SugaredLogger,
) *TrainingPlanService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &TrainingPlanService{
		repo:      repo,
		publisher: publisher,
		storage:   store,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ListPlans returns every stored plan ordered by ID
func (s *TrainingPlanService) ListPlans(ctx context.Context) ([]*domain.TrainingPlan, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Errorw("Failed to list training plans", "error", err)
		s.record("list", err)
		return nil, fmt.Errorf("failed to list training plans: %w", err)
	}

	s.record("list", nil)
	return plans, nil
}

// Ready checks that the repository answers. It records no operation metric.
func (s *TrainingPlanService) Ready(ctx context.Context) error {
	if _, err := s.repo.Count(ctx); err != nil {
		return fmt.Errorf("training plan store unavailable: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by ID
func (s *TrainingPlanService) GetPlan(ctx context.Context, id int64) (*domain.TrainingPlan, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		err = s.translate(err)
		s.record("get", err)
		if !errors.Is(err, ErrNotFound) {
			s.logger.Errorw("Failed to get training plan", "error", err, "planID", id)
		}
		return nil, err
	}

	s.record("get", nil)
	return plan, nil
}

// CreatePlan validates and stores a new plan. On success plan carries the
// assigned ID and creation time.
func (s *TrainingPlanService) CreatePlan(ctx context.Context, plan *domain.TrainingPlan) error {
	if err := plan.Validate(); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidModel, err)
		s.record("create", err)
		return err
	}

	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = s.now()
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		err = s.translate(err)
		s.record("create", err)
		s.logger.Errorw("Failed to create training plan", "error", err, "planID", plan.ID)
		return err
	}

	s.logger.Infow("Training plan created", "planID", plan.ID, "createdBy", plan.CreatedBy)
	s.record("create", nil)
	s.publish(ctx, events.PlanCreated, plan.ID, plan)
	return nil
}

// UpdatePlan replaces the plan stored under id. The body ID must match id;
// the mismatch check runs before validation. CreatedAt is never changed.
func (s *TrainingPlanService) UpdatePlan(ctx context.Context, id int64, plan *domain.TrainingPlan) error {
	if plan.ID != id {
		s.record("update", ErrIDMismatch)
		return ErrIDMismatch
	}

	if err := plan.Validate(); err != nil {
		err = fmt.Errorf("%w: %w", ErrInvalidModel, err)
		s.record("update", err)
		return err
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		err = s.translate(err)
		s.record("update", err)
		if !errors.Is(err, ErrNotFound) {
			s.logger.Errorw("Failed to update training plan", "error", err, "planID", id)
		}
		return err
	}

	s.logger.Infow("Training plan updated", "planID", id)
	s.record("update", nil)
	s.publish(ctx, events.PlanUpdated, id, plan)
	return nil
}

// DeletePlan removes a plan by ID
func (s *TrainingPlanService) DeletePlan(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		err = s.translate(err)
		s.record("delete", err)
		if !errors.Is(err, ErrNotFound) {
			s.logger.Errorw("Failed to delete training plan", "error", err, "planID", id)
		}
		return err
	}

	s.logger.Infow("Training plan deleted", "planID", id)
	s.record("delete", nil)
	s.publish(ctx, events.PlanDeleted, id, nil)
	return nil
}

// ExportSnapshot writes the whole plan collection as a JSON document to
// object storage and returns where it was written.
func (s *TrainingPlanService) ExportSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	if s.storage == nil {
		s.record("export", ErrStorageUnavailable)
		return nil, ErrStorageUnavailable
	}

	plans, err := s.repo.List(ctx)
	if err != nil {
		s.record("export", err)
		s.logger.Errorw("Failed to list training plans for export", "error", err)
		return nil, fmt.Errorf("failed to list training plans: %w", err)
	}

	body, err := json.Marshal(plans)
	if err != nil {
		s.record("export", err)
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	createdAt := s.now()
	key := storage.GenerateSnapshotKey(createdAt, uuid.New())

	url, err := s.storage.Put(ctx, key, body, "application/json")
	if err != nil {
		s.record("export", err)
		s.logger.Errorw("Failed to upload snapshot", "error", err, "key", key)
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	s.logger.Infow("Training plan snapshot exported", "key", key, "planCount", len(plans))
	s.record("export", nil)
	observability.RecordSnapshotExported(createdAt)

	return &domain.Snapshot{
		Key:       key,
		URL:       url,
		PlanCount: len(plans),
		CreatedAt: createdAt,
	}, nil
}

// SeedPlans stores the given plans when the repository is empty and
// returns how many were stored. A non-empty repository is left untouched.
func (s *TrainingPlanService) SeedPlans(ctx context.Context, plans []*domain.TrainingPlan) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count training plans: %w", err)
	}
	if count > 0 {
		s.logger.Infow("Skipping seed, training plans already present", "count", count)
		return 0, nil
	}

	for i, plan := range plans {
		seeded := *plan
		if err := s.CreatePlan(ctx, &seeded); err != nil {
			return i, fmt.Errorf("failed to seed plan %q: %w", plan.Name, err)
		}
	}

	s.logger.Infow("Seeded training plans", "count", len(plans))
	return len(plans), nil
}

// translate maps repository errors onto service errors
func (s *TrainingPlanService) translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrAlreadyExists):
		return ErrAlreadyExists
	case errors.Is(err, repository.ErrInvalidInput):
		return fmt.Errorf("%w: %v", ErrInvalidModel, err)
	default:
		return err
	}
}

func (s *TrainingPlanService) publish(ctx context.Context, eventType events.EventType, id int64, plan *domain.TrainingPlan) {
	var payload *domain.TrainingPlan
	if plan != nil {
		planCopy := *plan
		payload = &planCopy
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, id, payload)); err != nil {
		s.logger.Warnw("Failed to publish training plan event",
			"error", err,
			"eventType", eventType,
			"planID", id)
	}
}

func (s *TrainingPlanService) record(operation string, err error) {
	observability.RecordPlanOperation(operation, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return observability.OutcomeNotFound
	case errors.Is(err, ErrInvalidModel), errors.Is(err, ErrIDMismatch):
		return observability.OutcomeInvalid
	case errors.Is(err, ErrAlreadyExists):
		return observability.OutcomeConflict
	default:
		return observability.OutcomeError
	}
}
