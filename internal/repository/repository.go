package repository

import (
	"context"
	"errors"

	"github.com/milosz-sonski/training-plans-api/internal/domain"
)

// Common repository errors
var (
	ErrNotFound      = errors.New("training plan not found")
	ErrAlreadyExists = errors.New("training plan already exists")
	ErrDatabase      = errors.New("database error")
	ErrInvalidInput  = errors.New("invalid input parameters")
)

// TrainingPlanRepository defines the operations for training plan persistence
type TrainingPlanRepository interface {
	// List returns every stored plan ordered by ID
	List(ctx context.Context) ([]*domain.TrainingPlan, error)

	// GetByID retrieves a plan by its ID
	GetByID(ctx context.Context, id int64) (*domain.TrainingPlan, error)

	// Create stores a new plan, assigning the next ID when plan.ID is zero
	Create(ctx context.Context, plan *domain.TrainingPlan) error

	// Update replaces the mutable fields of an existing plan
	Update(ctx context.Context, plan *domain.TrainingPlan) error

	// Delete removes a plan by its ID
	Delete(ctx context.Context, id int64) error

	// Count returns the number of stored plans
	Count(ctx context.Context) (int, error)
}
