package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/milosz-sonski/training-plans-api/internal/domain"
)

// InMemoryTrainingPlanRepository is an in-memory implementation of
// TrainingPlanRepository. It backs the test environment and unit tests.
type InMemoryTrainingPlanRepository struct {
	mu           sync.RWMutex
	plans        map[int64]*domain.TrainingPlan
	nextID       int64
	forceError   bool
	errorMessage string
}

// NewInMemoryTrainingPlanRepository creates an empty repository
func NewInMemoryTrainingPlanRepository() *InMemoryTrainingPlanRepository {
	return &InMemoryTrainingPlanRepository{
		plans:  make(map[int64]*domain.TrainingPlan),
		nextID: 1,
	}
}

// List returns copies of all stored plans ordered by ID
func (m *InMemoryTrainingPlanRepository) List(ctx context.Context) ([]*domain.TrainingPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.forceError {
		return nil, m.err()
	}

	result := make([]*domain.TrainingPlan, 0, len(m.plans))
	for _, plan := range m.plans {
		planCopy := *plan
		result = append(result, &planCopy)
	}
	domain.SortByID(result)

	return result, nil
}

// GetByID retrieves a copy of the plan with the given ID
func (m *InMemoryTrainingPlanRepository) GetByID(ctx context.Context, id int64) (*domain.TrainingPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.forceError {
		return nil, m.err()
	}

	plan, exists := m.plans[id]
	if !exists {
		return nil, ErrNotFound
	}

	// Return a copy to prevent modification of the stored plan
	planCopy := *plan
	return &planCopy, nil
}

// Create stores a new plan
func (m *InMemoryTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.forceError {
		return m.err()
	}
	if plan == nil {
		return ErrInvalidInput
	}
	if plan.ID < 0 {
		return ErrInvalidInput
	}

	if plan.ID == 0 {
		plan.ID = m.nextID
	} else if _, exists := m.plans[plan.ID]; exists {
		return ErrAlreadyExists
	}
	if plan.ID >= m.nextID {
		m.nextID = plan.ID + 1
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	planCopy := *plan
	m.plans[plan.ID] = &planCopy
	return nil
}

// Update replaces an existing plan, keeping its creation time
func (m *InMemoryTrainingPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.forceError {
		return m.err()
	}
	if plan == nil {
		return ErrInvalidInput
	}

	stored, exists := m.plans[plan.ID]
	if !exists {
		return ErrNotFound
	}

	planCopy := *plan
	planCopy.CreatedAt = stored.CreatedAt
	m.plans[plan.ID] = &planCopy
	plan.CreatedAt = stored.CreatedAt
	return nil
}

// Delete removes a plan
func (m *InMemoryTrainingPlanRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.forceError {
		return m.err()
	}

	if _, exists := m.plans[id]; !exists {
		return ErrNotFound
	}

	delete(m.plans, id)
	return nil
}

// Count returns the number of stored plans
func (m *InMemoryTrainingPlanRepository) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.forceError {
		return 0, m.err()
	}
	return len(m.plans), nil
}

func (m *InMemoryTrainingPlanRepository) err() error {
	return errors.Join(ErrDatabase, errors.New(m.errorMessage))
}

// --- Test Helper Methods ---

// SetError configures the repository to fail every operation
func (m *InMemoryTrainingPlanRepository) SetError(enable bool, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forceError = enable
	if enable {
		m.errorMessage = message
	} else {
		m.errorMessage = ""
	}
}

// AddPlan stores a plan directly, bypassing validation (for test setup)
func (m *InMemoryTrainingPlanRepository) AddPlan(plan *domain.TrainingPlan) {
	m.mu.Lock()
	defer m.mu.Unlock()

	planCopy := *plan
	m.plans[plan.ID] = &planCopy
	if plan.ID >= m.nextID {
		m.nextID = plan.ID + 1
	}
}

// HasPlan checks if a plan exists
func (m *InMemoryTrainingPlanRepository) HasPlan(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.plans[id]
	return exists
}

// PlanCount returns the number of stored plans
func (m *InMemoryTrainingPlanRepository) PlanCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plans)
}

// Clear removes all plans and resets the ID sequence
func (m *InMemoryTrainingPlanRepository) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plans = make(map[int64]*domain.TrainingPlan)
	m.nextID = 1
	m.forceError = false
	m.errorMessage = ""
}
