package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/milosz-sonski/training-plans-api/internal/domain"
)

const selectPlanColumns = `
	SELECT id, name, description, exercises, training_days, created_by, created_at
	FROM training_plans`

// PostgresTrainingPlanRepository implements TrainingPlanRepository using PostgreSQL
type PostgresTrainingPlanRepository struct {
	db *sql.DB
}

// NewPostgresTrainingPlanRepository creates a new PostgresTrainingPlanRepository
func NewPostgresTrainingPlanRepository(db *sql.DB) *PostgresTrainingPlanRepository {
	return &PostgresTrainingPlanRepository{
		db: db,
	}
}

// List returns every stored plan ordered by ID
func (r *PostgresTrainingPlanRepository) List(ctx context.Context) ([]*domain.TrainingPlan, error) {
	rows, err := r.db.QueryContext(ctx, selectPlanColumns+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	defer rows.Close()

	plans := make([]*domain.TrainingPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
		}
		plans = append(plans, plan)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return plans, nil
}

// GetByID retrieves a plan by its ID
func (r *PostgresTrainingPlanRepository) GetByID(ctx context.Context, id int64) (*domain.TrainingPlan, error) {
	plan, err := scanPlan(r.db.QueryRowContext(ctx, selectPlanColumns+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return plan, nil
}

// Create inserts a new plan. A zero ID is assigned from the table sequence;
// an explicit ID is inserted as-is and the sequence is moved past it.
func (r *PostgresTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan == nil || plan.ID < 0 {
		return ErrInvalidInput
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	return r.WithTransaction(ctx, func(tx *sql.Tx) error {
		if plan.ID == 0 {
			err := tx.QueryRowContext(ctx, `
				INSERT INTO training_plans (name, description, exercises, training_days, created_by, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				plan.Name,
				plan.Description,
				plan.Exercises,
				plan.TrainingDays,
				plan.CreatedBy,
				plan.CreatedAt).Scan(&plan.ID)
			return mapWriteError(err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO training_plans (id, name, description, exercises, training_days, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			plan.ID,
			plan.Name,
			plan.Description,
			plan.Exercises,
			plan.TrainingDays,
			plan.CreatedBy,
			plan.CreatedAt)
		if err != nil {
			return mapWriteError(err)
		}

		_, err = tx.ExecContext(ctx, `
			SELECT setval(pg_get_serial_sequence('training_plans', 'id'), GREATEST(MAX(id), 1))
			FROM training_plans`)
		return mapWriteError(err)
	})
}

// Update replaces the mutable fields of an existing plan
func (r *PostgresTrainingPlanRepository) Update(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan == nil {
		return ErrInvalidInput
	}

	err := r.db.QueryRowContext(ctx, `
		UPDATE training_plans
		SET name = $1,
			description = $2,
			exercises = $3,
			training_days = $4,
			created_by = $5
		WHERE id = $6
		RETURNING created_at`,
		plan.Name,
		plan.Description,
		plan.Exercises,
		plan.TrainingDays,
		plan.CreatedBy,
		plan.ID).Scan(&plan.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return mapWriteError(err)
	}

	return nil
}

// Delete removes a plan by its ID
func (r *PostgresTrainingPlanRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM training_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of stored plans
func (r *PostgresTrainingPlanRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM training_plans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	return count, nil
}

// WithTransaction executes a function within a transaction
func (r *PostgresTrainingPlanRepository) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			if commitErr := tx.Commit(); commitErr != nil {
				err = fmt.Errorf("%w: %v", ErrDatabase, commitErr)
			}
		}
	}()

	err = fn(tx)
	return err
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	err := row.Scan(
		&plan.ID,
		&plan.Name,
		&plan.Description,
		&plan.Exercises,
		&plan.TrainingDays,
		&plan.CreatedBy,
		&plan.CreatedAt)
	if err != nil {
		return nil, err
	}
	plan.CreatedAt = plan.CreatedAt.UTC()
	return &plan, nil
}

// mapWriteError translates driver errors into repository errors
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	}
	return fmt.Errorf("%w: %v", ErrDatabase, err)
}
