//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/milosz-sonski/training-plans-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
)

func newPostgresRepository(t *testing.T) *PostgresTrainingPlanRepository {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("training_plans"),
		postgrescontainer.WithUsername("plans"),
		postgrescontainer.WithPassword("plans"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, CreateTablesIfNotExist(ctx, db, zap.NewNop().Sugar()))

	return NewPostgresTrainingPlanRepository(db)
}

func TestPostgresRepository_RoundTrip(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	created := time.Now().UTC().Truncate(time.Microsecond)
	plan := &domain.TrainingPlan{
		Name:         "Plan A",
		Description:  "Test A",
		Exercises:    "Push-ups, Squats",
		TrainingDays: "Monday, Wednesday, Friday",
		CreatedBy:    "Admin",
		CreatedAt:    created,
	}
	require.NoError(t, repo.Create(ctx, plan))
	assert.NotZero(t, plan.ID)

	stored, err := repo.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, *plan, *stored)

	plans, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 1)
}

func TestPostgresRepository_ExplicitIDs(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.TrainingPlan{
		ID: 1001, Name: "Plan 1", Description: "Opis 1", Exercises: "Exercise 1", TrainingDays: "Day 1", CreatedBy: "Milosz",
	}))

	err := repo.Create(ctx, &domain.TrainingPlan{
		ID: 1001, Name: "Plan 1", Description: "Opis 1", Exercises: "Exercise 1", TrainingDays: "Day 1", CreatedBy: "Milosz",
	})
	assert.True(t, errors.Is(err, ErrAlreadyExists))

	next := &domain.TrainingPlan{Name: "Plan 2", Description: "Opis 2", Exercises: "Exercise 2", TrainingDays: "Day 2", CreatedBy: "Milosz"}
	require.NoError(t, repo.Create(ctx, next))
	assert.Equal(t, int64(1002), next.ID)
}

func TestPostgresRepository_LargeIDs(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 3000000000)
	assert.True(t, errors.Is(err, ErrNotFound))

	plan := &domain.TrainingPlan{
		ID: 3000000000, Name: "Plan 1", Description: "Opis 1", Exercises: "Exercise 1", TrainingDays: "Day 1", CreatedBy: "Milosz",
	}
	require.NoError(t, repo.Create(ctx, plan))

	stored, err := repo.GetByID(ctx, 3000000000)
	require.NoError(t, err)
	assert.Equal(t, "Plan 1", stored.Name)

	next := &domain.TrainingPlan{Name: "Plan 2", Description: "Opis 2", Exercises: "Exercise 2", TrainingDays: "Day 2", CreatedBy: "Milosz"}
	require.NoError(t, repo.Create(ctx, next))
	assert.Equal(t, int64(3000000001), next.ID)
}

func TestPostgresRepository_UpdateAndDelete(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	plan := &domain.TrainingPlan{Name: "Plan A", Description: "Test A", Exercises: "Push-ups", TrainingDays: "Monday", CreatedBy: "Admin"}
	require.NoError(t, repo.Create(ctx, plan))
	createdAt := plan.CreatedAt

	plan.Name = "Updated Plan"
	plan.CreatedAt = time.Time{}
	require.NoError(t, repo.Update(ctx, plan))
	assert.WithinDuration(t, createdAt, plan.CreatedAt, time.Millisecond)

	err := repo.Update(ctx, &domain.TrainingPlan{ID: 999})
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, repo.Delete(ctx, plan.ID))
	_, err = repo.GetByID(ctx, plan.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
