//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/failllix/freecodecamp-project-exercisetracker/internal/domain"
)

func startRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("exercisetracker"),
		postgrescontainer.WithUsername("tracker"),
		postgrescontainer.WithPassword("tracker"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))
	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return NewRepository(pool)
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := startRepository(t, ctx)

	alice, err := repo.CreateUser(ctx, "alice")
	require.NoError(t, err)

	loaded, err := repo.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, alice, *loaded)

	missing, err := repo.GetUser(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	days := []time.Time{
		time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.August, 5, 15, 0, 0, 0, time.UTC),
		time.Date(2024, time.August, 9, 0, 0, 0, 0, time.UTC),
	}
	for _, date := range days {
		_, err := repo.CreateExercise(ctx, domain.Exercise{
			UserID:      alice.ID,
			Description: "run",
			Duration:    30,
			Date:        date,
		})
		require.NoError(t, err)
	}

	entries, err := repo.ListExercises(ctx, alice.ID, nil, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, entry := range entries {
		require.True(t, entry.Date.Equal(days[i]), "entries come back in date order")
	}

	rng := &domain.DateRange{
		From: time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, time.August, 5, 0, 0, 0, 0, time.UTC),
	}
	filtered, err := repo.ListExercises(ctx, alice.ID, rng, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 2)

	count, err := repo.CountExercises(ctx, alice.ID, rng)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	limited, err := repo.ListExercises(ctx, alice.ID, nil, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	t.Helper()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	path := resolvePath(t, "../../../db/postgres/migrations/0001_init.up.sql")
	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(contents))
	require.NoError(t, err)
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
