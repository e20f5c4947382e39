// Package postgres provides a Postgres-backed storage backend for deployments
// standardised on SQL infrastructure. Schema bootstrap lives in
// db/postgres/migrations.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/failllix/freecodecamp-project-exercisetracker/internal/domain"
)

// Repository provides Postgres-backed persistence for users and exercises.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser persists a user with a freshly assigned id.
func (r *Repository) CreateUser(ctx context.Context, username string) (domain.User, error) {
	user := domain.User{ID: uuid.NewString(), Username: username}

	const stmt = `INSERT INTO users (user_id, username) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, stmt, user.ID, user.Username); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// ListUsers returns all users in creation order.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT user_id, username FROM users ORDER BY created_at, user_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// GetUser returns the user by id, or nil when absent.
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT user_id, username FROM users WHERE user_id=$1`

	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// CreateExercise persists an exercise referencing its owning user.
func (r *Repository) CreateExercise(ctx context.Context, exercise domain.Exercise) (domain.Exercise, error) {
	exercise.ID = uuid.NewString()

	const stmt = `INSERT INTO exercises (exercise_id, user_id, description, duration_min, exercise_date)
        VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, stmt,
		exercise.ID,
		exercise.UserID,
		exercise.Description,
		exercise.Duration,
		exercise.Date,
	)
	if err != nil {
		return domain.Exercise{}, err
	}
	return exercise, nil
}

// ListExercises returns a user's exercises ordered by ascending date, ties
// broken by id, optionally range-filtered and capped at limit entries.
func (r *Repository) ListExercises(ctx context.Context, userID string, rng *domain.DateRange, limit int) ([]domain.Exercise, error) {
	query := `SELECT exercise_id, user_id, description, duration_min, exercise_date
        FROM exercises WHERE user_id=$1`
	args := []interface{}{userID}

	if rng != nil {
		query += ` AND exercise_date >= $2 AND exercise_date < $3`
		args = append(args, rng.From, rng.UpperBound())
	}

	query += ` ORDER BY exercise_date, exercise_id`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Exercise, 0, limit)
	for rows.Next() {
		var exercise domain.Exercise
		if err := rows.Scan(&exercise.ID, &exercise.UserID, &exercise.Description, &exercise.Duration, &exercise.Date); err != nil {
			return nil, err
		}
		out = append(out, exercise)
	}
	return out, rows.Err()
}

// CountExercises returns the size of the filtered set.
func (r *Repository) CountExercises(ctx context.Context, userID string, rng *domain.DateRange) (int, error) {
	query := `SELECT COUNT(*) FROM exercises WHERE user_id=$1`
	args := []interface{}{userID}

	if rng != nil {
		query += ` AND exercise_date >= $2 AND exercise_date < $3`
		args = append(args, rng.From, rng.UpperBound())
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
