// Package memory provides an in-memory storage backend for local development
// and unit tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/failllix/freecodecamp-project-exercisetracker/internal/domain"
)

// Repository stores users and exercises in memory.
type Repository struct {
	mu        sync.RWMutex
	users     map[string]domain.User
	userOrder []string
	exercises map[string][]domain.Exercise
}

// NewRepository constructs an empty Repository.
func NewRepository() *Repository {
	return &Repository{
		users:     make(map[string]domain.User),
		exercises: make(map[string][]domain.Exercise),
	}
}

// CreateUser implements domain.UserRepository.
func (r *Repository) CreateUser(ctx context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := domain.User{ID: uuid.NewString(), Username: username}
	r.users[user.ID] = user
	r.userOrder = append(r.userOrder, user.ID)
	return user, nil
}

// ListUsers returns all users in creation order.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.userOrder))
	for _, id := range r.userOrder {
		out = append(out, r.users[id])
	}
	return out, nil
}

// GetUser returns the user by id, or nil when absent.
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// CreateExercise implements domain.ExerciseRepository.
func (r *Repository) CreateExercise(ctx context.Context, exercise domain.Exercise) (domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exercise.ID = uuid.NewString()
	r.exercises[exercise.UserID] = append(r.exercises[exercise.UserID], exercise)
	return exercise, nil
}

// ListExercises returns a user's exercises ordered by ascending date, ties
// broken by id, optionally range-filtered and capped at limit entries.
func (r *Repository) ListExercises(ctx context.Context, userID string, rng *domain.DateRange, limit int) ([]domain.Exercise, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := r.filtered(userID, rng)
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Date.Equal(filtered[j].Date) {
			return filtered[i].ID < filtered[j].ID
		}
		return filtered[i].Date.Before(filtered[j].Date)
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// CountExercises returns the size of the filtered set.
func (r *Repository) CountExercises(ctx context.Context, userID string, rng *domain.DateRange) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filtered(userID, rng)), nil
}

func (r *Repository) filtered(userID string, rng *domain.DateRange) []domain.Exercise {
	out := make([]domain.Exercise, 0, len(r.exercises[userID]))
	for _, exercise := range r.exercises[userID] {
		if rng != nil && !rng.Contains(exercise.Date) {
			continue
		}
		out = append(out, exercise)
	}
	return out
}
