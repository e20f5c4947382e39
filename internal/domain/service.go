// Package domain defines the business logic for the exercise tracker.
package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/failllix/freecodecamp-project-exercisetracker/internal/observability"
)

// ErrUserNotFound is returned when a referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// CountMode controls whether the log count reflects the filtered set before
// or after the entry limit is applied.
type CountMode string

const (
	// CountModeLimited caps the count at the requested limit, matching the
	// behaviour of the original tracker.
	CountModeLimited CountMode = "limited"
	// CountModeFiltered reports the full filtered set size regardless of any
	// limit on the returned entries.
	CountModeFiltered CountMode = "filtered"
)

// ParseCountMode validates a configured count mode, defaulting empty input to
// CountModeLimited.
func ParseCountMode(raw string) (CountMode, error) {
	switch CountMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		return CountModeLimited, nil
	case CountModeLimited:
		return CountModeLimited, nil
	case CountModeFiltered:
		return CountModeFiltered, nil
	}
	return "", fmt.Errorf("unknown count mode %q", raw)
}

// UserRepository captures persistence operations on the users collection.
type UserRepository interface {
	CreateUser(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
}

// ExerciseRepository captures persistence operations on the exercises
// collection. Implementations return entries ordered by ascending date, ties
// broken by ascending id.
type ExerciseRepository interface {
	CreateExercise(ctx context.Context, exercise Exercise) (Exercise, error)
	ListExercises(ctx context.Context, userID string, rng *DateRange, limit int) ([]Exercise, error)
	CountExercises(ctx context.Context, userID string, rng *DateRange) (int, error)
}

// Repository is the full persistence surface a storage backend provides.
type Repository interface {
	UserRepository
	ExerciseRepository
}

// Service orchestrates user and exercise workflows.
type Service struct {
	repo      Repository
	countMode CountMode
}

// NewService constructs a Service. An empty count mode falls back to
// CountModeLimited.
func NewService(repo Repository, countMode CountMode) *Service {
	if countMode == "" {
		countMode = CountModeLimited
	}
	return &Service{repo: repo, countMode: countMode}
}

// CreateUser persists a new user with a freshly assigned id.
func (s *Service) CreateUser(ctx context.Context, username string) (User, error) {
	if strings.TrimSpace(username) == "" {
		return User{}, errors.New("username is required")
	}

	user, err := s.repo.CreateUser(ctx, username)
	if err != nil {
		return User{}, err
	}

	observability.RecordUserCreated()
	return user, nil
}

// ListUsers returns all users, id and username only.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// GetUser resolves a user id, wrapping ErrUserNotFound when it does not
// exist.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("could not find user with id '%s': %w", id, ErrUserNotFound)
	}
	return user, nil
}

// CreateExerciseInput captures the payload from the API layer. A zero Date
// means "no date supplied".
type CreateExerciseInput struct {
	UserID      string
	Description string
	Duration    int
	Date        time.Time
}

// CreateExercise records a new exercise for an existing user. An absent date
// defaults to the current time, evaluated once here at write time.
func (s *Service) CreateExercise(ctx context.Context, input CreateExerciseInput) (Exercise, error) {
	if strings.TrimSpace(input.Description) == "" {
		return Exercise{}, errors.New("description is required")
	}
	if input.Duration <= 0 {
		return Exercise{}, errors.New("duration must be > 0")
	}

	if _, err := s.GetUser(ctx, input.UserID); err != nil {
		return Exercise{}, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	exercise, err := s.repo.CreateExercise(ctx, Exercise{
		UserID:      input.UserID,
		Description: input.Description,
		Duration:    input.Duration,
		Date:        date,
	})
	if err != nil {
		return Exercise{}, err
	}

	observability.RecordExercisePersisted(exercise.Date)
	return exercise, nil
}

// GetLog retrieves a user's exercises, optionally restricted to a date range
// and capped at limit entries, together with the computed count. The count
// honours the configured CountMode.
func (s *Service) GetLog(ctx context.Context, userID string, rng *DateRange, limit int) (UserLog, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return UserLog{}, err
	}

	entries, err := s.repo.ListExercises(ctx, userID, rng, limit)
	if err != nil {
		return UserLog{}, err
	}

	count, err := s.repo.CountExercises(ctx, userID, rng)
	if err != nil {
		return UserLog{}, err
	}
	if s.countMode == CountModeLimited && limit > 0 && count > limit {
		count = limit
	}

	return UserLog{User: *user, Entries: entries, Count: count}, nil
}
