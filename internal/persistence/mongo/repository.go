// Package mongo provides the MongoDB-backed storage backend, the primary
// document store for the exercise tracker.
package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/failllix/freecodecamp-project-exercisetracker/internal/domain"
)

// Repository provides MongoDB-backed persistence for users and exercises.
type Repository struct {
	users     *mongo.Collection
	exercises *mongo.Collection
}

// NewRepository constructs a Repository on the given database.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		users:     db.Collection("users"),
		exercises: db.Collection("exercises"),
	}
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
}

type exerciseDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Description string             `bson:"description"`
	Duration    int                `bson:"duration"`
	Date        time.Time          `bson:"date"`
	User        primitive.ObjectID `bson:"user"`
}

// CreateUser inserts a user document; MongoDB assigns the id.
func (r *Repository) CreateUser(ctx context.Context, username string) (domain.User, error) {
	res, err := r.users.InsertOne(ctx, userDoc{Username: username})
	if err != nil {
		return domain.User{}, err
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.User{}, errors.New("unexpected inserted id type")
	}
	return domain.User{ID: id.Hex(), Username: username}, nil
}

// ListUsers returns all users in insertion order.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []userDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		out = append(out, domain.User{ID: doc.ID.Hex(), Username: doc.Username})
	}
	return out, nil
}

// GetUser returns the user by id, or nil when absent. Ids that are not valid
// object ids cannot match any document and count as absent.
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc userDoc
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.User{ID: doc.ID.Hex(), Username: doc.Username}, nil
}

// CreateExercise inserts an exercise document referencing its owning user.
func (r *Repository) CreateExercise(ctx context.Context, exercise domain.Exercise) (domain.Exercise, error) {
	owner, err := primitive.ObjectIDFromHex(exercise.UserID)
	if err != nil {
		return domain.Exercise{}, err
	}

	res, err := r.exercises.InsertOne(ctx, exerciseDoc{
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date,
		User:        owner,
	})
	if err != nil {
		return domain.Exercise{}, err
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.Exercise{}, errors.New("unexpected inserted id type")
	}
	exercise.ID = id.Hex()
	return exercise, nil
}

// ListExercises returns a user's exercises ordered by ascending date, ties
// broken by id, optionally range-filtered and capped at limit entries.
func (r *Repository) ListExercises(ctx context.Context, userID string, rng *domain.DateRange, limit int) ([]domain.Exercise, error) {
	filter, err := exerciseFilter(userID, rng)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.exercises.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []exerciseDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.Exercise, 0, len(docs))
	for _, doc := range docs {
		out = append(out, domain.Exercise{
			ID:          doc.ID.Hex(),
			UserID:      doc.User.Hex(),
			Description: doc.Description,
			Duration:    doc.Duration,
			Date:        doc.Date,
		})
	}
	return out, nil
}

// CountExercises returns the size of the filtered set.
func (r *Repository) CountExercises(ctx context.Context, userID string, rng *domain.DateRange) (int, error) {
	filter, err := exerciseFilter(userID, rng)
	if err != nil {
		return 0, err
	}

	count, err := r.exercises.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func exerciseFilter(userID string, rng *domain.DateRange) (bson.M, error) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"user": owner}
	if rng != nil {
		filter["date"] = bson.M{"$gte": rng.From, "$lt": rng.UpperBound()}
	}
	return filter, nil
}
