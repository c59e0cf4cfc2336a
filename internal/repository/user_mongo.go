package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"myflix/internal/model"
)

const usersCollection = "users"

// userDocument stores favorites as plain id strings with no reference checks.
type userDocument struct {
	ID             string     `bson:"_id"`
	Username       string     `bson:"Username"`
	Password       string     `bson:"Password"`
	Email          string     `bson:"Email"`
	Birthday       *time.Time `bson:"Birthday,omitempty"`
	FavoriteMovies []string   `bson:"FavoriteMovies"`
}

func newUserDocument(u *model.User) userDocument {
	return userDocument{
		ID:             u.ID.String(),
		Username:       u.Username,
		Password:       u.Password,
		Email:          u.Email,
		Birthday:       u.Birthday,
		FavoriteMovies: uuidStrings(u.FavoriteMovies),
	}
}

func (d userDocument) toModel() (*model.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", d.ID, err)
	}
	favorites, err := parseUUIDs(d.FavoriteMovies)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", d.ID, err)
	}
	return &model.User{
		ID:             id,
		Username:       d.Username,
		Password:       d.Password,
		Email:          d.Email,
		Birthday:       d.Birthday,
		FavoriteMovies: favorites,
	}, nil
}

type mongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a user repository over the "users" collection of db
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{col: db.Collection(usersCollection)}
}

func (r *mongoUserRepository) Create(ctx context.Context, u *model.User) error {
	if _, err := r.col.InsertOne(ctx, newUserDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, "id")
}

func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"Username": username}, "username")
}

func (r *mongoUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := r.col.FindOne(ctx, bson.M{"Username": username}, opts).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return true, nil
}

func (r *mongoUserRepository) Update(ctx context.Context, u *model.User) error {
	set := bson.M{
		"Username": u.Username,
		"Password": u.Password,
		"Email":    u.Email,
	}
	update := bson.M{"$set": set}
	if u.Birthday != nil {
		set["Birthday"] = u.Birthday
	} else {
		update["$unset"] = bson.M{"Birthday": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": u.ID.String()}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepository) AddFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	return r.updateFavorites(ctx, userID, bson.M{"$addToSet": bson.M{"FavoriteMovies": movieID.String()}})
}

func (r *mongoUserRepository) RemoveFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	return r.updateFavorites(ctx, userID, bson.M{"$pull": bson.M{"FavoriteMovies": movieID.String()}})
}

func (r *mongoUserRepository) updateFavorites(ctx context.Context, userID uuid.UUID, update bson.M) ([]uuid.UUID, error) {
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"FavoriteMovies": 1})

	var doc userDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": userID.String()}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update favorites: %w", err)
	}

	return parseUUIDs(doc.FavoriteMovies)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, by string) (*model.User, error) {
	var doc userDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", by, err)
	}
	return doc.toModel()
}
