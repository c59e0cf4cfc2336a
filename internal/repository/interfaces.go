package repository

import (
	"context"

	"github.com/google/uuid"

	"myflix/internal/model"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	// GetByIDs returns the movies that still exist, in no particular order.
	// Unknown ids are skipped, not reported as errors.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Movie, error)
	GetByTitle(ctx context.Context, title string) (*model.Movie, error)
	List(ctx context.Context) ([]model.Movie, error)
	FindGenre(ctx context.Context, name string) (*model.Genre, error)
	FindDirector(ctx context.Context, name string) (*model.Director, error)
	Update(ctx context.Context, movie *model.Movie) error
	// Delete removes the movie only; users that list it as a favorite keep the id.
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Update writes username, password hash, email and birthday. Favorites have their own methods.
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AddFavorite appends movieID unless present and returns the resulting list.
	AddFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error)
	// RemoveFavorite drops movieID and returns the resulting list.
	RemoveFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error)
}
