package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"myflix/internal/logging"
	"myflix/internal/model"
	"myflix/internal/repository"
)

// dummyHash is compared against when the username is unknown so that both
// failure paths of Authenticate do exactly one bcrypt comparison.
var dummyHash = mustHash("myflix-dummy-password")

func mustHash(password string) string {
	h, err := model.HashPassword(password)
	if err != nil {
		panic(err)
	}
	return h
}

// UserService handles business logic for user operations
type UserService struct {
	repo   repository.UserRepository
	movies repository.MovieRepository
	logger logging.Logger
}

func NewUserService(repo repository.UserRepository, movies repository.MovieRepository, logger logging.Logger) *UserService {
	return &UserService{
		repo:   repo,
		movies: movies,
		logger: logger,
	}
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, in model.UserInput) (*model.User, error) {
	user, err := model.NewUser(in)
	if err != nil {
		return nil, err
	}

	// Check if username already exists
	exists, err := s.repo.ExistsByUsername(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate checks username and password and returns the matching user.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			// Don't reveal whether username exists or not
			_, _ = model.VerifyPassword(password, dummyHash)
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := user.ValidatePassword(password)
	if err != nil {
		s.logger.Error(ctx, "stored credential unusable", "user_id", user.ID, "error", err)
		return nil, err
	}
	if !ok {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies the change set to the stored user. Renaming onto a taken
// username fails with ErrUsernameExists.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in model.UpdateUserInput) (*model.User, error) {
	if in.IsEmpty() {
		return nil, model.ErrNoChanges
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != user.Username && *in.Username != "" {
		exists, err := s.repo.ExistsByUsername(ctx, *in.Username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			return nil, model.ErrUsernameExists
		}
	}

	if err := in.Apply(user); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// AddFavorite adds an existing movie to the user's favorites. Adding a movie
// that is already listed is a no-op.
func (s *UserService) AddFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	return s.repo.AddFavorite(ctx, userID, movieID)
}

// RemoveFavorite drops movieID from the user's favorites. The movie does not
// need to exist any more.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.RemoveFavorite(ctx, userID, movieID)
}

// Favorites resolves the user's favorites in list order. Identifiers whose
// movie no longer exists are skipped.
func (s *UserService) Favorites(ctx context.Context, userID uuid.UUID) ([]model.Movie, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	found, err := s.movies.GetByIDs(ctx, user.FavoriteMovies)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve favorites: %w", err)
	}

	byID := make(map[uuid.UUID]model.Movie, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}

	out := make([]model.Movie, 0, len(user.FavoriteMovies))
	for _, id := range user.FavoriteMovies {
		m, ok := byID[id]
		if !ok {
			s.logger.Debug(ctx, "skipping dangling favorite", "user_id", userID, "movie_id", id)
			continue
		}
		out = append(out, m)
	}
	return out, nil
}
