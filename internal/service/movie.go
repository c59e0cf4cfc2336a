package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"myflix/internal/cache"
	"myflix/internal/logging"
	"myflix/internal/model"
	"myflix/internal/repository"
)

// MovieService handles catalogue operations. Reads by id go through the
// cache when one is configured; cache failures are logged and never fail a call.
type MovieService struct {
	repo   repository.MovieRepository
	cache  cache.MovieCache
	logger logging.Logger
}

// NewMovieService creates a MovieService. movieCache may be nil.
func NewMovieService(repo repository.MovieRepository, movieCache cache.MovieCache, logger logging.Logger) *MovieService {
	return &MovieService{
		repo:   repo,
		cache:  movieCache,
		logger: logger,
	}
}

// Create validates the input and stores a new movie.
func (s *MovieService) Create(ctx context.Context, in model.MovieInput) (*model.Movie, error) {
	m, err := model.NewMovie(in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.logger.Info(ctx, "movie created", "movie_id", m.ID, "title", m.Title)
	return m, nil
}

// Get returns a movie by id, reading through the cache.
func (s *MovieService) Get(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	if s.cache != nil {
		m, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn(ctx, "movie cache read failed", "movie_id", id, "error", err)
		} else if ok {
			return m, nil
		}
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, m); err != nil {
			s.logger.Warn(ctx, "movie cache write failed", "movie_id", id, "error", err)
		}
	}
	return m, nil
}

func (s *MovieService) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	return s.repo.GetByTitle(ctx, title)
}

func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) {
	return s.repo.List(ctx)
}

// Genre returns the genre record of the first movie carrying that genre name.
func (s *MovieService) Genre(ctx context.Context, name string) (*model.Genre, error) {
	return s.repo.FindGenre(ctx, name)
}

// Director returns the director record of the first movie carrying that director name.
func (s *MovieService) Director(ctx context.Context, name string) (*model.Director, error) {
	return s.repo.FindDirector(ctx, name)
}

// SetImagePath records where the movie's poster lives.
func (s *MovieService) SetImagePath(ctx context.Context, id uuid.UUID, path string) (*model.Movie, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.ImagePath = path
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	s.invalidate(ctx, id)
	return m, nil
}

// Delete removes the movie. Users that list it as a favorite keep the
// identifier; Favorites skips it on resolution.
func (s *MovieService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	s.logger.Info(ctx, "movie deleted", "movie_id", id)
	return nil
}

func (s *MovieService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn(ctx, "movie cache invalidation failed", "movie_id", id, "error", err)
	}
}
