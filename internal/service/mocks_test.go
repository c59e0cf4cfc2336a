package service

import (
	"context"

	"github.com/google/uuid"

	"myflix/internal/model"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Services depend on the repository INTERFACES, so tests swap in mocks whose
// behavior each test sets through the func fields. A nil func falls back to a
// harmless default.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	updateFn           func(ctx context.Context, user *model.User) error
	deleteFn           func(ctx context.Context, id uuid.UUID) error
	addFavoriteFn      func(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error)
	removeFavoriteFn   func(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error)

	// Track calls for assertions
	createCalls []*model.User
	updateCalls []*model.User
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	m.updateCalls = append(m.updateCalls, user)
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepository) AddFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	if m.addFavoriteFn != nil {
		return m.addFavoriteFn(ctx, userID, movieID)
	}
	return []uuid.UUID{movieID}, nil
}

func (m *mockUserRepository) RemoveFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	if m.removeFavoriteFn != nil {
		return m.removeFavoriteFn(ctx, userID, movieID)
	}
	return []uuid.UUID{}, nil
}

type mockMovieRepository struct {
	createFn       func(ctx context.Context, m *model.Movie) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	getByIDsFn     func(ctx context.Context, ids []uuid.UUID) ([]model.Movie, error)
	getByTitleFn   func(ctx context.Context, title string) (*model.Movie, error)
	listFn         func(ctx context.Context) ([]model.Movie, error)
	findGenreFn    func(ctx context.Context, name string) (*model.Genre, error)
	findDirectorFn func(ctx context.Context, name string) (*model.Director, error)
	updateFn       func(ctx context.Context, m *model.Movie) error
	deleteFn       func(ctx context.Context, id uuid.UUID) error

	getByIDCalls int
}

func (r *mockMovieRepository) Create(ctx context.Context, m *model.Movie) error {
	if r.createFn != nil {
		return r.createFn(ctx, m)
	}
	return nil
}

func (r *mockMovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	r.getByIDCalls++
	if r.getByIDFn != nil {
		return r.getByIDFn(ctx, id)
	}
	return nil, model.ErrMovieNotFound
}

func (r *mockMovieRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Movie, error) {
	if r.getByIDsFn != nil {
		return r.getByIDsFn(ctx, ids)
	}
	return []model.Movie{}, nil
}

func (r *mockMovieRepository) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	if r.getByTitleFn != nil {
		return r.getByTitleFn(ctx, title)
	}
	return nil, model.ErrMovieNotFound
}

func (r *mockMovieRepository) List(ctx context.Context) ([]model.Movie, error) {
	if r.listFn != nil {
		return r.listFn(ctx)
	}
	return []model.Movie{}, nil
}

func (r *mockMovieRepository) FindGenre(ctx context.Context, name string) (*model.Genre, error) {
	if r.findGenreFn != nil {
		return r.findGenreFn(ctx, name)
	}
	return nil, model.ErrGenreNotFound
}

func (r *mockMovieRepository) FindDirector(ctx context.Context, name string) (*model.Director, error) {
	if r.findDirectorFn != nil {
		return r.findDirectorFn(ctx, name)
	}
	return nil, model.ErrDirectorNotFound
}

func (r *mockMovieRepository) Update(ctx context.Context, m *model.Movie) error {
	if r.updateFn != nil {
		return r.updateFn(ctx, m)
	}
	return nil
}

func (r *mockMovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteFn != nil {
		return r.deleteFn(ctx, id)
	}
	return nil
}

// mockMovieCache is an in-memory MovieCache with an optional forced error.
type mockMovieCache struct {
	entries     map[uuid.UUID]*model.Movie
	err         error
	invalidated []uuid.UUID
}

func newMockMovieCache() *mockMovieCache {
	return &mockMovieCache{entries: map[uuid.UUID]*model.Movie{}}
}

func (c *mockMovieCache) Get(_ context.Context, id uuid.UUID) (*model.Movie, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	m, ok := c.entries[id]
	return m, ok, nil
}

func (c *mockMovieCache) Set(_ context.Context, m *model.Movie) error {
	if c.err != nil {
		return c.err
	}
	c.entries[m.ID] = m
	return nil
}

func (c *mockMovieCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.invalidated = append(c.invalidated, id)
	if c.err != nil {
		return c.err
	}
	delete(c.entries, id)
	return nil
}
