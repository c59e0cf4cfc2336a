package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"myflix/internal/model"
)

const userColumns = `id, username, password, email, birthday, favorite_movies`

type userRow struct {
	ID             uuid.UUID      `db:"id"`
	Username       string         `db:"username"`
	Password       string         `db:"password"`
	Email          string         `db:"email"`
	Birthday       *time.Time     `db:"birthday"`
	FavoriteMovies pq.StringArray `db:"favorite_movies"`
}

func (r userRow) toModel() (*model.User, error) {
	favorites, err := parseUUIDs(r.FavoriteMovies)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", r.ID, err)
	}
	return &model.User{
		ID:             r.ID,
		Username:       r.Username,
		Password:       r.Password,
		Email:          r.Email,
		Birthday:       r.Birthday,
		FavoriteMovies: favorites,
	}, nil
}

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, username, password, email, birthday, favorite_movies)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Username,
		u.Password,
		u.Email,
		u.Birthday,
		pq.Array(uuidStrings(u.FavoriteMovies)),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var row userRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return row.toModel()
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 LIMIT 1`

	var row userRow
	err := r.db.GetContext(ctx, &row, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return row.toModel()
}

// ExistsByUsername checks if a username is already taken
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}

// Update writes the account fields of an existing user
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `UPDATE users SET username = $2, password = $3, email = $4, birthday = $5 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.Password, u.Email, u.Birthday)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrUsernameExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	return expectAffected(res, model.ErrUserNotFound)
}

// Delete removes a user by ID
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return expectAffected(res, model.ErrUserNotFound)
}

// AddFavorite appends movieID to the user's favorites unless it is already there
func (r *userRepository) AddFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		UPDATE users
		SET favorite_movies = CASE
			WHEN $2::uuid = ANY(favorite_movies) THEN favorite_movies
			ELSE array_append(favorite_movies, $2::uuid)
		END
		WHERE id = $1
		RETURNING favorite_movies
	`
	return r.updateFavorites(ctx, query, userID, movieID)
}

// RemoveFavorite drops movieID from the user's favorites
func (r *userRepository) RemoveFavorite(ctx context.Context, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		UPDATE users
		SET favorite_movies = array_remove(favorite_movies, $2::uuid)
		WHERE id = $1
		RETURNING favorite_movies
	`
	return r.updateFavorites(ctx, query, userID, movieID)
}

func (r *userRepository) updateFavorites(ctx context.Context, query string, userID, movieID uuid.UUID) ([]uuid.UUID, error) {
	var favorites pq.StringArray
	err := r.db.QueryRowxContext(ctx, query, userID, movieID).Scan(&favorites)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update favorites: %w", err)
	}

	return parseUUIDs(favorites)
}

// isUniqueViolation reports a Postgres unique constraint violation (23505).
// On users the only unique key besides the random id is username.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid movie id %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
