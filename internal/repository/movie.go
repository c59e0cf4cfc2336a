package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"myflix/internal/model"
)

const movieColumns = `id, title, description, genre_name, genre_description, director_name, director_bio,
		       actors, image_path, featured`

// movieRow is the flat table shape of a Movie; genre and director live in their own columns.
type movieRow struct {
	ID               uuid.UUID      `db:"id"`
	Title            string         `db:"title"`
	Description      string         `db:"description"`
	GenreName        string         `db:"genre_name"`
	GenreDescription string         `db:"genre_description"`
	DirectorName     string         `db:"director_name"`
	DirectorBio      string         `db:"director_bio"`
	Actors           pq.StringArray `db:"actors"`
	ImagePath        string         `db:"image_path"`
	Featured         bool           `db:"featured"`
}

func (r movieRow) toModel() model.Movie {
	actors := []string(r.Actors)
	if actors == nil {
		actors = []string{}
	}
	return model.Movie{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Genre:       model.Genre{Name: r.GenreName, Description: r.GenreDescription},
		Director:    model.Director{Name: r.DirectorName, Bio: r.DirectorBio},
		Actors:      actors,
		ImagePath:   r.ImagePath,
		Featured:    r.Featured,
	}
}

// movieRepository implements MovieRepository using sqlx
type movieRepository struct {
	db *sqlx.DB
}

// NewMovieRepository creates a new Postgres-backed movie repository
func NewMovieRepository(db *sqlx.DB) MovieRepository {
	return &movieRepository{db: db}
}

// Create inserts a new movie
func (r *movieRepository) Create(ctx context.Context, m *model.Movie) error {
	query := `
		INSERT INTO movies (id, title, description, genre_name, genre_description, director_name, director_bio,
		                    actors, image_path, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.Title,
		m.Description,
		m.Genre.Name,
		m.Genre.Description,
		m.Director.Name,
		m.Director.Bio,
		pq.Array(m.Actors),
		m.ImagePath,
		m.Featured,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}

	return nil
}

// GetByID retrieves a movie by its ID
func (r *movieRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	var row movieRow
	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie by id: %w", err)
	}

	m := row.toModel()
	return &m, nil
}

// GetByIDs retrieves every listed movie that still exists
func (r *movieRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Movie, error) {
	if len(ids) == 0 {
		return []model.Movie{}, nil
	}

	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = ANY($1)`

	var rows []movieRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(uuidStrings(ids))); err != nil {
		return nil, fmt.Errorf("failed to get movies by ids: %w", err)
	}

	return toMovies(rows), nil
}

// GetByTitle retrieves the first movie with an exactly matching title
func (r *movieRepository) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE title = $1 ORDER BY id LIMIT 1`

	var row movieRow
	err := r.db.GetContext(ctx, &row, query, title)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie by title: %w", err)
	}

	m := row.toModel()
	return &m, nil
}

// List returns every movie ordered by title
func (r *movieRepository) List(ctx context.Context) ([]model.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY title, id`

	var rows []movieRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	return toMovies(rows), nil
}

// FindGenre returns the genre embedded in any movie carrying that genre name
func (r *movieRepository) FindGenre(ctx context.Context, name string) (*model.Genre, error) {
	query := `SELECT genre_name, genre_description FROM movies WHERE genre_name = $1 LIMIT 1`

	var g model.Genre
	err := r.db.QueryRowxContext(ctx, query, name).Scan(&g.Name, &g.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGenreNotFound
		}
		return nil, fmt.Errorf("failed to find genre: %w", err)
	}

	return &g, nil
}

// FindDirector returns the director embedded in any movie carrying that director name
func (r *movieRepository) FindDirector(ctx context.Context, name string) (*model.Director, error) {
	query := `SELECT director_name, director_bio FROM movies WHERE director_name = $1 LIMIT 1`

	var d model.Director
	err := r.db.QueryRowxContext(ctx, query, name).Scan(&d.Name, &d.Bio)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrDirectorNotFound
		}
		return nil, fmt.Errorf("failed to find director: %w", err)
	}

	return &d, nil
}

// Update overwrites every field of an existing movie except its ID
func (r *movieRepository) Update(ctx context.Context, m *model.Movie) error {
	query := `
		UPDATE movies
		SET title = $2, description = $3, genre_name = $4, genre_description = $5,
		    director_name = $6, director_bio = $7, actors = $8, image_path = $9, featured = $10
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.Title,
		m.Description,
		m.Genre.Name,
		m.Genre.Description,
		m.Director.Name,
		m.Director.Bio,
		pq.Array(m.Actors),
		m.ImagePath,
		m.Featured,
	)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	return expectAffected(res, model.ErrMovieNotFound)
}

// Delete removes a movie by ID
func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	return expectAffected(res, model.ErrMovieNotFound)
}

func toMovies(rows []movieRow) []model.Movie {
	movies := make([]model.Movie, len(rows))
	for i, row := range rows {
		movies[i] = row.toModel()
	}
	return movies
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// expectAffected maps a zero row count to notFound.
func expectAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
