package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myflix/internal/model"
)

var movieCols = []string{
	"id", "title", "description", "genre_name", "genre_description", "director_name", "director_bio",
	"actors", "image_path", "featured",
}

func newSQLMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func sampleMovie() *model.Movie {
	return &model.Movie{
		ID:          uuid.New(),
		Title:       "Alien",
		Description: "In space no one can hear you scream.",
		Genre:       model.Genre{Name: "Horror", Description: "Scary."},
		Director:    model.Director{Name: "Ridley Scott", Bio: "Director."},
		Actors:      []string{"Sigourney Weaver", "Ian Holm"},
		ImagePath:   "https://cdn.example.com/alien.jpg",
		Featured:    true,
	}
}

func movieRowValues(m *model.Movie) []driver.Value {
	actors, _ := pq.StringArray(m.Actors).Value()
	return []driver.Value{
		m.ID.String(), m.Title, m.Description, m.Genre.Name, m.Genre.Description,
		m.Director.Name, m.Director.Bio, actors, m.ImagePath, m.Featured,
	}
}

func TestMovieRepository_Create(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)
	m := sampleMovie()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+movies\s*\(id,\s*title,.*featured\)\s*VALUES\s*\(\$1,.*\$10\)\s*$`).
		WithArgs(m.ID, m.Title, m.Description, m.Genre.Name, m.Genre.Description,
			m.Director.Name, m.Director.Bio, pq.Array(m.Actors), m.ImagePath, m.Featured).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), m))
}

func TestMovieRepository_Create_DBError(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectExec(`INSERT\s+INTO\s+movies`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), sampleMovie())
	assert.ErrorContains(t, err, "failed to insert movie: db down")
}

func TestMovieRepository_GetByID(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)
	m := sampleMovie()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*title,.*FROM\s+movies\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(m.ID).
		WillReturnRows(sqlmock.NewRows(movieCols).AddRow(movieRowValues(m)...))

	got, err := repo.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestMovieRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(`FROM\s+movies\s+WHERE\s+id`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrMovieNotFound)
}

func TestMovieRepository_GetByIDs_SkipsMissing(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)
	m := sampleMovie()
	gone := uuid.New()

	mock.ExpectQuery(`FROM\s+movies\s+WHERE\s+id\s*=\s*ANY\(\$1\)`).
		WithArgs(pq.Array([]string{m.ID.String(), gone.String()})).
		WillReturnRows(sqlmock.NewRows(movieCols).AddRow(movieRowValues(m)...))

	got, err := repo.GetByIDs(context.Background(), []uuid.UUID{m.ID, gone})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, m.ID, got[0].ID)
}

func TestMovieRepository_GetByIDs_EmptyDoesNotQuery(t *testing.T) {
	db, _ := newSQLMock(t)
	repo := NewMovieRepository(db)

	got, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMovieRepository_List(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)
	a, b := sampleMovie(), sampleMovie()
	b.Title = "Blade Runner"

	mock.ExpectQuery(`FROM\s+movies\s+ORDER\s+BY\s+title`).
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(movieRowValues(a)...).
			AddRow(movieRowValues(b)...))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Alien", got[0].Title)
	assert.Equal(t, "Blade Runner", got[1].Title)
}

func TestMovieRepository_GetByTitle_NullActors(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`FROM\s+movies\s+WHERE\s+title\s*=\s*\$1`).
		WithArgs("Heat").
		WillReturnRows(sqlmock.NewRows(movieCols).
			AddRow(id.String(), "Heat", "Cops.", "", "", "", "", nil, "", false))

	got, err := repo.GetByTitle(context.Background(), "Heat")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.NotNil(t, got.Actors)
	assert.Empty(t, got.Actors)
}

func TestMovieRepository_FindGenre(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(`SELECT\s+genre_name,\s*genre_description\s+FROM\s+movies\s+WHERE\s+genre_name\s*=\s*\$1`).
		WithArgs("Horror").
		WillReturnRows(sqlmock.NewRows([]string{"genre_name", "genre_description"}).AddRow("Horror", "Scary."))

	g, err := repo.FindGenre(context.Background(), "Horror")
	require.NoError(t, err)
	assert.Equal(t, &model.Genre{Name: "Horror", Description: "Scary."}, g)
}

func TestMovieRepository_FindDirector_NotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectQuery(`SELECT\s+director_name,\s*director_bio`).
		WithArgs("Nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindDirector(context.Background(), "Nobody")
	assert.ErrorIs(t, err, model.ErrDirectorNotFound)
}

func TestMovieRepository_Update(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)
	m := sampleMovie()

	mock.ExpectExec(`(?s)UPDATE\s+movies\s+SET\s+title\s*=\s*\$2.*WHERE\s+id\s*=\s*\$1`).
		WithArgs(m.ID, m.Title, m.Description, m.Genre.Name, m.Genre.Description,
			m.Director.Name, m.Director.Bio, pq.Array(m.Actors), m.ImagePath, m.Featured).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), m))
}

func TestMovieRepository_Update_NotFound(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)

	mock.ExpectExec(`UPDATE\s+movies`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), sampleMovie())
	assert.ErrorIs(t, err, model.ErrMovieNotFound)
}

func TestMovieRepository_Delete(t *testing.T) {
	db, mock := newSQLMock(t)
	repo := NewMovieRepository(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM movies WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM movies WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), model.ErrMovieNotFound)
}
