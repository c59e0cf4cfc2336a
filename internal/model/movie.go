package model

import (
	"errors"
	"slices"

	"github.com/google/uuid"
)

// Genre is owned by its Movie and has no identity of its own.
type Genre struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

// Director is owned by its Movie and has no identity of its own.
type Director struct {
	Name string `json:"Name"`
	Bio  string `json:"Bio"`
}

// Movie represents a catalog entry
type Movie struct {
	ID          uuid.UUID `json:"_id"`
	Title       string    `json:"Title"`
	Description string    `json:"Description"`
	Genre       Genre     `json:"Genre"`
	Director    Director  `json:"Director"`
	Actors      []string  `json:"Actors"`
	ImagePath   string    `json:"ImagePath,omitempty"`
	Featured    bool      `json:"Featured"`
}

// MovieInput carries the caller-supplied fields of a new Movie
type MovieInput struct {
	Title       string   `json:"Title" validate:"required"`
	Description string   `json:"Description" validate:"required"`
	Genre       Genre    `json:"Genre"`
	Director    Director `json:"Director"`
	Actors      []string `json:"Actors"`
	ImagePath   string   `json:"ImagePath"`
	Featured    bool     `json:"Featured"`
}

// NewMovie validates in and returns a Movie with a freshly generated ID.
// A missing Title or Description yields a *ValidationError naming them.
func NewMovie(in MovieInput) (*Movie, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	actors := slices.Clone(in.Actors)
	if actors == nil {
		actors = []string{}
	}

	return &Movie{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Genre:       in.Genre,
		Director:    in.Director,
		Actors:      actors,
		ImagePath:   in.ImagePath,
		Featured:    in.Featured,
	}, nil
}

var (
	// ErrMovieNotFound is returned when a movie cannot be found
	ErrMovieNotFound = errors.New("movie not found")

	// ErrGenreNotFound is returned when no movie carries the requested genre
	ErrGenreNotFound = errors.New("genre not found")

	// ErrDirectorNotFound is returned when no movie carries the requested director
	ErrDirectorNotFound = errors.New("director not found")
)
