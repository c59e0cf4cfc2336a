package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"myflix/internal/logging"
	"myflix/internal/model"
	"myflix/internal/service"
)

// movieEntry is one element of the seed file. PosterFile, when set, names a
// local image uploaded as the movie's poster.
type movieEntry struct {
	model.MovieInput
	PosterFile string `json:"PosterFile"`
}

type seeder struct {
	movies  *service.MovieService
	users   *service.UserService
	posters *service.PosterService
	logger  logging.Logger
}

func loadMovies(r io.Reader) ([]movieEntry, error) {
	var entries []movieEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode movies file: %w", err)
	}
	return entries, nil
}

// importMovies creates every entry whose title is not already present and
// returns how many were created.
func (s *seeder) importMovies(ctx context.Context, entries []movieEntry) (int, error) {
	created := 0
	for i, e := range entries {
		if _, err := s.movies.GetByTitle(ctx, e.Title); err == nil {
			s.logger.Debug(ctx, "movie exists, skipping", "title", e.Title)
			continue
		} else if !errors.Is(err, model.ErrMovieNotFound) {
			return created, fmt.Errorf("lookup %q: %w", e.Title, err)
		}

		m, err := s.movies.Create(ctx, e.MovieInput)
		if err != nil {
			return created, fmt.Errorf("movie #%d: %w", i, err)
		}
		created++

		if e.PosterFile == "" {
			continue
		}
		if s.posters == nil {
			s.logger.Warn(ctx, "poster storage not configured, skipping poster", "title", m.Title)
			continue
		}
		if err := s.uploadPoster(ctx, m, e.PosterFile); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (s *seeder) uploadPoster(ctx context.Context, m *model.Movie, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open poster: %w", err)
	}
	defer f.Close()

	res, err := s.posters.UploadPoster(ctx, m.ID, f)
	if err != nil {
		return fmt.Errorf("upload poster for %q: %w", m.Title, err)
	}
	_, err = s.movies.SetImagePath(ctx, m.ID, res.URL)
	return err
}

// readPassword prompts on a terminal and falls back to SEED_PASSWORD.
func readPassword(in *os.File, prompt io.Writer) (string, error) {
	if term.IsTerminal(int(in.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(in.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	password := strings.TrimRight(os.Getenv("SEED_PASSWORD"), "\r\n")
	if password == "" {
		return "", errors.New("stdin is not a terminal and SEED_PASSWORD is empty")
	}
	return password, nil
}
