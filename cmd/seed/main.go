// Command seed loads movies into the catalogue and optionally creates a user.
//
// Usage:
//
//	seed -movies movies.json [-user alice -email alice@example.com] [-schema]
//
// The user's password is read from the terminal, or from SEED_PASSWORD when
// stdin is not a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/mongo"

	"myflix/internal/cache"
	"myflix/internal/config"
	"myflix/internal/database"
	"myflix/internal/logging"
	"myflix/internal/model"
	"myflix/internal/repository"
	"myflix/internal/service"
)

type options struct {
	moviesPath string
	username   string
	email      string
	schema     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.moviesPath, "movies", "", "path to a JSON array of movies to import")
	flag.StringVar(&opts.username, "user", "", "username of an account to create")
	flag.StringVar(&opts.email, "email", "", "email of the account to create")
	flag.BoolVar(&opts.schema, "schema", false, "create Postgres tables if they do not exist")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, opts)
	stop()
	if err != nil {
		logging.New("info", os.Stderr).Error(context.Background(), "seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	// 2. Connect to the configured store
	movies, users, closeStore, err := openStore(ctx, cfg, opts.schema, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Optional collaborators
	var movieCache cache.MovieCache
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer client.Close()
		movieCache = cache.NewMovieCache(client, cfg.MovieCacheTTL)
	}

	var posters *service.PosterService
	if cfg.PostersEnabled() {
		posters, err = service.NewPosterService(ctx, cfg)
		if err != nil {
			return err
		}
	}

	s := &seeder{
		movies:  service.NewMovieService(movies, movieCache, logger),
		users:   service.NewUserService(users, movies, logger),
		posters: posters,
		logger:  logger,
	}

	// 4. Import
	if opts.moviesPath != "" {
		f, err := os.Open(opts.moviesPath)
		if err != nil {
			return fmt.Errorf("open movies file: %w", err)
		}
		defer f.Close()

		entries, err := loadMovies(f)
		if err != nil {
			return err
		}
		n, err := s.importMovies(ctx, entries)
		if err != nil {
			return err
		}
		logger.Info(ctx, "movies imported", "count", n, "total", len(entries))
	}

	if opts.username != "" {
		password, err := readPassword(os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
		u, err := s.users.Register(ctx, model.UserInput{
			Username: opts.username,
			Password: password,
			Email:    opts.email,
		})
		if errors.Is(err, model.ErrUsernameExists) {
			logger.Warn(ctx, "user already exists, skipping", "username", opts.username)
			return nil
		}
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		logger.Info(ctx, "user created", "user_id", u.ID)
	}

	return nil
}

func openStore(ctx context.Context, cfg *config.Config, ensureSchema bool, logger logging.Logger) (repository.MovieRepository, repository.UserRepository, func(), error) {
	switch cfg.Store {
	case config.StoreMongo:
		db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		closeFn := func() { disconnectMongo(db, logger) }
		return repository.NewMongoMovieRepository(db), repository.NewMongoUserRepository(db), closeFn, nil

	default:
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if ensureSchema {
			if err := database.EnsureSchema(ctx, db); err != nil {
				db.Close()
				return nil, nil, nil, err
			}
		}
		closeFn := func() { closeSQL(db, logger) }
		return repository.NewMovieRepository(db), repository.NewUserRepository(db), closeFn, nil
	}
}

func disconnectMongo(db *mongo.Database, logger logging.Logger) {
	ctx := context.Background()
	if err := db.Client().Disconnect(ctx); err != nil {
		logger.Warn(ctx, "mongo disconnect failed", "error", err)
	}
}

func closeSQL(db *sqlx.DB, logger logging.Logger) {
	if err := db.Close(); err != nil {
		logger.Warn(context.Background(), "database close failed", "error", err)
	}
}
