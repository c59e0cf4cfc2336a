package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"myflix/internal/model"
)

const moviesCollection = "movies"

// movieDocument keeps the original document layout: capitalized keys, genre and director embedded.
type movieDocument struct {
	ID          string           `bson:"_id"`
	Title       string           `bson:"Title"`
	Description string           `bson:"Description"`
	Genre       genreDocument    `bson:"Genre"`
	Director    directorDocument `bson:"Director"`
	Actors      []string         `bson:"Actors"`
	ImagePath   string           `bson:"ImagePath,omitempty"`
	Featured    bool             `bson:"Featured"`
}

type genreDocument struct {
	Name        string `bson:"Name,omitempty"`
	Description string `bson:"Description,omitempty"`
}

type directorDocument struct {
	Name string `bson:"Name,omitempty"`
	Bio  string `bson:"Bio,omitempty"`
}

func newMovieDocument(m *model.Movie) movieDocument {
	actors := m.Actors
	if actors == nil {
		actors = []string{}
	}
	return movieDocument{
		ID:          m.ID.String(),
		Title:       m.Title,
		Description: m.Description,
		Genre:       genreDocument{Name: m.Genre.Name, Description: m.Genre.Description},
		Director:    directorDocument{Name: m.Director.Name, Bio: m.Director.Bio},
		Actors:      actors,
		ImagePath:   m.ImagePath,
		Featured:    m.Featured,
	}
}

func (d movieDocument) toModel() (model.Movie, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return model.Movie{}, fmt.Errorf("invalid movie id %q: %w", d.ID, err)
	}
	actors := d.Actors
	if actors == nil {
		actors = []string{}
	}
	return model.Movie{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Genre:       model.Genre{Name: d.Genre.Name, Description: d.Genre.Description},
		Director:    model.Director{Name: d.Director.Name, Bio: d.Director.Bio},
		Actors:      actors,
		ImagePath:   d.ImagePath,
		Featured:    d.Featured,
	}, nil
}

type mongoMovieRepository struct {
	col *mongo.Collection
}

// NewMongoMovieRepository creates a movie repository over the "movies" collection of db
func NewMongoMovieRepository(db *mongo.Database) MovieRepository {
	return &mongoMovieRepository{col: db.Collection(moviesCollection)}
}

func (r *mongoMovieRepository) Create(ctx context.Context, m *model.Movie) error {
	if _, err := r.col.InsertOne(ctx, newMovieDocument(m)); err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

func (r *mongoMovieRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()}, "id")
}

func (r *mongoMovieRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Movie, error) {
	if len(ids) == 0 {
		return []model.Movie{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": uuidStrings(ids)}}, nil)
}

func (r *mongoMovieRepository) GetByTitle(ctx context.Context, title string) (*model.Movie, error) {
	return r.findOne(ctx, bson.M{"Title": title}, "title")
}

func (r *mongoMovieRepository) List(ctx context.Context) ([]model.Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "Title", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *mongoMovieRepository) FindGenre(ctx context.Context, name string) (*model.Genre, error) {
	var doc movieDocument
	opts := options.FindOne().SetProjection(bson.M{"Genre": 1})
	err := r.col.FindOne(ctx, bson.M{"Genre.Name": name}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrGenreNotFound
		}
		return nil, fmt.Errorf("failed to find genre: %w", err)
	}
	return &model.Genre{Name: doc.Genre.Name, Description: doc.Genre.Description}, nil
}

func (r *mongoMovieRepository) FindDirector(ctx context.Context, name string) (*model.Director, error) {
	var doc movieDocument
	opts := options.FindOne().SetProjection(bson.M{"Director": 1})
	err := r.col.FindOne(ctx, bson.M{"Director.Name": name}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrDirectorNotFound
		}
		return nil, fmt.Errorf("failed to find director: %w", err)
	}
	return &model.Director{Name: doc.Director.Name, Bio: doc.Director.Bio}, nil
}

func (r *mongoMovieRepository) Update(ctx context.Context, m *model.Movie) error {
	doc := newMovieDocument(m)
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": doc.ID},
		bson.M{"$set": bson.M{
			"Title":       doc.Title,
			"Description": doc.Description,
			"Genre":       doc.Genre,
			"Director":    doc.Director,
			"Actors":      doc.Actors,
			"ImagePath":   doc.ImagePath,
			"Featured":    doc.Featured,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrMovieNotFound
	}
	return nil
}

func (r *mongoMovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.ErrMovieNotFound
	}
	return nil
}

func (r *mongoMovieRepository) findOne(ctx context.Context, filter bson.M, by string) (*model.Movie, error) {
	var doc movieDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie by %s: %w", by, err)
	}

	m, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mongoMovieRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Movie, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}

	cur, err := r.col.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}
	defer cur.Close(ctx)

	out := []model.Movie{}
	for cur.Next(ctx) {
		var doc movieDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode movie: %w", err)
		}
		m, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}
	return out, nil
}
