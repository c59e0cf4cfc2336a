package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myflix/internal/model"
)

// fakeKV keeps values in a map and records the TTL of the last Set.
type fakeKV struct {
	data    map[string]string
	lastTTL time.Duration
	err     error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: map[string]string{}}
}

func (f *fakeKV) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.lastTTL = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestMovieCache_SetThenGet(t *testing.T) {
	kv := newFakeKV()
	c := newMovieCache(kv, time.Minute)
	m := &model.Movie{
		ID:          uuid.New(),
		Title:       "Alien",
		Description: "Space horror.",
		Genre:       model.Genre{Name: "Horror"},
		Actors:      []string{"Sigourney Weaver"},
	}

	require.NoError(t, c.Set(context.Background(), m))
	assert.Equal(t, time.Minute, kv.lastTTL)
	assert.Contains(t, kv.data, "movie:"+m.ID.String())

	got, ok, err := c.Get(context.Background(), m.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestMovieCache_Miss(t *testing.T) {
	c := newMovieCache(newFakeKV(), time.Minute)

	got, ok, err := c.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestMovieCache_Invalidate(t *testing.T) {
	kv := newFakeKV()
	c := newMovieCache(kv, time.Minute)
	m := &model.Movie{ID: uuid.New(), Title: "Heat", Description: "Cops.", Actors: []string{}}
	require.NoError(t, c.Set(context.Background(), m))

	require.NoError(t, c.Invalidate(context.Background(), m.ID))

	_, ok, err := c.Get(context.Background(), m.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMovieCache_CorruptEntry(t *testing.T) {
	kv := newFakeKV()
	id := uuid.New()
	kv.data[movieKey(id)] = "{not json"
	c := newMovieCache(kv, time.Minute)

	_, ok, err := c.Get(context.Background(), id)
	assert.False(t, ok)
	assert.ErrorContains(t, err, "decode cached movie")
}

func TestMovieCache_BackendError(t *testing.T) {
	kv := newFakeKV()
	kv.err = errors.New("connection refused")
	c := newMovieCache(kv, time.Minute)

	_, _, err := c.Get(context.Background(), uuid.New())
	assert.ErrorContains(t, err, "connection refused")
	assert.Error(t, c.Set(context.Background(), &model.Movie{ID: uuid.New()}))
	assert.Error(t, c.Invalidate(context.Background(), uuid.New()))
}

func TestNewMovieCache_DefaultTTL(t *testing.T) {
	c := newMovieCache(newFakeKV(), 0)
	assert.Equal(t, DefaultMovieTTL, c.ttl)
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "http://nope")
	assert.ErrorContains(t, err, "parse redis url")
}
