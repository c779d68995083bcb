package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formflow/internal/model"
)

const testTTL = time.Hour

func newTestCache(t *testing.T) (SessionCache, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	// a second connection plays the competing writer
	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		other.Close()
	})
	return NewSessionCache(client, testTTL), mr, other
}

func testSession(id string) *model.FillSession {
	return &model.FillSession{
		ID:       id,
		TenantID: "acme",
		UserID:   "resp-1",
		FormID:   "f1",
		Form: &model.Form{Questions: []model.Question{
			{Ordinal: 0, Text: "q0", Type: model.QuestionTypeShortText},
			{Ordinal: 1, Text: "q1", Type: model.QuestionTypeShortText},
		}},
		Progress: model.Progress{Path: []int{0}},
		Answers:  model.AnswerMap{},
	}
}

func TestSessionCache_CreateGetDelete(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Create(ctx, testSession("s1")))
	assert.Equal(t, testTTL, mr.TTL("fill:s1"))
	assert.Error(t, c.Create(ctx, testSession("s1")), "ids are never reused")

	got, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "resp-1", got.UserID)
	assert.Equal(t, []int{0}, got.Progress.Path)

	require.NoError(t, c.Delete(ctx, "s1"))
	got, err = c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCache_UpdateMissing(t *testing.T) {
	c, _, _ := newTestCache(t)

	called := false
	got, err := c.Update(context.Background(), "nope", func(*model.FillSession) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, called)
}

func TestSessionCache_UpdateSavesAndRefreshesTTL(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Create(ctx, testSession("s1")))

	mr.FastForward(40 * time.Minute)
	require.Less(t, mr.TTL("fill:s1"), testTTL)

	got, err := c.Update(ctx, "s1", func(s *model.FillSession) error {
		s.Answers[0] = model.Text("hello")
		s.Progress.Path = []int{0, 1}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, got.Progress.Path)
	assert.Equal(t, testTTL, mr.TTL("fill:s1"), "an update counts as activity")

	stored, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.Text("hello"), stored.Answers[0])
}

func TestSessionCache_UpdateKeepsSessionOnError(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Create(ctx, testSession("s1")))

	rejected := errors.New("rejected")
	_, err := c.Update(ctx, "s1", func(s *model.FillSession) error {
		s.Answers[0] = model.Text("lost")
		return rejected
	})
	assert.ErrorIs(t, err, rejected)

	stored, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, stored.Answers)
}

func TestSessionCache_UpdateRetriesAfterConcurrentWrite(t *testing.T) {
	c, _, other := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Create(ctx, testSession("s1")))

	attempts := 0
	got, err := c.Update(ctx, "s1", func(s *model.FillSession) error {
		attempts++
		if attempts == 1 {
			competing := testSession("s1")
			competing.Answers[1] = model.Text("theirs")
			data, err := json.Marshal(competing)
			require.NoError(t, err)
			require.NoError(t, other.Set(ctx, "fill:s1", data, testTTL).Err())
		}
		s.Answers[0] = model.Text("mine")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, model.AnswerMap{0: model.Text("mine"), 1: model.Text("theirs")}, got.Answers,
		"the retry starts from the competing write")
}

func TestSessionCache_UpdateGivesUpUnderContention(t *testing.T) {
	c, _, other := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Create(ctx, testSession("s1")))

	attempts := 0
	_, err := c.Update(ctx, "s1", func(s *model.FillSession) error {
		attempts++
		require.NoError(t, other.Set(ctx, "fill:s1", `{"id":"s1"}`, testTTL).Err())
		return nil
	})
	assert.ErrorIs(t, err, ErrSessionConflict)
	assert.Equal(t, maxUpdateAttempts, attempts)
}
