package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"formflow/internal/model"
)

// ErrSessionConflict is returned when concurrent writers kept racing on the
// same session past the retry budget.
var ErrSessionConflict = errors.New("session was modified concurrently")

const maxUpdateAttempts = 5

// SessionCache stores fill sessions. Sessions are private to one respondent
// and expire when idle.
type SessionCache interface {
	Create(ctx context.Context, session *model.FillSession) error
	Get(ctx context.Context, id string) (*model.FillSession, error)
	// Update applies fn to the stored session atomically and saves the
	// result. fn may run more than once if another writer interferes.
	Update(ctx context.Context, id string, fn func(*model.FillSession) error) (*model.FillSession, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("fill:%s", id)
}

func (c *sessionCache) Create(ctx context.Context, session *model.FillSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ok, err := c.client.SetNX(ctx, c.key(session.ID), data, c.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	return nil
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.FillSession, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSession(data)
}

func (c *sessionCache) Update(ctx context.Context, id string, fn func(*model.FillSession) error) (*model.FillSession, error) {
	key := c.key(id)
	var updated *model.FillSession

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			updated = nil
			return nil
		}
		if err != nil {
			return err
		}
		session, err := decodeSession(data)
		if err != nil {
			return err
		}
		if err := fn(session); err != nil {
			return err
		}
		out, err := json.Marshal(session)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, c.ttl)
			return nil
		})
		if err == nil {
			updated = session
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := c.client.Watch(ctx, txf, key)
		if err == redis.TxFailedErr {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrSessionConflict
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func decodeSession(data []byte) (*model.FillSession, error) {
	var session model.FillSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session.Answers == nil {
		session.Answers = model.AnswerMap{}
	}
	return &session, nil
}
