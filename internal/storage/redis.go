package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"talanch-backoffice/internal/session"
)

// RedisStore backs the session layer. Sessions expire with their token.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{Client: client}
}

func sessionKey(id string) string {
	return "session:" + id
}

func (s *RedisStore) SaveSession(ctx context.Context, sess session.Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKey(sess.ID), payload, ttl).Err()
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (session.Session, error) {
	payload, err := s.Client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return session.Session{}, session.ErrNotFound
	}
	if err != nil {
		return session.Session{}, err
	}

	var sess session.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return session.Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, id string) error {
	return s.Client.Del(ctx, sessionKey(id)).Err()
}

var _ session.Store = (*RedisStore)(nil)
