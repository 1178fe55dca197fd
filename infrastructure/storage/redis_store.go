package storage

import (
	"blog-bus/contract"
	"blog-bus/errors"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
)

var _ contract.Store = (*RedisStore)(nil)

const scanBatchSize = 100

// RedisStore keeps values as plain Redis strings under a namespace.
type RedisStore struct {
	client    *redis.Client
	namespace string
	log       *slog.Logger
}

func NewRedisStore(client *redis.Client, namespace string, log *slog.Logger) *RedisStore {
	return &RedisStore{client: client, namespace: namespace, log: log}
}

// OpenRedis parses a redis:// URL and checks the server answers.
func OpenRedis(ctx context.Context, url, namespace string, log *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis is not reachable: %w", err)
	}
	return NewRedisStore(client, namespace, log), nil
}

func (s *RedisStore) key(k string) string {
	if s.namespace == "" {
		return k
	}
	return s.namespace + ":" + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", errors.ErrNotFound, key)
	}
	return value, err
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

// Scan collects matching keys first. SCAN gives no ordering guarantee,
// keys are sorted before values are read.
func (s *RedisStore) Scan(ctx context.Context, prefix string, fn func(key string, value []byte) error) error {
	var keys []string
	iter := s.client.Scan(ctx, 0, globEscape(s.key(prefix))+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	for _, k := range keys {
		value, err := s.client.Get(ctx, k).Bytes()
		if stderrors.Is(err, redis.Nil) {
			// Deleted between SCAN and GET
			continue
		}
		if err != nil {
			return err
		}
		if err := fn(s.unprefix(k), value); err != nil {
			return err
		}
	}
	return nil
}

// globEscape quotes the characters MATCH treats as a pattern.
func globEscape(literal string) string {
	var b strings.Builder
	for _, r := range literal {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *RedisStore) unprefix(k string) string {
	if s.namespace == "" {
		return k
	}
	return strings.TrimPrefix(k, s.namespace+":")
}

func (s *RedisStore) Close() error {
	s.log.Info("Closing Redis client...")
	return s.client.Close()
}
