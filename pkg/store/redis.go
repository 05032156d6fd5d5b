package store

import (
	"context"
	stderrors "errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bploeckelman/nodes/pkg/errors"
)

// DefaultRedisPrefix namespaces document keys.
const DefaultRedisPrefix = "nodes:doc:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	// URL is a redis:// or rediss:// URL. It takes precedence over Addr.
	URL      string
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key. Defaults to DefaultRedisPrefix.
	Prefix string
}

// RedisStore keeps each document in a Redis hash with "body" and
// "updated" fields.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and checks the connection with a PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	var opts *redis.Options
	if cfg.URL != "" {
		var err error
		opts, err = redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse redis url")
		}
	} else {
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, storageError(err, "connect to redis at %s", opts.Addr)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(name string) (string, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return "", err
	}
	return s.prefix + name, nil
}

func (s *RedisStore) Get(ctx context.Context, name string) ([]byte, error) {
	key, err := s.key(name)
	if err != nil {
		return nil, err
	}
	body, err := s.client.HGet(ctx, key, "body").Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, storageError(err, "get document %q", name)
	}
	return body, nil
}

func (s *RedisStore) Put(ctx context.Context, name string, body []byte) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	err = s.client.HSet(ctx, key, "body", body, "updated", time.Now().UnixNano()).Err()
	if err != nil {
		return storageError(err, "put document %q", name)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	key, err := s.key(name)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return storageError(err, "delete document %q", name)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Entry, error) {
	var out []Entry
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		name := strings.TrimPrefix(key, s.prefix)
		if errors.ValidateDocumentName(name) != nil {
			continue
		}
		size, err := s.client.HStrLen(ctx, key, "body").Result()
		if err != nil {
			return nil, storageError(err, "stat document %q", name)
		}
		e := Entry{Name: name, Size: int(size)}
		if v, err := s.client.HGet(ctx, key, "updated").Result(); err == nil {
			if ns, err := strconv.ParseInt(v, 10, 64); err == nil {
				e.UpdatedAt = time.Unix(0, ns)
			}
		}
		out = append(out, e)
	}
	if err := iter.Err(); err != nil {
		return nil, storageError(err, "scan documents")
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
