package store

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/bploeckelman/nodes/pkg/errors"
)

// Backend names reported by [Backend].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backend returns the backend a target selects:
//   - "sqlite://path" or a path ending in .db: sqlite
//   - "redis://..." or "rediss://...": redis
//   - "mongodb://..." or "mongodb+srv://...": mongo
//   - anything else, including "" and "file://dir": file
func Backend(target string) string {
	switch {
	case strings.HasPrefix(target, "sqlite://"), strings.HasSuffix(target, ".db"):
		return BackendSQLite
	case strings.HasPrefix(target, "redis://"), strings.HasPrefix(target, "rediss://"):
		return BackendRedis
	case strings.HasPrefix(target, "mongodb://"), strings.HasPrefix(target, "mongodb+srv://"):
		return BackendMongo
	}
	return BackendFile
}

// Open opens the store a target names. See [Backend] for the recognised
// forms. An empty target opens the default file store.
func Open(ctx context.Context, target string, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	var (
		s   Store
		err error
	)
	backend := Backend(target)
	switch backend {
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, strings.TrimPrefix(target, "sqlite://"))
	case BackendRedis:
		s, err = connect(ctx, func() (Store, error) { return NewRedisStore(ctx, RedisConfig{URL: target}) })
	case BackendMongo:
		s, err = connect(ctx, func() (Store, error) { return NewMongoStore(ctx, MongoConfig{URI: target}) })
	default:
		s, err = NewFileStore(strings.TrimPrefix(target, "file://"))
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("opened document store", "backend", backend, "target", redact(target))
	return s, nil
}

// connectAttempts bounds how often a network backend is dialled.
const connectAttempts = 3

// connect retries dial while it fails with a storage error, which covers a
// server that is still starting. Configuration errors fail at once.
func connect(ctx context.Context, dial func() (Store, error)) (Store, error) {
	var s Store
	err := retryWithBackoff(ctx, connectAttempts, func() error {
		var err error
		s, err = dial()
		if errors.Is(err, errors.ErrCodeStorage) {
			return retryable(err)
		}
		return err
	})
	return s, err
}

// redact hides the password of a URL-shaped target.
func redact(target string) string {
	scheme, rest, ok := strings.Cut(target, "://")
	if !ok {
		return target
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return target
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return target
	}
	return scheme + "://" + user + ":***@" + host
}
