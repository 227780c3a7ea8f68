// Package cache stores resolved contributor identities between runs so that
// repeated changelog generation does not hit the hosting API for every email.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/okineadev/gitpaper/internal/changelog"
	"github.com/okineadev/gitpaper/internal/logging"
)

// Entry is one cached identity.
type Entry struct {
	Name     string    `yaml:"name,omitempty"`
	Username string    `yaml:"username"`
	StoredAt time.Time `yaml:"stored_at"`
}

// Store persists entries keyed by normalized email. Expired entries are
// reported as missing.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry) error
	Close() error
}

// Key normalizes an email into a cache key.
func Key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Options selects and configures a store.
type Options struct {
	Backend  string
	Path     string
	RedisURL string
	TTL      time.Duration
}

// Open builds the store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendFile:
		return NewFileStore(opts.Path, opts.TTL), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.TTL)
	case BackendNone, "":
		return NoopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// NoopStore never stores anything.
type NoopStore struct{}

func (NoopStore) Get(context.Context, string) (Entry, bool, error) { return Entry{}, false, nil }
func (NoopStore) Set(context.Context, string, Entry) error        { return nil }
func (NoopStore) Close() error                                    { return nil }

// Resolver answers from the store first and falls back to the upstream
// resolver. Only positive answers are cached, so a contributor who links
// their email later is picked up on the next run.
type Resolver struct {
	upstream changelog.Resolver
	store    Store
	logger   *zap.Logger
	now      func() time.Time
}

// NewResolver wraps upstream with store.
func NewResolver(upstream changelog.Resolver, store Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		upstream: upstream,
		store:    store,
		logger:   logging.OrNop(logger).Named("cache"),
		now:      time.Now,
	}
}

// Resolve implements changelog.Resolver.
func (r *Resolver) Resolve(ctx context.Context, email string) (*changelog.Resolution, error) {
	key := Key(email)

	entry, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Debug("cache read failed", zap.String("email", key), zap.Error(err))
	} else if ok {
		r.logger.Debug("cache hit", zap.String("email", key))
		return &changelog.Resolution{Name: entry.Name, Username: entry.Username}, nil
	}

	res, err := r.upstream.Resolve(ctx, email)
	if err != nil || res == nil || res.Username == "" {
		return res, err
	}

	if err := r.store.Set(ctx, key, Entry{Name: res.Name, Username: res.Username, StoredAt: r.now()}); err != nil {
		r.logger.Debug("cache write failed", zap.String("email", key), zap.Error(err))
	}
	return res, nil
}
