// Package limiter enforces the anonymous free-preview quota per client IP.
package limiter

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/joelkehle/revenue-readiness/internal/store"
)

const (
	DefaultLimit  = 3
	DefaultWindow = 24 * time.Hour
)

type Config struct {
	Limit  int
	Window time.Duration
}

func (c Config) withDefaults() Config {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	return c
}

// Decision is the outcome of consuming a preview. Remaining counts the
// previews left after this one.
type Decision struct {
	Allowed   bool   `json:"allowed"`
	Remaining int    `json:"remaining"`
	Reason    string `json:"reason,omitempty"`
}

type Limiter interface {
	// Consume counts one preview for the client if it is under quota. A
	// denied request is not counted.
	Consume(ctx context.Context, clientIP string) (Decision, error)
	// Release gives back a preview whose analysis did not complete.
	Release(ctx context.Context, clientIP string) error
}

// Key hashes a client IP so raw addresses are never stored.
func Key(clientIP string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(clientIP))
	return fmt.Sprintf("ip_%x", h.Sum32())
}

func allowed(limit, count int) Decision {
	return Decision{Allowed: true, Remaining: max(0, limit-count)}
}

func denied(limit int) Decision {
	return Decision{
		Allowed: false,
		Reason:  fmt.Sprintf("Free preview limit (%d) reached. Sign up for full access.", limit),
	}
}

// AttemptStore is the persistence the store-backed limiter needs.
type AttemptStore interface {
	ConsumeAttempt(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (store.Attempts, bool, error)
	ReleaseAttempt(ctx context.Context, key string) error
}

// StoreLimiter keeps counters in the SQL store. Used when Redis is not
// configured.
type StoreLimiter struct {
	repo AttemptStore
	cfg  Config
	now  func() time.Time
}

func NewStoreLimiter(repo AttemptStore, cfg Config) *StoreLimiter {
	return &StoreLimiter{repo: repo, cfg: cfg.withDefaults(), now: time.Now}
}

func (l *StoreLimiter) Consume(ctx context.Context, clientIP string) (Decision, error) {
	a, ok, err := l.repo.ConsumeAttempt(ctx, Key(clientIP), l.now(), l.cfg.Window, l.cfg.Limit)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return denied(l.cfg.Limit), nil
	}
	return allowed(l.cfg.Limit, a.Count), nil
}

func (l *StoreLimiter) Release(ctx context.Context, clientIP string) error {
	return l.repo.ReleaseAttempt(ctx, Key(clientIP))
}
