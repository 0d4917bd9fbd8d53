// Package cache is the two-tier annotation cache: an in-process expirable LRU
// in front of an optional shared Redis
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/platform/metrics"
	"github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
	goredis "github.com/redis/go-redis/v9"
)

// Options sizes the tiers
type Options struct {
	Size      int           // L1 entries
	TTL       time.Duration // both tiers
	KeyPrefix string        // Redis key prefix
}

// DefaultOptions is 4096 entries for 6h under "snapverse:ann:"
func DefaultOptions() Options {
	return Options{Size: 4096, TTL: 6 * time.Hour, KeyPrefix: "snapverse:ann:"}
}

// OptionsFromEnv reads CORE_ANNOTATOR_CACHE_*
func OptionsFromEnv(root config.Conf) Options {
	c := root.Prefix("CORE_ANNOTATOR_CACHE_")
	d := DefaultOptions()
	return Options{
		Size:      c.MayInt("SIZE", d.Size),
		TTL:       c.MayDuration("TTL", d.TTL),
		KeyPrefix: c.MayString("KEY_PREFIX", d.KeyPrefix),
	}
}

// Tiered implements domain.Cache. A nil Redis client leaves only the LRU.
type Tiered struct {
	l1     *expirable.LRU[string, annotation.Annotation]
	rds    goredis.UniversalClient
	ttl    time.Duration
	prefix string
}

var _ domain.Cache = (*Tiered)(nil)

// New builds the cache
func New(opt Options, rds goredis.UniversalClient) *Tiered {
	d := DefaultOptions()
	if opt.Size <= 0 {
		opt.Size = d.Size
	}
	if opt.TTL <= 0 {
		opt.TTL = d.TTL
	}
	return &Tiered{
		l1:     expirable.NewLRU[string, annotation.Annotation](opt.Size, nil, opt.TTL),
		rds:    rds,
		ttl:    opt.TTL,
		prefix: opt.KeyPrefix,
	}
}

// Get looks in the LRU, then Redis. A Redis hit is copied into the LRU.
func (c *Tiered) Get(ctx context.Context, key string) (annotation.Annotation, bool, error) {
	if a, ok := c.l1.Get(key); ok {
		metrics.RecordCache("l1", true)
		return a, true, nil
	}
	metrics.RecordCache("l1", false)
	if c.rds == nil {
		return annotation.Annotation{}, false, nil
	}

	raw, err := c.rds.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		metrics.RecordCache("l2", false)
		return annotation.Annotation{}, false, nil
	}
	if err != nil {
		return annotation.Annotation{}, false, perr.Wrap(err, perr.ErrorCodeUnavailable, "annotation cache: redis get")
	}
	var a annotation.Annotation
	if err := json.Unmarshal(raw, &a); err != nil {
		// a corrupt entry is a miss; the next Set overwrites it
		metrics.RecordCache("l2", false)
		return annotation.Annotation{}, false, nil
	}
	metrics.RecordCache("l2", true)
	c.l1.Add(key, a)
	return a, true, nil
}

// Set writes both tiers. The LRU is always written, even when Redis fails.
func (c *Tiered) Set(ctx context.Context, key string, a annotation.Annotation) error {
	c.l1.Add(key, a)
	if c.rds == nil {
		return nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "annotation cache: marshal")
	}
	if err := c.rds.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "annotation cache: redis set")
	}
	return nil
}

// Len is the number of LRU entries
func (c *Tiered) Len() int { return c.l1.Len() }
