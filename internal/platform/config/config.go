// Package config reads typed application settings from prefixed environment variables.
// Must* accessors panic through the logger when a value is absent or malformed; May*
// accessors log a warning and fall back to the supplied default.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"

	"github.com/rs/zerolog"
)

// Conf is a prefixed view over the environment. Prefixes nest:
// config.New().Prefix("SERVICE_").Prefix("LLM_") reads SERVICE_LLM_*.
type Conf struct{ prefix string }

// New returns the root view
func New() Conf { return Conf{} }

// Prefix returns a child view
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// Key returns the fully qualified variable name for key
func (c Conf) Key(key string) string { return c.prefix + key }

func (c Conf) val(key string) string { return strings.TrimSpace(os.Getenv(c.Key(key))) }

func (c Conf) must(key string) string {
	v := c.val(key)
	if v == "" {
		logger.Get().Panic().Str("key", c.Key(key)).Msg("missing required env")
	}
	return v
}

func (c Conf) invalid(key, v, want string) {
	logger.Get().Panic().Str("key", c.Key(key)).Str("value", v).Msg("invalid " + want)
}

func (c Conf) fallback(key, v string) *zerolog.Event {
	return logger.Get().Warn().Str("key", c.Key(key)).Str("value", v)
}

// MustString returns the value or panics when it is missing
func (c Conf) MustString(key string) string { return c.must(key) }

// MustInt returns an integer value or panics
func (c Conf) MustInt(key string) int {
	s := c.must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		c.invalid(key, s, "int value")
	}
	return n
}

// MustBool returns a strconv.ParseBool value or panics
func (c Conf) MustBool(key string) bool {
	s := c.must(key)
	b, err := strconv.ParseBool(s)
	if err != nil {
		c.invalid(key, s, "bool value")
	}
	return b
}

// MustDuration returns a time.ParseDuration value or panics
func (c Conf) MustDuration(key string) time.Duration {
	s := c.must(key)
	d, err := time.ParseDuration(s)
	if err != nil {
		c.invalid(key, s, "duration (e.g., 250ms, 2s, 1h)")
	}
	return d
}

// MustURL returns an absolute URL or panics
func (c Conf) MustURL(key string) *url.URL {
	s := c.must(key)
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		c.invalid(key, s, "absolute URL")
	}
	return u
}

// MustPort validates 1..65535 and returns a listen address like ":4000"
func (c Conf) MustPort(key string) string {
	s := c.must(key)
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		c.invalid(key, s, "TCP port; expected 1..65535")
	}
	return ":" + s
}

// Require panics on the first key that is missing or blank
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		_ = c.must(k)
	}
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string {
	if v := c.val(key); v != "" {
		return v
	}
	return def
}

// MayInt returns the value or def; malformed input is logged
func (c Conf) MayInt(key string, def int) int {
	s := c.val(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		c.fallback(key, s).Int("default", def).Msg("invalid int; using default")
		return def
	}
	return n
}

// MayIntIn is MayInt bounded to [lo, hi]; a value outside the range panics
func (c Conf) MayIntIn(key string, def, lo, hi int) int {
	n := c.MayInt(key, def)
	if n < lo || n > hi {
		c.invalid(key, strconv.Itoa(n), fmt.Sprintf("int in [%d, %d]", lo, hi))
	}
	return n
}

// MayFloat64 returns the value or def; malformed input is logged
func (c Conf) MayFloat64(key string, def float64) float64 {
	s := c.val(key)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.fallback(key, s).Float64("default", def).Msg("invalid float64; using default")
		return def
	}
	return f
}

// MayBool returns the value or def; malformed input is logged
func (c Conf) MayBool(key string, def bool) bool {
	s := c.val(key)
	if s == "" {
		return def
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		c.fallback(key, s).Bool("default", def).Msg("invalid bool; using default")
		return def
	}
	return b
}

// MayDuration returns the value or def; malformed input is logged
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	s := c.val(key)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		c.fallback(key, s).Dur("default", def).Msg("invalid duration; using default")
		return def
	}
	return d
}

// MayCSV splits a comma separated value, dropping blank items. def is returned
// when nothing usable remains.
func (c Conf) MayCSV(key string, def []string) []string {
	s := c.val(key)
	if s == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value when it case-insensitively matches one of allowed,
// def when unset, and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Get().Panic().Str("key", c.Key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
