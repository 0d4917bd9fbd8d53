// Package openai is the content intelligence provider backed by an
// OpenAI-compatible chat completions API
package openai

import (
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
)

// Config configures the client
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	VisionModel string
	Timeout     time.Duration

	// RPS and Burst throttle outgoing requests; RPS <= 0 disables throttling
	RPS   float64
	Burst int

	// MaxRetries is the number of extra attempts on retryable failures
	MaxRetries int
	RetryBase  time.Duration

	// BreakerFailures consecutive failures open the breaker for BreakerCooldown
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// DefaultConfig targets api.openai.com
func DefaultConfig() Config {
	return Config{
		BaseURL:         "https://api.openai.com/v1",
		Model:           "gpt-4",
		VisionModel:     "gpt-4o-mini",
		Timeout:         30 * time.Second,
		RPS:             5,
		Burst:           5,
		MaxRetries:      2,
		RetryBase:       250 * time.Millisecond,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// ConfigFromEnv reads SERVICE_LLM_*
func ConfigFromEnv(root config.Conf) Config {
	c := root.Prefix("SERVICE_LLM_")
	d := DefaultConfig()
	return Config{
		BaseURL:         c.MayString("BASE_URL", d.BaseURL),
		APIKey:          c.MayString("API_KEY", ""),
		Model:           c.MayString("MODEL", d.Model),
		VisionModel:     c.MayString("VISION_MODEL", d.VisionModel),
		Timeout:         c.MayDuration("TIMEOUT", d.Timeout),
		RPS:             c.MayFloat64("RPS", d.RPS),
		Burst:           c.MayInt("BURST", d.Burst),
		MaxRetries:      c.MayInt("MAX_RETRIES", d.MaxRetries),
		RetryBase:       c.MayDuration("RETRY_BASE", d.RetryBase),
		BreakerFailures: uint32(c.MayInt("BREAKER_FAILURES", int(d.BreakerFailures))),
		BreakerCooldown: c.MayDuration("BREAKER_COOLDOWN", d.BreakerCooldown),
	}
}
