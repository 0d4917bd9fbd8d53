package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	"github.com/TanvirAuntu75/snapverse/internal/platform/metrics"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Client talks to the chat completions endpoint. Every request waits on the
// rate limiter, goes through the circuit breaker and is retried with backoff
// when the failure is transient.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[string]
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New builds a Client. Zero fields in cfg take DefaultConfig values.
func New(cfg Config, opts ...Option) *Client {
	d := DefaultConfig()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = d.Model
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = d.RetryBase
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = d.BreakerFailures
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := max(cfg.Burst, 1)

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(limit, burst),
	}
	log := logger.Named("llm")
	c.cb = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			// caller mistakes and cancellations say nothing about upstream health
			return err == nil || perr.IsCode(err, perr.ErrorCodeInvalidArgument) || perr.IsCode(err, perr.ErrorCodeCanceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	for _, o := range opts {
		o(c)
	}
	return c
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// complete runs one chat completion and returns the first choice's content
func (c *Client) complete(ctx context.Context, op string, req chatRequest) (string, error) {
	start := time.Now()
	out, err := c.completeOnce(ctx, op, req)
	metrics.RecordProviderCall(op, outcome(err), time.Since(start))
	return out, err
}

func (c *Client) completeOnce(ctx context.Context, op string, req chatRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "openai: marshal %s request", op)
	}

	var last error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, c.cfg.RetryBase<<(attempt-1)); err != nil {
				return "", perr.FromContext(err, "openai: retry wait")
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return "", perr.FromContext(err, "openai: rate limiter")
		}
		out, err := c.cb.Execute(func() (string, error) { return c.post(ctx, op, payload) })
		if err == nil {
			return out, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", perr.Wrap(err, perr.ErrorCodeUnavailable, "openai: circuit open")
		}
		last = err
		if !perr.Retryable(err) {
			break
		}
		logger.C(ctx).Debug().Str("op", op).Int("attempt", attempt+1).Err(err).Msg("provider call failed, retrying")
	}
	return "", last
}

func (c *Client) post(ctx context.Context, op string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "openai: build %s request", op)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", perr.FromContext(ctx.Err(), "openai: "+op)
		}
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "openai: %s request failed", op)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "openai: read %s response", op)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", statusError(op, resp.StatusCode, body)
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeProvider, "openai: decode %s response", op)
	}
	if len(cr.Choices) == 0 {
		return "", perr.Newf(perr.ErrorCodeProvider, "openai: %s response has no choices", op)
	}
	return cr.Choices[0].Message.Content, nil
}

// maxErrorRunes bounds the upstream message kept in a status error
const maxErrorRunes = 200

func statusError(op string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var ae apiError
	if json.Unmarshal(body, &ae) == nil && ae.Error.Message != "" {
		msg = ae.Error.Message
	}
	if r := []rune(msg); len(r) > maxErrorRunes {
		msg = string(r[:maxErrorRunes])
	}
	code := perr.ErrorCodeProvider
	switch {
	case status == http.StatusTooManyRequests:
		code = perr.ErrorCodeTooManyRequests
	case status >= http.StatusInternalServerError:
		code = perr.ErrorCodeUnavailable
	case status == http.StatusBadRequest:
		code = perr.ErrorCodeInvalidArgument
	}
	return perr.Newf(code, "openai: %s status %d: %s", op, status, msg)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case perr.IsCode(err, perr.ErrorCodeCanceled):
		return "canceled"
	case perr.IsCode(err, perr.ErrorCodeTooManyRequests):
		return "throttled"
	case perr.IsCode(err, perr.ErrorCodeUnavailable):
		return "unavailable"
	}
	return "error"
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func temp(v float64) *float64 { return &v }
