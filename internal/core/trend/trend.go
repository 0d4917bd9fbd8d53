// Package trend finds the most frequent topics inside a trailing time window
package trend

import (
	"cmp"
	"slices"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
)

const (
	// DefaultWindow is the window used when a caller does not name one
	DefaultWindow = 24 * time.Hour
	// TopN is the number of topics returned
	TopN = 10
)

// Count is a topic and the number of in-window posts carrying it
type Count struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// DetectCounts keeps posts created strictly after now-window, counts each
// topic at most once per post and returns the TopN topics by descending count.
// Ties keep the order in which topics first appeared. A negative window is a
// validation error. A zero window keeps only posts created after now.
func DetectCounts(posts []rank.Post, window time.Duration, now time.Time) ([]Count, error) {
	if window < 0 {
		return nil, perr.WithField(perr.Validationf("window must not be negative, got %s", window), "window_hours")
	}
	cutoff := now.Add(-window)

	index := map[string]int{}
	var counts []Count
	for _, p := range posts {
		if !p.CreatedAt.After(cutoff) {
			continue
		}
		seen := map[string]struct{}{}
		for _, t := range p.Topics() {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			i, ok := index[t]
			if !ok {
				i = len(counts)
				index[t] = i
				counts = append(counts, Count{Topic: t})
			}
			counts[i].Count++
		}
	}

	slices.SortStableFunc(counts, func(a, b Count) int { return cmp.Compare(b.Count, a.Count) })
	if len(counts) > TopN {
		counts = counts[:TopN]
	}
	if counts == nil {
		counts = []Count{}
	}
	return counts, nil
}

// Detect is DetectCounts without the counts
func Detect(posts []rank.Post, window time.Duration, now time.Time) ([]string, error) {
	counts, err := DetectCounts(posts, window, now)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Topic
	}
	return out, nil
}

// WindowHours converts a fractional hour count to a window
func WindowHours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
