// Package testkit provides testing helpers
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// MustPanic asserts that fn panics
func MustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	fn()
}

// MustNotPanic asserts that fn returns normally
func MustNotPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts haystack contains needle. On failure the haystack is written
// to a temp file since log output is often too long for the failure message.
func MustContain(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		f := filepath.Join(t.TempDir(), "haystack.txt")
		_ = os.WriteFile(f, []byte(haystack), 0o600)
		t.Fatalf("expected output to contain %q\n\nfull output written to %s", needle, f)
	}
}

// Clock is a settable time source for code that takes a func() time.Time
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// FixedClock returns a Clock stopped at t
func FixedClock(t time.Time) *Clock { return &Clock{now: t} }

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var seamLocks sync.Map

// Seam points a package-level variable at replacement until the test ends.
// Tests that replace the same variable run one at a time, so a seam must be
// set at most once per test.
func Seam[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	l, _ := seamLocks.LoadOrStore(target, &sync.Mutex{})
	mu := l.(*sync.Mutex)
	mu.Lock()
	orig := *target
	*target = replacement
	t.Cleanup(func() {
		*target = orig
		mu.Unlock()
	})
}
