package logger

import (
	"bytes"
	"context"
	"testing"

	kit "github.com/TanvirAuntu75/snapverse/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":       zerolog.TraceLevel,
		"debug":       zerolog.DebugLevel,
		"INFO":        zerolog.InfoLevel,
		"warn":        zerolog.WarnLevel,
		"warning":     zerolog.WarnLevel,
		"error":       zerolog.ErrorLevel,
		"panic":       zerolog.PanicLevel,
		"":            zerolog.InfoLevel,
		"  nonsense ": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitAndChildren(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "debug",
		Format:       "console",
		Service:      "snap-test",
		Writer:       &buf,
		StaticFields: map[string]string{"build": "test"},
	})

	Get().Info().Msg("root-msg")
	Named("feed").Info().Msg("named-msg")

	ctx := WithRequest(context.Background(), "req-123", "viewer-9")
	C(ctx).Info().Msg("ctx-msg")
	C(context.Background()).Debug().Msg("bare-msg")

	out := buf.String()
	for _, want := range []string{
		"root-msg", "named-msg", "ctx-msg", "bare-msg",
		"component=", "feed",
		"request_id=", "req-123",
		"viewer_id=", "viewer-9",
		"service=", "snap-test",
		"build=",
	} {
		kit.MustContain(t, out, want)
	}
}

func TestRequestScopeHelpers(t *testing.T) {
	ctx := WithRequest(context.Background(), "", "")
	if RequestID(ctx) != "" {
		t.Fatalf("empty request id should not be stored")
	}
	ctx = WithRequest(ctx, "r1", "")
	if RequestID(ctx) != "r1" {
		t.Fatalf("RequestID = %q", RequestID(ctx))
	}
	if WithViewer(ctx, "") != ctx {
		t.Fatalf("WithViewer with empty id should return ctx unchanged")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "snapverse-annotate")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "snapverse-annotate" {
		t.Fatalf("FromEnv = %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample = %+v", opt)
	}
}
