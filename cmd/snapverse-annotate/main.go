package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/modkit"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/repokit"
	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	annmod "github.com/TanvirAuntu75/snapverse/internal/services/annotator/module"
	"github.com/TanvirAuntu75/snapverse/internal/services/feed/domain"
	feedmod "github.com/TanvirAuntu75/snapverse/internal/services/feed/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	var (
		fLimit  = flag.Int("limit", 1000, "maximum number of unannotated posts to scan")
		fPage   = flag.Int("page", 100, "posts read per page")
		fBatch  = flag.Int("batch", 0, "annotator batch size (0 keeps CORE_ANNOTATOR_BATCH_SIZE)")
		fDelay  = flag.Duration("delay", 0, "pause between annotator batches (0 keeps CORE_ANNOTATOR_BATCH_DELAY)")
		fDryRun = flag.Bool("dry-run", false, "annotate one page and do not write")
	)
	flag.Parse()
	if err := run(*fLimit, *fPage, *fBatch, *fDelay, *fDryRun); err != nil {
		os.Exit(1)
	}
}

func run(limit, page, batch int, delay time.Duration, dryRun bool) error {
	if batch > 0 {
		mustSetEnv("CORE_ANNOTATOR_BATCH_SIZE", strconv.Itoa(batch))
	}
	if delay > 0 {
		mustSetEnv("CORE_ANNOTATOR_BATCH_DELAY", delay.String())
	}

	opt := logger.FromEnv()
	opt.Service = "snapverse-annotate"
	logger.Init(opt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	st, err := store.Open(ctx, store.ConfigFromEnv(root, "annotate", true), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	deps := modkit.FromStore(st, root)
	ann := annmod.New(deps)
	feed := feedmod.New(deps, modkit.WithPorts(ann.Ports()))

	start := time.Now()
	res, err := feed.Service().Backfill(ctx, domain.BackfillInput{
		Limit:    limit,
		PageSize: page,
		DryRun:   dryRun,
	})
	ev := l.Info()
	if err != nil {
		ev = l.Error().Err(err)
	}
	ev.Int("scanned", res.Scanned).
		Int("saved", res.Saved).
		Int("skipped", res.Skipped).
		Bool("dry_run", dryRun).
		Dur("took", time.Since(start)).
		Msg("annotation backfill finished")
	return err
}
