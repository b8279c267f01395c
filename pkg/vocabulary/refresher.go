package vocabulary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Refresher reloads the vocabulary store on a cron schedule. Catalogs change
// rarely, so a periodic reload keeps lookups fresh without coupling the API
// request path to the database.
type Refresher struct {
	store  *Store
	logger *slog.Logger
	spec   string
	cron   *cron.Cron
}

// NewRefresher validates the cron spec and returns a stopped refresher.
// Standard five-field specs and @every intervals are accepted.
func NewRefresher(store *Store, logger *slog.Logger, spec string) (*Refresher, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid vocabulary refresh spec %q: %w", spec, err)
	}

	return &Refresher{
		store:  store,
		logger: logger.With("module", "vocabulary_refresher"),
		spec:   spec,
	}, nil
}

// Start performs an initial refresh and then schedules periodic ones. The
// initial refresh failing is fatal; later failures only log and keep the
// previous snapshot.
func (r *Refresher) Start(ctx context.Context) error {
	if err := r.store.Refresh(ctx); err != nil {
		return fmt.Errorf("initial vocabulary refresh failed: %w", err)
	}

	r.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	_, err := r.cron.AddFunc(r.spec, func() {
		if err := r.store.Refresh(context.Background()); err != nil {
			r.logger.Error("Scheduled vocabulary refresh failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule vocabulary refresh: %w", err)
	}

	r.cron.Start()
	r.logger.InfoContext(ctx, "Vocabulary refresher started", "spec", r.spec)

	return nil
}

// Stop halts the schedule. Already-running refreshes finish on their own.
func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}
