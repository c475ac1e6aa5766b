package quote

import (
	"context"
	"time"

	"go.uber.org/zap"

	"launchpad/internal/model"
)

// DefaultWatchInterval is how often a watched quote is refreshed.
const DefaultWatchInterval = 10 * time.Second

// WatchRequest is the selection a Watcher keeps re-quoting.
type WatchRequest struct {
	From   model.TokenRef
	To     model.TokenRef
	Amount string
}

// Watcher re-quotes a selection on a fixed interval so displayed values track the pool.
type Watcher struct {
	quoter   *Quoter
	interval time.Duration
	logger   *zap.Logger
}

func NewWatcher(quoter *Quoter, interval time.Duration, logger *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{quoter: quoter, interval: interval, logger: logger}
}

// Run quotes req immediately and then on every tick, calling fn whenever the quote
// changed. It returns ctx.Err() once ctx is done.
func (w *Watcher) Run(ctx context.Context, req WatchRequest, fn func(model.Quote)) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		last    model.Quote
		emitted bool
	)
	for {
		q := w.quoter.Quote(ctx, req.From, req.To, req.Amount)
		if err := ctx.Err(); err != nil {
			return err
		}
		if !emitted || Changed(last, q) {
			fn(q)
			last, emitted = q, true
		} else {
			w.logger.Debug("quote unchanged", zap.String("status", string(q.Status)))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
