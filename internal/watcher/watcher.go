// Package watcher periodically refreshes the availability listing and hands
// each result to a recorder.
package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/bitroom/internal/booking"
)

type FetchFunc func(ctx context.Context, date time.Time) ([]booking.Booking, error)

type RecordFunc func(ctx context.Context, date time.Time, bookings []booking.Booking) error

// Watcher re-fetches the listing every Interval. A failed tick is logged and
// the loop keeps going; only context cancellation stops it.
type Watcher struct {
	Fetch    FetchFunc
	Record   RecordFunc
	Interval time.Duration
	Logger   *slog.Logger

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (w *Watcher) Run(ctx context.Context) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}

	t := time.NewTicker(w.Interval)
	defer t.Stop()

	// kick immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	date := w.Now()
	bookings, err := w.Fetch(ctx, date)
	if err != nil {
		w.Logger.Error("listing refresh failed", "err", err)
		return
	}
	if err := w.Record(ctx, date, bookings); err != nil {
		w.Logger.Error("recording listing failed", "err", err)
		return
	}
	w.Logger.Info("listing recorded", "slots", len(bookings))
}
