package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bitroom/internal/booking"
)

func TestRunRecordsEachTick(t *testing.T) {
	var mu sync.Mutex
	var recorded [][]booking.Booking
	done := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &Watcher{
		Interval: 5 * time.Millisecond,
		Fetch: func(ctx context.Context, date time.Time) ([]booking.Booking, error) {
			return []booking.Booking{{RoomID: "1"}}, nil
		},
		Record: func(ctx context.Context, date time.Time, bs []booking.Booking) error {
			mu.Lock()
			defer mu.Unlock()
			recorded = append(recorded, bs)
			if len(recorded) == 3 {
				close(done)
			}
			return nil
		},
	}

	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never recorded three ticks")
	}
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, len(recorded), 3)
	assert.Len(t, recorded[0], 1)
}

func TestRunSurvivesFetchFailure(t *testing.T) {
	var mu sync.Mutex
	var fetches, records int
	done := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := &Watcher{
		Interval: 5 * time.Millisecond,
		Fetch: func(ctx context.Context, date time.Time) ([]booking.Booking, error) {
			mu.Lock()
			defer mu.Unlock()
			fetches++
			if fetches == 1 {
				return nil, errors.New("service down")
			}
			return nil, nil
		},
		Record: func(ctx context.Context, date time.Time, bs []booking.Booking) error {
			mu.Lock()
			defer mu.Unlock()
			records++
			if records == 1 {
				close(done)
			}
			return nil
		},
	}

	go func() { _ = w.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never recovered from the failed tick")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, fetches, 2, "first fetch failed, loop must continue")
}
