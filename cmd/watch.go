package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/bitroom/internal/booking"
	"github.com/example/bitroom/internal/history"
	"github.com/example/bitroom/internal/roomapi"
	"github.com/example/bitroom/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var (
		interval     time.Duration
		roomsPerPage int
		weeks        int
	)

	c := &cobra.Command{
		Use:   "watch",
		Short: "Periodically refresh the listing and record it in Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			api, cfg, err := newAPI(ctx)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for watch")
			}
			pool, err := history.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := history.Migrate(ctx, pool); err != nil {
				return err
			}
			repo := history.NewRepo(pool)

			w := &watcher.Watcher{
				Interval: interval,
				Logger:   slog.Default(),
				Fetch: func(ctx context.Context, date time.Time) ([]booking.Booking, error) {
					return api.FetchBookings(ctx, date, roomapi.FetchOptions{
						RoomsPerPage: roomsPerPage,
						Weeks:        weeks,
					})
				},
				Record: func(ctx context.Context, date time.Time, bs []booking.Booking) error {
					_, err := repo.RecordRun(ctx, date, bs)
					return err
				},
			}

			err = w.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	c.Flags().DurationVar(&interval, "interval", 30*time.Minute, "time between listing refreshes")
	c.Flags().IntVar(&roomsPerPage, "rooms-per-page", roomapi.DefaultRoomsPerPage, "rooms per listing page")
	c.Flags().IntVar(&weeks, "weeks", roomapi.DefaultWeeks, "number of weeks to cover each refresh")
	return c
}
