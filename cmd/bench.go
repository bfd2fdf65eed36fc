package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/bitroom/internal/roomapi"
)

// The service's latency grows with page size in a way worth measuring before
// picking a --rooms-per-page for real use.
func newBenchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "bench",
		Short: "Time a one-week listing at several page sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			api, _, err := newAPI(ctx)
			if err != nil {
				return err
			}
			date, err := parseDateFlag("")
			if err != nil {
				return err
			}

			for _, n := range []int{2, 5, 10, 20, 50} {
				start := time.Now()
				bookings, err := api.FetchBookings(ctx, date, roomapi.FetchOptions{
					RoomsPerPage: n,
					Weeks:        1,
				})
				if err != nil {
					return fmt.Errorf("rooms_per_page=%d: %w", n, err)
				}
				fmt.Fprintf(os.Stdout, "rooms_per_page=%2d  %6.2fs  %d slots\n",
					n, time.Since(start).Seconds(), len(bookings))
			}
			return nil
		},
	}
	return c
}
