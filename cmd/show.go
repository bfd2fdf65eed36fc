package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/bitroom/internal/roomapi"
	"github.com/example/bitroom/internal/snapshot"
)

func newShowCmd() *cobra.Command {
	var (
		dateStr      string
		roomsPerPage int
		weeks        int
		output       string
	)

	c := &cobra.Command{
		Use:   "show",
		Short: "List every bookable slot in the coming weeks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			api, _, err := newAPI(ctx)
			if err != nil {
				return err
			}
			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}

			bookings, err := api.FetchBookings(ctx, date, roomapi.FetchOptions{
				RoomsPerPage: roomsPerPage,
				Weeks:        weeks,
			})
			if err != nil {
				return err
			}

			for _, b := range bookings {
				fmt.Fprintln(os.Stdout, b)
			}
			if output != "" {
				if err := snapshot.Save(output, bookings); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "wrote %d slots to %s\n", len(bookings), output)
			}
			return nil
		},
	}

	c.Flags().StringVar(&dateStr, "date", "", "target date YYYY-MM-DD (default today)")
	c.Flags().IntVar(&roomsPerPage, "rooms-per-page", roomapi.DefaultRoomsPerPage, "rooms per listing page; larger pages mean fewer, slower requests")
	c.Flags().IntVar(&weeks, "weeks", roomapi.DefaultWeeks, "number of Monday–Sunday weeks to cover")
	c.Flags().StringVar(&output, "output", "", "also write the result as a JSON snapshot to this path")
	return c
}
