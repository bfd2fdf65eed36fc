package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/bitroom/internal/booking"
	"github.com/example/bitroom/internal/roomapi"
	"github.com/example/bitroom/internal/timerange"
)

func newBookCmd() *cobra.Command {
	var (
		roomID      string
		roomName    string
		dateStr     string
		times       string
		description string
		remark      string
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Reserve one or more slots in a single room on a single day",
		Long: `Reserve slots, e.g.:

  bitroom book --room-id 100501 --date 2024-05-01 --times 08:00-08:45,09:00-09:45

The service accepts submissions without checking conflicts, so an accepted
reservation is not proof the slots were still free — run "bitroom orders"
afterwards to verify.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			api, cfg, err := newAPI(ctx)
			if err != nil {
				return err
			}
			if err := cfg.RequireContact(); err != nil {
				return err
			}
			date, err := parseDateFlag(dateStr)
			if err != nil {
				return err
			}

			var slots []booking.Booking
			for _, rng := range strings.Split(times, ",") {
				start, end, err := timerange.Parse(strings.TrimSpace(rng))
				if err != nil {
					return err
				}
				slots = append(slots, booking.Booking{
					RoomName: roomName,
					RoomID:   roomID,
					Start:    onDate(date, start),
					End:      onDate(date, end),
				})
			}

			if err := api.Book(ctx, roomapi.ReservationRequest{
				Slots:       slots,
				Tel:         cfg.Tel,
				Applicant:   cfg.Applicant,
				Description: description,
				Remark:      remark,
			}); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "submitted %d slot(s) in room %s on %s\n",
				len(slots), roomID, date.Format("2006-01-02"))
			return nil
		},
	}

	c.Flags().StringVar(&roomID, "room-id", "", "room identifier (CDDM)")
	c.Flags().StringVar(&roomName, "room-name", "", "room display name")
	c.Flags().StringVar(&dateStr, "date", "", "reservation date YYYY-MM-DD (default today)")
	c.Flags().StringVar(&times, "times", "", "comma-separated slot ranges, e.g. 08:00-08:45,09:00-09:45")
	c.Flags().StringVar(&description, "description", "", "free-text application statement")
	c.Flags().StringVar(&remark, "remark", "", "free-text remark")
	_ = c.MarkFlagRequired("room-id")
	_ = c.MarkFlagRequired("times")
	return c
}

func onDate(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.Local)
}
