package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newOrdersCmd() *cobra.Command {
	var (
		roomID  string
		dateStr string
	)

	c := &cobra.Command{
		Use:   "orders",
		Short: "List the reservations already placed for a room on a day",
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

			orders, err := api.FetchOrders(ctx, roomID, date)
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Fprintln(os.Stdout, "no reservations")
				return nil
			}
			for _, o := range orders {
				fmt.Fprintln(os.Stdout, o)
			}
			return nil
		},
	}

	c.Flags().StringVar(&roomID, "room-id", "", "room identifier (CDDM)")
	c.Flags().StringVar(&dateStr, "date", "", "date YYYY-MM-DD (default today)")
	_ = c.MarkFlagRequired("room-id")
	return c
}
