package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/bitroom/internal/config"
	"github.com/example/bitroom/internal/history"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "history",
		Short: "Show recently recorded listing runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for history")
			}
			pool, err := history.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			runs, err := history.NewRepo(pool).RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Fprintf(os.Stdout, "run=%d taken=%s date=%s slots=%d\n",
					r.ID, r.TakenAt.Format("2006-01-02 15:04:05"), r.TargetDate.Format("2006-01-02"), r.SlotCount)
			}
			return nil
		},
	}

	c.Flags().IntVar(&limit, "limit", 20, "maximum runs to show")
	return c
}
