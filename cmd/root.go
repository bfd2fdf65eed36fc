package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/bitroom/internal/config"
	"github.com/example/bitroom/internal/roomapi"
	"github.com/example/bitroom/internal/session"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bitroom",
		Short: "Query and book study-room slots on the campus reservation service",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newBookCmd())
	root.AddCommand(newOrdersCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newBenchCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAPI loads config and opens an authenticated session against the service.
func newAPI(ctx context.Context) (*roomapi.Client, config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, cfg, err
	}
	api, err := roomapi.New(ctx, session.NewHTTPClient(cfg.Cookie), roomapi.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, cfg, err
	}
	return api, cfg, nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
	}
	return d, nil
}
