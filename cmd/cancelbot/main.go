package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cancelitnow/cancelbot/internal/ledger"
	"github.com/cancelitnow/cancelbot/internal/ledger/postgres"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "cancelbot",
	Short: "Subscription cancellation assistant",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url",
		os.Getenv("CANCELBOT_DATABASE_URL"), "Postgres connection URL")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(watchCmd)
}

// openStore connects to Postgres for the one-shot commands.
func openStore() (*ledger.Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("--database-url or CANCELBOT_DATABASE_URL is required")
	}
	backend, err := postgres.New(databaseURL)
	if err != nil {
		return nil, err
	}
	return ledger.NewStore(backend), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
