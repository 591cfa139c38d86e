package main

import (
	"bytes"
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cancelitnow/cancelbot/internal/backup"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the ledger as JSONL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if exportOut == "" {
			return backup.ExportJSONL(ctx, store, os.Stdout)
		}

		var buf bytes.Buffer
		if err := backup.ExportJSONL(ctx, store, &buf); err != nil {
			return err
		}
		return backup.NewFileDestination(exportOut).Write(ctx, buf.Bytes())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write to file instead of stdout")
}
