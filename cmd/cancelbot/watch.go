package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cancelitnow/cancelbot/internal/events"
)

var (
	watchNATSURL string
	watchTopic   string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Tail lifecycle events from NATS",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchNATSURL == "" {
			return fmt.Errorf("--nats-url or CANCELBOT_NATS_URL is required")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sub, err := events.NewNATSSubscriber(watchNATSURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(watchTopic)
		if err != nil {
			return err
		}
		defer cancel()

		fmt.Fprintf(os.Stderr, "watching %s on %s\n", watchTopic, watchNATSURL)
		for {
			select {
			case <-ctx.Done():
				return nil
			case data, ok := <-ch:
				if !ok {
					return nil
				}
				fmt.Println(string(data))
			}
		}
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchNATSURL, "nats-url",
		os.Getenv("CANCELBOT_NATS_URL"), "NATS server URL")
	watchCmd.Flags().StringVar(&watchTopic, "topic", "subs.>", "subject to subscribe to")
}
