package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cancelitnow/cancelbot/internal/agg"
	"github.com/cancelitnow/cancelbot/internal/ledger"
	"github.com/cancelitnow/cancelbot/internal/model"
	"github.com/cancelitnow/cancelbot/internal/ui"
)

var reportOwner string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a spending report for one owner",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.ScanByOwner(ctx, reportOwner)
		if err != nil {
			return err
		}
		printReport(agg.FilterReal(entries))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOwner, "owner", "", "owner ID to report on")
	reportCmd.MarkFlagRequired("owner")
}

func printReport(real []ledger.Entry) {
	if len(real) == 0 {
		fmt.Println(ui.RenderMuted("no subscriptions tracked"))
		return
	}

	active, cancelled := agg.Partition(real)
	totals := agg.TotalsOf(active)
	breakdown := agg.PriorityBreakdown(active)
	savings := agg.SavingsOf(cancelled)

	fmt.Println("Active subscriptions:")
	for _, e := range active {
		fmt.Printf("  %4d  %-24s %10s  %s\n",
			e.Handle, e.Record.Name, entryCost(e), renderPriority(e.Record.Priority))
	}
	fmt.Printf("\n  %d active, %s/mo, %s/yr\n",
		totals.Count,
		ui.RenderAccent("$"+totals.Monthly.StringFixed(2)),
		ui.RenderAccent("$"+totals.Yearly.StringFixed(2)))
	fmt.Printf("  priority: %s %d / %s %d / %s %d\n",
		renderPriority(model.PriorityHigh), breakdown.High,
		renderPriority(model.PriorityMedium), breakdown.Medium,
		renderPriority(model.PriorityLow), breakdown.Low)

	if len(cancelled) > 0 {
		fmt.Println("\nCancelled:")
		for _, e := range cancelled {
			fmt.Printf("  %4d  %-24s %10s\n", e.Handle, e.Record.Name, entryCost(e))
		}
		fmt.Printf("\n  saving %s/mo (%s/yr)\n",
			ui.RenderAccent("$"+savings.Monthly.StringFixed(2)),
			ui.RenderAccent("$"+savings.Yearly.StringFixed(2)))
	}

	if skipped := totals.Skipped + savings.Skipped; skipped > 0 {
		fmt.Println(ui.RenderMuted(fmt.Sprintf("\n  %d rows skipped (unreadable cost)", skipped)))
	}
}

func entryCost(e ledger.Entry) string {
	if !e.CostOK {
		return "?"
	}
	return "$" + e.Record.Cost.StringFixed(2)
}

func renderPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return ui.RenderBad(p.String())
	case model.PriorityMedium:
		return ui.RenderWarn(p.String())
	case model.PriorityLow:
		return ui.RenderGood(p.String())
	}
	return p.String()
}
