package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/cancelitnow/cancelbot/internal/dialog"
)

// RenderEffect converts one engine effect into a sendable message.
func RenderEffect(chatID int64, effect dialog.Effect) tgbotapi.MessageConfig {
	switch e := effect.(type) {
	case dialog.Prompt:
		msg := tgbotapi.NewMessage(chatID, e.Text)
		if len(e.Choices) > 0 {
			msg.ReplyMarkup = keyboard(e.Choices)
		}
		return msg
	case dialog.Listing:
		return tgbotapi.NewMessage(chatID, FormatListing(e))
	case dialog.Snapshot:
		return tgbotapi.NewMessage(chatID, FormatSnapshot(e))
	case dialog.CancelReceipt:
		return tgbotapi.NewMessage(chatID, FormatReceipt(e))
	default:
		return tgbotapi.NewMessage(chatID, "")
	}
}

func keyboard(rows [][]dialog.Choice) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, c := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(c.Label, c.ID))
		}
		out = append(out, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

// FormatListing renders the subscription listing as plain text.
func FormatListing(l dialog.Listing) string {
	var b strings.Builder
	b.WriteString("Your subscriptions:\n")

	if len(l.Active) > 0 {
		b.WriteString("\nActive:\n")
		for _, item := range l.Active {
			fmt.Fprintf(&b, "- %s | %s/mo | %s\n", item.Name, itemCost(item.Cost, item.CostOK), item.Priority)
		}
	}
	if len(l.Cancelled) > 0 {
		b.WriteString("\nCancelled:\n")
		for _, item := range l.Cancelled {
			fmt.Fprintf(&b, "- %s | was %s/mo\n", item.Name, itemCost(item.Cost, item.CostOK))
		}
		fmt.Fprintf(&b, "\nYou're saving %s every month (%s a year).\n",
			money(l.Savings.Monthly), money(l.Savings.Yearly))
	}
	return b.String()
}

// FormatSnapshot renders the benefits snapshot as plain text.
func FormatSnapshot(s dialog.Snapshot) string {
	var b strings.Builder
	b.WriteString("Here's where your money goes:\n\n")
	fmt.Fprintf(&b, "Active subscriptions: %d\n", s.Totals.Count)
	fmt.Fprintf(&b, "Monthly spend: %s\n", money(s.Totals.Monthly))
	fmt.Fprintf(&b, "Yearly spend: %s\n", money(s.Totals.Yearly))
	fmt.Fprintf(&b, "\nBy priority: High %d | Medium %d | Low %d\n",
		s.Breakdown.High, s.Breakdown.Medium, s.Breakdown.Low)

	if s.Savings.Count > 0 {
		fmt.Fprintf(&b, "\nCancelled so far: %d\n", s.Savings.Count)
		fmt.Fprintf(&b, "Saved: %s/mo (%s/yr)\n", money(s.Savings.Monthly), money(s.Savings.Yearly))
	}
	if skipped := s.Totals.Skipped + s.Savings.Skipped; skipped > 0 {
		fmt.Fprintf(&b, "\n%d entries were skipped (unreadable cost).\n", skipped)
	}
	return b.String()
}

// FormatReceipt renders the post-cancellation savings summary.
func FormatReceipt(r dialog.CancelReceipt) string {
	return fmt.Sprintf("Done! %q is cancelled.\nYou just freed up %s every month (%s a year).",
		r.Name, money(r.MonthlySaved), money(r.YearlySaved))
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func itemCost(d decimal.Decimal, ok bool) string {
	if !ok {
		return "?"
	}
	return money(d)
}
