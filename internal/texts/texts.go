// Package texts holds the static reply copy the bot sends. Operators can
// override any entry with a TOML file without rebuilding.
package texts

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Catalog is the full set of canned replies. Every field is plain text;
// transport-specific markup is the transport's business.
type Catalog struct {
	Welcome       string `toml:"welcome"`
	MenuPrompt    string `toml:"menu_prompt"`
	Unknown       string `toml:"unknown"`
	AskName       string `toml:"ask_name"`
	AskCost       string `toml:"ask_cost"`
	BadCost       string `toml:"bad_cost"`
	AskPriority   string `toml:"ask_priority"`
	Saved         string `toml:"saved"`
	SaveFailed    string `toml:"save_failed"`
	NoSubs        string `toml:"no_subs"`
	NoActive      string `toml:"no_active"`
	PickCancel    string `toml:"pick_cancel"`
	CancelFailed  string `toml:"cancel_failed"`
	CancelMissing string `toml:"cancel_missing"`
	CancelAborted string `toml:"cancel_aborted"`
	LedgerDown    string `toml:"ledger_down"`
	Help          string `toml:"help"`
	Share         string `toml:"share"`
	Upcoming      string `toml:"upcoming"`
}

// Defaults returns the built-in reply copy.
func Defaults() Catalog {
	return Catalog{
		Welcome: "Why keep paying for what you don't use?\n" +
			"Over 80% of people lose money on unused subscriptions.\n\n" +
			"Welcome to CancelItNow, your assistant for cutting subscription clutter.\n" +
			"Track what you pay for, reflect on what's actually worth it, and cancel\n" +
			"wasteful services in seconds.",
		MenuPrompt:    "What would you like to do now?",
		Unknown:       "Sorry, I didn't understand that. Please try again.",
		AskName:       "What subscription do you want to add?",
		AskCost:       "How much does it cost you monthly?",
		BadCost:       "Please enter a valid monthly cost (0.01-100000).",
		AskPriority:   "How important is this to you? (Be honest, we won't judge.)",
		Saved:         "Subscription saved successfully!",
		SaveFailed:    "Couldn't save that right now, please try again in a moment.",
		NoSubs:        "No subscriptions tracked yet.",
		NoActive:      "No active subscriptions to cancel.",
		PickCancel:    "Select a subscription you want to cancel:",
		CancelFailed:  "Couldn't cancel that right now, please try again in a moment.",
		CancelMissing: "That subscription couldn't be found anymore.",
		CancelAborted: "No worries. Your subscription is safe for now.\n" +
			"Take your time to decide.",
		LedgerDown: "I couldn't reach your data right now, please try again.",
		Help: "Here's what I can do for you:\n\n" +
			"Add Subscription - add a new subscription and track the recurring cost\n" +
			"View Subscriptions - see all your active services\n" +
			"Cancel Subscription - cancel a subscription\n" +
			"View Benefits - get insights into where your money goes",
		Share: "Love CancelItNow?\n" +
			"Invite your friends to manage their subscriptions too:\n" +
			"https://t.me/cancelitnowbot",
		Upcoming: "Coming soon:\n\n" +
			"Multilanguage support\n" +
			"Multi-currency support\n" +
			"Reminder alerts before recurring payments\n" +
			"Monthly summary reports\n" +
			"Import subscriptions from email receipts",
	}
}

// Load returns the defaults with any entries present in the TOML file at
// path applied on top. An empty path returns plain defaults.
func Load(path string) (Catalog, error) {
	c := Defaults()
	if path == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Catalog{}, fmt.Errorf("load texts from %s: %w", path, err)
	}
	return c, nil
}
