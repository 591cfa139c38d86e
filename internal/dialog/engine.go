// Package dialog is the conversation engine. It consumes normalized events,
// advances per-owner session state, reads and writes the ledger, and returns
// effects for the transport to render. All transport and storage specifics
// stay outside this package.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cancelitnow/cancelbot/internal/agg"
	"github.com/cancelitnow/cancelbot/internal/events"
	"github.com/cancelitnow/cancelbot/internal/idgen"
	"github.com/cancelitnow/cancelbot/internal/ledger"
	"github.com/cancelitnow/cancelbot/internal/model"
	"github.com/cancelitnow/cancelbot/internal/session"
	"github.com/cancelitnow/cancelbot/internal/texts"
)

// Choice IDs understood by the engine. Parameterized choices carry their
// argument after a colon.
const (
	ChoiceAdd      = "add"
	ChoiceView     = "view"
	ChoiceCancel   = "cancel"
	ChoiceBenefits = "benefits"
	ChoiceHelp     = "help"
	ChoiceShare    = "share"
	ChoiceUpcoming = "upcoming"
	ChoiceMenu     = "menu"

	ChoiceDoCancel    = "do_cancel"
	ChoiceAbortCancel = "cancel_abort"

	priorityPrefix      = "priority:"
	confirmCancelPrefix = "confirm_cancel:"
)

var decimalTwelve = decimal.NewFromInt(12)

// PriorityChoiceID returns the choice ID selecting a priority.
func PriorityChoiceID(p model.Priority) string {
	return priorityPrefix + p.String()
}

// ConfirmCancelChoiceID returns the choice ID selecting a cancellation
// candidate by handle.
func ConfirmCancelChoiceID(h ledger.Handle) string {
	return confirmCancelPrefix + strconv.Itoa(int(h))
}

// Engine drives conversations. It is safe for concurrent use across owners;
// the transport is responsible for delivering one owner's events in order.
type Engine struct {
	store    *ledger.Store
	pub      events.Publisher
	sessions *session.Manager
	texts    texts.Catalog
	logger   *slog.Logger
}

// NewEngine wires the engine's collaborators.
func NewEngine(store *ledger.Store, pub events.Publisher, sessions *session.Manager, catalog texts.Catalog, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		pub:      pub,
		sessions: sessions,
		texts:    catalog,
		logger:   logger,
	}
}

// Handle processes one event and returns the effects to render.
func (e *Engine) Handle(ctx context.Context, ev Event) []Effect {
	switch ev := ev.(type) {
	case SessionStart:
		return e.handleStart(ctx, ev)
	case TextInput:
		return e.handleText(ctx, ev)
	case Selection:
		return e.handleSelection(ctx, ev)
	default:
		e.logger.Warn("dropping event of unknown type", "event", fmt.Sprintf("%T", ev))
		return nil
	}
}

func (e *Engine) handleStart(ctx context.Context, ev SessionStart) []Effect {
	sc := e.session(ev.OwnerID, ev.Label)
	sc.ClearFlow()

	entries, err := e.store.ScanByOwner(ctx, ev.OwnerID)
	switch {
	case err != nil:
		// Greeting still goes out; registration is retried on the next start.
		e.logger.Warn("skipping registration check", "owner", ev.OwnerID, "error", err)
	case len(entries) == 0:
		h, err := e.store.Bootstrap(ctx, ev.OwnerID, ev.Label)
		if err != nil {
			e.logger.Warn("failed to register owner", "owner", ev.OwnerID, "error", err)
			break
		}
		e.logger.Info("registered new owner", "owner", ev.OwnerID, "handle", h, "trace_id", sc.TraceID)
		e.publish(ctx, events.TopicOwnerRegistered, events.OwnerRegistered{
			OwnerID:    ev.OwnerID,
			OwnerLabel: ev.Label,
			TraceID:    sc.TraceID,
		})
	}

	return []Effect{
		Prompt{Text: e.texts.Welcome},
		e.menu(),
	}
}

func (e *Engine) handleText(ctx context.Context, ev TextInput) []Effect {
	sc := e.session(ev.OwnerID, "")

	switch sc.State {
	case session.StateAwaitName:
		// Names are stored verbatim, whitespace and all.
		sc.PendingName = ev.Text
		sc.State = session.StateAwaitCost
		return []Effect{Prompt{Text: e.texts.AskCost}}

	case session.StateAwaitCost:
		cost, err := model.ParseCost(ev.Text)
		if err != nil {
			return []Effect{Prompt{Text: e.texts.BadCost}}
		}
		sc.PendingCost = cost
		sc.State = session.StateAwaitPriority
		return []Effect{e.priorityPrompt()}

	default:
		return e.fallback(sc)
	}
}

func (e *Engine) handleSelection(ctx context.Context, ev Selection) []Effect {
	sc := e.session(ev.OwnerID, "")

	// Menu is the universal abort: it discards any open flow.
	if ev.ChoiceID == ChoiceMenu {
		sc.ClearFlow()
		return []Effect{e.menu()}
	}

	if strings.HasPrefix(ev.ChoiceID, priorityPrefix) {
		return e.handlePriority(ctx, sc, strings.TrimPrefix(ev.ChoiceID, priorityPrefix))
	}
	if strings.HasPrefix(ev.ChoiceID, confirmCancelPrefix) {
		return e.handleConfirmCancel(ctx, sc, strings.TrimPrefix(ev.ChoiceID, confirmCancelPrefix))
	}

	switch ev.ChoiceID {
	case ChoiceDoCancel:
		return e.handleDoCancel(ctx, sc)
	case ChoiceAbortCancel:
		return e.handleAbortCancel(sc)
	}

	// Menu commands are accepted only between flows; mid-flow they fall
	// through to the fallback so a stray tap cannot hijack an open flow.
	if sc.State != session.StateIdle {
		return e.fallback(sc)
	}

	switch ev.ChoiceID {
	case ChoiceAdd:
		sc.State = session.StateAwaitName
		return []Effect{Prompt{Text: e.texts.AskName}}
	case ChoiceView:
		return e.handleView(ctx, sc)
	case ChoiceCancel:
		return e.handleCancelList(ctx, sc)
	case ChoiceBenefits:
		return e.handleBenefits(ctx, sc)
	case ChoiceHelp:
		return []Effect{Prompt{Text: e.texts.Help}, e.menu()}
	case ChoiceShare:
		return []Effect{Prompt{Text: e.texts.Share}, e.menu()}
	case ChoiceUpcoming:
		return []Effect{Prompt{Text: e.texts.Upcoming}, e.menu()}
	default:
		return e.fallback(sc)
	}
}

// handlePriority completes the add flow.
func (e *Engine) handlePriority(ctx context.Context, sc *session.Context, raw string) []Effect {
	if sc.State != session.StateAwaitPriority {
		return e.fallback(sc)
	}
	p := model.Priority(raw)
	if !p.IsValid() {
		return []Effect{e.priorityPrompt()}
	}

	rec := &model.Subscription{
		OwnerID:    sc.OwnerID,
		OwnerLabel: sc.Label,
		Name:       sc.PendingName,
		Cost:       sc.PendingCost,
		Priority:   p,
		Status:     model.StatusActive,
	}
	h, err := e.store.Append(ctx, rec)
	if err != nil {
		// Scratch stays intact so the owner can retry the same selection.
		e.logger.Error("failed to append record", "owner", sc.OwnerID, "error", err)
		return []Effect{Prompt{Text: e.texts.SaveFailed}, e.priorityPrompt()}
	}

	e.logger.Info("appended record",
		"owner", sc.OwnerID,
		"handle", h,
		"name", rec.Name,
		"trace_id", sc.TraceID)
	e.publish(ctx, events.TopicRecordAppended, events.RecordAppended{
		OwnerID:  sc.OwnerID,
		Handle:   int(h),
		Name:     rec.Name,
		Cost:     rec.Cost.String(),
		Priority: rec.Priority.String(),
		TraceID:  sc.TraceID,
	})

	sc.ClearFlow()
	return []Effect{Prompt{Text: e.texts.Saved}, e.menu()}
}

func (e *Engine) handleView(ctx context.Context, sc *session.Context) []Effect {
	real, effects := e.ownerRecords(ctx, sc)
	if effects != nil {
		return effects
	}
	if len(real) == 0 {
		return []Effect{Prompt{Text: e.texts.NoSubs}, e.menu()}
	}

	active, cancelled := agg.Partition(real)
	return []Effect{
		Listing{
			Active:    itemsOf(active),
			Cancelled: itemsOf(cancelled),
			Savings:   agg.SavingsOf(cancelled),
		},
		e.menu(),
	}
}

// handleCancelList offers the active records as cancellation candidates.
func (e *Engine) handleCancelList(ctx context.Context, sc *session.Context) []Effect {
	real, effects := e.ownerRecords(ctx, sc)
	if effects != nil {
		return effects
	}

	active, _ := agg.Partition(real)
	if len(active) == 0 {
		return []Effect{Prompt{Text: e.texts.NoActive}, e.menu()}
	}

	choices := make([][]Choice, 0, len(active))
	for _, entry := range active {
		choices = append(choices, []Choice{{
			ID:    ConfirmCancelChoiceID(entry.Handle),
			Label: candidateLabel(entry),
		}})
	}
	return []Effect{Prompt{Text: e.texts.PickCancel, Choices: choices}}
}

func (e *Engine) handleBenefits(ctx context.Context, sc *session.Context) []Effect {
	real, effects := e.ownerRecords(ctx, sc)
	if effects != nil {
		return effects
	}

	// Unlike the view listing, an empty record set still gets a snapshot:
	// zero totals are a meaningful answer here.
	active, cancelled := agg.Partition(real)
	return []Effect{
		Snapshot{
			Totals:    agg.TotalsOf(active),
			Breakdown: agg.PriorityBreakdown(active),
			Savings:   agg.SavingsOf(cancelled),
		},
		e.menu(),
	}
}

// handleConfirmCancel stages a candidate and asks for confirmation.
func (e *Engine) handleConfirmCancel(ctx context.Context, sc *session.Context, raw string) []Effect {
	if sc.State != session.StateIdle {
		return e.fallback(sc)
	}
	row, err := strconv.Atoi(raw)
	if err != nil || !ledger.Handle(row).IsValid() {
		return e.fallback(sc)
	}

	real, effects := e.ownerRecords(ctx, sc)
	if effects != nil {
		return effects
	}
	var target *ledger.Entry
	for i := range real {
		if real[i].Handle == ledger.Handle(row) {
			target = &real[i]
			break
		}
	}
	if target == nil || target.Record.Status != model.StatusActive {
		return []Effect{Prompt{Text: e.texts.CancelMissing}, e.menu()}
	}

	sc.State = session.StateConfirmCancel
	sc.Pending = &session.PendingCancel{
		Handle: target.Handle,
		Name:   target.Record.Name,
		Cost:   target.Record.Cost,
	}
	return []Effect{Prompt{
		Text: fmt.Sprintf("Are you sure you want to cancel %q? It's costing you $%s every month.",
			target.Record.Name, target.Record.Cost.StringFixed(2)),
		Choices: [][]Choice{{
			{ID: ChoiceDoCancel, Label: "Yes, cancel it"},
			{ID: ChoiceAbortCancel, Label: "No, keep it"},
		}},
	}}
}

// handleDoCancel applies the staged cancellation.
func (e *Engine) handleDoCancel(ctx context.Context, sc *session.Context) []Effect {
	if sc.State != session.StateConfirmCancel || sc.Pending == nil {
		return e.fallback(sc)
	}
	pending := sc.Pending

	err := e.store.UpdateStatus(ctx, pending.Handle, model.StatusCancelled)
	switch {
	case errors.Is(err, ledger.ErrInvalidHandle):
		e.logger.Error("cancellation target vanished", "owner", sc.OwnerID, "handle", pending.Handle)
		sc.ClearFlow()
		return []Effect{Prompt{Text: e.texts.CancelMissing}, e.menu()}
	case err != nil:
		// Pending stays staged; the owner can press Yes again.
		e.logger.Error("failed to cancel record", "owner", sc.OwnerID, "handle", pending.Handle, "error", err)
		return []Effect{Prompt{Text: e.texts.CancelFailed}}
	}

	monthly := pending.Cost
	yearly := monthly.Mul(decimalTwelve)
	e.logger.Info("cancelled record",
		"owner", sc.OwnerID,
		"handle", pending.Handle,
		"name", pending.Name,
		"trace_id", sc.TraceID)
	e.publish(ctx, events.TopicRecordCancelled, events.RecordCancelled{
		OwnerID:      sc.OwnerID,
		Handle:       int(pending.Handle),
		Name:         pending.Name,
		MonthlySaved: monthly.String(),
		YearlySaved:  yearly.String(),
		TraceID:      sc.TraceID,
	})

	sc.ClearFlow()
	return []Effect{
		CancelReceipt{Name: pending.Name, MonthlySaved: monthly, YearlySaved: yearly},
		e.menu(),
	}
}

func (e *Engine) handleAbortCancel(sc *session.Context) []Effect {
	if sc.State != session.StateConfirmCancel {
		return e.fallback(sc)
	}
	sc.ClearFlow()
	return []Effect{Prompt{Text: e.texts.CancelAborted}, e.menu()}
}

// fallback abandons whatever was in flight and re-presents the menu. It never
// touches the ledger.
func (e *Engine) fallback(sc *session.Context) []Effect {
	sc.ClearFlow()
	return []Effect{Prompt{Text: e.texts.Unknown}, e.menu()}
}

// session returns the owner's context, minting a trace ID on first contact.
func (e *Engine) session(ownerID, label string) *session.Context {
	sc, created := e.sessions.Ensure(ownerID, label)
	if created || sc.TraceID == "" {
		id, err := idgen.Generate()
		if err != nil {
			e.logger.Warn("failed to generate trace id", "owner", ownerID, "error", err)
		} else {
			sc.TraceID = id
		}
	}
	return sc
}

// ownerRecords scans and filters an owner's real records. A non-nil second
// return is the ready-made error response.
func (e *Engine) ownerRecords(ctx context.Context, sc *session.Context) ([]ledger.Entry, []Effect) {
	entries, err := e.store.ScanByOwner(ctx, sc.OwnerID)
	if err != nil {
		e.logger.Error("failed to scan records", "owner", sc.OwnerID, "error", err)
		return nil, []Effect{Prompt{Text: e.texts.LedgerDown}, e.menu()}
	}
	return agg.FilterReal(entries), nil
}

func (e *Engine) menu() Prompt {
	return Prompt{
		Text: e.texts.MenuPrompt,
		Choices: [][]Choice{
			{{ID: ChoiceAdd, Label: "Add Subscription"}, {ID: ChoiceView, Label: "View Subscriptions"}},
			{{ID: ChoiceCancel, Label: "Cancel Subscription"}, {ID: ChoiceBenefits, Label: "View Benefits"}},
			{{ID: ChoiceHelp, Label: "Help"}, {ID: ChoiceShare, Label: "Share with friends"}},
			{{ID: ChoiceUpcoming, Label: "Upcoming features"}},
		},
	}
}

func (e *Engine) priorityPrompt() Prompt {
	row := make([]Choice, 0, 3)
	for _, p := range model.Priorities() {
		row = append(row, Choice{ID: PriorityChoiceID(p), Label: p.String()})
	}
	return Prompt{Text: e.texts.AskPriority, Choices: [][]Choice{row}}
}

func (e *Engine) publish(ctx context.Context, topic string, event any) {
	if err := e.pub.Publish(ctx, topic, event); err != nil {
		e.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

func itemsOf(entries []ledger.Entry) []Item {
	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		items = append(items, Item{
			Name:     entry.Record.Name,
			Cost:     entry.Record.Cost,
			CostOK:   entry.CostOK,
			Priority: entry.Record.Priority,
			Status:   entry.Record.Status,
		})
	}
	return items
}

func candidateLabel(entry ledger.Entry) string {
	cost := "?"
	if entry.CostOK {
		cost = "$" + entry.Record.Cost.StringFixed(2)
	}
	return fmt.Sprintf("%s | %s | %s", entry.Record.Name, cost, entry.Record.Priority)
}
