// Package scheduler re-runs the analysis for one watched ticker on a
// cron schedule and pushes a report when the recommendation changes.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"marketlogic/internal/analyzer"
	"marketlogic/internal/notifier"
)

// runTimeout bounds one scheduled analysis run.
const runTimeout = 2 * time.Minute

// Watcher schedules periodic analyses of a single ticker. The last seen
// recommendation is held in memory only; a restart re-notifies once.
type Watcher struct {
	Cron     *cron.Cron
	Analyzer *analyzer.Analyzer
	Notifier *notifier.TelegramNotifier
	Ticker   string
	Days     int
	Ctx      context.Context

	mu      sync.Mutex
	lastRec string
}

// NewWatcher creates a Watcher for one ticker.
func NewWatcher(ctx context.Context, a *analyzer.Analyzer, tn *notifier.TelegramNotifier, ticker string, days int) *Watcher {
	return &Watcher{
		Cron:     cron.New(cron.WithSeconds()),
		Analyzer: a,
		Notifier: tn,
		Ticker:   ticker,
		Days:     days,
		Ctx:      ctx,
	}
}

// Register adds the watch task under the given cron spec.
func (w *Watcher) Register(cronSpec string) error {
	if _, err := w.Cron.AddFunc(cronSpec, w.task); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (w *Watcher) Start() {
	w.Cron.Start()
	log.Printf("[INFO] watch scheduler started for %s", w.Ticker)
}

// Stop stops the cron scheduler gracefully.
func (w *Watcher) Stop() {
	w.Cron.Stop()
	log.Println("[INFO] watch scheduler stopped")
}

// RunNow executes the watch task immediately (manual trigger).
func (w *Watcher) RunNow() {
	w.task()
}

func (w *Watcher) task() {
	log.Printf("[INFO] running watch analysis for %s", w.Ticker)

	ctx, cancel := context.WithTimeout(w.Ctx, runTimeout)
	defer cancel()

	res, err := w.Analyzer.Analyze(ctx, w.Ticker, w.Days)
	if err != nil {
		log.Printf("[ERROR] watch analysis: %v", err)
		w.trySend(fmt.Sprintf("❌ <b>%s analysis failed</b>\n\n%v", w.Ticker, err))
		return
	}

	rec := string(res.Scorecard.Recommendation)

	w.mu.Lock()
	prev := w.lastRec
	w.lastRec = rec
	w.mu.Unlock()

	if prev == rec {
		log.Printf("[INFO] %s recommendation unchanged (%s), not notifying", w.Ticker, rec)
		return
	}
	if prev != "" {
		w.trySend(notifier.FormatChange(w.Ticker, prev, rec))
	}
	w.trySend(notifier.FormatReport(res))
}

// HandleCommand processes a user command and returns a reply.
func (w *Watcher) HandleCommand(command string) string {
	switch command {
	case "/score", "/now":
		ctx, cancel := context.WithTimeout(w.Ctx, runTimeout)
		defer cancel()

		res, err := w.Analyzer.Analyze(ctx, w.Ticker, w.Days)
		if err != nil {
			return fmt.Sprintf("❌ %s analysis failed: %v", w.Ticker, err)
		}

		w.mu.Lock()
		w.lastRec = string(res.Scorecard.Recommendation)
		w.mu.Unlock()

		return notifier.FormatReport(res)
	default:
		return "Available commands:\n• /score - run the analysis now\n• /help - this message"
	}
}

func (w *Watcher) trySend(text string) {
	if err := w.Notifier.SendWithRetry(w.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
