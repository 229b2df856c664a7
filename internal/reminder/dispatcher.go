package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"spaces-community-backend/config"
	"spaces-community-backend/internal/apperr"
	"spaces-community-backend/internal/mailer"
	"spaces-community-backend/internal/model"
	"spaces-community-backend/internal/store"
)

// Outcome records the result of processing one reminder subscription.
type Outcome struct {
	ReminderID string `json:"reminderId"`
	Email      string `json:"email"`
	MessageID  string `json:"messageId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Report summarizes one dispatcher invocation.
type Report struct {
	Due      int       `json:"due"`
	Sent     int       `json:"sent"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`
}

// Dispatcher finds due, unsent reminder subscriptions, sends their
// notifications and marks them sent. Marking happens after the send, so a
// crash in between re-sends on the next invocation: delivery is
// at-least-once, never zero.
type Dispatcher struct {
	store  store.Store
	sender mailer.Sender

	enabled   bool
	interval  time.Duration
	lookahead time.Duration
	timeout   time.Duration
	workers   int
}

// NewDispatcher creates a Dispatcher from configuration.
func NewDispatcher(s store.Store, sender mailer.Sender, cfg *config.DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		store:     s,
		sender:    sender,
		enabled:   cfg.Enabled,
		interval:  time.Duration(cfg.IntervalSeconds) * time.Second,
		lookahead: time.Duration(cfg.LookaheadMinutes) * time.Minute,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		workers:   cfg.Workers,
	}
}

// Run starts the periodic dispatch loop.
func (d *Dispatcher) Run(ctx context.Context) {
	if !d.enabled {
		log.Println("Reminder dispatcher is disabled. Not starting.")
		return
	}
	log.Println("Starting reminder dispatcher...")

	timer := time.NewTimer(d.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder dispatcher shutting down.")
			return
		case <-timer.C:
			if report, err := d.DispatchOnce(ctx); err != nil {
				log.Printf("Dispatch cycle failed: %v", err)
			} else if report.Due > 0 {
				log.Printf("Dispatch cycle finished: %d due, %d sent, %d failed", report.Due, report.Sent, report.Failed)
			}
			timer.Reset(d.interval)
		}
	}
}

// DispatchOnce processes every due subscription with per-item isolation: one
// failure never aborts the siblings. The invocation is bounded by the
// configured timeout; unprocessed subscriptions stay unmarked and are picked
// up on the next run. The partial report is returned alongside the timeout.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	due, err := d.store.DueReminders(ctx, time.Now().UTC(), d.lookahead)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUpstream, err)
	}

	report := &Report{Due: len(due)}
	if len(due) == 0 {
		return report, nil
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, d.workers)
	)
	for _, rem := range due {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(rem model.SpaceReminder) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := d.process(ctx, rem)
			mu.Lock()
			report.Outcomes = append(report.Outcomes, outcome)
			if outcome.Error == "" {
				report.Sent++
			} else {
				report.Failed++
			}
			mu.Unlock()
		}(rem)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return report, fmt.Errorf("%w: dispatch invocation exceeded its budget", apperr.ErrTimeout)
	}
	return report, nil
}

// process sends one reminder and marks it sent. A send that succeeds but
// fails to mark leaves the row unsent and will be re-sent next run.
func (d *Dispatcher) process(ctx context.Context, rem model.SpaceReminder) Outcome {
	outcome := Outcome{ReminderID: rem.ID, Email: rem.Email}

	msg, err := mailer.ReminderMessage(rem.Email, mailer.ReminderData{
		Title:        rem.Title,
		ScheduledFor: rem.ScheduledFor,
		GuestSpeaker: rem.GuestSpeaker,
		Description:  rem.Description,
		SpaceID:      rem.SpaceID,
	})
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	msgID, err := d.sender.Send(ctx, msg)
	if err != nil {
		log.Printf("Error sending reminder %s to %s: %v", rem.ID, rem.Email, err)
		outcome.Error = err.Error()
		return outcome
	}
	outcome.MessageID = msgID

	if err := d.store.MarkReminderSent(ctx, rem.ID); err != nil {
		log.Printf("Error marking reminder %s as sent: %v", rem.ID, err)
		outcome.Error = err.Error()
	}
	return outcome
}
