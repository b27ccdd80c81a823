// Package remind runs the daily expiry reminder sweep: for every
// registered person and every tracked date field it fires a notification
// when the remaining validity hits a configured checkpoint.
package remind

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crewcheck/crewcheck/internal/config"
	"github.com/crewcheck/crewcheck/internal/eligibility"
	"github.com/crewcheck/crewcheck/internal/model"
	"github.com/crewcheck/crewcheck/internal/store"
)

// Notifier delivers one reminder text to one chat.
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Reminder is one matched checkpoint for one person and field.
type Reminder struct {
	PersonID int64
	FIO      string
	Field    model.FieldID
	Days     int
	Text     string
}

// Checker runs the daily sweep in the background.
type Checker struct {
	store    store.Store
	notifier Notifier
	cfg      config.RemindConfig
	ownerID  int64
	now      func() time.Time
}

// NewChecker creates a background reminder checker.
func NewChecker(st store.Store, n Notifier, cfg config.RemindConfig, ownerID int64) *Checker {
	return &Checker{
		store:    st,
		notifier: n,
		cfg:      cfg,
		ownerID:  ownerID,
		now:      time.Now,
	}
}

// Run fires the sweep once per day at the configured hour. It blocks
// until ctx is cancelled.
func (c *Checker) Run(ctx context.Context) {
	log := zap.L().With(zap.String("component", "remind.checker"))
	log.Info("starting reminder checker",
		zap.Int("hour", c.cfg.Hour),
		zap.Ints("checkpoints", c.cfg.Checkpoints),
	)

	for {
		wait := time.Until(c.nextFire(c.now()))
		select {
		case <-ctx.Done():
			log.Info("reminder checker stopped")
			return
		case <-time.After(wait):
			if err := c.SweepAndNotify(ctx); err != nil {
				log.Error("remind: sweep failed", zap.Error(err))
			}
		}
	}
}

// nextFire returns the next occurrence of the configured hour after now.
func (c *Checker) nextFire(now time.Time) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), c.cfg.Hour, 0, 0, 0, now.Location())
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}

// Sweep evaluates every registered person and collects the reminders whose
// remaining days match a checkpoint. One person's bad record never aborts
// the rest.
func (c *Checker) Sweep(ctx context.Context) ([]Reminder, error) {
	persons, err := c.store.ListRegistered(ctx)
	if err != nil {
		return nil, err
	}
	now := c.now()

	var reminders []Reminder
	for i := range persons {
		p := &persons[i]
		rep := eligibility.Evaluate(p, now)
		for _, e := range rep.Entries {
			if !e.HasDays {
				continue
			}
			for _, cp := range c.cfg.Checkpoints {
				if e.Days != cp {
					continue
				}
				reminders = append(reminders, Reminder{
					PersonID: p.ID,
					FIO:      p.FIO,
					Field:    e.Field,
					Days:     e.Days,
					Text:     reminderText(p.FIO, e),
				})
			}
		}
	}
	return reminders, nil
}

func reminderText(fio string, e eligibility.Entry) string {
	if e.Days <= 0 {
		return fmt.Sprintf("⏰ %s: %s истекает сегодня (%s)", fio, e.Label, e.Display)
	}
	return fmt.Sprintf("⏰ %s: %s истекает через %d дн. (%s)", fio, e.Label, e.Days, e.Display)
}

// SweepAndNotify runs the sweep and fans the reminders out to the person,
// the owner and every admin. Delivery errors are logged, never fatal.
func (c *Checker) SweepAndNotify(ctx context.Context) error {
	reminders, err := c.Sweep(ctx)
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		zap.L().Debug("remind: nothing due")
		return nil
	}

	admins, err := c.store.ListAdmins(ctx)
	if err != nil {
		return err
	}
	watchers := make(map[int64]struct{}, len(admins)+1)
	watchers[c.ownerID] = struct{}{}
	for _, id := range admins {
		watchers[id] = struct{}{}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, r := range reminders {
		g.Go(func() error {
			c.deliver(gctx, r.PersonID, r.Text)
			for id := range watchers {
				if id != r.PersonID {
					c.deliver(gctx, id, r.Text)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	zap.L().Info("remind: sweep complete", zap.Int("reminders", len(reminders)))
	return nil
}

func (c *Checker) deliver(ctx context.Context, chatID int64, text string) {
	if err := c.notifier.Notify(ctx, chatID, text); err != nil {
		zap.L().Warn("remind: notify failed",
			zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
