package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/example/teebooker/internal/domain/booking"
)

// Monitor repeatedly tries the preferred tee times against a moving
// target date until one attempt succeeds or the context is canceled.
// There is no failure-terminal state: a fully failed pass just sleeps
// for the check interval and starts over.
type Monitor struct {
	Provider booking.Provider
	Clock    Clock
	Log      *zap.Logger

	PreferredTimes []string
	DaysAhead      int
	Players        int
	Contact        booking.Contact
	CheckInterval  time.Duration
}

// TargetDate derives the booking date from the current wall clock. It
// is recomputed every pass so a long-running process tracks the window
// across midnight instead of freezing the date computed at startup.
func (m *Monitor) TargetDate(now time.Time) time.Time {
	d := now.AddDate(0, 0, m.DaysAhead)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// Run loops until an attempt succeeds. Returns the winning attempt, or
// the context error on cancellation.
func (m *Monitor) Run(ctx context.Context) (booking.Attempt, error) {
	m.Log.Info("monitor started",
		zap.Strings("preferred_times", m.PreferredTimes),
		zap.Int("days_ahead", m.DaysAhead),
		zap.Duration("check_interval", m.CheckInterval))

	for {
		target := m.TargetDate(m.Clock.Now())

		for _, teeTime := range m.PreferredTimes {
			if err := ctx.Err(); err != nil {
				return booking.Attempt{}, err
			}
			m.Log.Info("checking tee time",
				zap.String("date", target.Format("2006-01-02")),
				zap.String("time", teeTime))

			att := m.Provider.Attempt(ctx, booking.Request{
				Date:    target,
				TeeTime: teeTime,
				Players: m.Players,
				Contact: m.Contact,
			})
			if att.Outcome.Success() {
				m.Log.Info("booking attempt succeeded",
					zap.String("date", target.Format("2006-01-02")),
					zap.String("time", teeTime),
					zap.String("outcome", string(att.Outcome)))
				return att, nil
			}
		}

		// one sleep per full failed pass, not per time tried
		m.Log.Info("no preferred time available, sleeping",
			zap.Duration("interval", m.CheckInterval))
		if err := m.Clock.Sleep(ctx, m.CheckInterval); err != nil {
			return booking.Attempt{}, err
		}
	}
}
