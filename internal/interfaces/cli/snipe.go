package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/teebooker/internal/browser"
	"github.com/example/teebooker/internal/domain/booking"
	"github.com/example/teebooker/internal/monitor"
	"github.com/example/teebooker/internal/webtrac"
)

// snipe waits for the hour new tee times are released, then fires one
// auto-submitted booking for an explicit date and time.
func newSnipeCmd() *cobra.Command {
	var dateStr, teeTime, at string
	var players int

	c := &cobra.Command{
		Use:   "snipe",
		Short: "Wait until the release hour, then book a specific date/time immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			date, err := time.Parse(flagDateLayout, dateStr)
			if err != nil {
				return fmt.Errorf("invalid --date (want MM/DD/YYYY): %w", err)
			}
			release, err := time.Parse("15:04", at)
			if err != nil {
				return fmt.Errorf("invalid --at (want HH:MM): %w", err)
			}
			if players == 0 {
				players = cfg.Preferences.NumPlayers
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			clk := monitor.NewClock()
			now := clk.Now()
			runAt := time.Date(now.Year(), now.Month(), now.Day(),
				release.Hour(), release.Minute(), 0, 0, now.Location())
			if !runAt.After(now) {
				runAt = runAt.AddDate(0, 0, 1)
			}
			log.Info("waiting for release window",
				zap.Time("run_at", runAt),
				zap.Duration("wait", runAt.Sub(now)))
			if err := clk.Sleep(ctx, runAt.Sub(now)); err != nil {
				return err
			}

			log.Info("release window open, booking",
				zap.String("date", dateStr),
				zap.String("time", teeTime),
				zap.Int("players", players))

			session, err := browser.NewChromeSession(ctx, browser.Options{
				Headless:      cfg.Automation.Headless,
				ScreenshotDir: cfg.Automation.ScreenshotDir,
			}, log)
			if err != nil {
				return err
			}
			defer session.Close()

			// sniping is pointless without submission
			provider := webtrac.New(session, log, true)
			att := provider.Attempt(ctx, booking.Request{
				Date:    date,
				TeeTime: teeTime,
				Players: players,
				Contact: contactFrom(cfg),
			})
			notifyResult(ctx, cfg, log, att)

			if att.Outcome != booking.OutcomeBooked {
				return fmt.Errorf("snipe failed: %s", att.Outcome)
			}
			log.Info("snipe booked", zap.String("date", dateStr), zap.String("time", teeTime))
			return nil
		},
	}

	c.Flags().StringVar(&dateStr, "date", "", "target date MM/DD/YYYY")
	c.Flags().StringVar(&teeTime, "time", "", "tee time HH:MM 24h")
	c.Flags().StringVar(&at, "at", "07:00", "wall-clock release time HH:MM to wait for")
	c.Flags().IntVar(&players, "players", 0, "player count (default: config num_players)")
	_ = c.MarkFlagRequired("date")
	_ = c.MarkFlagRequired("time")
	return c
}
