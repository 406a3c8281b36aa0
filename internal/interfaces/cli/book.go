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
	"github.com/example/teebooker/internal/config"
	"github.com/example/teebooker/internal/domain/booking"
	"github.com/example/teebooker/internal/notify"
	"github.com/example/teebooker/internal/webtrac"
)

const flagDateLayout = "01/02/2006"

func newBookCmd() *cobra.Command {
	var dateStr, teeTime string

	c := &cobra.Command{
		Use:   "book",
		Short: "Run a single booking attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			date := time.Now().AddDate(0, 0, cfg.Preferences.DaysAhead)
			if dateStr != "" {
				date, err = time.Parse(flagDateLayout, dateStr)
				if err != nil {
					return fmt.Errorf("invalid --date (want MM/DD/YYYY): %w", err)
				}
			}
			if teeTime == "" {
				teeTime = cfg.Preferences.PreferredTimes[0]
			}

			session, err := browser.NewChromeSession(ctx, browser.Options{
				Headless:      cfg.Automation.Headless,
				ScreenshotDir: cfg.Automation.ScreenshotDir,
			}, log)
			if err != nil {
				return err
			}
			defer session.Close()

			provider := webtrac.New(session, log, cfg.Automation.AutoSubmit)
			att := provider.Attempt(ctx, booking.Request{
				Date:    date,
				TeeTime: teeTime,
				Players: cfg.Preferences.NumPlayers,
				Contact: contactFrom(cfg),
			})
			notifyResult(ctx, cfg, log, att)

			if !att.Outcome.Success() {
				return fmt.Errorf("booking not completed: %s", att.Outcome)
			}
			log.Info("attempt finished", zap.String("outcome", string(att.Outcome)))
			return nil
		},
	}

	c.Flags().StringVar(&dateStr, "date", "", "target date MM/DD/YYYY (default: today + days_ahead)")
	c.Flags().StringVar(&teeTime, "time", "", "tee time HH:MM 24h (default: first preferred time)")
	return c
}

func notifyResult(ctx context.Context, cfg config.Config, log *zap.Logger, att booking.Attempt) {
	n := notify.IMessage{Phone: cfg.UserInfo.Phone, Log: log}
	n.BookingResult(ctx, att)
}
