package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/teebooker/internal/browser"
	"github.com/example/teebooker/internal/monitor"
	"github.com/example/teebooker/internal/webtrac"
)

func newMonitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Poll for preferred tee times and book the first one that opens up",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			session, err := browser.NewChromeSession(ctx, browser.Options{
				Headless:      cfg.Automation.Headless,
				ScreenshotDir: cfg.Automation.ScreenshotDir,
			}, log)
			if err != nil {
				return err
			}
			defer session.Close()

			m := &monitor.Monitor{
				Provider:       webtrac.New(session, log, cfg.Automation.AutoSubmit),
				Clock:          monitor.NewClock(),
				Log:            log,
				PreferredTimes: cfg.Preferences.PreferredTimes,
				DaysAhead:      cfg.Preferences.DaysAhead,
				Players:        cfg.Preferences.NumPlayers,
				Contact:        contactFrom(cfg),
				CheckInterval:  cfg.CheckInterval(),
			}

			att, err := m.Run(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					log.Info("monitor stopped")
					return nil
				}
				return err
			}
			notifyResult(ctx, cfg, log, att)
			log.Info("monitor finished",
				zap.String("date", att.Date.Format("01/02/2006")),
				zap.String("time", att.TeeTime),
				zap.String("outcome", string(att.Outcome)))
			return nil
		},
	}
}
