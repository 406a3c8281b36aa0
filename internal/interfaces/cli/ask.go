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
	"github.com/example/teebooker/internal/notify"
	"github.com/example/teebooker/internal/webtrac"
)

// ask takes the kind of message the iMessage prompt flow used to
// collect ("tomorrow 7am 2 players", "what's available saturday") and
// either books it or just reports what's open.
func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `ask "<message>"`,
		Short: `Act on a natural-language request, e.g. "tomorrow 7am 2 players"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			parsed := notify.ParseBookingRequest(args[0], time.Now())
			log.Info("parsed booking request",
				zap.String("date", parsed.Date.Format("01/02/2006")),
				zap.String("time", parsed.TeeTime),
				zap.Int("players", parsed.Players),
				zap.Bool("search_only", parsed.SearchOnly))

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

			provider := webtrac.New(session, log, cfg.Automation.AutoSubmit)
			req := booking.Request{
				Date:    parsed.Date,
				TeeTime: parsed.TeeTime,
				Players: parsed.Players,
				Contact: contactFrom(cfg),
			}

			if parsed.SearchOnly {
				slots, err := provider.FindSlots(ctx, req)
				if err != nil {
					return err
				}
				open := 0
				for _, s := range slots {
					if !s.Available {
						continue
					}
					log.Info("available tee time",
						zap.String("time", s.Time),
						zap.String("holes", s.Holes),
						zap.String("course", s.Course))
					open++
				}
				log.Info("search finished",
					zap.String("date", parsed.Date.Format("01/02/2006")),
					zap.Int("open", open))
				return nil
			}

			att := provider.Attempt(ctx, req)
			notifyResult(ctx, cfg, log, att)
			if !att.Outcome.Success() {
				return fmt.Errorf("booking not completed: %s", att.Outcome)
			}
			return nil
		},
	}
}
