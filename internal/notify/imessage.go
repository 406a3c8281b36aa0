package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/teebooker/internal/domain/booking"
)

const sendTimeout = 15 * time.Second

// IMessage sends booking results over iMessage via osascript. It only
// works on macOS with Messages signed in; everywhere else (or with no
// phone configured) it is a silent no-op.
type IMessage struct {
	Phone string
	Log   *zap.Logger
}

func (n IMessage) BookingResult(ctx context.Context, att booking.Attempt) {
	if n.Phone == "" {
		return
	}
	if _, err := exec.LookPath("osascript"); err != nil {
		return
	}

	date := att.Date.Format("01/02/2006")
	var msg string
	switch att.Outcome {
	case booking.OutcomeBooked:
		msg = fmt.Sprintf("Tee time BOOKED: %s at %s", date, att.TeeTime)
	case booking.OutcomeFilled:
		msg = fmt.Sprintf("Tee time found for %s at %s - form filled, complete it in the browser", date, att.TeeTime)
	case booking.OutcomeSlotUnavailable:
		msg = fmt.Sprintf("No availability for %s at %s", date, att.TeeTime)
	default:
		msg = fmt.Sprintf("Booking for %s at %s failed (%s)", date, att.TeeTime, att.Outcome)
	}

	if err := n.send(ctx, msg); err != nil {
		n.Log.Warn("imessage send failed", zap.Error(err))
		return
	}
	n.Log.Info("sent imessage notification", zap.String("phone", n.Phone))
}

func (n IMessage) send(ctx context.Context, message string) error {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(message)
	script := fmt.Sprintf(`
tell application "Messages"
	set targetService to 1st account whose service type = iMessage
	set targetBuddy to participant "%s" of targetService
	send "%s" to targetBuddy
end tell`, n.Phone, escaped)

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
