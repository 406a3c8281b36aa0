package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNoMatch is returned by FirstMatch when every candidate selector
// failed to locate an element on the live page.
var ErrNoMatch = errors.New("no selector candidate matched")

// Session is the automation capability the booking flow drives. The
// booking code treats it as a black box so tests can substitute a fake.
type Session interface {
	// Navigate loads the URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error

	// FirstMatch tries candidate selectors in order and returns the
	// first one present on the page. First match wins; remaining
	// candidates are not consulted. Returns ErrNoMatch on exhaustion.
	FirstMatch(ctx context.Context, candidates ...string) (string, error)

	// SetValue fills an input, dispatching input/change events so the
	// page's own handlers fire.
	SetValue(ctx context.Context, sel, value string) error

	// SelectByText picks a <select> option by its visible text,
	// dispatching a change event.
	SelectByText(ctx context.Context, sel, optionText string) error

	Click(ctx context.Context, sel string) error

	// ClickByText clicks the first button or submit input whose trimmed
	// text equals the given string. Anchors are excluded so a nav menu
	// link sharing a label with a form button is never picked up.
	ClickByText(ctx context.Context, text string) error

	// ClickByTextWithLinks is ClickByText but also considers anchors;
	// some interstitials render their continue action as a link.
	ClickByTextWithLinks(ctx context.Context, text string) error

	Text(ctx context.Context, sel string) (string, error)
	OuterHTML(ctx context.Context, sel string) (string, error)
	Location(ctx context.Context) (string, error)

	// Screenshot captures the viewport into a fixed-name file,
	// overwriting any previous capture of the same name.
	Screenshot(ctx context.Context, name string) error

	Sleep(ctx context.Context, d time.Duration) error

	Close() error
}
