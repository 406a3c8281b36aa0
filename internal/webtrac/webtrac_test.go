package webtrac

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/teebooker/internal/browser"
	"github.com/example/teebooker/internal/domain/booking"
)

// fakeSession simulates just enough of the WebTrac pages for the
// attempt flow: which selectors exist, which buttons and links are
// clickable, and what the results table contains.
type fakeSession struct {
	present  map[string]bool
	buttons  map[string]bool
	links    map[string]bool
	texts    map[string]string
	html     string
	location string

	navErr         error
	failNavigateOn int // 1-based index of the Navigate call that fails
	navCalls       int

	values     map[string]string
	selections map[string]string
	clicks     []string
	textClicks []string
	shots      []string
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		present:    map[string]bool{},
		buttons:    map[string]bool{},
		links:      map[string]bool{},
		texts:      map[string]string{},
		location:   SearchURL,
		values:     map[string]string{},
		selections: map[string]string{},
	}
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	f.navCalls++
	if f.failNavigateOn != 0 && f.navCalls == f.failNavigateOn {
		return errors.New("net::ERR_CONNECTION_RESET")
	}
	return f.navErr
}

func (f *fakeSession) FirstMatch(ctx context.Context, candidates ...string) (string, error) {
	for _, sel := range candidates {
		if f.present[sel] {
			return sel, nil
		}
	}
	return "", browser.ErrNoMatch
}

func (f *fakeSession) SetValue(ctx context.Context, sel, value string) error {
	f.values[sel] = value
	return nil
}

func (f *fakeSession) SelectByText(ctx context.Context, sel, optionText string) error {
	f.selections[sel] = optionText
	return nil
}

func (f *fakeSession) Click(ctx context.Context, sel string) error {
	f.clicks = append(f.clicks, sel)
	return nil
}

func (f *fakeSession) ClickByText(ctx context.Context, text string) error {
	if !f.buttons[text] {
		return fmt.Errorf("click %q: %w", text, browser.ErrNoMatch)
	}
	f.textClicks = append(f.textClicks, text)
	return nil
}

func (f *fakeSession) ClickByTextWithLinks(ctx context.Context, text string) error {
	if !f.buttons[text] && !f.links[text] {
		return fmt.Errorf("click %q: %w", text, browser.ErrNoMatch)
	}
	f.textClicks = append(f.textClicks, text)
	return nil
}

func (f *fakeSession) Text(ctx context.Context, sel string) (string, error) {
	return f.texts[sel], nil
}

func (f *fakeSession) OuterHTML(ctx context.Context, sel string) (string, error) {
	return f.html, nil
}

func (f *fakeSession) Location(ctx context.Context) (string, error) { return f.location, nil }

func (f *fakeSession) Screenshot(ctx context.Context, name string) error {
	f.shots = append(f.shots, name)
	return nil
}

func (f *fakeSession) Sleep(ctx context.Context, d time.Duration) error { return nil }

func (f *fakeSession) Close() error { return nil }

func searchablePage() *fakeSession {
	f := newFakeSession()
	f.present[playerSelectCandidates[0]] = true
	f.present[dateFieldCandidates[0]] = true
	f.present[resultTableCandidates[0]] = true
	f.present[cartButtonCandidates[0]] = true
	f.buttons["Search"] = true
	f.html = resultsTable
	return f
}

func testRequest() booking.Request {
	return booking.Request{
		Date:    time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		TeeTime: "07:00",
		Players: 2,
		Contact: booking.Contact{
			FirstName: "Jane",
			Email:     "jane@example.com",
			Password:  "hunter2",
			Phone:     "555-000-1111",
		},
	}
}

func TestAttemptFillOnly(t *testing.T) {
	f := searchablePage()
	p := New(f, zap.NewNop(), false)
	p.reviewPause = time.Millisecond

	att := p.Attempt(context.Background(), testRequest())

	require.NoError(t, att.Err)
	assert.Equal(t, booking.OutcomeFilled, att.Outcome)

	// filters were applied from the request
	assert.Equal(t, "02/14/2026", f.values[dateFieldCandidates[0]])
	assert.Equal(t, "2", f.selections[playerSelectCandidates[0]])
	assert.Contains(t, f.clicks, cartButtonCandidates[0])

	// the submit action is never invoked when auto-submit is off
	for _, label := range []string{"Continue", "Book", "Submit", "Checkout"} {
		assert.NotContains(t, f.textClicks, label)
	}
}

func TestAttemptAutoSubmitBooked(t *testing.T) {
	f := searchablePage()
	f.buttons["Continue"] = true
	f.present[confirmationCandidates[0]] = true

	p := New(f, zap.NewNop(), true)
	att := p.Attempt(context.Background(), testRequest())

	require.NoError(t, att.Err)
	assert.Equal(t, booking.OutcomeBooked, att.Outcome)
	assert.Contains(t, f.textClicks, "Continue")
	assert.Contains(t, f.shots, "booking_confirmation.png")
}

func TestAttemptAutoSubmitWithoutConfirmation(t *testing.T) {
	f := searchablePage()
	f.buttons["Continue"] = true
	// no confirmation marker appears after submit

	p := New(f, zap.NewNop(), true)
	att := p.Attempt(context.Background(), testRequest())

	assert.Equal(t, booking.OutcomeFormError, att.Outcome)
	require.Error(t, att.Err)
}

func TestAttemptSelectorExhaustion(t *testing.T) {
	f := newFakeSession() // empty page: nothing matches
	p := New(f, zap.NewNop(), false)

	att := p.Attempt(context.Background(), testRequest())

	assert.Equal(t, booking.OutcomeSlotUnavailable, att.Outcome)
	require.Error(t, att.Err)
	assert.ErrorIs(t, att.Err, browser.ErrNoMatch)
	assert.Contains(t, f.shots, "booking_error.png")
}

func TestAttemptSiteUnreachable(t *testing.T) {
	f := newFakeSession()
	f.navErr = errors.New("net::ERR_CONNECTION_REFUSED")
	p := New(f, zap.NewNop(), false)

	att := p.Attempt(context.Background(), testRequest())

	assert.Equal(t, booking.OutcomeSiteUnreachable, att.Outcome)
	require.Error(t, att.Err)
}

// The nav menu renders a Search link before the sidebar button; a page
// offering only the link must not be treated as searchable.
func TestAttemptSearchLinkOnlyIsNotClicked(t *testing.T) {
	f := searchablePage()
	delete(f.buttons, "Search")
	f.links["Search"] = true

	p := New(f, zap.NewNop(), false)
	att := p.Attempt(context.Background(), testRequest())

	assert.Equal(t, booking.OutcomeSlotUnavailable, att.Outcome)
	require.Error(t, att.Err)
	assert.ErrorIs(t, att.Err, browser.ErrNoMatch)
	assert.NotContains(t, f.textClicks, "Search")
}

func TestAttemptLogsConfirmationText(t *testing.T) {
	f := searchablePage()
	f.buttons["Continue"] = true
	f.present[confirmationCandidates[0]] = true
	f.texts[confirmationCandidates[0]] = "  Receipt   #12345  "

	core, logs := observer.New(zapcore.InfoLevel)
	p := New(f, zap.New(core), true)
	att := p.Attempt(context.Background(), testRequest())

	require.NoError(t, att.Err)
	assert.Equal(t, booking.OutcomeBooked, att.Outcome)

	entries := logs.FilterMessage("booking confirmed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Receipt #12345", entries[0].ContextMap()["confirmation"])
}

func TestAttemptTimeNotInResults(t *testing.T) {
	f := searchablePage()
	p := New(f, zap.NewNop(), false)

	req := testRequest()
	req.TeeTime = "11:00" // not in the canned table

	att := p.Attempt(context.Background(), req)
	assert.Equal(t, booking.OutcomeSlotUnavailable, att.Outcome)
	require.Error(t, att.Err)
}

func TestAttemptLoginFlow(t *testing.T) {
	f := searchablePage()
	f.present[loginPasswordCandidates[0]] = true
	f.present[loginUserCandidates[0]] = true
	f.buttons["Login"] = true
	// the active session alert renders its continue action as a link
	f.links["Continue with Login"] = true

	p := New(f, zap.NewNop(), false)
	p.reviewPause = time.Millisecond

	att := p.Attempt(context.Background(), testRequest())

	require.NoError(t, att.Err)
	assert.Equal(t, booking.OutcomeFilled, att.Outcome)
	// username falls back to email when no username is configured
	assert.Equal(t, "jane@example.com", f.values[loginUserCandidates[0]])
	assert.Equal(t, "hunter2", f.values[loginPasswordCandidates[0]])
	assert.Contains(t, f.textClicks, "Login")
	assert.Contains(t, f.textClicks, "Continue with Login")
	// the cart click is repeated after the authenticated re-search
	count := 0
	for _, c := range f.clicks {
		if c == cartButtonCandidates[0] {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

// A navigation failure during the post-login re-search is a site
// problem, not a form problem.
func TestAttemptLoginRedoNavigateFails(t *testing.T) {
	f := searchablePage()
	f.present[loginPasswordCandidates[0]] = true
	f.present[loginUserCandidates[0]] = true
	f.buttons["Login"] = true
	f.failNavigateOn = 2 // the re-search navigation after login

	p := New(f, zap.NewNop(), false)
	att := p.Attempt(context.Background(), testRequest())

	assert.Equal(t, booking.OutcomeSiteUnreachable, att.Outcome)
	require.Error(t, att.Err)
}

func TestFindSlots(t *testing.T) {
	f := searchablePage()
	p := New(f, zap.NewNop(), false)

	slots, err := p.FindSlots(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.True(t, slots[0].Available)
	assert.False(t, slots[1].Available)
	// filters came from the request and nothing was carted
	assert.Equal(t, "02/14/2026", f.values[dateFieldCandidates[0]])
	assert.Empty(t, f.clicks)
}
