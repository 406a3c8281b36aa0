package webtrac

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/teebooker/internal/browser"
	"github.com/example/teebooker/internal/domain/booking"
)

// SearchURL is the tee time search page of the Charleston Municipal
// WebTrac instance.
const SearchURL = "https://sccharlestonweb.myvscloud.com/webtrac/web/search.html?module=GR&Search=no&interfaceparameter=webtrac_golf"

const (
	siteDateLayout   = "01/02/2006"
	postClickSettle  = 3 * time.Second
	postFilterSettle = 500 * time.Millisecond
	confirmSettle    = 5 * time.Second
)

// DefaultReviewPause matches the manual-review window the booker leaves
// the browser open for when auto-submit is off.
const DefaultReviewPause = 120 * time.Second

// Provider books tee times on a WebTrac site by driving a browser
// session through the search, cart and checkout pages.
type Provider struct {
	session     browser.Session
	log         *zap.Logger
	autoSubmit  bool
	reviewPause time.Duration
}

func New(session browser.Session, log *zap.Logger, autoSubmit bool) *Provider {
	return &Provider{
		session:     session,
		log:         log,
		autoSubmit:  autoSubmit,
		reviewPause: DefaultReviewPause,
	}
}

func (p *Provider) Name() string { return "webtrac" }

// Attempt runs one full booking pass for the requested date and time.
// Every failure mode is folded into the attempt outcome; nothing
// propagates as a fault to the caller.
func (p *Provider) Attempt(ctx context.Context, req booking.Request) booking.Attempt {
	att := booking.Attempt{Date: req.Date, TeeTime: req.TeeTime}
	att.Outcome, att.Err = p.attempt(ctx, req)
	if att.Err != nil {
		p.log.Warn("attempt failed",
			zap.String("date", req.Date.Format(siteDateLayout)),
			zap.String("tee_time", req.TeeTime),
			zap.String("outcome", string(att.Outcome)),
			zap.Error(att.Err))
		_ = p.session.Screenshot(ctx, "booking_error.png")
	}
	return att
}

func (p *Provider) attempt(ctx context.Context, req booking.Request) (booking.Outcome, error) {
	p.log.Info("navigating to booking site", zap.String("url", SearchURL))
	if err := p.session.Navigate(ctx, SearchURL); err != nil {
		return booking.OutcomeSiteUnreachable, err
	}
	_ = p.session.Screenshot(ctx, "booking_page_1.png")

	if err := p.setFilters(ctx, req); err != nil {
		return classify(err), err
	}
	_ = p.session.Screenshot(ctx, "booking_page_2.png")
	_ = p.session.Sleep(ctx, postFilterSettle)

	if err := p.search(ctx); err != nil {
		return classify(err), err
	}
	_ = p.session.Screenshot(ctx, "booking_page_3.png")

	slot, err := p.findSlot(ctx, req.TeeTime)
	if err != nil {
		return booking.OutcomeSlotUnavailable, err
	}
	p.log.Info("found tee time",
		zap.String("time", slot.Time),
		zap.String("course", slot.Course))

	if err := p.addToCart(ctx); err != nil {
		return classify(err), err
	}

	loggedIn, err := p.maybeLogin(ctx, req.Contact)
	if err != nil {
		return booking.OutcomeFormError, err
	}
	if loggedIn {
		// the cart click before login was discarded by the redirect;
		// search again and re-add on the authenticated session
		if oc, err := p.redoSearch(ctx, req); err != nil {
			return oc, err
		}
	}

	// "Tee Time Member Selection" interstitial, shown whether or not a
	// login was needed
	if err := p.session.ClickByText(ctx, "Continue"); err == nil {
		p.log.Info("member selection page, continuing")
		_ = p.session.Sleep(ctx, postClickSettle)
		_ = p.session.Screenshot(ctx, "booking_page_7.png")
	}

	p.fillContact(ctx, req.Contact)
	_ = p.session.Screenshot(ctx, "booking_page_4.png")

	if !p.autoSubmit {
		p.log.Info("auto-submit disabled, leaving browser open for manual review",
			zap.Duration("pause", p.reviewPause))
		if err := p.session.Sleep(ctx, p.reviewPause); err != nil {
			return booking.OutcomeFilled, nil
		}
		return booking.OutcomeFilled, nil
	}
	return p.submit(ctx)
}

// setFilters fills the search form: player count, date, begin time.
func (p *Provider) setFilters(ctx context.Context, req booking.Request) error {
	sel, err := p.session.FirstMatch(ctx, playerSelectCandidates...)
	if err != nil {
		return fmt.Errorf("player count dropdown: %w", err)
	}
	if err := p.session.SelectByText(ctx, sel, strconv.Itoa(req.Players)); err != nil {
		return fmt.Errorf("select %d players: %w", req.Players, err)
	}

	sel, err = p.session.FirstMatch(ctx, dateFieldCandidates...)
	if err != nil {
		return fmt.Errorf("date field: %w", err)
	}
	dateStr := req.Date.Format(siteDateLayout)
	if err := p.session.SetValue(ctx, sel, dateStr); err != nil {
		return fmt.Errorf("set date %s: %w", dateStr, err)
	}
	p.log.Info("set search date", zap.String("date", dateStr))

	// begin time filter is best effort: the results are matched against
	// the requested time anyway
	if sel, err := p.session.FirstMatch(ctx, beginTimeCandidates...); err == nil {
		for _, variant := range booking.TimeVariants(req.TeeTime) {
			if err := p.session.SelectByText(ctx, sel, variant); err == nil {
				p.log.Info("selected begin time", zap.String("time", variant))
				break
			}
		}
	}
	return nil
}

func (p *Provider) search(ctx context.Context) error {
	// the sidebar Search button, not the nav menu link
	if err := p.session.ClickByText(ctx, "Search"); err != nil {
		return fmt.Errorf("search button: %w", err)
	}
	return p.session.Sleep(ctx, postClickSettle)
}

func (p *Provider) findSlot(ctx context.Context, teeTime string) (booking.Slot, error) {
	sel, err := p.session.FirstMatch(ctx, resultTableCandidates...)
	if err != nil {
		return booking.Slot{}, fmt.Errorf("results table: %w", err)
	}
	html, err := p.session.OuterHTML(ctx, sel)
	if err != nil {
		return booking.Slot{}, fmt.Errorf("read results table: %w", err)
	}
	slots, err := ParseSlots(html)
	if err != nil {
		return booking.Slot{}, err
	}
	slot, ok := booking.MatchSlot(teeTime, slots)
	if !ok {
		return booking.Slot{}, fmt.Errorf("no available slot at %s (%d rows)", teeTime, len(slots))
	}
	return slot, nil
}

func (p *Provider) addToCart(ctx context.Context) error {
	sel, err := p.session.FirstMatch(ctx, cartButtonCandidates...)
	if err != nil {
		return fmt.Errorf("available cart button: %w", err)
	}
	if err := p.session.Click(ctx, sel); err != nil {
		return fmt.Errorf("click cart button: %w", err)
	}
	return p.session.Sleep(ctx, postClickSettle)
}

// maybeLogin signs in with the configured credentials if the site
// redirected to its login page. Returns true if a login happened.
func (p *Provider) maybeLogin(ctx context.Context, contact booking.Contact) (bool, error) {
	loc, err := p.session.Location(ctx)
	if err != nil {
		return false, err
	}
	passSel, passErr := p.session.FirstMatch(ctx, loginPasswordCandidates...)
	if !strings.Contains(strings.ToLower(loc), "login") && passErr != nil {
		return false, nil
	}
	p.log.Info("login page detected, signing in")

	username := contact.Username
	if username == "" {
		username = contact.Email
	}
	if userSel, err := p.session.FirstMatch(ctx, loginUserCandidates...); err == nil {
		if err := p.session.SetValue(ctx, userSel, username); err != nil {
			return false, fmt.Errorf("fill username: %w", err)
		}
	}
	if passErr == nil {
		if err := p.session.SetValue(ctx, passSel, contact.Password); err != nil {
			return false, fmt.Errorf("fill password: %w", err)
		}
	}
	if err := p.session.ClickByText(ctx, "Login"); err != nil {
		return false, fmt.Errorf("login button: %w", err)
	}
	_ = p.session.Sleep(ctx, postClickSettle)

	// "Active Session Alert" when a previous session is still open;
	// the continue action can render as a link rather than a button
	if err := p.session.ClickByTextWithLinks(ctx, "Continue with Login"); err == nil {
		p.log.Info("active session alert, continuing with login")
		_ = p.session.Sleep(ctx, postClickSettle)
	}
	_ = p.session.Screenshot(ctx, "booking_page_after_login.png")
	return true, nil
}

// redoSearch repeats the filter + search + add-to-cart sequence after a
// login redirect dropped the original cart click.
func (p *Provider) redoSearch(ctx context.Context, req booking.Request) (booking.Outcome, error) {
	if err := p.session.Navigate(ctx, SearchURL); err != nil {
		return booking.OutcomeSiteUnreachable, err
	}
	if err := p.setFilters(ctx, req); err != nil {
		return classify(err), err
	}
	if err := p.search(ctx); err != nil {
		return classify(err), err
	}
	_ = p.session.Screenshot(ctx, "booking_page_5.png")
	if _, err := p.findSlot(ctx, req.TeeTime); err != nil {
		return booking.OutcomeSlotUnavailable, err
	}
	if err := p.addToCart(ctx); err != nil {
		return classify(err), err
	}
	_ = p.session.Screenshot(ctx, "booking_page_6.png")
	return "", nil
}

// fillContact populates whichever reservation form fields are present.
// WebTrac usually carries these over from the account, so each field is
// best effort.
func (p *Provider) fillContact(ctx context.Context, contact booking.Contact) {
	fields := []struct {
		candidates []string
		value      string
	}{
		{firstNameCandidates, contact.FirstName},
		{lastNameCandidates, contact.LastName},
		{emailCandidates, contact.Email},
		{phoneCandidates, contact.Phone},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		sel, err := p.session.FirstMatch(ctx, f.candidates...)
		if err != nil {
			continue
		}
		_ = p.session.SetValue(ctx, sel, f.value)
	}
}

// submit clicks the final checkout Continue and requires a confirmation
// marker to call the booking done.
func (p *Provider) submit(ctx context.Context) (booking.Outcome, error) {
	clicked := false
	for _, label := range []string{"Continue", "Book", "Submit", "Checkout"} {
		if err := p.session.ClickByText(ctx, label); err == nil {
			clicked = true
			break
		}
	}
	if !clicked {
		return booking.OutcomeFormError, fmt.Errorf("final confirm button: %w", browser.ErrNoMatch)
	}
	_ = p.session.Sleep(ctx, confirmSettle)
	_ = p.session.Screenshot(ctx, "booking_confirmation.png")

	sel, err := p.session.FirstMatch(ctx, confirmationCandidates...)
	if err != nil {
		return booking.OutcomeFormError, fmt.Errorf("no confirmation marker after submit: %w", err)
	}
	marker, _ := p.session.Text(ctx, sel)
	p.log.Info("booking confirmed", zap.String("confirmation", normalizeSpace(marker)))
	return booking.OutcomeBooked, nil
}

// FindSlots runs the search for a date without adding anything to the
// cart and returns every parsed result row, including sold out ones.
func (p *Provider) FindSlots(ctx context.Context, req booking.Request) ([]booking.Slot, error) {
	if err := p.session.Navigate(ctx, SearchURL); err != nil {
		return nil, err
	}
	if err := p.setFilters(ctx, req); err != nil {
		return nil, err
	}
	if err := p.search(ctx); err != nil {
		return nil, err
	}
	_ = p.session.Screenshot(ctx, "booking_page_3.png")

	sel, err := p.session.FirstMatch(ctx, resultTableCandidates...)
	if err != nil {
		return nil, fmt.Errorf("results table: %w", err)
	}
	html, err := p.session.OuterHTML(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("read results table: %w", err)
	}
	return ParseSlots(html)
}

// classify maps an attempt error to its outcome. Selector exhaustion
// means the page did not offer what we were looking for, which is
// indistinguishable from the slot being unavailable.
func classify(err error) booking.Outcome {
	if errors.Is(err, browser.ErrNoMatch) {
		return booking.OutcomeSlotUnavailable
	}
	return booking.OutcomeFormError
}
