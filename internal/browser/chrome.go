package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultOpTimeout  = 30 * time.Second
	navTimeout        = 60 * time.Second
	navRetryInterval  = 2 * time.Second
	navRetryAttempts  = 2
	postNavigateSleep = 2 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

type Options struct {
	Headless      bool
	ScreenshotDir string
}

// ChromeSession drives a single Chrome instance via chromedp. One
// session corresponds to one browser; it is not safe for concurrent use.
type ChromeSession struct {
	ctx     context.Context
	cancels []context.CancelFunc
	opts    Options
	log     *zap.Logger
}

func NewChromeSession(parent context.Context, opts Options, log *zap.Logger) (*ChromeSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &ChromeSession{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
		opts:    opts,
		log:     log,
	}
	// start Chrome up front so construction fails fast
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return s, nil
}

func (s *ChromeSession) Close() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	return nil
}

// run executes actions on the browser context with a timeout, honoring
// cancellation of the caller's context.
func (s *ChromeSession) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(opCtx, actions...)
}

func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	op := func() error {
		return s.run(ctx, navTimeout,
			chromedp.Navigate(url),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Sleep(postNavigateSleep),
		)
	}
	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(navRetryInterval), navRetryAttempts),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *ChromeSession) FirstMatch(ctx context.Context, candidates ...string) (string, error) {
	for _, sel := range candidates {
		var found bool
		err := s.run(ctx, defaultOpTimeout,
			chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%q) !== null`, sel), &found),
		)
		if err != nil {
			return "", err
		}
		if found {
			return sel, nil
		}
	}
	return "", ErrNoMatch
}

func (s *ChromeSession) SetValue(ctx context.Context, sel, value string) error {
	// Use the native value setter so frameworks listening for
	// input/change events see the write, same trick WebTrac's own
	// date picker needs.
	js := fmt.Sprintf(`(function() {
		const el = document.querySelector(%q);
		if (!el) return false;
		const setter = Object.getOwnPropertyDescriptor(window.HTMLInputElement.prototype, 'value').set;
		setter.call(el, %q);
		el.dispatchEvent(new Event('input', {bubbles: true}));
		el.dispatchEvent(new Event('change', {bubbles: true}));
		return true;
	})()`, sel, value)
	var ok bool
	if err := s.run(ctx, defaultOpTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("set value %q: %w", sel, ErrNoMatch)
	}
	return nil
}

func (s *ChromeSession) SelectByText(ctx context.Context, sel, optionText string) error {
	js := fmt.Sprintf(`(function() {
		const el = document.querySelector(%q);
		if (!el || !el.options) return false;
		for (const o of el.options) {
			if (o.text.trim().toLowerCase() === %q.toLowerCase() || o.value === %q) {
				el.value = o.value;
				el.dispatchEvent(new Event('change', {bubbles: true}));
				return true;
			}
		}
		return false;
	})()`, sel, optionText, optionText)
	var ok bool
	if err := s.run(ctx, defaultOpTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("select option %q in %q: %w", optionText, sel, ErrNoMatch)
	}
	return nil
}

func (s *ChromeSession) Click(ctx context.Context, sel string) error {
	return s.run(ctx, defaultOpTimeout, chromedp.Click(sel, chromedp.ByQuery))
}

func (s *ChromeSession) ClickByText(ctx context.Context, text string) error {
	return s.clickText(ctx, text, `button, input[type="submit"], input[type="button"]`)
}

func (s *ChromeSession) ClickByTextWithLinks(ctx context.Context, text string) error {
	return s.clickText(ctx, text, `button, input[type="submit"], input[type="button"], a`)
}

func (s *ChromeSession) clickText(ctx context.Context, text, query string) error {
	js := fmt.Sprintf(`(function() {
		const els = document.querySelectorAll(%q);
		for (const el of els) {
			const t = (el.textContent || el.value || '').trim();
			if (t === %q) { el.click(); return true; }
		}
		return false;
	})()`, query, text)
	var ok bool
	if err := s.run(ctx, defaultOpTimeout, chromedp.Evaluate(js, &ok)); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("click %q: %w", text, ErrNoMatch)
	}
	return nil
}

func (s *ChromeSession) Text(ctx context.Context, sel string) (string, error) {
	var out string
	err := s.run(ctx, defaultOpTimeout, chromedp.Text(sel, &out, chromedp.ByQuery))
	return out, err
}

func (s *ChromeSession) OuterHTML(ctx context.Context, sel string) (string, error) {
	var out string
	err := s.run(ctx, defaultOpTimeout, chromedp.OuterHTML(sel, &out, chromedp.ByQuery))
	return out, err
}

func (s *ChromeSession) Location(ctx context.Context) (string, error) {
	var out string
	err := s.run(ctx, defaultOpTimeout, chromedp.Location(&out))
	return out, err
}

func (s *ChromeSession) Screenshot(ctx context.Context, name string) error {
	var buf []byte
	if err := s.run(ctx, defaultOpTimeout, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	path := filepath.Join(s.opts.ScreenshotDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	s.log.Info("screenshot saved", zap.String("path", path))
	return nil
}

func (s *ChromeSession) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
