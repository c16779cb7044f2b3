// Package browser drives a headless Chromium session against SteamDB.
// SteamDB renders the interesting tables server-side but sits behind
// bot detection, so fetching goes through a real browser instead of a
// plain HTTP client.
package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	baseURL   = "https://steamdb.info"
	chartsURL = baseURL + "/charts/"
)

// stealthScript hides the webdriver flag that SteamDB's bot check reads.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`

type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	timeout time.Duration
	logger  *slog.Logger
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	Locale         string
	TimezoneID     string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        60 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		AcceptLanguage: "en-US,en;q=0.9",
		Locale:         "en-US",
		TimezoneID:     "UTC",
	}
}

// New launches Chromium, opens one page and warms it up on the SteamDB
// front page so later navigations look like a returning visitor.
func New(opts *Options) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	chromium, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := chromium.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:  playwright.String(opts.UserAgent),
		Locale:     playwright.String(opts.Locale),
		TimezoneId: playwright.String(opts.TimezoneID),
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		ExtraHttpHeaders: map[string]string{
			"Accept-Language": opts.AcceptLanguage,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		},
	})
	if err != nil {
		chromium.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	if err := context.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
		context.Close()
		chromium.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to add init script: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		chromium.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

	b := &Browser{
		pw:      pw,
		browser: chromium,
		context: context,
		page:    page,
		timeout: opts.Timeout,
		logger:  slog.Default().With("component", "browser"),
	}

	if _, err := page.Goto(baseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to warm up session: %w", err)
	}

	return b, nil
}

// AppPageHTML fetches one app detail page and waits for the info table
// before returning the rendered markup.
func (b *Browser) AppPageHTML(appID int64) (string, error) {
	url := fmt.Sprintf("%s/app/%d/", baseURL, appID)

	if err := b.navigate(url); err != nil {
		return "", err
	}
	if _, err := b.page.WaitForSelector(`td:has-text("App ID")`, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(b.timeout.Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("app %d: info table did not appear: %w", appID, err)
	}

	content, err := b.page.Content()
	if err != nil {
		return "", fmt.Errorf("app %d: failed to read content: %w", appID, err)
	}
	return content, nil
}

// ChartsHTML fetches the charts page with the DataTables length select
// set to "all", so every ranked row is present in the returned markup.
func (b *Browser) ChartsHTML() (string, error) {
	if err := b.navigate(chartsURL); err != nil {
		return "", err
	}
	if _, err := b.page.WaitForSelector("table.table-products", playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(b.timeout.Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("charts table did not appear: %w", err)
	}

	if _, err := b.page.WaitForSelector("#dt-length-0"); err != nil {
		return "", fmt.Errorf("length select did not appear: %w", err)
	}
	values := []string{"-1"}
	if _, err := b.page.Locator("#dt-length-0").SelectOption(playwright.SelectOptionValues{Values: &values}); err != nil {
		return "", fmt.Errorf("failed to expand charts table: %w", err)
	}
	// Give DataTables time to re-render the full row set.
	b.page.WaitForTimeout(3000)

	content, err := b.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read charts content: %w", err)
	}
	return content, nil
}

func (b *Browser) navigate(url string) error {
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			b.logger.Info("retrying navigation", "attempt", attempt+1, "url", url)
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}

		_, err := b.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(float64(b.timeout.Milliseconds())),
		})
		if err == nil {
			return nil
		}
		lastErr = err
		b.logger.Error("navigation failed", "url", url, "attempt", attempt+1, "error", err)
	}
	return fmt.Errorf("failed to navigate to %s: %w", url, lastErr)
}

func (b *Browser) Close() error {
	var errs []error

	if b.context != nil {
		if err := b.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}
