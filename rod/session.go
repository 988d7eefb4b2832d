// Package rod provides browser automation implementations of the catmap
// page interfaces using Chrome via go-rod.
package rod

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/fwojciec/catmap"
)

// Ensure SessionSource implements catmap.SessionSource at compile time.
var _ catmap.SessionSource = (*SessionSource)(nil)

// blockedMarkerRE matches the challenge and block pages the common
// anti-bot vendors serve instead of the storefront.
var blockedMarkerRE = regexp.MustCompile(`(?i)(access denied|request blocked|are you a robot|verify you are human|checking your browser|pardon our interruption|unusual traffic|captcha|cf-challenge|px-captcha|incapsula)`)

// SessionSource creates browser pages hardened against automation
// detection. Pages are created through stealth so the storefront sees a
// regular Chrome profile; a page that still gets challenged surfaces as
// EBLOCKED rather than as an empty catalog.
type SessionSource struct {
	manager *BrowserManager

	// PlainPages disables stealth page creation. Useful against
	// localhost fixtures where the stealth payload only adds latency.
	PlainPages bool
}

// NewSessionSource creates a SessionSource backed by the manager's
// browser. The manager stays owned by the caller; closing the source
// does not close it.
func NewSessionSource(manager *BrowserManager) *SessionSource {
	return &SessionSource{manager: manager}
}

// Acquire opens a page, navigates it to the URL and waits for the load
// event. The returned page is ready for extraction. Detected challenge
// pages are closed and reported as EBLOCKED.
func (s *SessionSource) Acquire(ctx context.Context, url string) (catmap.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser := s.manager.Browser()

	var page *rod.Page
	var err error
	if s.PlainPages {
		page, err = browser.Page(proto.TargetCreateTarget{})
	} else {
		page, err = stealth.Page(browser)
	}
	if err != nil {
		return nil, catmap.Errorf(catmap.EINTERNAL, "create page: %v", err)
	}

	p := &Page{page: page}
	if err := p.Navigate(ctx, url); err != nil {
		_ = p.Close()
		return nil, err
	}
	s.manager.IncrementPageCount()

	html, err := p.HTML(ctx)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	if looksBlocked(html) {
		_ = p.Close()
		return nil, catmap.Errorf(catmap.EBLOCKED, "challenge page served for %s", url)
	}

	return p, nil
}

// Close releases the underlying browser.
func (s *SessionSource) Close() error {
	return s.manager.Close()
}

// looksBlocked reports whether rendered HTML is an anti-bot challenge
// rather than storefront content. Marker terms buried in a full page
// are ignored; challenge pages are near-empty shells.
func looksBlocked(html string) bool {
	if len(html) > 20000 {
		return false
	}
	return blockedMarkerRE.MatchString(strings.ToLower(html))
}
