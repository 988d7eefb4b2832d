package catmap

import "context"

// Page is the browser automation seam. The discovery and exploration
// engines are agnostic to which automation technology provides these
// primitives; implementations hide page lifecycle, JavaScript execution
// and wait semantics.
//
// The rendered page is the single mutable shared resource in the system:
// only one logical writer (one strategy's interaction, or one filter's
// click) should be mutating it at a time.
type Page interface {
	// Navigate loads the URL and waits for the page to settle.
	Navigate(ctx context.Context, url string) error

	// URL returns the page's current address, including any query
	// parameters added by applied filters.
	URL() string

	// HTML returns the rendered document.
	HTML(ctx context.Context) (string, error)

	// Find returns all elements matching the locator.
	// Returns an empty slice, not an error, when nothing matches.
	Find(ctx context.Context, locator string) ([]Element, error)

	// Close releases the page and its session resources.
	Close() error
}

// Element is a handle to a single DOM element on a Page.
// Handles are valid only for the page state in which they were obtained.
type Element interface {
	// Text returns the element's visible text content.
	Text(ctx context.Context) (string, error)

	// HTML returns the element's outer HTML.
	HTML(ctx context.Context) (string, error)

	// Attr returns the value of the named attribute.
	// The bool result is false when the attribute is absent.
	Attr(ctx context.Context, name string) (string, bool, error)

	// Visible reports whether the element is rendered and displayed.
	Visible(ctx context.Context) (bool, error)

	// Hover moves the pointer over the element.
	Hover(ctx context.Context) error

	// Click clicks the element.
	Click(ctx context.Context) error

	// Focus gives the element keyboard focus and dispatches the events a
	// focus-driven menu listens for.
	Focus(ctx context.Context) error

	// Checked reports the checked state of a checkbox or radio input.
	Checked(ctx context.Context) (bool, error)
}

// SessionSource supplies ready pages, hiding browser lifecycle and
// anti-bot hardening. Acquire returns EBLOCKED when the target challenges
// or blocks the session, which is distinguishable from a page that loaded
// but contained nothing; retrying blocked acquisitions with backoff is
// the caller's concern, not the page's.
type SessionSource interface {
	// Acquire returns a page already navigated to the URL.
	Acquire(ctx context.Context, url string) (Page, error)

	// Close releases all browser resources.
	Close() error
}
