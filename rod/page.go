package rod

import (
	"context"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/fwojciec/catmap"
)

// Ensure the wrappers implement the catmap interfaces at compile time.
var (
	_ catmap.Page    = (*Page)(nil)
	_ catmap.Element = (*Element)(nil)
)

// Page adapts a rod page to catmap.Page.
type Page struct {
	page *rod.Page
}

// Navigate loads the URL and waits for the load event.
func (p *Page) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return catmap.Errorf(catmap.EINTERNAL, "navigate %s: %v", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return catmap.Errorf(catmap.ETIMEOUT, "load %s: %v", url, err)
		}
		return catmap.Errorf(catmap.EINTERNAL, "load %s: %v", url, err)
	}
	return nil
}

// URL returns the page's current address.
func (p *Page) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// HTML returns the rendered document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", catmap.Errorf(catmap.EINTERNAL, "read html: %v", err)
	}
	return html, nil
}

// Find returns all elements matching the CSS locator. No matches is an
// empty slice, not an error.
func (p *Page) Find(ctx context.Context, locator string) ([]catmap.Element, error) {
	els, err := p.page.Context(ctx).Elements(locator)
	if err != nil {
		return nil, catmap.Errorf(catmap.EINTERNAL, "find %q: %v", locator, err)
	}
	out := make([]catmap.Element, len(els))
	for i, el := range els {
		out[i] = &Element{el: el}
	}
	return out, nil
}

// Close releases the page.
func (p *Page) Close() error {
	return p.page.Close()
}

// Element adapts a rod element to catmap.Element.
type Element struct {
	el *rod.Element
}

// Text returns the element's visible text content.
func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

// HTML returns the element's outer HTML.
func (e *Element) HTML(ctx context.Context) (string, error) {
	return e.el.Context(ctx).HTML()
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	value, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

// Visible reports whether the element is rendered and displayed.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

// Hover moves the pointer over the element.
func (e *Element) Hover(ctx context.Context) error {
	return e.el.Context(ctx).Hover()
}

// Click clicks the element with the left mouse button.
func (e *Element) Click(ctx context.Context) error {
	return e.el.Context(ctx).Click(proto.InputMouseButtonLeft, 1)
}

// Focus gives the element keyboard focus.
func (e *Element) Focus(ctx context.Context) error {
	return e.el.Context(ctx).Focus()
}

// Checked reports the checked property of a checkbox or radio input.
func (e *Element) Checked(ctx context.Context) (bool, error) {
	prop, err := e.el.Context(ctx).Property("checked")
	if err != nil {
		return false, err
	}
	return prop.Bool(), nil
}
