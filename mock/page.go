// Package mock provides function-field mock implementations of the
// catmap domain interfaces for testing.
package mock

import (
	"context"

	"github.com/fwojciec/catmap"
)

var _ catmap.Page = (*Page)(nil)

// Page is a mock implementation of catmap.Page.
type Page struct {
	NavigateFn func(ctx context.Context, url string) error
	URLFn      func() string
	HTMLFn     func(ctx context.Context) (string, error)
	FindFn     func(ctx context.Context, locator string) ([]catmap.Element, error)
	CloseFn    func() error
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	return p.NavigateFn(ctx, url)
}

func (p *Page) URL() string {
	return p.URLFn()
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Find(ctx context.Context, locator string) ([]catmap.Element, error) {
	return p.FindFn(ctx, locator)
}

func (p *Page) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

var _ catmap.Element = (*Element)(nil)

// Element is a mock implementation of catmap.Element.
// Interaction methods default to success when their function field is
// nil, so tests only wire what they assert on.
type Element struct {
	TextFn    func(ctx context.Context) (string, error)
	HTMLFn    func(ctx context.Context) (string, error)
	AttrFn    func(ctx context.Context, name string) (string, bool, error)
	VisibleFn func(ctx context.Context) (bool, error)
	HoverFn   func(ctx context.Context) error
	ClickFn   func(ctx context.Context) error
	FocusFn   func(ctx context.Context) error
	CheckedFn func(ctx context.Context) (bool, error)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	if e.TextFn == nil {
		return "", nil
	}
	return e.TextFn(ctx)
}

func (e *Element) HTML(ctx context.Context) (string, error) {
	if e.HTMLFn == nil {
		return "", nil
	}
	return e.HTMLFn(ctx)
}

func (e *Element) Attr(ctx context.Context, name string) (string, bool, error) {
	if e.AttrFn == nil {
		return "", false, nil
	}
	return e.AttrFn(ctx, name)
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	if e.VisibleFn == nil {
		return true, nil
	}
	return e.VisibleFn(ctx)
}

func (e *Element) Hover(ctx context.Context) error {
	if e.HoverFn == nil {
		return nil
	}
	return e.HoverFn(ctx)
}

func (e *Element) Click(ctx context.Context) error {
	if e.ClickFn == nil {
		return nil
	}
	return e.ClickFn(ctx)
}

func (e *Element) Focus(ctx context.Context) error {
	if e.FocusFn == nil {
		return nil
	}
	return e.FocusFn(ctx)
}

func (e *Element) Checked(ctx context.Context) (bool, error) {
	if e.CheckedFn == nil {
		return false, nil
	}
	return e.CheckedFn(ctx)
}

var _ catmap.SessionSource = (*SessionSource)(nil)

// SessionSource is a mock implementation of catmap.SessionSource.
type SessionSource struct {
	AcquireFn func(ctx context.Context, url string) (catmap.Page, error)
	CloseFn   func() error
}

func (s *SessionSource) Acquire(ctx context.Context, url string) (catmap.Page, error) {
	return s.AcquireFn(ctx, url)
}

func (s *SessionSource) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}
