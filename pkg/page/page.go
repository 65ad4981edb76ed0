// Package page defines the structured content a dashboard page returns.
//
// Page functions are pure: they build a [Page] value from their input and
// never write output themselves. The renderer in pkg/render is the only place
// that turns a Page into markup.
package page

import (
	"github.com/gcdash/gcdash/pkg/errors"
)

// Layout controls the width of the main content column.
type Layout string

const (
	LayoutCentered Layout = "centered"
	LayoutWide     Layout = "wide"
)

// SidebarState controls whether the navigation sidebar starts open.
type SidebarState string

const (
	SidebarAuto      SidebarState = "auto"
	SidebarExpanded  SidebarState = "expanded"
	SidebarCollapsed SidebarState = "collapsed"
)

// Config holds the per-page document settings: browser title, icon and layout.
type Config struct {
	Title        string
	Icon         string
	Layout       Layout
	SidebarState SidebarState
}

// Page is one dashboard page.
type Page struct {
	// Slug is the URL path segment; empty for the home page.
	Slug string

	// Label is the navigation entry text.
	Label string

	Config Config
	Blocks []Block
}

// Validate checks the page config and that every block is well formed.
func (p *Page) Validate() error {
	if p.Slug != "" {
		if err := errors.ValidateSlug(p.Slug); err != nil {
			return err
		}
	}
	if p.Label == "" {
		return errors.New(errors.ErrCodeInvalidInput, "page %q has no navigation label", p.Slug)
	}
	if p.Config.Title == "" {
		return errors.New(errors.ErrCodeInvalidInput, "page %q has no title", p.Slug)
	}
	switch p.Config.Layout {
	case "", LayoutCentered, LayoutWide:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "page %q: unknown layout %q", p.Slug, p.Config.Layout)
	}
	switch p.Config.SidebarState {
	case "", SidebarAuto, SidebarExpanded, SidebarCollapsed:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "page %q: unknown sidebar state %q", p.Slug, p.Config.SidebarState)
	}
	return Walk(p.Blocks, func(b Block) error {
		if c, ok := b.(Columns); ok && len(c.Cols) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "page %q: columns block without columns", p.Slug)
		}
		return nil
	})
}

// Path returns the URL path the page is served at.
func (p *Page) Path() string {
	return "/" + p.Slug
}

// Walk calls fn for every block in depth-first order, descending into
// columns and expanders. It stops at the first error.
func Walk(blocks []Block, fn func(Block) error) error {
	for _, b := range blocks {
		if err := fn(b); err != nil {
			return err
		}
		switch v := b.(type) {
		case Columns:
			for _, col := range v.Cols {
				if err := Walk(col, fn); err != nil {
					return err
				}
			}
		case Expander:
			if err := Walk(v.Blocks, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Find returns every block of type T in the tree, in Walk order.
func Find[T Block](blocks []Block) []T {
	var out []T
	_ = Walk(blocks, func(b Block) error {
		if v, ok := b.(T); ok {
			out = append(out, v)
		}
		return nil
	})
	return out
}
