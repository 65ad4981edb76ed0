// Package pages holds the dashboard's pages and the registry that routes to them.
//
// Each page is a pure [Builder]: it receives the request [Input] and returns
// a *page.Page. The home page is always first in the navigation; other pages
// follow by Order, then by slug, the way a pages/ directory lists.
package pages

import (
	"sort"
	"strings"
	"sync"

	"github.com/gcdash/gcdash/pkg/errors"
	"github.com/gcdash/gcdash/pkg/page"
)

// Input carries the request values a page may read, such as form fields.
type Input struct {
	Values map[string]string
}

// Get returns the trimmed value for key, or "".
func (in Input) Get(key string) string {
	return strings.TrimSpace(in.Values[key])
}

// Builder builds a page from its input.
type Builder func(in Input) *page.Page

// Entry is one registered page.
type Entry struct {
	Slug  string
	Label string
	Icon  string
	Order int
	Build Builder
}

// Path returns the URL path of the entry.
func (e Entry) Path() string {
	return "/" + e.Slug
}

// NavItem is one sidebar link.
type NavItem struct {
	Label  string
	Icon   string
	Path   string
	Active bool
}

// Registry maps slugs to pages. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Default returns a registry with the home and about pages.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(Entry{Slug: "", Label: "Home", Icon: "🚀", Build: Home})
	r.MustRegister(Entry{Slug: "about", Label: "About", Icon: "ℹ️", Order: 10, Build: About})
	return r
}

// Register adds a page. The empty slug is the home page.
func (r *Registry) Register(e Entry) error {
	if e.Slug != "" {
		if err := errors.ValidateSlug(e.Slug); err != nil {
			return err
		}
	}
	if e.Build == nil {
		return errors.New(errors.ErrCodeInvalidInput, "page %q has no builder", e.Slug)
	}
	if e.Label == "" {
		return errors.New(errors.ErrCodeInvalidInput, "page %q has no label", e.Slug)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.Slug]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "page %q already registered", e.Slug)
	}
	r.entries[e.Slug] = e
	return nil
}

// MustRegister is Register that panics on error, for static page tables.
func (r *Registry) MustRegister(e Entry) {
	if err := r.Register(e); err != nil {
		panic(err)
	}
}

// Lookup returns the entry for slug or a PAGE_NOT_FOUND error.
func (r *Registry) Lookup(slug string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[slug]
	if !ok {
		return Entry{}, errors.New(errors.ErrCodePageNotFound, "no page at /%s", slug)
	}
	return e, nil
}

// Build looks up slug and builds its page. The built page's slug and label
// are taken from the registry entry.
func (r *Registry) Build(slug string, in Input) (*page.Page, error) {
	e, err := r.Lookup(slug)
	if err != nil {
		return nil, err
	}
	p := e.Build(in)
	if p == nil {
		return nil, errors.New(errors.ErrCodeInternal, "page %q built nothing", slug)
	}
	p.Slug = e.Slug
	p.Label = e.Label
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Entries returns all entries in navigation order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if (a.Slug == "") != (b.Slug == "") {
			return a.Slug == ""
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Slug < b.Slug
	})
	return out
}

// Nav returns the sidebar items with the entry at activeSlug marked active.
func (r *Registry) Nav(activeSlug string) []NavItem {
	entries := r.Entries()
	items := make([]NavItem, len(entries))
	for i, e := range entries {
		items[i] = NavItem{
			Label:  e.Label,
			Icon:   e.Icon,
			Path:   e.Path(),
			Active: e.Slug == activeSlug,
		}
	}
	return items
}
