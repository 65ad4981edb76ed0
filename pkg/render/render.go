package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/gcdash/gcdash/pkg/errors"
	"github.com/gcdash/gcdash/pkg/observability"
	"github.com/gcdash/gcdash/pkg/page"
	"github.com/gcdash/gcdash/pkg/pages"
)

// DefaultReloadPath is the websocket endpoint the live-reload script connects to.
const DefaultReloadPath = "/_reload"

//go:embed templates/*.tmpl chrome.css
var assets embed.FS

// Doc is everything needed to render one document.
type Doc struct {
	Page *page.Page

	// Style is the font style payload. It is inserted into the head unescaped.
	Style string

	Nav []pages.NavItem

	// LiveReload adds the dev-mode reload script.
	LiveReload bool

	// ReloadPath overrides DefaultReloadPath.
	ReloadPath string
}

// Renderer renders documents. It is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	md     goldmark.Markdown
	chrome template.CSS
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	tmpl, err := template.New("render").Funcs(template.FuncMap{
		"blocks": r.blocks,
	}).ParseFS(assets, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse templates")
	}
	r.tmpl = tmpl

	css, err := assets.ReadFile("chrome.css")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read chrome stylesheet")
	}
	r.chrome = template.CSS(css)
	return r, nil
}

var defaultRenderer = sync.OnceValues(New)

// Document renders d to w with the package default renderer.
func Document(w io.Writer, d Doc) error {
	return DocumentContext(context.Background(), w, d)
}

// DocumentContext is Document with a context for observability hooks.
func DocumentContext(ctx context.Context, w io.Writer, d Doc) error {
	r, err := defaultRenderer()
	if err != nil {
		return err
	}
	return r.Document(ctx, w, d)
}

// Document renders d into a buffer and copies it to w on success.
func (r *Renderer) Document(ctx context.Context, w io.Writer, d Doc) (err error) {
	if d.Page == nil {
		return errors.New(errors.ErrCodeInvalidInput, "render: nil page")
	}
	name := d.Page.Path()

	start := time.Now()
	observability.Render().OnRenderStart(ctx, name)
	defer func() {
		observability.Render().OnRenderComplete(ctx, name, time.Since(start), err)
	}()

	body, err := r.blocks(d.Page.Blocks)
	if err != nil {
		return err
	}

	reloadPath := d.ReloadPath
	if reloadPath == "" {
		reloadPath = DefaultReloadPath
	}

	view := documentView{
		Title:       d.Page.Config.Title,
		Icon:        d.Page.Config.Icon,
		Favicon:     favicon(d.Page.Config.Icon),
		Style:       template.HTML(d.Style),
		Chrome:      r.chrome,
		Layout:      string(layoutOf(d.Page.Config.Layout)),
		SidebarOpen: d.Page.Config.SidebarState != page.SidebarCollapsed,
		Nav:         d.Nav,
		Body:        body,
		LiveReload:  d.LiveReload,
		ReloadPath:  reloadPath,
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "document", view); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "render %s", name)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", name)
	}
	return nil
}

type documentView struct {
	Title       string
	Icon        string
	Favicon     template.URL
	Style       template.HTML
	Chrome      template.CSS
	Layout      string
	SidebarOpen bool
	Nav         []pages.NavItem
	Body        template.HTML
	LiveReload  bool
	ReloadPath  string
}

func layoutOf(l page.Layout) page.Layout {
	if l == "" {
		return page.LayoutCentered
	}
	return l
}

// favicon returns an SVG data URI that draws icon, or "" for no icon.
func favicon(icon string) template.URL {
	if icon == "" {
		return ""
	}
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">` +
		`<text y=".9em" font-size="90">` + template.HTMLEscapeString(icon) + `</text></svg>`
	return template.URL("data:image/svg+xml," + url.PathEscape(svg))
}
