// Package render turns a [page.Page] into a complete HTML document.
//
// # Overview
//
// Page functions only describe content. This package is the single place
// where output is produced:
//
//	style, err := embedder.BuildFontStyle(ctx)
//	if err != nil {
//	    return err // no font, no page
//	}
//	err = render.Document(w, render.Doc{Page: p, Style: style, Nav: reg.Nav(p.Slug)})
//
// The document head carries, in order, the page title and icon, the font
// style payload (inserted unescaped), the base chrome stylesheet and, in dev
// mode, the live-reload script. The body holds the sidebar navigation and the
// rendered blocks.
//
// # Partial Output
//
// Documents are rendered into a buffer first and copied to the writer only
// when the whole document rendered. A failed render writes nothing, so the
// HTTP layer can still send a clean error page.
//
// # Markdown
//
// [page.Markdown], [page.Text] and callout blocks are converted with goldmark
// and its GitHub Flavored Markdown extension (tables, strikethrough, autolinks).
// Raw HTML in markdown is not passed through.
package render
