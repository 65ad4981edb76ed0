package fonts

import (
	"fmt"
	"path/filepath"
	"strings"
)

// fontTypes maps file extensions to the data URI media type and the
// @font-face format() hint.
var fontTypes = map[string]struct{ mime, format string }{
	".woff2": {"font/woff2", "woff2"},
	".woff":  {"font/woff", "woff"},
	".ttf":   {"font/ttf", "truetype"},
	".otf":   {"font/otf", "opentype"},
}

// mimeFor returns the media type and format hint for a font file.
// Unknown extensions get application/octet-stream and no hint.
func mimeFor(path string) (mime, format string) {
	if t, ok := fontTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t.mime, t.format
	}
	return "application/octet-stream", ""
}

// Stylesheet returns the `<style>` block that declares family from the
// base64-encoded font data and applies it to all document text.
// It is a pure function: equal inputs give byte-identical output.
func Stylesheet(family, mime, format, encoded string) string {
	q := quoteFamily(family)

	src := fmt.Sprintf("url(data:%s;base64,%s)", mime, encoded)
	if format != "" {
		src += fmt.Sprintf(" format('%s')", format)
	}

	var b strings.Builder
	b.WriteString("<style>\n")
	fmt.Fprintf(&b, "@font-face {\n    font-family: %s;\n    src: %s;\n", q, src)
	b.WriteString("    font-weight: 400;\n    font-style: normal;\n    font-display: block;\n}\n\n")

	for _, selector := range familySelectors {
		fmt.Fprintf(&b, "%s {\n    font-family: %s, sans-serif !important;\n}\n\n", selector, q)
	}
	b.WriteString("</style>")
	return b.String()
}

// familySelectors are the rule groups the font is applied to.
var familySelectors = []string{
	`html, body, [class*="dash-"], *`,
	"h1, h2, h3, h4, h5, h6",
	".dash-markdown, .dash-text, .dash-input, .dash-metric, .dash-nav, p, span, label",
}

// quoteFamily returns family as a single-quoted CSS string.
func quoteFamily(family string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(family) + "'"
}
