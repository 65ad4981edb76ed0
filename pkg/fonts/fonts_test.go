package fonts

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gcdash/gcdash/pkg/cache"
	"github.com/gcdash/gcdash/pkg/errors"
)

var (
	dataRe   = regexp.MustCompile(`base64,([A-Za-z0-9+/=]*)\)`)
	familyRe = regexp.MustCompile(`font-family: '((?:[^'\\]|\\.)*)'`)
)

// writeFont creates root/DefaultPath with data and returns root.
func writeFont(t *testing.T, data []byte) string {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, DefaultPath)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

// embeddedData extracts and decodes the data URI payload from a stylesheet.
func embeddedData(t *testing.T, style string) []byte {
	t.Helper()
	m := dataRe.FindAllStringSubmatch(style, -1)
	if len(m) != 1 {
		t.Fatalf("expected exactly one data URI, found %d", len(m))
	}
	data, err := base64.StdEncoding.DecodeString(m[0][1])
	if err != nil {
		t.Fatalf("embedded data is not valid base64: %v", err)
	}
	return data
}

func TestBuildFontStyleRoundTrip(t *testing.T) {
	want := []byte("0123456789")
	e := &Embedder{Root: writeFont(t, want)}

	style, err := e.BuildFontStyle(context.Background())
	if err != nil {
		t.Fatalf("BuildFontStyle() error: %v", err)
	}

	got := embeddedData(t, style)
	if string(got) != string(want) {
		t.Errorf("decoded payload = %q, want %q", got, want)
	}
}

func TestBuildFontStyleBinaryRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 2, 3, 255, 4096, 65537}
	for _, n := range sizes {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i * 31)
		}
		e := &Embedder{Root: writeFont(t, data)}

		p, err := e.Embed(context.Background())
		if err != nil {
			t.Fatalf("Embed(%d bytes) error: %v", n, err)
		}
		if p.Size != n {
			t.Errorf("Size = %d, want %d", p.Size, n)
		}
		got := embeddedData(t, p.Style)
		if len(got) != n {
			t.Fatalf("decoded %d bytes, want %d", len(got), n)
		}
		for i := range got {
			if got[i] != data[i] {
				t.Fatalf("byte %d differs: got %x want %x", i, got[i], data[i])
			}
		}
	}
}

func TestBuildFontStyleDeterministic(t *testing.T) {
	e := &Embedder{Root: writeFont(t, []byte("font bytes"))}
	ctx := context.Background()

	a, err := e.BuildFontStyle(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.BuildFontStyle(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("two calls on an unchanged file should be byte-identical")
	}
}

func TestBuildFontStyleMissingFont(t *testing.T) {
	e := &Embedder{Root: t.TempDir()}

	style, err := e.BuildFontStyle(context.Background())
	if err == nil {
		t.Fatal("expected error for missing font")
	}
	if !errors.Is(err, errors.ErrCodeResourceNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeResourceNotFound)
	}
	if style != "" {
		t.Errorf("no partial output expected, got %d bytes", len(style))
	}

	p, err := e.Embed(context.Background())
	if err == nil || p != nil {
		t.Errorf("Embed() = %v, %v; want nil payload and error", p, err)
	}
}

func TestBuildFontStyleRemovedBeforeRender(t *testing.T) {
	root := writeFont(t, []byte("abc"))
	e := &Embedder{Root: root}
	ctx := context.Background()

	if _, err := e.BuildFontStyle(ctx); err != nil {
		t.Fatalf("first render: %v", err)
	}

	if err := os.Rename(filepath.Join(root, DefaultPath), filepath.Join(root, DefaultPath+".bak")); err != nil {
		t.Fatal(err)
	}
	if _, err := e.BuildFontStyle(ctx); !errors.Is(err, errors.ErrCodeResourceNotFound) {
		t.Errorf("render after rename: err = %v, want RESOURCE_NOT_FOUND", err)
	}
}

func TestBuildFontStyleDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, DefaultPath), 0755); err != nil {
		t.Fatal(err)
	}
	e := &Embedder{Root: root}
	if _, err := e.BuildFontStyle(context.Background()); !errors.Is(err, errors.ErrCodeResourceNotFound) {
		t.Errorf("err = %v, want RESOURCE_NOT_FOUND", err)
	}
}

func TestBuildFontStyleFamilyConsistency(t *testing.T) {
	tests := []struct {
		family string
		want   string
	}{
		{"", FontFamily},
		{"Google Sans Flex", "Google Sans Flex"},
		{"O'Font", `O\'Font`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e := &Embedder{Root: writeFont(t, []byte("x")), Family: tt.family}
			style, err := e.BuildFontStyle(context.Background())
			if err != nil {
				t.Fatal(err)
			}

			matches := familyRe.FindAllStringSubmatch(style, -1)
			if len(matches) < 2 {
				t.Fatalf("expected @font-face plus rules, found %d font-family declarations", len(matches))
			}
			for _, m := range matches {
				if m[1] != tt.want {
					t.Errorf("font-family %q, want %q", m[1], tt.want)
				}
			}
			if !strings.Contains(style, "@font-face") {
				t.Error("missing @font-face declaration")
			}
		})
	}
}

func TestBuildFontStyleInvalidFamily(t *testing.T) {
	e := &Embedder{Root: writeFont(t, []byte("x")), Family: "</style><script>"}
	if _, err := e.BuildFontStyle(context.Background()); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestStylesheetShape(t *testing.T) {
	style := Stylesheet("Open Sans", "font/woff2", "woff2", "AAAA")

	if !strings.HasPrefix(style, "<style>") || !strings.HasSuffix(style, "</style>") {
		t.Error("stylesheet should be wrapped in a style element")
	}
	for _, want := range []string{
		"src: url(data:font/woff2;base64,AAAA) format('woff2');",
		"font-display: block;",
		"h1, h2, h3, h4, h5, h6 {",
		"!important",
	} {
		if !strings.Contains(style, want) {
			t.Errorf("stylesheet missing %q", want)
		}
	}
	if strings.Count(style, "<style>") != 1 {
		t.Error("stylesheet should contain exactly one style element")
	}
}

func TestMimeFor(t *testing.T) {
	tests := []struct {
		path       string
		wantMIME   string
		wantFormat string
	}{
		{"a.woff2", "font/woff2", "woff2"},
		{"a.WOFF", "font/woff", "woff"},
		{"a.ttf", "font/ttf", "truetype"},
		{"a.otf", "font/otf", "opentype"},
		{"a.bin", "application/octet-stream", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			mime, format := mimeFor(tt.path)
			if mime != tt.wantMIME || format != tt.wantFormat {
				t.Errorf("mimeFor(%q) = %q, %q; want %q, %q", tt.path, mime, format, tt.wantMIME, tt.wantFormat)
			}
		})
	}

	if style := Stylesheet("F", "application/octet-stream", "", "AA"); strings.Contains(style, "format(") {
		t.Error("unknown font type should not carry a format hint")
	}
}

func TestResolvedPath(t *testing.T) {
	e := &Embedder{Root: "/app"}
	if got := e.ResolvedPath(); got != filepath.Join("/app", DefaultPath) {
		t.Errorf("ResolvedPath() = %q", got)
	}

	e = &Embedder{Root: "/app", Path: "fonts/x.ttf"}
	if got := e.ResolvedPath(); got != filepath.Join("/app", "fonts/x.ttf") {
		t.Errorf("ResolvedPath() = %q", got)
	}

	abs := filepath.Join(t.TempDir(), "x.ttf")
	e = &Embedder{Root: "/app", Path: abs}
	if got := e.ResolvedPath(); got != abs {
		t.Errorf("ResolvedPath() with absolute path = %q, want %q", got, abs)
	}
}

func TestEmbedWithCache(t *testing.T) {
	root := writeFont(t, []byte("first"))
	mem := cache.NewMemoryCache()
	e := &Embedder{Root: root, Cache: mem}
	ctx := context.Background()

	p1, err := e.Embed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p1.Cached {
		t.Error("first call should not be a cache hit")
	}
	if mem.Len() != 1 {
		t.Fatalf("cache should hold one entry, has %d", mem.Len())
	}

	p2, err := e.Embed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !p2.Cached {
		t.Error("second call should be a cache hit")
	}
	if p1.Style != p2.Style || p1.Digest != p2.Digest {
		t.Error("cached payload should equal the computed one")
	}

	// Replacing the font must not serve the stale payload.
	path := filepath.Join(root, DefaultPath)
	if err := os.WriteFile(path, []byte("second version"), 0644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	_ = os.Chtimes(path, later, later)

	p3, err := e.Embed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if p3.Cached {
		t.Error("changed font should miss the cache")
	}
	if got := embeddedData(t, p3.Style); string(got) != "second version" {
		t.Errorf("payload after change = %q", got)
	}
}

func TestEmbedUnreadableFontWithCache(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	root := writeFont(t, []byte("cached once"))
	e := &Embedder{Root: root, Cache: cache.NewMemoryCache()}
	ctx := context.Background()

	if _, err := e.Embed(ctx); err != nil {
		t.Fatal(err)
	}

	// chmod leaves size and mtime alone, so the cache key is unchanged.
	path := filepath.Join(root, DefaultPath)
	if err := os.Chmod(path, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(path, 0644) })

	p, err := e.Embed(ctx)
	if !errors.Is(err, errors.ErrCodeResourceNotFound) {
		t.Errorf("err = %v, want RESOURCE_NOT_FOUND", err)
	}
	if p != nil {
		t.Error("unreadable font should not return a cached payload")
	}
}

func TestEmbedMissingFontWithCache(t *testing.T) {
	e := &Embedder{Root: t.TempDir(), Cache: cache.NewMemoryCache()}
	if _, err := e.Embed(context.Background()); !errors.Is(err, errors.ErrCodeResourceNotFound) {
		t.Errorf("err = %v, want RESOURCE_NOT_FOUND", err)
	}
}

func TestPackageBuildFontStyle(t *testing.T) {
	root := writeFont(t, []byte("0123456789"))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	style, err := BuildFontStyle()
	if err != nil {
		t.Fatalf("BuildFontStyle() error: %v", err)
	}
	if got := embeddedData(t, style); string(got) != "0123456789" {
		t.Errorf("decoded = %q", got)
	}
}
