// Package fonts turns a font file on disk into an inline stylesheet.
//
// The dashboard ships one font resource next to the binary. Every page render
// reads it, base64-encodes it and wraps it in a `<style>` block whose
// `@font-face` uses a data URI, so the browser has the font before the first
// glyph is drawn and never shows a fallback-font swap.
//
// A missing or unreadable font is a packaging defect: [BuildFontStyle] fails
// with [errors.ErrCodeResourceNotFound] and the page render is aborted. There
// is no fallback font and no retry.
//
// Memoization is opt-in through [Embedder.Cache]. Cache keys include the
// file's size and modification time, so replacing the font invalidates the
// cached payload.
package fonts

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gcdash/gcdash/pkg/cache"
	"github.com/gcdash/gcdash/pkg/errors"
	"github.com/gcdash/gcdash/pkg/observability"
)

// DefaultPath is the font resource location relative to the application root.
const DefaultPath = "assets/fonts/OpenSans-Regular.woff2"

// FontFamily is the CSS font-family name declared for the bundled font.
const FontFamily = "Open Sans"

// cacheKeyType labels style payload events in observability hooks.
const cacheKeyType = "style"

// Embedder builds style payloads for one font resource.
// The zero value reads [DefaultPath] relative to the working directory,
// declares [FontFamily] and does not memoize.
type Embedder struct {
	// Root is the application root directory. Empty means the working directory.
	Root string

	// Path is the font file, relative to Root unless absolute. Empty means DefaultPath.
	Path string

	// Family is the declared font-family name. Empty means FontFamily.
	Family string

	// Cache memoizes payloads when non-nil.
	Cache cache.Cache

	// Keyer builds cache keys. Nil means cache.NewDefaultKeyer().
	Keyer cache.Keyer

	// TTL for cached payloads. Zero means cache.TTLStyle.
	TTL time.Duration
}

// Payload is a generated style payload plus facts about the font it embeds.
type Payload struct {
	Style  string `json:"style"`
	Family string `json:"family"`
	Path   string `json:"path"`
	MIME   string `json:"mime"`
	Size   int    `json:"size"`
	Digest string `json:"digest"`

	// Cached reports whether the payload came from the cache.
	Cached bool `json:"-"`
}

// BuildFontStyle reads the bundled font from DefaultPath and returns the
// stylesheet that embeds it.
func BuildFontStyle() (string, error) {
	var e Embedder
	return e.BuildFontStyle(context.Background())
}

// BuildFontStyle returns only the stylesheet string of [Embedder.Embed].
func (e *Embedder) BuildFontStyle(ctx context.Context) (string, error) {
	p, err := e.Embed(ctx)
	if err != nil {
		return "", err
	}
	return p.Style, nil
}

// ResolvedPath returns the font path that Embed reads.
func (e *Embedder) ResolvedPath() string {
	p := e.Path
	if p == "" {
		p = DefaultPath
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(e.Root, p)
}

func (e *Embedder) family() string {
	if e.Family == "" {
		return FontFamily
	}
	return e.Family
}

// Embed reads the font resource, encodes it and returns the payload.
// On any read failure it returns an error with code RESOURCE_NOT_FOUND and a nil payload.
func (e *Embedder) Embed(ctx context.Context) (*Payload, error) {
	family := e.family()
	if err := errors.ValidateFontFamily(family); err != nil {
		return nil, err
	}

	path := e.ResolvedPath()
	before, err := statFont(path)
	if err != nil {
		return nil, err
	}

	key := ""
	if e.Cache != nil {
		// A cached payload is only served while the font can still be opened.
		if err := checkReadable(path); err != nil {
			return nil, err
		}
		key = e.keyer().StyleKey(cache.StyleKeyOpts{
			Path:    path,
			Family:  family,
			Size:    before.Size(),
			ModTime: before.ModTime(),
		})
		if p, ok := e.lookup(ctx, key); ok {
			return p, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResourceNotFound, err, "font resource %s", path)
	}

	mime, format := mimeFor(path)
	sum := sha256.Sum256(data)
	p := &Payload{
		Style:  Stylesheet(family, mime, format, base64.StdEncoding.EncodeToString(data)),
		Family: family,
		Path:   path,
		MIME:   mime,
		Size:   len(data),
		Digest: hex.EncodeToString(sum[:]),
	}

	if e.Cache != nil {
		// A file rewritten during the read would be cached under its old key.
		if after, err := os.Stat(path); err == nil && sameFile(before, after) && int64(len(data)) == after.Size() {
			e.store(ctx, key, p)
		}
	}

	return p, nil
}

func (e *Embedder) keyer() cache.Keyer {
	if e.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return e.Keyer
}

func (e *Embedder) lookup(ctx context.Context, key string) (*Payload, bool) {
	data, hit, err := e.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil || p.Style == "" {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	p.Cached = true
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &p, true
}

func (e *Embedder) store(ctx context.Context, key string, p *Payload) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	ttl := e.TTL
	if ttl == 0 {
		ttl = cache.TTLStyle
	}
	if err := e.Cache.Set(ctx, key, data, ttl); err == nil {
		observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
	}
}

// statFont checks that path is a readable regular file.
func statFont(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResourceNotFound, err, "font resource %s", path)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeResourceNotFound, "font resource %s is a directory", path)
	}
	return info, nil
}

// checkReadable opens path for reading and closes it again.
func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResourceNotFound, err, "font resource %s", path)
	}
	return f.Close()
}

func sameFile(a, b os.FileInfo) bool {
	return a.Size() == b.Size() && a.ModTime().Equal(b.ModTime())
}
