package cache

import "time"

// Keyer generates cache keys for style payloads.
type Keyer interface {
	StyleKey(opts StyleKeyOpts) string
}

// StyleKeyOpts identifies one version of a font resource rendered with one
// family name. Size and ModTime change whenever the file is replaced.
type StyleKeyOpts struct {
	Path    string    `json:"path"`
	Family  string    `json:"family"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// StyleKey returns "style:<sha256 of opts>".
func (DefaultKeyer) StyleKey(opts StyleKeyOpts) string {
	return hashKey("style", opts.Path, opts.Family, opts.Size, opts.ModTime.UnixNano())
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
