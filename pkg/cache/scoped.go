package cache

// ScopedKeyer wraps a Keyer with a prefix.
// Several dashboards sharing one Redis instance use distinct prefixes so a
// deployment never reads another one's payloads.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "gcdash:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// StyleKey generates a prefixed key for style payload caching.
func (k *ScopedKeyer) StyleKey(opts StyleKeyOpts) string {
	return k.prefix + k.inner.StyleKey(opts)
}
