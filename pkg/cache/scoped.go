package cache

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP server uses
// it to keep its entries apart from those written by the CLI when both
// share a backend:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SceneKey returns the prefixed scene key.
func (k *ScopedKeyer) SceneKey(scenarioHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(scenarioHash, opts)
}

// ArtifactKey returns the prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(scenarioHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(scenarioHash, opts)
}
