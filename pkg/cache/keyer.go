package cache

// Keyer derives cache keys. Implementations must be deterministic: equal
// inputs give equal keys on every host.
type Keyer interface {
	// SceneKey names the recorded scene document of a scenario run.
	SceneKey(scenarioHash string, opts SceneKeyOpts) string
	// ArtifactKey names one encoded output of a scenario run.
	ArtifactKey(scenarioHash string, opts ArtifactKeyOpts) string
}

// SceneKeyOpts are the settings that change the recorded trajectory.
type SceneKeyOpts struct {
	Policy   string `json:"policy"`
	NodeSize int    `json:"node_size"`
}

// ArtifactKeyOpts are the settings that change an encoded artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Policy   string  `json:"policy"`
	NodeSize int     `json:"node_size"`
	Scale    float64 `json:"scale"`
	Labels   bool    `json:"labels"`
	Delay    int     `json:"delay"`
	Every    int     `json:"every"`
}

// DefaultKeyer hashes its inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SceneKey returns scene:<hash>.
func (DefaultKeyer) SceneKey(scenarioHash string, opts SceneKeyOpts) string {
	return hashKey("scene", scenarioHash, opts)
}

// ArtifactKey returns artifact:<format>:<hash>.
func (DefaultKeyer) ArtifactKey(scenarioHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, scenarioHash, opts)
}
