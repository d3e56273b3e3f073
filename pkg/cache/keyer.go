package cache

// Keyer derives cache keys.
type Keyer interface {
	// HTTPKey identifies a cached remote response.
	HTTPKey(namespace, key string) string
	// LayoutKey identifies an exported layout of one input document.
	LayoutKey(documentHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered artifact of one layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the document that shape a layout.
type LayoutKeyOpts struct {
	Orientation string `json:"orientation"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	PaletteHash string `json:"palette_hash"`
}

// ArtifactKeyOpts are the render settings that shape an artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Engine string  `json:"engine,omitempty"`
}

// DefaultKeyer produces "kind:hash" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:namespace:key". Keys are not hashed so they stay
// readable in backend listings.
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LayoutKey hashes the document hash together with opts.
func (DefaultKeyer) LayoutKey(documentHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", documentHash, opts)
}

// ArtifactKey hashes the layout hash together with opts.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
