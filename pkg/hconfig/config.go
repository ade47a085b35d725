// Package hconfig declares the file-driven configuration shape that
// assembles a named Decorator (Keymap + Cache + Archive) and loads it
// with hot reload via a composed struct tree and a Viper+fsnotify
// reload loop.
package hconfig

// Config is the top-level configuration document: a set of named
// cache specs, each independently assemblable into a Decorator.
type Config struct {
	Caches []CacheSpec `json:"caches" yaml:"caches"`
}

// CacheSpec configures one named cache: its capacity/eviction policy,
// its keymap variant, and its optional archive backend.
type CacheSpec struct {
	Name     string       `json:"name" yaml:"name"`
	Capacity int          `json:"capacity" yaml:"capacity"`
	Policy   string       `json:"policy" yaml:"policy"` // lru|lfu|mru|rr|inf|no
	Keymap   KeymapSpec   `json:"keymap" yaml:"keymap"`
	Archive  *ArchiveSpec `json:"archive,omitempty" yaml:"archive,omitempty"`
}

// KeymapSpec configures a Keymap variant and its canonicalization
// options.
type KeymapSpec struct {
	Variant string   `json:"variant" yaml:"variant"` // raw|hash|string|pickle
	Typed   bool     `json:"typed" yaml:"typed"`
	Ignore  []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
	Safe    bool     `json:"safe" yaml:"safe"`
	Codec   string   `json:"codec,omitempty" yaml:"codec,omitempty"` // for pickle
}

// ArchiveSpec configures a durable Archive backend.
type ArchiveSpec struct {
	Backend string `json:"backend" yaml:"backend"` // memory|null|file|dir|sql|sqlmulti|dataset|datasetdir
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	DSN     string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	Table   string `json:"table,omitempty" yaml:"table,omitempty"`
	Codec   string `json:"codec,omitempty" yaml:"codec,omitempty"`
	// WriteIndexSidecar applies only to the dir backend: maintain a
	// non-authoritative ".index" file alongside the key files.
	WriteIndexSidecar bool `json:"write_index_sidecar,omitempty" yaml:"write_index_sidecar,omitempty"`
}

// Validate checks the document for the mistakes a hand-edited config
// file commonly contains.
func (c Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Caches))
	for _, spec := range c.Caches {
		if spec.Name == "" {
			return errEmptyName
		}
		if _, dup := seen[spec.Name]; dup {
			return duplicateNameError(spec.Name)
		}
		seen[spec.Name] = struct{}{}
		if spec.Capacity < 0 {
			return negativeCapacityError(spec.Name)
		}
		if !validPolicy(spec.Policy) {
			return invalidPolicyError(spec.Policy)
		}
		if !validKeymapVariant(spec.Keymap.Variant) {
			return invalidKeymapVariantError(spec.Keymap.Variant)
		}
	}
	return nil
}

func validPolicy(p string) bool {
	switch p {
	case "lru", "lfu", "mru", "rr", "inf", "no", "":
		return true
	default:
		return false
	}
}

func validKeymapVariant(v string) bool {
	switch v {
	case "raw", "hash", "string", "pickle", "":
		return true
	default:
		return false
	}
}
