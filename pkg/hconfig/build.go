package hconfig

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yourusername/hoard/pkg/archive"
	"github.com/yourusername/hoard/pkg/cache"
	"github.com/yourusername/hoard/pkg/codec"
	"github.com/yourusername/hoard/pkg/eviction"
	"github.com/yourusername/hoard/pkg/keymap"
)

// BuildKeymap assembles the Keymap a KeymapSpec describes, wrapping it
// in keymap.Safe when Safe is set.
func BuildKeymap(spec KeymapSpec) (keymap.Keymap, error) {
	opt := keymap.Options{Typed: spec.Typed, Ignore: spec.Ignore}
	var km keymap.Keymap
	switch spec.Variant {
	case "", "raw":
		km = keymap.Raw{Opt: opt}
	case "hash":
		km = keymap.Hash{Opt: opt}
	case "string":
		km = keymap.String{Opt: opt}
	case "pickle":
		c, err := codecByName(spec.Codec)
		if err != nil {
			return nil, err
		}
		km = keymap.Pickle{Opt: opt, Codec: c}
	default:
		return nil, invalidKeymapVariantError(spec.Variant)
	}
	if spec.Safe {
		km = keymap.Safe{Keymap: km}
	}
	return km, nil
}

func codecByName(name string) (codec.Codec, error) {
	return codec.ByName(name)
}

// BuildArchiveOptions carries the runtime resources (an open *sql.DB)
// an ArchiveSpec cannot itself hold in a serializable config document.
type BuildArchiveOptions struct {
	DB *sql.DB
}

// BuildArchive assembles the Archive a spec describes. SQL backends
// require opts.DB to already be open; ArchiveSpec.DSN is not read here,
// so the connection always comes from opts.DB.
func BuildArchive(ctx context.Context, cacheName string, spec *ArchiveSpec, opts BuildArchiveOptions) (archive.Archive, error) {
	if spec == nil {
		return nil, nil
	}
	c, err := codecByName(spec.Codec)
	if err != nil {
		return nil, err
	}
	switch spec.Backend {
	case "memory":
		return archive.NewMemory(), nil
	case "null":
		return archive.NewNull(), nil
	case "file":
		return archive.NewFile(spec.Path, c), nil
	case "dir":
		return archive.NewDir(spec.Path, c, spec.WriteIndexSidecar)
	case "sql":
		if opts.DB == nil {
			return nil, fmt.Errorf("hconfig: sql archive for %q requires an open *sql.DB", cacheName)
		}
		return archive.NewSQL(ctx, archive.SQLConfig{DB: opts.DB, Table: spec.Table, Namespace: cacheName, Codec: c})
	case "sqlmulti":
		if opts.DB == nil {
			return nil, fmt.Errorf("hconfig: sqlmulti archive for %q requires an open *sql.DB", cacheName)
		}
		return archive.NewSQLMulti(ctx, opts.DB, cacheName, c)
	case "dataset":
		return archive.NewDataset(spec.Path, c)
	case "datasetdir":
		return archive.NewDatasetDir(spec.Path, c)
	default:
		return nil, fmt.Errorf("hconfig: unknown archive backend %q", spec.Backend)
	}
}

// BuildCache assembles the eviction Policy and Cache a CacheSpec
// describes, wiring in arch (which may be nil). The "no" policy always
// gets capacity 0, whatever spec.Capacity says.
func BuildCache(spec CacheSpec, arch archive.Archive) (*cache.Cache, error) {
	name := eviction.Name(spec.Policy)
	if name == "" {
		name = eviction.LRUName
	}
	policy, err := eviction.New(name, 0)
	if err != nil {
		return nil, err
	}
	capacity := spec.Capacity
	if name == eviction.NoCacheName {
		capacity = 0
	}
	return cache.New(cache.Config{
		Capacity:  capacity,
		Policy:    policy,
		Unbounded: name == eviction.UnboundedName,
		Archive:   arch,
	}), nil
}
