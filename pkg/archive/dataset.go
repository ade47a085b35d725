package archive

import (
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/yourusername/hoard/internal/lock"
	"github.com/yourusername/hoard/pkg/codec"
	"github.com/yourusername/hoard/pkg/herrors"
)

// datasetBucket is the single bbolt bucket every Dataset and DatasetDir
// archive uses, standing in for an HDF5-style group. All keys of an
// archive live in this one bucket; there is no per-cache grouping
// inside a file.
var datasetBucket = []byte("hoard")

// Dataset is a single hierarchical-dataset-file archive: every key lives as one entry inside
// a single bbolt database file, the bbolt bucket playing the role of
// an HDF5 group. Like File, it is not safe for multiple processes to
// write concurrently — bbolt itself serializes writers within one
// process via its own transaction lock, so no additional locking is
// needed here.
type Dataset struct {
	db    *bbolt.DB
	codec codec.Codec
}

// NewDataset opens (creating if absent) a bbolt database at path and
// returns a Dataset archive over it.
func NewDataset(path string, c codec.Codec) (*Dataset, error) {
	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, &herrors.ArchiveError{Backend: "dataset", Op: "open", Err: err}
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(datasetBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, &herrors.ArchiveError{Backend: "dataset", Op: "create-bucket", Err: err}
	}
	return &Dataset{db: db, codec: defaultCodec(c)}, nil
}

func (a *Dataset) Load(key any) (any, bool, error) {
	var data []byte
	err := a.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(datasetBucket)
		v := b.Get([]byte(keyToString(key)))
		if v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "dataset", Op: "view", Err: err}
	}
	if data == nil {
		return nil, false, nil
	}
	var v any
	if err := a.codec.Unmarshal(data, &v); err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "dataset", Op: "decode", Err: err}
	}
	return v, true, nil
}

func (a *Dataset) Dump(key any, value any) error {
	data, err := a.codec.Marshal(value)
	if err != nil {
		return &herrors.ArchiveError{Backend: "dataset", Op: "encode", Err: err}
	}
	err = a.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(datasetBucket).Put([]byte(keyToString(key)), data)
	})
	if err != nil {
		return &herrors.ArchiveError{Backend: "dataset", Op: "update", Err: err}
	}
	return nil
}

func (a *Dataset) Delete(key any) error {
	err := a.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(datasetBucket).Delete([]byte(keyToString(key)))
	})
	if err != nil {
		return &herrors.ArchiveError{Backend: "dataset", Op: "delete", Err: err}
	}
	return nil
}

func (a *Dataset) Keys() ([]any, error) {
	var keys []any
	err := a.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(datasetBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, &herrors.ArchiveError{Backend: "dataset", Op: "view", Err: err}
	}
	return keys, nil
}

func (a *Dataset) Close() error { return a.db.Close() }

// DatasetDir is a hierarchical-dataset-directory archive: one bbolt database file per
// key inside a directory, rather than one shared database file. This
// trades Dataset's single-file simplicity for per-key concurrent
// writers, the same tradeoff Dir makes over File, using the same
// Sharded lock to serialize same-key writers within this process.
type DatasetDir struct {
	dir   string
	codec codec.Codec
	locks *lock.Sharded
}

// NewDatasetDir returns a DatasetDir archive rooted at dir, creating it
// if absent.
func NewDatasetDir(dir string, c codec.Codec) (*DatasetDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &herrors.ArchiveError{Backend: "datasetdir", Op: "mkdir", Err: err}
	}
	return &DatasetDir{dir: dir, codec: defaultCodec(c), locks: lock.NewSharded(64)}, nil
}

func (a *DatasetDir) pathFor(keyStr string) string {
	return filepath.Join(a.dir, encodeFilename(keyStr)+".db")
}

func (a *DatasetDir) Load(key any) (any, bool, error) {
	keyStr := keyToString(key)
	unlock := a.locks.Lock(keyStr)
	defer unlock()

	path := a.pathFor(keyStr)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, false, nil
	}
	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "datasetdir", Op: "open", Err: err}
	}
	defer db.Close()

	var data []byte
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(datasetBucket)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(keyStr))
		if v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "datasetdir", Op: "view", Err: err}
	}
	if data == nil {
		return nil, false, nil
	}
	var v any
	if err := a.codec.Unmarshal(data, &v); err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "datasetdir", Op: "decode", Err: err}
	}
	return v, true, nil
}

func (a *DatasetDir) Dump(key any, value any) error {
	keyStr := keyToString(key)
	unlock := a.locks.Lock(keyStr)
	defer unlock()

	data, err := a.codec.Marshal(value)
	if err != nil {
		return &herrors.ArchiveError{Backend: "datasetdir", Op: "encode", Err: err}
	}
	db, err := bbolt.Open(a.pathFor(keyStr), 0o644, nil)
	if err != nil {
		return &herrors.ArchiveError{Backend: "datasetdir", Op: "open", Err: err}
	}
	defer db.Close()

	err = db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(datasetBucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(keyStr), data)
	})
	if err != nil {
		return &herrors.ArchiveError{Backend: "datasetdir", Op: "update", Err: err}
	}
	return nil
}

func (a *DatasetDir) Delete(key any) error {
	keyStr := keyToString(key)
	unlock := a.locks.Lock(keyStr)
	defer unlock()

	err := os.Remove(a.pathFor(keyStr))
	if err != nil && !os.IsNotExist(err) {
		return &herrors.ArchiveError{Backend: "datasetdir", Op: "remove", Err: err}
	}
	return nil
}

func (a *DatasetDir) Keys() ([]any, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, &herrors.ArchiveError{Backend: "datasetdir", Op: "readdir", Err: err}
	}
	var keys []any
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		const suffix = ".db"
		if len(name) <= len(suffix) || name[len(name)-len(suffix):] != suffix {
			continue
		}
		keyStr, err := decodeFilename(name[:len(name)-len(suffix)])
		if err != nil {
			continue
		}
		keys = append(keys, keyStr)
	}
	return keys, nil
}

func (a *DatasetDir) Close() error { return nil }
