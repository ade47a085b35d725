package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yourusername/hoard/pkg/codec"
	"github.com/yourusername/hoard/pkg/herrors"
)

// fileFormatVersion is written as the single leading byte of every
// file this backend writes, ahead of the serialized body, so a future
// format change can be detected on read instead of silently
// misparsing an old file.
const fileFormatVersion byte = 1

// File is a single-file archive: the entire mapping lives in one
// serialized file, rewritten wholesale on every Dump. It is NOT safe
// for concurrent writers across processes — only this Archive value's
// own mutex serializes writers within one process. Writes go to a temp
// file and rename over the target so a reader never observes a
// partial write. The file's first byte is a format version; the
// serialized body follows.
type File struct {
	mu    sync.Mutex
	path  string
	codec codec.Codec
	cache map[string]any // keyToString(key) -> value, loaded lazily
}

// NewFile returns a File archive backed by path, using codec c (nil for
// the default JSON codec) to serialize the whole mapping.
func NewFile(path string, c codec.Codec) *File {
	return &File{path: path, codec: defaultCodec(c)}
}

func (a *File) ensureLoaded() error {
	if a.cache != nil {
		return nil
	}
	a.cache = make(map[string]any)
	data, err := os.ReadFile(a.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &herrors.ArchiveError{Backend: "file", Op: "read", Err: err}
	}
	if len(data) == 0 {
		return nil
	}
	version, body := data[0], data[1:]
	if version != fileFormatVersion {
		return &herrors.ArchiveError{Backend: "file", Op: "decode", Err: fmt.Errorf("unsupported file archive format version %d", version)}
	}
	if err := a.codec.Unmarshal(body, &a.cache); err != nil {
		return &herrors.ArchiveError{Backend: "file", Op: "decode", Err: err}
	}
	return nil
}

func (a *File) Load(key any) (any, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureLoaded(); err != nil {
		return nil, false, err
	}
	v, ok := a.cache[keyToString(key)]
	return v, ok, nil
}

func (a *File) Dump(key any, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureLoaded(); err != nil {
		return err
	}
	a.cache[keyToString(key)] = value
	return a.flush()
}

func (a *File) Delete(key any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureLoaded(); err != nil {
		return err
	}
	delete(a.cache, keyToString(key))
	return a.flush()
}

func (a *File) Keys() ([]any, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.ensureLoaded(); err != nil {
		return nil, err
	}
	keys := make([]any, 0, len(a.cache))
	for k := range a.cache {
		keys = append(keys, k)
	}
	return keys, nil
}

func (a *File) Close() error { return nil }

// flush rewrites the whole backing file atomically: encode to a temp
// file in the same directory, fsync, then rename over the target. The
// same-directory requirement keeps the rename atomic on the same
// filesystem (os.Rename is not atomic across filesystem boundaries).
func (a *File) flush() error {
	body, err := a.codec.Marshal(a.cache)
	if err != nil {
		return &herrors.ArchiveError{Backend: "file", Op: "encode", Err: err}
	}
	data := make([]byte, 0, len(body)+1)
	data = append(data, fileFormatVersion)
	data = append(data, body...)
	dir := filepath.Dir(a.path)
	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".%s.tmp-*", filepath.Base(a.path)))
	if err != nil {
		return &herrors.ArchiveError{Backend: "file", Op: "create-temp", Err: err}
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &herrors.ArchiveError{Backend: "file", Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &herrors.ArchiveError{Backend: "file", Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &herrors.ArchiveError{Backend: "file", Op: "close-temp", Err: err}
	}
	if err := os.Rename(tmpPath, a.path); err != nil {
		os.Remove(tmpPath)
		return &herrors.ArchiveError{Backend: "file", Op: "rename", Err: err}
	}
	return nil
}
