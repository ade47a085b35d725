package archive

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/yourusername/hoard/internal/lock"
	"github.com/yourusername/hoard/pkg/codec"
	"github.com/yourusername/hoard/pkg/herrors"
)

// Dir is a directory-of-files archive: one file per key.
// Unlike File, Dir is safe for concurrent multi-writer use at per-key
// granularity — each Dump/Delete atomically replaces only its own key's
// file (temp-then-rename within the directory), and an internal
// Sharded lock serializes same-key writers within this process. The
// directory listing is authoritative; an optional .index sidecar file
// (written best-effort, never read back) exists only as a human-
// browsable hint and is never consulted by Load/Keys, per the
// specification's directory-is-authoritative rule.
type Dir struct {
	dir       string
	codec     codec.Codec
	locks     *lock.Sharded
	writeIdx  bool
}

// NewDir returns a Dir archive rooted at dir, which is created if
// absent. writeIndexSidecar controls whether a non-authoritative
// ".index" file is maintained for human inspection.
func NewDir(dir string, c codec.Codec, writeIndexSidecar bool) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &herrors.ArchiveError{Backend: "dir", Op: "mkdir", Err: err}
	}
	return &Dir{
		dir:      dir,
		codec:    defaultCodec(c),
		locks:    lock.NewSharded(64),
		writeIdx: writeIndexSidecar,
	}, nil
}

// encodeFilename turns an arbitrary key string into a filesystem- and
// URL-safe filename via unpadded base64url, avoiding collisions between
// keys that differ only in characters the filesystem treats specially.
func encodeFilename(keyStr string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(keyStr))
}

func decodeFilename(name string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (a *Dir) pathFor(keyStr string) string {
	return filepath.Join(a.dir, encodeFilename(keyStr))
}

func (a *Dir) Load(key any) (any, bool, error) {
	keyStr := keyToString(key)
	unlock := a.locks.Lock(keyStr)
	defer unlock()

	data, err := os.ReadFile(a.pathFor(keyStr))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "dir", Op: "read", Err: err}
	}
	var v any
	if err := a.codec.Unmarshal(data, &v); err != nil {
		return nil, false, &herrors.ArchiveError{Backend: "dir", Op: "decode", Err: err}
	}
	return v, true, nil
}

func (a *Dir) Dump(key any, value any) error {
	keyStr := keyToString(key)
	unlock := a.locks.Lock(keyStr)
	defer unlock()

	data, err := a.codec.Marshal(value)
	if err != nil {
		return &herrors.ArchiveError{Backend: "dir", Op: "encode", Err: err}
	}
	target := a.pathFor(keyStr)
	tmp, err := os.CreateTemp(a.dir, ".tmp-*")
	if err != nil {
		return &herrors.ArchiveError{Backend: "dir", Op: "create-temp", Err: err}
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &herrors.ArchiveError{Backend: "dir", Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &herrors.ArchiveError{Backend: "dir", Op: "close-temp", Err: err}
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return &herrors.ArchiveError{Backend: "dir", Op: "rename", Err: err}
	}
	if a.writeIdx {
		a.appendIndexBestEffort(keyStr)
	}
	return nil
}

// appendIndexBestEffort maintains a ".index" file listing known keys,
// one per line, for human inspection only. Failures are swallowed: the
// sidecar is never authoritative, so it must never turn a successful
// Dump into an error.
func (a *Dir) appendIndexBestEffort(keyStr string) {
	f, err := os.OpenFile(filepath.Join(a.dir, ".index"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(keyStr + "\n")
}

func (a *Dir) Delete(key any) error {
	keyStr := keyToString(key)
	unlock := a.locks.Lock(keyStr)
	defer unlock()

	err := os.Remove(a.pathFor(keyStr))
	if err != nil && !os.IsNotExist(err) {
		return &herrors.ArchiveError{Backend: "dir", Op: "remove", Err: err}
	}
	return nil
}

func (a *Dir) Keys() ([]any, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, &herrors.ArchiveError{Backend: "dir", Op: "readdir", Err: err}
	}
	keys := make([]any, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		keyStr, err := decodeFilename(name)
		if err != nil {
			continue // skip files this archive did not create
		}
		keys = append(keys, keyStr)
	}
	return keys, nil
}

func (a *Dir) Close() error { return nil }
