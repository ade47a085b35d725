package archive

import "sync"

// Memory is a process-local, non-durable Archive backed by a plain map.
// It is the simplest archive: useful for tests and for composing a
// Cache's sync semantics without touching a disk or network resource.
type Memory struct {
	mu   sync.Mutex
	data map[any]any
}

// NewMemory returns an empty Memory archive.
func NewMemory() *Memory { return &Memory{data: make(map[any]any)} }

func (a *Memory) Load(key any) (any, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	v, ok := a.data[key]
	return v, ok, nil
}

func (a *Memory) Dump(key any, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.data[key] = value
	return nil
}

func (a *Memory) Delete(key any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.data, key)
	return nil
}

func (a *Memory) Keys() ([]any, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	keys := make([]any, 0, len(a.data))
	for k := range a.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (a *Memory) Close() error { return nil }
