package archive

// Null discards every Dump and reports every Load as absent. It is
// a discard archive: useful when a decorator wants the archive
// plumbing (Load/Dump/Sync calls all succeed) without ever retaining
// data, e.g. to benchmark the in-memory Cache alone.
type Null struct{}

// NewNull returns a Null archive.
func NewNull() *Null { return &Null{} }

func (Null) Load(any) (any, bool, error) { return nil, false, nil }
func (Null) Dump(any, any) error         { return nil }
func (Null) Delete(any) error            { return nil }
func (Null) Keys() ([]any, error)        { return nil, nil }
func (Null) Close() error                { return nil }
