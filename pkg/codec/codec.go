// Package codec provides the value (de)serialization, fingerprinting and
// stringification primitives the keymap and archive layers build on.
package codec

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"sort"

	"github.com/yourusername/hoard/pkg/herrors"
)

// Codec marshals and unmarshals arbitrary Go values to and from bytes.
// Implementations are grouped by encoding; the zero value of each
// implementation is ready to use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// JSONCodec encodes values as JSON. It is the default codec: JSON is
// human-inspectable, which matters for the directory and SQL archive
// backends where a stored value may be read outside this library.
type JSONCodec struct{ Pretty bool }

func (c JSONCodec) Marshal(v any) ([]byte, error) {
	if c.Pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func (c JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (c JSONCodec) Name() string                       { return "json" }

// GobCodec encodes values using encoding/gob. It round-trips Go types
// (including unexported-field-free structs) more faithfully than JSON,
// at the cost of not being portable outside Go.
type GobCodec struct{}

func (c GobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c GobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (c GobCodec) Name() string { return "gob" }

// StringCodec encodes a value by its Go string form (fmt.Sprintf("%v"))
// and only decodes into *string destinations. It is selectable by name
// ("string") as the Pickle keymap variant's codec, where keys are only
// marshaled. The archive backends decode into *any, so an archive
// configured with it can Dump values but its Load fails.
type StringCodec struct{}

func (c StringCodec) Marshal(v any) ([]byte, error) {
	return []byte(fmt.Sprintf("%v", v)), nil
}

func (c StringCodec) Unmarshal(data []byte, v any) error {
	sp, ok := v.(*string)
	if !ok {
		return fmt.Errorf("codec: StringCodec.Unmarshal requires *string, got %T", v)
	}
	*sp = string(data)
	return nil
}

func (c StringCodec) Name() string { return "string" }

// DefaultCodec returns the codec used when none is configured.
func DefaultCodec() Codec { return JSONCodec{} }

// ByName resolves a codec by its Name(). It returns an error wrapping
// herrors.ValueEncodingError for an unrecognized name.
func ByName(name string) (Codec, error) {
	switch name {
	case "json", "":
		return JSONCodec{}, nil
	case "gob":
		return GobCodec{}, nil
	case "string":
		return StringCodec{}, nil
	default:
		return nil, &herrors.ValueEncodingError{Op: "resolve-codec", Err: fmt.Errorf("unknown codec %q", name)}
	}
}

// canonicalNaNBits is the fixed bit pattern substituted for any IEEE 754
// NaN payload before hashing or stringifying a float, so that the many
// bit-distinct NaN values all fingerprint identically.
const canonicalNaNBits uint64 = 0x7ff8000000000000

// Fingerprint returns a stable 64-bit digest of v, suitable for the Hash
// keymap variant and for directory-archive filenames. It canonicalizes
// NaNs, then hashes a deterministic encoding of v: JSON for everything
// reachable by encoding/json, falling back to Stringify for values JSON
// cannot represent (channels, funcs).
func Fingerprint(v any) ([8]byte, error) {
	canon := canonicalizeFloats(v)
	data, err := json.Marshal(canon)
	if err != nil {
		data = []byte(Stringify(canon))
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	var out [8]byte
	sum := h.Sum64()
	for i := 0; i < 8; i++ {
		out[i] = byte(sum >> (8 * i))
	}
	return out, nil
}

// canonicalizeFloats walks v replacing any NaN float64 with the
// canonical NaN bit pattern reinterpreted as float64, recursing into
// slices and maps. Other values pass through unchanged.
func canonicalizeFloats(v any) any {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return math.Float64frombits(canonicalNaNBits)
		}
		return t
	case float32:
		if math.IsNaN(float64(t)) {
			return float32(math.Float64frombits(canonicalNaNBits))
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = canonicalizeFloats(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = canonicalizeFloats(e)
		}
		return out
	default:
		return v
	}
}

// Stringify renders v as a stable textual form: map keys are sorted so
// that two maps with identical contents but different iteration order
// stringify identically. It backs the String keymap variant.
func Stringify(v any) string {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(&buf, "%q:%s", k, Stringify(t[k]))
		}
		buf.WriteByte('}')
		return buf.String()
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(Stringify(e))
		}
		buf.WriteByte(']')
		return buf.String()
	default:
		return fmt.Sprintf("%#v", canonicalizeFloats(v))
	}
}
