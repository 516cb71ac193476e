package config

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/goccy/go-json"
	"github.com/spf13/cast"
	"github.com/vmihailenco/msgpack/v5"
	"go.lorenzomilicia.dev/cnnkit/internal/util"
)

// Document is a parsed configuration tree with string keys.
//
// Values are read either by key lookup (Get with a dotted path), through the
// named accessors (Sub, String, Int, ...), or by decoding the whole tree into
// a typed struct with Decode. A Document is never modified after it is built;
// accessors hand out copies of nested maps and slices.
type Document struct {
	root map[string]any
}

// FromMap builds a Document from m. Nested maps with non-string keys get
// their keys stringified and integer values are normalized to int64.
func FromMap(m map[string]any) Document {
	return Document{root: normalizeMap(m)}
}

// Len returns the number of top-level keys.
func (d Document) Len() int {
	return len(d.root)
}

// Keys returns the top-level keys in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d.root))
	for k := range d.root {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up key. A key that exists verbatim at the top level wins;
// otherwise key is treated as a dot-separated path into nested mappings.
func (d Document) Get(key string) (any, bool) {
	if v, ok := d.root[key]; ok {
		return clone(v), true
	}

	var cur any = d.root
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return clone(cur), true
}

// Has reports whether key resolves to a value.
func (d Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Sub returns the nested mapping at key, or an empty Document when key is
// missing or not a mapping.
func (d Document) Sub(key string) Document {
	v, ok := d.Get(key)
	if !ok {
		return Document{}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return Document{}
	}
	return Document{root: m}
}

// String returns the value at key converted to a string ("" when missing).
func (d Document) String(key string) string {
	v, _ := d.Get(key)
	return cast.ToString(v)
}

// Int returns the value at key converted to an int (0 when missing).
func (d Document) Int(key string) int {
	v, _ := d.Get(key)
	return cast.ToInt(v)
}

// Float64 returns the value at key converted to a float64.
func (d Document) Float64(key string) float64 {
	v, _ := d.Get(key)
	return cast.ToFloat64(v)
}

// Bool returns the value at key converted to a bool.
func (d Document) Bool(key string) bool {
	v, _ := d.Get(key)
	return cast.ToBool(v)
}

func (d Document) StringSlice(key string) []string {
	v, _ := d.Get(key)
	return cast.ToStringSlice(v)
}

func (d Document) IntSlice(key string) []int {
	v, _ := d.Get(key)
	return cast.ToIntSlice(v)
}

// Map returns a deep copy of the underlying tree.
func (d Document) Map() map[string]any {
	if d.root == nil {
		return map[string]any{}
	}
	return clone(d.root).(map[string]any)
}

// Decode copies the tree into out, which must be a pointer to a struct or
// map. Struct fields are matched through their `mapstructure` tags.
func (d Document) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return &util.OpError{Op: "decode document", Kind: util.ErrDeserialization, Err: err}
	}
	if err := dec.Decode(d.root); err != nil {
		return &util.OpError{Op: "decode document", Kind: util.ErrDeserialization, Err: err}
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Map())
}

func (d Document) MarshalYAML() (interface{}, error) {
	return d.Map(), nil
}

// EncodeMsgpack writes the tree as a plain msgpack map.
func (d Document) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(d.Map())
}

// DecodeMsgpack replaces d with the mapping read from dec. A msgpack nil
// decodes to an empty Document.
func (d *Document) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	if raw == nil {
		*d = Document{root: map[string]any{}}
		return nil
	}
	doc, err := fromValue(raw)
	if err != nil {
		return err
	}
	*d = doc
	return nil
}

func normalizeMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[fmt.Sprint(k)] = normalize(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = normalize(v)
		}
		return out
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint:
		return normalizeUint(uint64(t))
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		return normalizeUint(t)
	case float32:
		return float64(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// normalizeUint keeps values above MaxInt64 as uint64.
func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}
	return int64(u)
}

func clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = clone(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = clone(v)
		}
		return out
	default:
		return v
	}
}
