package config

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"go.lorenzomilicia.dev/cnnkit/internal/util"
	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML document into a Document.
//
// The document is decoded into plain maps, slices and scalars only, so tags
// in the input can never construct arbitrary types.
func ParseYAML(data []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Document{}, &util.OpError{Op: "parse yaml", Kind: util.ErrParse, Err: err}
	}
	return FromYAMLValue(raw)
}

// FromYAMLValue builds a Document from a value produced by yaml.Unmarshal
// into an interface{}. A null document or an empty top-level mapping yields
// ErrEmptyDocument; a top level that is not a mapping yields ErrParse.
func FromYAMLValue(raw any) (Document, error) {
	if raw == nil {
		return Document{}, &util.OpError{Op: "parse yaml", Kind: util.ErrEmptyDocument}
	}
	doc, err := fromValue(raw)
	if err != nil {
		return Document{}, &util.OpError{Op: "parse yaml", Kind: util.ErrParse, Err: err}
	}
	if doc.Len() == 0 {
		return Document{}, &util.OpError{Op: "parse yaml", Kind: util.ErrEmptyDocument}
	}
	return doc, nil
}

// ParseJSON parses a JSON object into a Document. Unlike ParseYAML an empty
// object is accepted, so that saving and loading {} round-trips.
// Integral numbers, including ones written as 3.0, decode as int64.
func ParseJSON(data []byte) (Document, error) {
	if !json.Valid(data) {
		return Document{}, &util.OpError{Op: "parse json", Kind: util.ErrParse, Err: fmt.Errorf("invalid JSON")}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Document{}, &util.OpError{Op: "parse json", Kind: util.ErrParse, Err: err}
	}

	doc, err := fromValue(raw)
	if err != nil {
		return Document{}, &util.OpError{Op: "parse json", Kind: util.ErrParse, Err: err}
	}
	return doc, nil
}

func fromValue(raw any) (Document, error) {
	switch m := normalize(raw).(type) {
	case map[string]any:
		return Document{root: m}, nil
	default:
		return Document{}, fmt.Errorf("top-level value must be a mapping, got %T", raw)
	}
}
