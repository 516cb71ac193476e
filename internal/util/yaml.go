package util

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML loads a YAML file into the provided structure.
// A missing file is reported as ErrNotFound and a decode failure as ErrParse.
func LoadYAML(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileError("read yaml", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return &OpError{Op: "parse yaml", Path: path, Kind: ErrParse, Err: err}
	}
	return nil
}

// SaveYAML saves a structure to a YAML file
func SaveYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return &OpError{Op: "encode yaml", Path: path, Kind: ErrSerialization, Err: err}
	}
	return WriteFileAtomic(path, data, 0644)
}
