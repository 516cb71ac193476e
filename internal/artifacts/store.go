package artifacts

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"go.lorenzomilicia.dev/cnnkit/internal/config"
	"go.lorenzomilicia.dev/cnnkit/internal/util"
)

// Store reads and writes pipeline configuration and artifacts on the local
// filesystem. Every successful operation logs one info line with the path.
type Store struct {
	log zerolog.Logger
}

// NewStore creates a Store that logs to logger.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{log: logger}
}

// ReadYAML reads a YAML config file into a Document.
func (s *Store) ReadYAML(path string) (config.Document, error) {
	var raw any
	if err := util.LoadYAML(path, &raw); err != nil {
		return config.Document{}, err
	}

	doc, err := config.FromYAMLValue(raw)
	if err != nil {
		return config.Document{}, util.WithPath(err, path)
	}

	s.log.Info().Str("path", path).Msg("yaml file loaded successfully")
	return doc, nil
}

// SaveYAML writes data as YAML.
func (s *Store) SaveYAML(path string, data any) error {
	if err := util.SaveYAML(path, data); err != nil {
		return util.WithPath(err, path)
	}
	s.log.Info().Str("path", path).Msg("yaml file saved")
	return nil
}

// EnsureDirectories creates each directory in paths along with any missing
// parents. Directories that already exist are left alone. With verbose set,
// each newly created directory is logged at info level and each existing one
// at debug level.
func (s *Store) EnsureDirectories(paths []string, verbose bool) error {
	for _, path := range paths {
		existed := isDir(path)
		if err := os.MkdirAll(path, 0755); err != nil {
			return &util.OpError{Op: "create directory", Path: path, Kind: util.ErrFilesystem, Err: err}
		}
		if !verbose {
			continue
		}
		if existed {
			s.log.Debug().Str("path", path).Msg("directory already exists")
			continue
		}
		s.log.Info().Str("path", path).Msg("created directory")
	}
	return nil
}

// SaveJSON writes data as JSON indented with four spaces, replacing any
// existing file. A nil map is written as an empty object.
func (s *Store) SaveJSON(path string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	b, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return &util.OpError{Op: "encode json", Path: path, Kind: util.ErrSerialization, Err: err}
	}
	b = append(b, '\n')

	if err := util.WriteFileAtomic(path, b, 0644); err != nil {
		return err
	}

	s.log.Info().Str("path", path).Msg("json file saved")
	return nil
}

// LoadJSON reads a JSON object into a Document.
//
// Numbers without a fractional part come back as int64, so a float64(3)
// saved with SaveJSON loads as int64(3). Use Document.Float64 when the
// field is a float.
func (s *Store) LoadJSON(path string) (config.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return config.Document{}, util.FileError("read json", path, err)
	}

	doc, err := config.ParseJSON(b)
	if err != nil {
		return config.Document{}, util.WithPath(err, path)
	}

	s.log.Info().Str("path", path).Msg("json file loaded successfully")
	return doc, nil
}

// SaveBin serializes data with msgpack and writes it to path.
func (s *Store) SaveBin(data any, path string) error {
	b, err := msgpack.Marshal(data)
	if err != nil {
		return &util.OpError{Op: "encode binary", Path: path, Kind: util.ErrSerialization, Err: err}
	}

	if err := util.WriteFileAtomic(path, b, 0644); err != nil {
		return err
	}

	s.log.Info().Str("path", path).Msg("binary file saved")
	return nil
}

// LoadBin reads a file written by SaveBin without a target type. Maps come
// back as map[string]interface{}, integers as int64 or uint64 and floats as
// float64. Use LoadBinInto to restore a concrete type.
func (s *Store) LoadBin(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, util.FileError("read binary", path, err)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return nil, &util.OpError{Op: "decode binary", Path: path, Kind: util.ErrDeserialization, Err: err}
	}

	s.log.Info().Str("path", path).Msg("binary file loaded")
	return v, nil
}

// LoadBinInto reads a file written by SaveBin into v, which must be a
// pointer.
func (s *Store) LoadBinInto(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return util.FileError("read binary", path, err)
	}

	if err := msgpack.Unmarshal(b, v); err != nil {
		return &util.OpError{Op: "decode binary", Path: path, Kind: util.ErrDeserialization, Err: err}
	}

	s.log.Info().Str("path", path).Msg("binary file loaded")
	return nil
}

// FileSizeKB returns the size of path in KiB rounded to the nearest integer,
// formatted as "~ <n> KB".
func (s *Store) FileSizeKB(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", util.FileError("stat", path, err)
	}
	kb := int64(math.Round(float64(info.Size()) / 1024))
	return fmt.Sprintf("~ %d KB", kb), nil
}

// HumanSize returns the size of path in IEC units, e.g. "2.0 KiB".
func (s *Store) HumanSize(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", util.FileError("stat", path, err)
	}
	return humanize.IBytes(uint64(info.Size())), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
