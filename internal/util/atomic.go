//go:build !windows

package util

import (
	"os"

	"github.com/google/renameio/v2"
)

// WriteFileAtomic replaces path with data. The content goes to a temporary
// file in the same directory which is fsynced and renamed over path, so
// readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return &OpError{Op: "write", Path: path, Kind: ErrFilesystem, Err: err}
	}
	return nil
}
