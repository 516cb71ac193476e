//go:build windows

package util

import "os"

// WriteFileAtomic writes data to path. renameio does not support Windows,
// so this falls back to a direct overwrite.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return &OpError{Op: "write", Path: path, Kind: ErrFilesystem, Err: err}
	}
	return nil
}
