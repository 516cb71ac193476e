package uploader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// PushOptions controls how a local artifacts directory is mirrored remotely
type PushOptions struct {
	// Prefix is prepended to every key (e.g. "artifacts/")
	Prefix string

	// Force uploads even if the object already exists
	Force bool

	// DryRun walks and reports without touching remote storage
	DryRun bool

	// SkipHidden ignores files and directories whose name starts with "."
	SkipHidden bool
}

// PushSummary counts the outcome of a Push
type PushSummary struct {
	Uploaded int
	Skipped  int
	Errors   int
	Bytes    int64
}

// Key builds the remote key for a path relative to the pushed directory
func (o PushOptions) Key(rel string) string {
	key := filepath.ToSlash(rel)
	if o.Prefix == "" {
		return key
	}
	return strings.TrimSuffix(o.Prefix, "/") + "/" + key
}

// Push uploads every regular file under dir. Failures on individual files
// are logged and counted in the summary; only a failure to walk dir or a
// cancelled context aborts the push. ul may be nil when opts.DryRun is set.
func Push(ctx context.Context, ul Uploader, dir string, opts PushOptions, logger zerolog.Logger) (PushSummary, error) {
	var sum PushSummary
	if ul == nil && !opts.DryRun {
		return sum, fmt.Errorf("no uploader configured")
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logger.Warn().Err(err).Str("path", path).Msg("Error accessing path")
			sum.Errors++
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if opts.SkipHidden && path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			sum.Skipped++
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Error calculating relative path")
			sum.Errors++
			return nil
		}
		key := opts.Key(rel)
		contentType := DetectContentType(path)

		if opts.DryRun {
			logger.Info().Str("key", key).Str("contentType", contentType).Msg("Would upload")
			sum.Uploaded++
			return nil
		}

		if !opts.Force {
			exists, err := ul.Exists(ctx, key)
			if err != nil {
				logger.Warn().Err(err).Str("key", key).Msg("Error checking existence")
				sum.Errors++
				return nil
			}
			if exists {
				logger.Debug().Str("key", key).Msg("Already exists, skipping")
				sum.Skipped++
				return nil
			}
		}

		n, err := uploadFile(ctx, ul, path, key, contentType)
		if err != nil {
			logger.Error().Err(err).Str("key", key).Msg("Upload failed")
			sum.Errors++
			return nil
		}

		logger.Info().Str("key", key).Str("url", ul.GetURL(key)).Msg("Uploaded")
		sum.Uploaded++
		sum.Bytes += n
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("failed to push %s: %w", dir, err)
	}
	return sum, nil
}

func uploadFile(ctx context.Context, ul Uploader, path, key, contentType string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if err := ul.Upload(ctx, key, f, contentType); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
