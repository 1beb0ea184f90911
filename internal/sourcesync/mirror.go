// Package sourcesync copies cutoff source files from object storage into the
// local source directory before the unified table is loaded. It runs once at
// startup; picking up new files still requires a restart.
package sourcesync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"rankcet/pkg/utils"
)

// ErrDuplicateName is recorded for an object whose base name was already
// fetched from another key under the prefix.
var ErrDuplicateName = errors.New("base name already mirrored from another key")

// Store is the subset of an object store the mirror needs.
type Store interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Fetch(ctx context.Context, key string, w io.Writer) error
}

// Result summarizes one mirror run.
type Result struct {
	Downloaded []string
	Failed     map[string]error
}

// Mirror downloads every *.csv object under prefix into dir, flattening the
// key to its base name. Individual object failures are logged and reported
// but do not stop the run. When two keys share a base name the first one in
// listing order wins and the later one is skipped.
// Only listing failures and an unusable dir are returned as errors.
func Mirror(ctx context.Context, store Store, prefix, dir string, logger *utils.Logger) (Result, error) {
	if logger == nil {
		logger = utils.NewTestLogger()
	}
	res := Result{Failed: make(map[string]error)}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, fmt.Errorf("create source dir: %w", err)
	}

	keys, err := store.List(ctx, prefix)
	if err != nil {
		return res, err
	}

	seen := make(map[string]string)
	for _, key := range keys {
		name := path.Base(key)
		if strings.HasSuffix(key, "/") || !strings.EqualFold(path.Ext(name), ".csv") {
			continue
		}
		if first, dup := seen[name]; dup {
			err := fmt.Errorf("%w: %s", ErrDuplicateName, first)
			logger.Warn("[sourcesync] skipping %s: %v", key, err)
			res.Failed[key] = err
			continue
		}
		seen[name] = key
		if err := fetchTo(ctx, store, key, filepath.Join(dir, name)); err != nil {
			logger.Warn("[sourcesync] %s: %v", key, err)
			res.Failed[key] = err
			continue
		}
		logger.Info("[sourcesync] fetched %s", key)
		res.Downloaded = append(res.Downloaded, name)
	}
	return res, nil
}

// fetchTo writes into a temp file first so a half-downloaded object never
// shows up as a source file.
func fetchTo(ctx context.Context, store Store, key, dst string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".fetch-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := store.Fetch(ctx, key, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
