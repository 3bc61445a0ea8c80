package franklin

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// MissingInputError reports an input path that does not exist. It aborts the
// whole batch.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("'%s' does not exist", e.Path)
}

// ResolveInputs expands directories in paths to the files directly inside
// them whose name ends in ext. Other paths are kept as given, whether or not
// they exist; Run checks existence when it reaches each one.
func ResolveInputs(paths []string, ext string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", p, err)
		}
		for _, m := range matches {
			if fi, err := os.Stat(m); err == nil && !fi.IsDir() {
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// Run processes every input in order, one at a time. The first failure stops
// the batch: reports already written stay on disk and no further input is
// read. It returns the reports written.
func Run(paths []string, opts Options) ([]string, error) {
	opts.Logger = opts.Logger.With().Str("run", uuid.NewString()).Logger()

	files, err := ResolveInputs(paths, opts.Extension)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug().Int("files", len(files)).Msg("inputs resolved")

	var written []string
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			return written, &MissingInputError{Path: f}
		}
		out, err := ProcessFile(f, opts)
		if err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}
