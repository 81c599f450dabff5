package codegen

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteFile writes the rendered header into dir and returns its path.
func (h *Header) WriteFile(dir string) (string, error) {
	path := filepath.Join(dir, h.Filename())
	if err := os.WriteFile(path, h.Render(), 0644); err != nil {
		return "", errors.Wrap(err, "cannot write header")
	}
	return path, nil
}

// Accumulator owns the two list files that grow by one line per
// converted image. Both paths are optional; an empty path disables that
// list. Lifecycle belongs to the caller: Reset truncates before a fresh
// batch, otherwise every Add appends to whatever is already there.
type Accumulator struct {
	includePath string
	structPath  string
}

// NewAccumulator returns an accumulator writing the named list files
// inside dir. Empty filenames disable the corresponding list.
func NewAccumulator(dir, includeList, structList string) *Accumulator {
	a := &Accumulator{}
	if includeList != "" {
		a.includePath = filepath.Join(dir, includeList)
	}
	if structList != "" {
		a.structPath = filepath.Join(dir, structList)
	}
	return a
}

// Reset truncates both list files so the next Add starts a new batch.
func (a *Accumulator) Reset() error {
	for _, path := range []string{a.includePath, a.structPath} {
		if path == "" {
			continue
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return errors.Wrap(err, "cannot truncate list")
		}
	}
	return nil
}

// Add appends the header's include and struct lines to the list files.
func (a *Accumulator) Add(h *Header) error {
	if err := appendLine(a.includePath, h.IncludeLine()); err != nil {
		return err
	}
	return appendLine(a.structPath, h.StructLine())
}

func appendLine(path, line string) error {
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "cannot open list")
	}

	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return errors.Wrap(err, "cannot append to list")
	}

	return errors.Wrap(f.Close(), "cannot append to list")
}
