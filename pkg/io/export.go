package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/site"
)

// WriteStructure writes s as indented JSON that [ReadStructure] accepts.
func WriteStructure(s *site.Structure, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode structure")
	}
	return nil
}

// ExportStructure writes s to path, creating parent directories. The file
// is replaced atomically, so a failed export leaves any previous one intact.
func ExportStructure(s *site.Structure, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".structure-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if err := WriteStructure(s, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}
