package io

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/imports"
	"github.com/matzehuels/sitegraph/pkg/scan"
	"github.com/matzehuels/sitegraph/pkg/site"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

// ReadStructure decodes a JSON structure from r.
//
// ReadStructure returns an InvalidInput error if the JSON is malformed, if
// the tree is missing, or if a tree node is inconsistent: an empty path, a
// duplicate path, a child whose path does not extend its parent's, or a
// file with children. The import map is rebuilt against the tree's files
// and FileCount and EdgeCount are recomputed.
//
// ReadStructure does not close r.
func ReadStructure(r io.Reader) (*site.Structure, error) {
	var s site.Structure
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode structure")
	}
	if s.Tree == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "structure has no tree")
	}
	files, err := checkTree(s.Tree)
	if err != nil {
		return nil, err
	}

	s.ImportMap = imports.FromEdges(files, s.ImportMap.Edges())
	s.FileCount = len(files)
	s.EdgeCount = s.ImportMap.EdgeCount()
	s.AnalyzedAt = s.AnalyzedAt.UTC()
	if s.Pages == nil {
		s.Pages = []scan.FileRecord{}
	}
	if s.Components == nil {
		s.Components = []scan.FileRecord{}
	}
	if s.UIComponents == nil {
		s.UIComponents = []scan.FileRecord{}
	}
	return &s, nil
}

// ImportStructure reads a JSON structure file at path. A missing file is a
// NotFound error; otherwise errors are those of [ReadStructure].
func ImportStructure(path string) (*site.Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "structure file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadStructure(f)
}

// checkTree validates node paths and returns the file keys of the import map.
func checkTree(nodes []*tree.Node) ([]string, error) {
	seen := make(map[string]bool)
	var (
		files []string
		bad   error
	)
	tree.Walk(nodes, func(n, parent *tree.Node, _ int) bool {
		if bad != nil {
			return false
		}
		switch {
		case n == nil || n.Path == "":
			bad = errors.New(errors.ErrCodeInvalidInput, "tree node without a path")
		case seen[n.Path]:
			bad = errors.New(errors.ErrCodeInvalidInput, "duplicate tree path %s", n.Path)
		case parent != nil && !strings.HasPrefix(n.Path, parent.Path+"/"):
			bad = errors.New(errors.ErrCodeInvalidInput, "tree path %s is not under %s", n.Path, parent.Path)
		case !n.IsDir() && len(n.Children) > 0:
			bad = errors.New(errors.ErrCodeInvalidInput, "file %s has children", n.Path)
		}
		if bad != nil {
			return false
		}
		seen[n.Path] = true
		if !n.IsDir() {
			if n.RelativePath == "" {
				n.RelativePath = n.Path
			}
			files = append(files, n.RelativePath)
		}
		return true
	})
	return files, bad
}
