package io

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/scan"
	"github.com/matzehuels/sitegraph/pkg/site"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

func sampleStructure() *site.Structure {
	records := []scan.FileRecord{
		{RelativePath: "app/page.tsx", Name: "page.tsx", Type: scan.TypePage, Imports: []string{"@/components/Button"}},
		{RelativePath: "components/Button.tsx", Name: "Button.tsx", Type: scan.TypeComponent, IsClientComponent: true},
	}
	return site.Build(records, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestRoundTrip(t *testing.T) {
	orig := sampleStructure()

	var buf bytes.Buffer
	if err := WriteStructure(orig, &buf); err != nil {
		t.Fatalf("WriteStructure: %v", err)
	}
	got, err := ReadStructure(&buf)
	if err != nil {
		t.Fatalf("ReadStructure: %v", err)
	}

	if !tree.Equal(got.Tree, orig.Tree) {
		t.Error("tree changed in round trip")
	}
	if got.FileCount != orig.FileCount || got.EdgeCount != orig.EdgeCount {
		t.Errorf("counts = %d/%d, want %d/%d", got.FileCount, got.EdgeCount, orig.FileCount, orig.EdgeCount)
	}
	if !got.AnalyzedAt.Equal(orig.AnalyzedAt) {
		t.Errorf("AnalyzedAt = %v, want %v", got.AnalyzedAt, orig.AnalyzedAt)
	}
	if !slices.Equal(got.ImportMap["app/page.tsx"], orig.ImportMap["app/page.tsx"]) {
		t.Errorf("imports = %v, want %v", got.ImportMap, orig.ImportMap)
	}
}

func TestReadStructureRebuildsImports(t *testing.T) {
	in := `{
	  "tree": [
	    {"kind": "directory", "name": "app", "path": "app", "children": [
	      {"kind": "file", "name": "page.tsx", "path": "app/page.tsx"},
	      {"kind": "file", "name": "nav.tsx", "path": "app/nav.tsx"}
	    ]}
	  ],
	  "importMap": {
	    "app/page.tsx": ["app/nav.tsx", "app/gone.tsx", "app/page.tsx"],
	    "lib/stale.ts": ["app/nav.tsx"]
	  },
	  "fileCount": 99,
	  "edgeCount": 99
	}`
	s, err := ReadStructure(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadStructure: %v", err)
	}
	if s.FileCount != 2 || s.EdgeCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", s.FileCount, s.EdgeCount)
	}
	if !slices.Equal(s.ImportMap["app/page.tsx"], []string{"app/nav.tsx"}) {
		t.Errorf("imports = %v", s.ImportMap)
	}
	if _, ok := s.ImportMap["lib/stale.ts"]; ok {
		t.Error("import map kept a file outside the tree")
	}
	if s.Pages == nil || s.Components == nil || s.UIComponents == nil {
		t.Error("record lists should be non-nil")
	}
}

func TestReadStructureRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `{"tree": [`},
		{"no tree", `{"importMap": {}}`},
		{"empty path", `{"tree": [{"kind": "file", "name": "x"}]}`},
		{"duplicate", `{"tree": [{"kind": "file", "path": "a.ts"}, {"kind": "file", "path": "a.ts"}]}`},
		{"child outside parent", `{"tree": [{"kind": "directory", "path": "app", "children": [{"kind": "file", "path": "lib/x.ts"}]}]}`},
		{"file with children", `{"tree": [{"kind": "file", "path": "a.ts", "children": [{"kind": "file", "path": "a.ts/b"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadStructure(strings.NewReader(tt.in))
			if !errors.IsInvalid(err) {
				t.Errorf("err = %v, want invalid input", err)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "structure.json")
	if err := ExportStructure(sampleStructure(), path); err != nil {
		t.Fatalf("ExportStructure: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("export wrote nothing: %v", err)
	}
	if entries, _ := os.ReadDir(filepath.Dir(path)); len(entries) != 1 {
		t.Errorf("export left %d files behind, want only the structure", len(entries))
	}
	s, err := ImportStructure(path)
	if err != nil {
		t.Fatalf("ImportStructure: %v", err)
	}
	if s.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", s.FileCount)
	}
}

func TestImportStructureMissing(t *testing.T) {
	_, err := ImportStructure(filepath.Join(t.TempDir(), "absent.json"))
	if !errors.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}
