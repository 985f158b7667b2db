// Package site assembles the analysis result of one project: the scanned
// records split by role, the containment tree, and the import graph.
package site

import (
	"context"
	"time"

	"github.com/matzehuels/sitegraph/pkg/imports"
	"github.com/matzehuels/sitegraph/pkg/scan"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

// Structure is the analysis result of one scan.
type Structure struct {
	Pages        []scan.FileRecord `json:"pages" bson:"pages"`
	Components   []scan.FileRecord `json:"components" bson:"components"`
	UIComponents []scan.FileRecord `json:"uiComponents" bson:"ui_components"`
	Tree         []*tree.Node      `json:"tree" bson:"tree"`
	ImportMap    imports.Map       `json:"importMap" bson:"import_map"`
	AnalyzedAt   time.Time         `json:"analyzedAt" bson:"analyzed_at"`

	// Counts for summaries; derivable from the fields above.
	FileCount int `json:"fileCount" bson:"file_count"`
	EdgeCount int `json:"edgeCount" bson:"edge_count"`
}

// Build assembles a Structure from scanned records.
func Build(records []scan.FileRecord, analyzedAt time.Time) *Structure {
	s := &Structure{
		Pages:        []scan.FileRecord{},
		Components:   []scan.FileRecord{},
		UIComponents: []scan.FileRecord{},
		Tree:         tree.Build(records),
		ImportMap:    imports.Resolve(records),
		AnalyzedAt:   analyzedAt.UTC(),
		FileCount:    len(records),
	}
	for _, r := range records {
		switch r.Type {
		case scan.TypePage:
			s.Pages = append(s.Pages, r)
		case scan.TypeComponent:
			s.Components = append(s.Components, r)
		case scan.TypeUIComponent:
			s.UIComponents = append(s.UIComponents, r)
		}
	}
	if s.Tree == nil {
		s.Tree = []*tree.Node{}
	}
	s.EdgeCount = s.ImportMap.EdgeCount()
	return s
}

// Analyze scans with opts and assembles the result, stamped with now().
func Analyze(ctx context.Context, opts scan.Options, now func() time.Time) (*Structure, error) {
	records, err := scan.New(opts).Scan(ctx)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return Build(records, now()), nil
}
