package store

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/sitegraph/pkg/errors"
	"github.com/matzehuels/sitegraph/pkg/imports"
	"github.com/matzehuels/sitegraph/pkg/scan"
	"github.com/matzehuels/sitegraph/pkg/site"
	"github.com/matzehuels/sitegraph/pkg/tree"
)

// DefaultListLimit bounds List when limit is not positive.
const DefaultListLimit = 20

// Store persists snapshots.
type Store interface {
	// Save stores s as the newest snapshot of projectDir.
	Save(ctx context.Context, projectDir string, s *site.Structure) (Summary, error)

	// Latest returns the newest snapshot of projectDir.
	// Returns an ErrCodeNotFound error when none exists.
	Latest(ctx context.Context, projectDir string) (*Snapshot, error)

	// List returns summaries of projectDir's snapshots, newest first.
	List(ctx context.Context, projectDir string, limit int) ([]Summary, error)

	Close(ctx context.Context) error
}

// Summary describes a snapshot without its contents.
type Summary struct {
	ID         string    `json:"id" bson:"_id"`
	ProjectDir string    `json:"projectDir" bson:"project_dir"`
	AnalyzedAt time.Time `json:"analyzedAt" bson:"analyzed_at"`
	SavedAt    time.Time `json:"savedAt" bson:"saved_at"`
	FileCount  int       `json:"fileCount" bson:"file_count"`
	EdgeCount  int       `json:"edgeCount" bson:"edge_count"`
}

// Snapshot is a stored structure.
type Snapshot struct {
	Summary   `bson:",inline"`
	Structure *site.Structure `json:"structure"`
}

// document is the persisted form of a snapshot.
type document struct {
	Summary      `bson:",inline"`
	Pages        []scan.FileRecord `bson:"pages"`
	Components   []scan.FileRecord `bson:"components"`
	UIComponents []scan.FileRecord `bson:"ui_components"`
	Tree         []*tree.Node      `bson:"tree"`
	Files        []string          `bson:"files"`
	Imports      []imports.Edge    `bson:"imports"`
}

// newDocument converts a structure for storage.
func newDocument(projectDir string, s *site.Structure, savedAt time.Time) document {
	return document{
		Summary: Summary{
			ID:         uuid.NewString(),
			ProjectDir: canonicalDir(projectDir),
			AnalyzedAt: s.AnalyzedAt.UTC(),
			SavedAt:    savedAt.UTC(),
			FileCount:  s.FileCount,
			EdgeCount:  s.EdgeCount,
		},
		Pages:        s.Pages,
		Components:   s.Components,
		UIComponents: s.UIComponents,
		Tree:         s.Tree,
		Files:        s.ImportMap.Files(),
		Imports:      s.ImportMap.Edges(),
	}
}

// snapshot restores the structure from a document.
func (d document) snapshot() *Snapshot {
	s := &site.Structure{
		Pages:        orEmpty(d.Pages),
		Components:   orEmpty(d.Components),
		UIComponents: orEmpty(d.UIComponents),
		Tree:         d.Tree,
		ImportMap:    imports.FromEdges(d.Files, d.Imports),
		AnalyzedAt:   d.AnalyzedAt,
		FileCount:    d.FileCount,
		EdgeCount:    d.EdgeCount,
	}
	if s.Tree == nil {
		s.Tree = []*tree.Node{}
	}
	return &Snapshot{Summary: d.Summary, Structure: s}
}

func orEmpty(records []scan.FileRecord) []scan.FileRecord {
	if records == nil {
		return []scan.FileRecord{}
	}
	return records
}

// canonicalDir makes project keys independent of how the directory was
// spelled on the command line.
func canonicalDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(filepath.Clean(dir))
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// =============================================================================
// MemoryStore
// =============================================================================

// MemoryStore keeps snapshots in process. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]document // project → oldest first
	now  func() time.Time
}

// NewMemoryStore creates an empty store. A nil clock uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{docs: make(map[string][]document), now: now}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, projectDir string, s *site.Structure) (Summary, error) {
	if s == nil {
		return Summary{}, errors.New(errors.ErrCodeInvalidInput, "nil structure")
	}
	doc := newDocument(projectDir, s, m.now())
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ProjectDir] = append(m.docs[doc.ProjectDir], doc)
	return doc.Summary, nil
}

// Latest implements Store.
func (m *MemoryStore) Latest(_ context.Context, projectDir string) (*Snapshot, error) {
	dir := canonicalDir(projectDir)
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.docs[dir]
	if len(docs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no snapshots for %s", dir)
	}
	return docs[len(docs)-1].snapshot(), nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, projectDir string, limit int) ([]Summary, error) {
	dir := canonicalDir(projectDir)
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := m.docs[dir]
	out := make([]Summary, 0, min(len(docs), listLimit(limit)))
	for _, d := range slices.Backward(docs) {
		if len(out) == listLimit(limit) {
			break
		}
		out = append(out, d.Summary)
	}
	return out, nil
}

// Close implements Store.
func (m *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
