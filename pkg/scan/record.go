package scan

import (
	"path"
	"strings"
)

// FileType classifies a source file by its role in the project.
type FileType string

// File types recognized by [DetectType].
const (
	TypePage        FileType = "page"
	TypeLayout      FileType = "layout"
	TypeComponent   FileType = "component"
	TypeUIComponent FileType = "ui-component"
	TypeUtility     FileType = "utility"
	TypeOther       FileType = "other"
)

// IsComponent reports whether t is a component or ui-component.
func (t FileType) IsComponent() bool {
	return t == TypeComponent || t == TypeUIComponent
}

// FileRecord is the static metadata of one scanned source file.
// Records are created once per scan and never modified afterwards.
type FileRecord struct {
	Path              string   `json:"path" bson:"path"`                 // Canonical absolute path
	RelativePath      string   `json:"relativePath" bson:"relative_path"` // Slash-separated, project-relative
	Name              string   `json:"name" bson:"name"`
	Type              FileType `json:"type" bson:"type"`
	IsClientComponent bool     `json:"isClientComponent" bson:"is_client_component"`
	Imports           []string `json:"imports" bson:"imports"` // Raw specifiers, in source order
	Exports           []string `json:"exports" bson:"exports"`
	HasDefaultExport  bool     `json:"hasDefaultExport" bson:"has_default_export"`
	Size              int64    `json:"size" bson:"size"`
}

// utilityPrefixes are directory prefixes whose files are helpers rather than
// routes or components.
var utilityPrefixes = []string{"lib/", "utils/", "hooks/"}

// DetectType derives a file's type from its project-relative path using
// App Router conventions. The first matching rule wins:
//
//	page.*            → page
//	layout.*          → layout
//	components/ui/... → ui-component
//	components/...    → component
//	lib/, utils/, hooks/ → utility
//	anything else     → other
func DetectType(relPath string) FileType {
	base := path.Base(relPath)
	stem := strings.TrimSuffix(base, path.Ext(base))

	switch {
	case stem == "page":
		return TypePage
	case stem == "layout":
		return TypeLayout
	case strings.HasPrefix(relPath, "components/ui/"):
		return TypeUIComponent
	case strings.HasPrefix(relPath, "components/"):
		return TypeComponent
	}
	for _, p := range utilityPrefixes {
		if strings.HasPrefix(relPath, p) {
			return TypeUtility
		}
	}
	return TypeOther
}

// sourceExtensions lists the file extensions the scanner reads.
var sourceExtensions = map[string]bool{
	".ts":  true,
	".tsx": true,
	".js":  true,
	".jsx": true,
}

// IsSourceFile reports whether name is a source file the scanner should
// read. Dotfiles, *.config.* files and next-env.d.ts are rejected.
func IsSourceFile(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	if name == "next-env.d.ts" || strings.Contains(name, ".config.") {
		return false
	}
	return sourceExtensions[path.Ext(name)]
}
