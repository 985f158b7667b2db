// Package category classifies containment tree nodes into display
// categories.
//
// A category drives two things: whether a node survives the active filter
// set, and which color it is drawn with. Classification is a pure, total
// function of the node's project-relative path, whether it is a directory,
// and (for files) the scanned file type. Rules are evaluated in order and the
// first match wins:
//
//  1. "app" is Pages.
//  2. "app/api" and anything beneath it is API.
//  3. "components" and anything beneath it is Components.
//  4. For files: page files are Files, layout files are Pages, component and
//     ui-component files are Components, any other file under "app/" is Pages.
//  5. Directories under "app/" are Pages.
//  6. Everything else is Pages.
//
// The "app" root, the "components" root, and the "app/api" subtree are
// always visible regardless of filters; see [AlwaysVisible].
package category

import (
	"strings"

	"github.com/matzehuels/sitegraph/pkg/scan"
)

// Category is a display category.
type Category string

const (
	Pages      Category = "pages"
	Files      Category = "files"
	API        Category = "api"
	Components Category = "components"
)

// All lists every category in display order.
var All = []Category{Pages, Files, API, Components}

// Well-known paths the classifier and the layout anchor on.
const (
	AppRoot        = "app"
	APIRoot        = "app/api"
	ComponentsRoot = "components"
)

var colors = map[Category]string{
	Pages:      "#3b82f6",
	Files:      "#10b981",
	API:        "#f59e0b",
	Components: "#8b5cf6",
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := colors[c]
	return ok
}

// String returns the category name.
func (c Category) String() string { return string(c) }

// Color returns the display color for c as a hex string.
// Unknown categories get a neutral gray.
func Color(c Category) string {
	if col, ok := colors[c]; ok {
		return col
	}
	return "#6b7280"
}

// Classify returns the category for the node at path.
// fileType is ignored for directories.
func Classify(path string, isDir bool, fileType scan.FileType) Category {
	switch {
	case path == AppRoot:
		return Pages
	case under(path, APIRoot):
		return API
	case under(path, ComponentsRoot):
		return Components
	}

	if !isDir {
		switch fileType {
		case scan.TypePage:
			return Files
		case scan.TypeLayout:
			return Pages
		case scan.TypeComponent, scan.TypeUIComponent:
			return Components
		}
	}

	// Remaining files under app/, directories under app/, and the fallback
	// all land in Pages.
	return Pages
}

// AlwaysVisible reports whether the node at path survives every filter set.
func AlwaysVisible(path string) bool {
	return path == AppRoot || path == ComponentsRoot || under(path, APIRoot)
}

// IsAPI reports whether path is the API root or inside it.
func IsAPI(path string) bool { return under(path, APIRoot) }

func under(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}
