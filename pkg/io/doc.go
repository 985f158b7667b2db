// Package io provides JSON import and export of analyzed site structures.
//
// # Overview
//
// A structure written by [WriteStructure] (or by "sitegraph analyze -o")
// can be read back with [ReadStructure] and laid out, rendered or browsed
// without scanning the project again. This makes it possible to analyze on
// one machine and explore on another, or to keep structures next to build
// artifacts.
//
// # JSON Format
//
// The format is the JSON encoding of [site.Structure]:
//
//	{
//	  "pages": [...],
//	  "components": [...],
//	  "uiComponents": [...],
//	  "tree": [
//	    {"kind": "directory", "name": "app", "path": "app", "children": [
//	      {"kind": "file", "name": "page.tsx", "path": "app/page.tsx",
//	       "relativePath": "app/page.tsx", "type": "page"}
//	    ]}
//	  ],
//	  "importMap": {"app/page.tsx": ["components/Button.tsx"]},
//	  "analyzedAt": "2025-01-01T00:00:00Z",
//	  "fileCount": 1,
//	  "edgeCount": 0
//	}
//
// Only "tree" is required. On import the tree is checked for consistency
// and the import map is rebuilt against the tree's files: edges naming
// unknown files are dropped and the counts are recomputed, so a
// hand-edited file cannot disagree with itself.
package io
