package scan

import (
	"bytes"
	"regexp"
)

// Metadata is the information [Extract] derives from a file's content.
type Metadata struct {
	IsClient         bool
	Imports          []string
	Exports          []string
	HasDefaultExport bool
}

var (
	// importRe matches import ... from "spec". The clause is limited to
	// identifier characters, braces, commas and '*' so a match cannot span
	// across another string literal.
	importRe = regexp.MustCompile(`\bimport\s+[\w$*{}\s,]+?\s+from\s+['"]([^'"\n]+)['"]`)

	exportRe = regexp.MustCompile(`(?m)^export\s+(?:default\s+)?(?:async\s+)?(?:function|const|let|class|interface|type|enum)\s+([A-Za-z_$][\w$]*)`)

	defaultExportRe = regexp.MustCompile(`(?m)^export\s+default\b`)
)

// localPrefixes are the specifier prefixes that refer to project files.
var localPrefixes = [][]byte{[]byte("@/"), []byte("./"), []byte("../")}

var clientDirectives = [][]byte{[]byte(`"use client"`), []byte(`'use client'`)}

// Extract derives client directive, import specifiers and exports from
// source content. It never fails; unrecognized content yields zero values.
func Extract(content []byte) Metadata {
	return Metadata{
		IsClient:         hasClientDirective(content),
		Imports:          extractImports(content),
		Exports:          extractExports(content),
		HasDefaultExport: defaultExportRe.Match(content),
	}
}

func hasClientDirective(content []byte) bool {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(content, []byte("\ufeff")), " \t\r\n")
	for _, d := range clientDirectives {
		if bytes.HasPrefix(trimmed, d) {
			return true
		}
	}
	return false
}

func extractImports(content []byte) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range importRe.FindAllSubmatch(content, -1) {
		spec := m[1]
		if !isLocalSpecifier(spec) {
			continue
		}
		s := string(spec)
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func isLocalSpecifier(spec []byte) bool {
	for _, p := range localPrefixes {
		if bytes.HasPrefix(spec, p) {
			return true
		}
	}
	return false
}

func extractExports(content []byte) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range exportRe.FindAllSubmatch(content, -1) {
		name := string(m[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
