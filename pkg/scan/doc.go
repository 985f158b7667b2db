// Package scan walks a project's source tree and extracts per-file metadata.
//
// The scanner is the first stage of sitegraph's analysis: it produces a flat,
// deterministically ordered list of [FileRecord] values that the import
// resolver (pkg/imports) and tree builder (pkg/tree) consume.
//
// # What is scanned
//
// A [Scanner] walks a configurable set of root directories (by default
// app/, components/ and lib/) relative to the project directory. It skips:
//
//   - excluded entries (node_modules, .next, .git by default); entries may
//     be doublestar glob patterns matched against the entry name or its
//     project-relative path
//   - dotfiles, *.config.* files and next-env.d.ts
//   - anything that is not .ts, .tsx, .js or .jsx
//
// # Metadata extraction
//
// Each source file is read once and passed to [Extract], which derives:
//
//   - whether the file starts with a "use client" directive
//   - raw import specifiers of the form import ... from "spec", where spec
//     starts with "@/", "./" or "../" (bare package imports are ignored)
//   - exported top-level symbol names and whether there is a default export
//
// Extraction is regex based. It is an approximation of the module syntax,
// not a parser, and it never fails: malformed content yields empty metadata.
//
// # Errors
//
// Scanning is best-effort. Unreadable directories and files are logged and
// skipped. The only fatal conditions are a missing project directory, a
// scan where none of the roots exist, and context cancellation.
package scan
