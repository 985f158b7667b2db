package errors

import (
	"strings"
	"unicode"
)

const maxPathLength = 500

// ValidatePath checks a project-relative entry (a scan root or exclusion
// pattern) before it is joined onto the project directory. It rejects
// empty, overlong, absolute and backslashed paths, control characters, and
// any ".." segment. Glob metacharacters are allowed.
func ValidatePath(p string) error {
	switch {
	case p == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(p) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.ContainsFunc(p, unicode.IsControl):
		return New(ErrCodeInvalidPath, "path %q contains control characters", p)
	case strings.HasPrefix(p, "/"):
		return New(ErrCodeInvalidPath, "path %s must be relative to the project", p)
	case strings.Contains(p, `\`):
		return New(ErrCodeInvalidPath, "path %s must use forward slashes", p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return New(ErrCodeInvalidPath, "path %s leaves the project directory", p)
		}
	}
	return nil
}

// ValidatePaths returns the first [ValidatePath] failure in paths.
func ValidatePaths(paths []string) error {
	for _, p := range paths {
		if err := ValidatePath(p); err != nil {
			return err
		}
	}
	return nil
}
