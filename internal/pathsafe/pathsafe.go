// Package pathsafe implements the guard every externally supplied path
// parameter must pass through before it touches disk: normalize, resolve,
// and reject anything that escapes the owning handle's root.
package pathsafe

import (
	"path/filepath"
	"strings"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Resolve joins rel onto root and rejects the result if it is not a
// descendant of root. It never touches the filesystem (no symlink
// resolution); callers that need that guarantee do it after this check,
// since the root itself is a trusted, already-resolved handle path.
func Resolve(root, rel string) (string, error) {
	if rel == "" {
		return root, nil
	}
	cleanRoot := filepath.Clean(root)
	joined := filepath.Join(cleanRoot, rel)
	joined = filepath.Clean(joined)

	if joined != cleanRoot && !strings.HasPrefix(joined, cleanRoot+string(filepath.Separator)) {
		return "", core.NewError(core.KindInvalidInput, "Path traversal outside repository root")
	}
	return joined, nil
}

// ToRel converts an absolute path known to be inside root into a
// POSIX-style relative path for wire responses.
func ToRel(root, abs string) string {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}
