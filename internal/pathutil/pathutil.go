// Package pathutil normalizes user-supplied file paths before they reach
// handlers. The stream path "-" passes through untouched.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolve expands environment variables and a leading "~", then makes the
// path absolute and clean. "-" is returned as is.
func Resolve(path string) (string, error) {
	if path == "-" || path == "" {
		return path, nil
	}
	path = os.ExpandEnv(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// ResolveAll resolves every path in the slice, failing on the first error.
func ResolveAll(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := Resolve(p)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
