// Package repourl extracts the owner/name pair out of user-supplied
// repository URLs. It deliberately avoids full URL parsing: users paste
// anything from "https://github.com/owner/repo" to "owner/repo", and the
// last two path segments are the identity either way.
package repourl

import (
	"strings"

	"github.com/reposcope/reposcope/internal/errors"
)

// Parse returns the owner and repository name from a URL-ish string.
// A single trailing slash and a trailing ".git" on the name are trimmed.
func Parse(raw string) (owner, name string, err error) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(raw), "/")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", "", errors.MalformedInputf("invalid repository URL %q: expected at least owner/name", raw)
	}

	owner = parts[len(parts)-2]
	name = strings.TrimSuffix(parts[len(parts)-1], ".git")

	if owner == "" || name == "" {
		return "", "", errors.MalformedInputf("invalid repository URL %q: empty owner or name segment", raw)
	}
	return owner, name, nil
}
