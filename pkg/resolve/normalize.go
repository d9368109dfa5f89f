package resolve

import (
	"strings"

	"github.com/therealaleph/poetry-auto-add/pkg/integrations"
)

// Normalize canonicalizes a raw import or requirement token into a
// package-manager-recognized library name. The second return is false when
// the token resolves to a standard-library module or is unusable.
//
// Submodule paths collapse to the top-level segment ("six.moves" -> "six").
// This is a heuristic: packages whose import name differs from their
// distribution name (e.g. "PIL" vs "pillow", "ruamel.yaml") resolve to the
// wrong name. A name-mapping database is deliberately out of scope.
func Normalize(token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	// Keep only the top-level module segment.
	if i := strings.IndexByte(token, '.'); i >= 0 {
		token = token[:i]
	}
	if token == "" || strings.HasPrefix(token, "_") {
		return "", false
	}
	if IsStdlib(token) {
		return "", false
	}

	return integrations.NormalizePkgName(token), true
}
