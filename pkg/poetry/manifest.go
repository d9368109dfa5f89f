package poetry

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ProjectName extracts the project name from pyproject.toml, checking the
// poetry tool table first and falling back to the PEP 621 project table.
// Returns "" when the manifest is absent or carries no name.
func ProjectName(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return ""
	}
	var pyproject struct {
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return ""
	}
	if pyproject.Tool.Poetry.Name != "" {
		return pyproject.Tool.Poetry.Name
	}
	return pyproject.Project.Name
}

// DeclaredInManifest reads dependency names straight from pyproject.toml.
// It is a fallback for the scan (dry-run) command, which must not assume a
// resolvable poetry environment; the live pipeline queries the dependency
// tree through poetry itself.
func DeclaredInManifest(dir string) []string {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil
	}
	var pyproject struct {
		Tool struct {
			Poetry struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
		Project struct {
			Dependencies []string `toml:"dependencies"`
		} `toml:"project"`
	}
	if err := toml.Unmarshal(data, &pyproject); err != nil {
		return nil
	}

	var names []string
	for name := range pyproject.Tool.Poetry.Dependencies {
		names = append(names, name)
	}
	names = append(names, pyproject.Project.Dependencies...)
	return names
}
