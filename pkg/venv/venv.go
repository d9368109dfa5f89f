// Package venv reads the active Python virtual environment's installed
// packages via "pip freeze". It implements the installed-version index
// consulted during version resolution and contributes its packages as
// candidates of their own, mirroring what the environment actually runs.
package venv

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/therealaleph/poetry-auto-add/pkg/execx"
	"github.com/therealaleph/poetry-auto-add/pkg/integrations"
	"github.com/therealaleph/poetry-auto-add/pkg/resolve"
)

// Index holds the installed name->version map of a virtualenv. Names are
// stored in canonical (PEP 503) form; packages installed from a direct
// reference ("pkg @ file://...") map to an empty version.
type Index struct {
	packages map[string]string
}

// Detect reports whether a Python virtual environment is active. The
// VIRTUAL_ENV variable is set by every activation script (venv,
// virtualenv, poetry shell).
func Detect() bool {
	return os.Getenv("VIRTUAL_ENV") != ""
}

// Load captures the active environment's packages through
// "python -m pip freeze". A failed freeze yields an empty index and the
// error; callers treat that as "no environment data" rather than fatal.
func Load(ctx context.Context, runner execx.Runner) (*Index, error) {
	out, err := runner.Run(ctx, "python", "-m", "pip", "freeze")
	if err != nil {
		return &Index{packages: map[string]string{}}, err
	}
	return ParseFreeze(out), nil
}

// ParseFreeze parses "pip freeze" output.
func ParseFreeze(out string) *Index {
	packages := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if name, version, ok := strings.Cut(line, "=="); ok {
			packages[integrations.NormalizePkgName(name)] = strings.TrimSpace(version)
			continue
		}
		if name, _, ok := strings.Cut(line, "@"); ok {
			packages[integrations.NormalizePkgName(name)] = ""
		}
	}
	return &Index{packages: packages}
}

// InstalledVersion returns the installed version of a library. ok is false
// when the library is absent or was installed without a version.
func (i *Index) InstalledVersion(name string) (string, bool) {
	v, ok := i.packages[integrations.NormalizePkgName(name)]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Candidates lists every installed package as a resolution candidate so
// environment-only dependencies end up declared too. Names are sorted so
// runs are deterministic.
func (i *Index) Candidates() []resolve.Candidate {
	names := make([]string, 0, len(i.packages))
	for name := range i.packages {
		names = append(names, name)
	}
	sort.Strings(names)

	candidates := make([]resolve.Candidate, 0, len(names))
	for _, name := range names {
		candidates = append(candidates, resolve.Candidate{
			Name:       name,
			EnvVersion: i.packages[name],
			From:       resolve.SourceEnvironment,
		})
	}
	return candidates
}

// Len returns the number of installed packages.
func (i *Index) Len() int { return len(i.packages) }

var _ resolve.Index = (*Index)(nil)
