// Package poetry wraps the poetry binary. It is a thin process wrapper:
// all decision logic about what to add and when lives in pkg/resolve.
package poetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/therealaleph/poetry-auto-add/pkg/errors"
	"github.com/therealaleph/poetry-auto-add/pkg/execx"
)

// ManifestFile is the manifest poetry declares dependencies in.
const ManifestFile = "pyproject.toml"

// Client drives poetry for a single project directory.
type Client struct {
	runner execx.Runner
	dir    string
}

// New creates a Client running poetry in dir.
func New(runner execx.Runner, dir string) *Client {
	return &Client{runner: runner, dir: dir}
}

// VersionCheck verifies that poetry is installed and runnable.
// A failure here is fatal for the whole run.
func (c *Client) VersionCheck(ctx context.Context) error {
	if err := c.runner.LookPath("poetry"); err != nil {
		return errors.New(errors.ErrCodePoetryNotFound,
			"poetry is not installed or not found on PATH")
	}
	if _, err := c.run(ctx, "--version"); err != nil {
		return errors.Wrap(errors.ErrCodePoetryNotFound, err, "poetry --version failed")
	}
	return nil
}

// ManifestExists reports whether the project already has a pyproject.toml.
func (c *Client) ManifestExists() bool {
	_, err := os.Stat(filepath.Join(c.dir, ManifestFile))
	return err == nil
}

// Init creates a pyproject.toml non-interactively and locks it.
func (c *Client) Init(ctx context.Context) error {
	if _, err := c.run(ctx, "init", "--no-interaction"); err != nil {
		return errors.Wrap(errors.ErrCodeInitFailed, err, "poetry init failed")
	}
	if err := c.Lock(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeInitFailed, err, "poetry lock failed")
	}
	return nil
}

// Lock regenerates the lock file from the manifest.
func (c *Client) Lock(ctx context.Context) error {
	_, err := c.run(ctx, "lock")
	return err
}

// Add declares spec as a dependency ("name", "name==1.2.3", "name>=2").
// Poetry writes the manifest and lock file as a side effect of success.
func (c *Client) Add(ctx context.Context, spec string) error {
	_, err := c.run(ctx, "add", spec)
	return err
}

// AddWithMarker declares spec constrained to a python marker, e.g.
// Add("pipreqs@^0.5.0", ">=3.12,<3.13"). Used to install tool dependencies
// whose own markers would otherwise conflict with the project's.
func (c *Client) AddWithMarker(ctx context.Context, spec, pythonMarker string) error {
	_, err := c.run(ctx, "add", spec, "--python", pythonMarker)
	return err
}

// ShowTree returns the textual dependency tree for the current manifest.
func (c *Client) ShowTree(ctx context.Context) (string, error) {
	return c.run(ctx, "show", "--tree")
}

// RunTool executes a command inside the poetry environment
// ("poetry run name args...").
func (c *Client) RunTool(ctx context.Context, name string, args ...string) (string, error) {
	return c.run(ctx, append([]string{"run", name}, args...)...)
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	if c.dir != "" {
		args = append([]string{"--directory", c.dir}, args...)
	}
	return c.runner.Run(ctx, "poetry", args...)
}

// CleanupManifest removes the readme line "poetry init" writes when the
// project has no README file, which would otherwise make every later
// poetry command fail. Returns true when a line was removed.
func (c *Client) CleanupManifest() (bool, error) {
	path := filepath.Join(c.dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if _, err := os.Stat(filepath.Join(c.dir, "README.md")); err == nil {
		return false, nil // README exists, reference is valid
	}

	lines := strings.Split(string(data), "\n")
	kept := lines[:0]
	removed := false
	for _, line := range lines {
		if isReadmeLine(line) {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	if !removed {
		return false, nil
	}

	return true, os.WriteFile(path, []byte(strings.Join(kept, "\n")), 0644)
}

func isReadmeLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "readme") {
		return false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "readme"))
	return strings.HasPrefix(rest, "=") &&
		strings.Contains(rest, `"README.md"`)
}
