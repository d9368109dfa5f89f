// Package pipreqs drives the external pipreqs tool, which inspects a
// project's Python sources and writes a requirements.txt for the
// third-party imports it finds.
package pipreqs

import (
	"context"
	"path/filepath"

	"github.com/therealaleph/poetry-auto-add/pkg/errors"
	"github.com/therealaleph/poetry-auto-add/pkg/poetry"
)

const (
	// toolSpec is the version installed when pipreqs is missing from the
	// poetry environment.
	toolSpec = "pipreqs@^0.5.0"

	// pythonMarker constrains the pipreqs install; its own python marker
	// conflicts with newer interpreters otherwise.
	pythonMarker = ">=3.12,<3.13"
)

// Tool runs pipreqs inside a project's poetry environment.
type Tool struct {
	poetry *poetry.Client
	dir    string
}

// New creates a Tool for the project at dir.
func New(p *poetry.Client, dir string) *Tool {
	return &Tool{poetry: p, dir: dir}
}

// EnsureInstalled verifies pipreqs is available in the poetry environment,
// installing it when missing.
func (t *Tool) EnsureInstalled(ctx context.Context) (installed bool, err error) {
	if _, err := t.poetry.RunTool(ctx, "pipreqs", "--version"); err == nil {
		return false, nil
	}
	if err := t.poetry.AddWithMarker(ctx, toolSpec, pythonMarker); err != nil {
		return false, errors.Wrap(errors.ErrCodeScanUnavailable, err, "failed to install pipreqs")
	}
	return true, nil
}

// Generate runs pipreqs over the project and returns the path of the
// generated requirements.txt. With force set, an existing file is
// overwritten.
func (t *Tool) Generate(ctx context.Context, force bool) (string, error) {
	args := []string{t.dir}
	if force {
		args = append(args, "--force")
	}
	if _, err := t.poetry.RunTool(ctx, "pipreqs", args...); err != nil {
		return "", errors.Wrap(errors.ErrCodeScanUnavailable, err, "pipreqs failed")
	}
	return filepath.Join(t.dir, "requirements.txt"), nil
}
