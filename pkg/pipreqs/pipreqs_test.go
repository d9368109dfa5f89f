package pipreqs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	apperrors "github.com/therealaleph/poetry-auto-add/pkg/errors"
	"github.com/therealaleph/poetry-auto-add/pkg/execx"
	"github.com/therealaleph/poetry-auto-add/pkg/poetry"
)

func TestEnsureInstalled(t *testing.T) {
	ctx := context.Background()

	t.Run("already installed", func(t *testing.T) {
		runner := execx.NewFake()
		runner.Script("poetry run pipreqs --version", "pipreqs 0.5.0\n", nil)
		tool := New(poetry.New(runner, ""), "/proj")

		installed, err := tool.EnsureInstalled(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if installed {
			t.Error("EnsureInstalled() installed = true, want false")
		}
		if runner.CallCount("poetry add") != 0 {
			t.Errorf("unexpected add calls: %v", runner.Calls)
		}
	})

	t.Run("installs when missing", func(t *testing.T) {
		runner := execx.NewFake()
		runner.Script("poetry run pipreqs --version", "", errors.New("pipreqs not found"))
		tool := New(poetry.New(runner, ""), "/proj")

		installed, err := tool.EnsureInstalled(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if !installed {
			t.Error("EnsureInstalled() installed = false, want true")
		}
		want := "poetry add pipreqs@^0.5.0 --python >=3.12,<3.13"
		if runner.Calls[len(runner.Calls)-1] != want {
			t.Errorf("last call = %q, want %q", runner.Calls[len(runner.Calls)-1], want)
		}
	})

	t.Run("install failure", func(t *testing.T) {
		runner := execx.NewFake()
		runner.Script("poetry run pipreqs --version", "", errors.New("pipreqs not found"))
		runner.Script("poetry add pipreqs@^0.5.0 --python >=3.12,<3.13", "", errors.New("resolver error"))
		tool := New(poetry.New(runner, ""), "/proj")

		_, err := tool.EnsureInstalled(ctx)
		if apperrors.GetCode(err) != apperrors.ErrCodeScanUnavailable {
			t.Errorf("error code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeScanUnavailable)
		}
	})
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns requirements path", func(t *testing.T) {
		runner := execx.NewFake()
		tool := New(poetry.New(runner, ""), "/proj")

		path, err := tool.Generate(ctx, false)
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join("/proj", "requirements.txt"); path != want {
			t.Errorf("path = %q, want %q", path, want)
		}
		if runner.Calls[0] != "poetry run pipreqs /proj" {
			t.Errorf("call = %q", runner.Calls[0])
		}
	})

	t.Run("force flag", func(t *testing.T) {
		runner := execx.NewFake()
		tool := New(poetry.New(runner, ""), "/proj")

		if _, err := tool.Generate(ctx, true); err != nil {
			t.Fatal(err)
		}
		if runner.Calls[0] != "poetry run pipreqs /proj --force" {
			t.Errorf("call = %q", runner.Calls[0])
		}
	})

	t.Run("pipreqs failure", func(t *testing.T) {
		runner := &execx.Fake{
			Default: execx.FakeResponse{Err: errors.New("syntax error in sources")},
		}
		tool := New(poetry.New(runner, ""), "/proj")

		_, err := tool.Generate(ctx, false)
		if apperrors.GetCode(err) != apperrors.ErrCodeScanUnavailable {
			t.Errorf("error code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeScanUnavailable)
		}
	})
}
