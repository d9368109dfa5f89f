package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/therealaleph/poetry-auto-add/pkg/errors"
	"github.com/therealaleph/poetry-auto-add/pkg/execx"
	"github.com/therealaleph/poetry-auto-add/pkg/resolve"
)

// useFakeRunner swaps the external-command runner for a scripted fake for
// the duration of the test.
func useFakeRunner(t *testing.T, fake *execx.Fake) {
	t.Helper()
	old := newRunner
	newRunner = func() execx.Runner { return fake }
	t.Cleanup(func() { newRunner = old })
}

func quietContext() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, log.FatalLevel))
}

func writeProject(t *testing.T, requirements string) string {
	t.Helper()
	dir := t.TempDir()
	manifest := "[tool.poetry]\nname = \"demo\"\n\n[tool.poetry.dependencies]\npython = \"^3.12\"\n"
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if requirements != "" {
		if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte(requirements), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRunSync_RequirementsFile(t *testing.T) {
	dir := writeProject(t, "requests==2.31.0\n# comment\nnumpy\n")

	fake := execx.NewFake()
	useFakeRunner(t, fake)

	opts := &syncOpts{scanner: scannerRequirements, dir: dir, skipVenv: true}
	if err := runSync(quietContext(), opts); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}

	prefix := "poetry --directory " + dir
	if got := fake.CallCount(prefix + " --version"); got != 1 {
		t.Errorf("version checks = %d, want 1", got)
	}
	if got := fake.CallCount(prefix + " show --tree"); got != 2 {
		t.Errorf("tree queries = %d, want one per distinct candidate", got)
	}
	adds := []string{
		prefix + " add requests==2.31.0",
		prefix + " add numpy",
	}
	for _, want := range adds {
		found := false
		for _, call := range fake.Calls {
			if call == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing call %q in %v", want, fake.Calls)
		}
	}
}

func TestRunSync_AlreadyDeclaredSkipped(t *testing.T) {
	dir := writeProject(t, "requests==2.31.0\n")

	fake := execx.NewFake()
	fake.Script("poetry --directory "+dir+" show --tree",
		"requests 2.31.0 Python HTTP for Humans.\n", nil)
	useFakeRunner(t, fake)

	opts := &syncOpts{scanner: scannerRequirements, dir: dir, skipVenv: true}
	if err := runSync(quietContext(), opts); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}
	if got := fake.CallCount("poetry --directory " + dir + " add"); got != 0 {
		t.Errorf("add calls = %d, want none for a declared library", got)
	}
}

func TestRunSync_OverwriteRedeclares(t *testing.T) {
	dir := writeProject(t, "requests==2.31.0\n")

	fake := execx.NewFake()
	fake.Script("poetry --directory "+dir+" show --tree", "requests 2.31.0\n", nil)
	useFakeRunner(t, fake)

	opts := &syncOpts{scanner: scannerRequirements, dir: dir, skipVenv: true, overwrite: true}
	if err := runSync(quietContext(), opts); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}
	if got := fake.CallCount("poetry --directory " + dir + " add requests==2.31.0"); got != 1 {
		t.Errorf("add calls = %d, want 1", got)
	}
}

func TestRunSync_PoetryMissingIsFatal(t *testing.T) {
	dir := writeProject(t, "requests==2.31.0\n")

	fake := &execx.Fake{Missing: []string{"poetry"}}
	useFakeRunner(t, fake)

	opts := &syncOpts{scanner: scannerRequirements, dir: dir, skipVenv: true}
	err := runSync(quietContext(), opts)
	if errors.GetCode(err) != errors.ErrCodePoetryNotFound {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodePoetryNotFound)
	}
}

func TestRunSync_UnknownScanner(t *testing.T) {
	dir := writeProject(t, "")

	useFakeRunner(t, execx.NewFake())

	opts := &syncOpts{scanner: "magic", dir: dir, skipVenv: true}
	err := runSync(quietContext(), opts)
	if err == nil || !strings.Contains(err.Error(), "unknown scanner") {
		t.Errorf("error = %v", err)
	}
}

func TestNewDecider(t *testing.T) {
	if d, ok := newDecider(true).(resolve.StaticDecider); !ok || !d.Answer {
		t.Error("newDecider(true) is not a yes-answering static decider")
	}
	// Test processes run without a TTY on stdin.
	if d, ok := newDecider(false).(resolve.StaticDecider); !ok || d.Answer {
		t.Error("newDecider(false) without a TTY should decline")
	}
}

func TestShortRunID(t *testing.T) {
	id := shortRunID()
	if len(id) != 8 {
		t.Errorf("len(shortRunID()) = %d, want 8", len(id))
	}
	if id == shortRunID() {
		t.Error("consecutive run IDs collided")
	}
}
