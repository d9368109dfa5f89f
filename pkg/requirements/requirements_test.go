package requirements

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/therealaleph/poetry-auto-add/pkg/errors"
	"github.com/therealaleph/poetry-auto-add/pkg/resolve"
)

func TestSupports(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"requirements.txt", true},
		{"requirements-dev.txt", true},
		{"requirements_test.txt", true},
		{"pyproject.toml", false},
		{"setup.py", false},
		{"notes.txt", false},
	}
	for _, tt := range tests {
		if got := Supports(tt.name); got != tt.want {
			t.Errorf("Supports(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"# http clients",
		"requests==2.31.0",
		"",
		"numpy",
		"pandas >= 1.5, < 3.0",
		"uvicorn[standard]==0.29.0",
		"flask  # web framework",
		"pywin32; sys_platform == 'win32'",
		"-r base.txt",
		"-e .",
		"git+https://github.com/psf/requests.git",
		"https://example.com/pkg.whl",
		"===broken===",
	}, "\n")

	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, format)
	}

	got, err := Parse(strings.NewReader(input), warn)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []resolve.Candidate{
		{Name: "requests", Pin: "2.31.0", From: resolve.SourceRequirements},
		{Name: "numpy", From: resolve.SourceRequirements},
		{Name: "pandas", Specifier: ">= 1.5, < 3.0", From: resolve.SourceRequirements},
		{Name: "uvicorn", Pin: "0.29.0", From: resolve.SourceRequirements},
		{Name: "flask", From: resolve.SourceRequirements},
		{Name: "pywin32", From: resolve.SourceRequirements},
	}
	if len(got) != len(want) {
		t.Fatalf("parsed %d candidates, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one malformed-line warning", warnings)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	content := "requests==2.31.0\n# comment\nnumpy\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path, nil)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parsed %d candidates, want 2: %+v", len(got), got)
	}
	if got[0].Name != "requests" || got[0].Pin != "2.31.0" {
		t.Errorf("candidate[0] = %+v", got[0])
	}
	if got[1].Name != "numpy" || got[1].Pin != "" {
		t.Errorf("candidate[1] = %+v", got[1])
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "requirements.txt"), nil)
	if errors.GetCode(err) != errors.ErrCodeManifestMissing {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeManifestMissing)
	}
}
