package poetry

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestProjectName(t *testing.T) {
	t.Run("poetry table wins", func(t *testing.T) {
		dir := writeManifest(t, `
[tool.poetry]
name = "legacy-name"

[project]
name = "pep621-name"
`)
		if got := ProjectName(dir); got != "legacy-name" {
			t.Errorf("ProjectName() = %q", got)
		}
	})

	t.Run("pep 621 fallback", func(t *testing.T) {
		dir := writeManifest(t, `
[project]
name = "pep621-name"
`)
		if got := ProjectName(dir); got != "pep621-name" {
			t.Errorf("ProjectName() = %q", got)
		}
	})

	t.Run("missing manifest", func(t *testing.T) {
		if got := ProjectName(t.TempDir()); got != "" {
			t.Errorf("ProjectName() = %q, want empty", got)
		}
	})
}

func TestDeclaredInManifest(t *testing.T) {
	dir := writeManifest(t, `
[tool.poetry.dependencies]
python = "^3.12"
requests = "^2.31"

[project]
dependencies = ["numpy>=1.20"]
`)
	got := DeclaredInManifest(dir)
	sort.Strings(got)

	want := []string{"numpy>=1.20", "python", "requests"}
	if len(got) != len(want) {
		t.Fatalf("DeclaredInManifest() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
