// Package pyscan statically scans Python sources for import statements.
// It is the fallback scanner for projects where running pipreqs is not
// possible or not wanted; pipreqs remains the default.
package pyscan

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/therealaleph/poetry-auto-add/pkg/errors"
	"github.com/therealaleph/poetry-auto-add/pkg/resolve"
)

var (
	importRE = regexp.MustCompile(`^\s*import\s+([\w.]+(?:\s*,\s*[\w.]+)*)`)
	fromRE   = regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import\b`)
)

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	"__pycache__":   true,
	".git":          true,
	".tox":          true,
	".venv":         true,
	"venv":          true,
	"node_modules":  true,
	"site-packages": true,
}

// Scan walks dir for *.py files and returns one candidate per imported
// top-level module, in encounter order. Tokens are raw; normalization
// (submodule collapse, stdlib filtering) happens in the pipeline.
// Unreadable files are reported through warn and skipped.
func Scan(dir string, warn func(string, ...any)) ([]resolve.Candidate, error) {
	if warn == nil {
		warn = func(string, ...any) {}
	}

	var candidates []resolve.Candidate
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warn("scan: %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if path != dir && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".py" {
			return nil
		}
		tokens, err := scanFile(path)
		if err != nil {
			warn("scan: %s: %v", path, err)
			return nil
		}
		for _, tok := range tokens {
			candidates = append(candidates, resolve.Candidate{Name: tok, From: resolve.SourceScan})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeScanUnavailable, err, "walk %s", dir)
	}
	if len(candidates) == 0 {
		return nil, errors.New(errors.ErrCodeScanUnavailable, "no imports found under %s", dir)
	}
	return candidates, nil
}

// scanFile extracts import tokens from a single source file. Relative
// imports ("from . import x") reference the project itself and are not
// candidates.
func scanFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if m := fromRE.FindStringSubmatch(line); m != nil {
			if !strings.HasPrefix(m[1], ".") {
				tokens = append(tokens, m[1])
			}
			continue
		}
		if m := importRE.FindStringSubmatch(line); m != nil {
			for _, tok := range strings.Split(m[1], ",") {
				tokens = append(tokens, strings.TrimSpace(tok))
			}
		}
	}
	return tokens, scanner.Err()
}
