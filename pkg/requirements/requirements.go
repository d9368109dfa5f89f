// Package requirements parses pip requirements files into resolution
// candidates.
package requirements

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/therealaleph/poetry-auto-add/pkg/errors"
	"github.com/therealaleph/poetry-auto-add/pkg/resolve"
)

var (
	pinRE  = regexp.MustCompile(`^([A-Za-z0-9][-A-Za-z0-9._]*)\s*==\s*([\w.+!-]+)\s*$`)
	specRE = regexp.MustCompile(`^([A-Za-z0-9][-A-Za-z0-9._]*)\s*((?:[<>!~=]=?|===)[^#]*)$`)
	bareRE = regexp.MustCompile(`^([A-Za-z0-9][-A-Za-z0-9._]*)\s*$`)
)

// Supports reports whether this parser handles the given filename.
func Supports(name string) bool {
	return name == "requirements.txt" ||
		(strings.HasPrefix(name, "requirements") && strings.HasSuffix(name, ".txt"))
}

// ParseFile reads a requirements file and returns one candidate per
// requirement line. Malformed lines are reported through warn and
// discarded; they never fail the parse. A missing file is an error.
func ParseFile(path string, warn func(string, ...any)) ([]resolve.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeManifestMissing, "%s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeScanUnavailable, err, "open %s", path)
	}
	defer f.Close()
	return Parse(f, warn)
}

// Parse reads requirement lines from r. See [ParseFile].
func Parse(r io.Reader, warn func(string, ...any)) ([]resolve.Candidate, error) {
	if warn == nil {
		warn = func(string, ...any) {}
	}

	var candidates []resolve.Candidate
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if skippable(line) {
			continue
		}
		// Extras ("requests[socks]") collapse to the base distribution;
		// poetry resolves the extra set itself on add.
		if i := strings.IndexByte(line, '['); i >= 0 {
			if j := strings.IndexByte(line, ']'); j > i {
				line = line[:i] + line[j+1:]
			}
		}
		// Trailing comments and environment markers are not part of the
		// requested constraint.
		if i := strings.IndexAny(line, "#;"); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}

		c, ok := parseLine(line)
		if !ok {
			warn("could not parse the requirement line: %s", line)
			continue
		}
		candidates = append(candidates, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeScanUnavailable, err, "read requirements")
	}
	return candidates, nil
}

// skippable reports lines that carry no requirement: blanks, comments,
// pip options (-e, -r, --hash) and URL or VCS references.
func skippable(line string) bool {
	if line == "" || line[0] == '#' || line[0] == '-' {
		return true
	}
	return strings.Contains(line, "://") || strings.HasPrefix(line, "git+")
}

func parseLine(line string) (resolve.Candidate, bool) {
	if m := pinRE.FindStringSubmatch(line); m != nil {
		return resolve.Candidate{
			Name: m[1],
			Pin:  m[2],
			From: resolve.SourceRequirements,
		}, true
	}
	if m := specRE.FindStringSubmatch(line); m != nil {
		return resolve.Candidate{
			Name:      m[1],
			Specifier: strings.TrimSpace(m[2]),
			From:      resolve.SourceRequirements,
		}, true
	}
	if m := bareRE.FindStringSubmatch(line); m != nil {
		return resolve.Candidate{
			Name: m[1],
			From: resolve.SourceRequirements,
		}, true
	}
	return resolve.Candidate{}, false
}
