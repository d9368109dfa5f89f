package execx

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake is a scripted Runner for tests. Responses are keyed by the joined
// command line ("poetry add requests==2.31.0"); unmatched commands fall back
// to prefix matching, then to the Default response.
type Fake struct {
	mu        sync.Mutex
	Responses map[string]FakeResponse // exact command line -> response
	Default   FakeResponse            // used when nothing matches
	Missing   []string                // binaries LookPath should report absent
	Calls     []string                // every command line, in order
}

// FakeResponse is a canned result for a scripted command.
type FakeResponse struct {
	Stdout string
	Err    error
}

// NewFake creates a Fake with an empty script.
func NewFake() *Fake {
	return &Fake{Responses: make(map[string]FakeResponse)}
}

// Script registers a canned response for the exact command line.
func (f *Fake) Script(cmdline string, stdout string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Responses == nil {
		f.Responses = make(map[string]FakeResponse)
	}
	f.Responses[cmdline] = FakeResponse{Stdout: stdout, Err: err}
}

// Run records the call and returns the scripted response.
func (f *Fake) Run(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	cmdline := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, cmdline)

	if resp, ok := f.Responses[cmdline]; ok {
		return resp.Stdout, resp.Err
	}
	for key, resp := range f.Responses {
		if strings.HasPrefix(cmdline, key) {
			return resp.Stdout, resp.Err
		}
	}
	return f.Default.Stdout, f.Default.Err
}

// LookPath reports an error for binaries listed in Missing.
func (f *Fake) LookPath(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.Missing {
		if m == name {
			return fmt.Errorf("exec: %q: executable file not found in $PATH", name)
		}
	}
	return nil
}

// CallCount returns how many recorded command lines start with prefix.
func (f *Fake) CallCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

var _ Runner = (*Fake)(nil)
