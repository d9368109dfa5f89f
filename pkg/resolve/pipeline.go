package resolve

import (
	"context"
	"strings"

	"github.com/therealaleph/poetry-auto-add/pkg/errors"
)

// Manager is the package-manager surface the pipeline drives. Implemented
// by pkg/poetry.
type Manager interface {
	// Add declares spec ("name", "name==1.2.3", "name>=2") in the manifest.
	Add(ctx context.Context, spec string) error

	// ShowTree returns the textual dependency tree of the current manifest.
	ShowTree(ctx context.Context) (string, error)
}

// Index looks up versions installed in the local environment. Implemented
// by pkg/venv.
type Index interface {
	// InstalledVersion returns the installed version of a library, or
	// ok=false when the library is absent (or carries no version).
	InstalledVersion(name string) (version string, ok bool)
}

// Registry looks up the latest released version of a library in a remote
// package index. Implemented by pkg/integrations/pypi. Optional.
type Registry interface {
	LatestVersion(ctx context.Context, name string, refresh bool) (string, error)
}

// Options configures a pipeline run.
type Options struct {
	Overwrite bool                 // re-declare libraries that already appear in the tree
	Refresh   bool                 // bypass the registry response cache
	Index     Index                // installed-environment lookup (optional)
	Registry  Registry             // remote latest-version lookup (optional, --pin-latest)
	Decider   Decider              // conflict prompt; nil skips conflicts silently
	Logger    func(string, ...any) // streaming progress/warning callback (optional)
}

// Pipeline resolves candidates one at a time and reconciles them against
// the manifest. All state is run-scoped: the processed set and outcome log
// live for a single run and are discarded with the pipeline.
//
// Execution is strictly sequential. The manifest file is mutated in place
// by every successful add, so overlapping package-manager invocations are
// never issued.
type Pipeline struct {
	manager Manager
	opts    Options

	processed map[string]bool // normalized names handled this run
	outcomes  []Outcome       // append-only, report source
}

// NewPipeline creates a pipeline driving the given package manager.
func NewPipeline(manager Manager, opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return &Pipeline{
		manager:   manager,
		opts:      opts,
		processed: make(map[string]bool),
	}
}

// Process resolves and reconciles a single candidate. It returns nil when
// the candidate produced no outcome: a standard-library import, an empty
// token, or a name already handled this run (short-circuited with no
// queries and no manifest calls).
//
// Per-candidate failures never propagate; they become skip outcomes.
func (p *Pipeline) Process(ctx context.Context, c Candidate) *Outcome {
	name, ok := Normalize(c.Name)
	if !ok {
		return nil
	}
	if p.processed[name] {
		return nil
	}
	p.processed[name] = true

	if err := errors.ValidatePackageName(name); err != nil {
		return p.skip(name, errors.UserMessage(err))
	}

	directive := p.resolveDirective(ctx, name, c)

	declared, err := p.declared(ctx, name)
	if err != nil {
		return p.skip(name, "dependency tree query failed: "+err.Error())
	}
	if declared && !p.opts.Overwrite {
		if !p.confirmOverwrite(ctx, name) {
			return p.skip(name, "already declared")
		}
	}

	return p.add(ctx, name, directive)
}

// ProcessAll runs every candidate through the pipeline in order.
func (p *Pipeline) ProcessAll(ctx context.Context, candidates []Candidate) Report {
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		p.Process(ctx, c)
	}
	return p.Report()
}

// Report partitions the outcome log into added and skipped entries.
func (p *Pipeline) Report() Report {
	var r Report
	for _, o := range p.outcomes {
		if o.Status == StatusAdded {
			r.Added = append(r.Added, o)
		} else {
			r.Skipped = append(r.Skipped, o)
		}
	}
	return r
}

// resolveDirective picks the version directive for a candidate, in priority
// order: explicit pin, pass-through specifier, installed version, remote
// latest (when a Registry is configured), unconstrained. A failing lookup
// falls through to the next level rather than aborting.
func (p *Pipeline) resolveDirective(ctx context.Context, name string, c Candidate) Directive {
	if c.Pin != "" && c.Pin != "*" {
		return ExactVersion(c.Pin)
	}
	if c.Specifier != "" {
		return RangeSpec(c.Specifier)
	}
	if c.EnvVersion != "" {
		return ExactVersion(c.EnvVersion)
	}
	if p.opts.Index != nil {
		if v, ok := p.opts.Index.InstalledVersion(name); ok {
			return ExactVersion(v)
		}
	}
	if p.opts.Registry != nil {
		v, err := p.opts.Registry.LatestVersion(ctx, name, p.opts.Refresh)
		if err != nil {
			p.opts.Logger("registry lookup failed: %s: %v", name, err)
		} else if v != "" {
			return ExactVersion(v)
		}
	}
	return NoConstraint()
}

// declared queries the dependency tree for the candidate. One query is
// issued per distinct name and never cached across candidates: a
// successful add mutates the manifest underneath the run, and a stale
// answer would misreport libraries discovered later.
//
// The check is case-insensitive substring containment against the tree
// text. It can false-positive on names that are substrings of other
// declared names; downstream conflict handling treats that conservatively
// as "already declared".
func (p *Pipeline) declared(ctx context.Context, name string) (bool, error) {
	tree, err := p.manager.ShowTree(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(tree), strings.ToLower(name)), nil
}

// confirmOverwrite consults the decider for a conflicting library.
// No decider, a declined prompt, or a prompt error all mean "skip".
func (p *Pipeline) confirmOverwrite(ctx context.Context, name string) bool {
	if p.opts.Decider == nil {
		return false
	}
	yes, err := p.opts.Decider.Confirm(ctx, name+" is already declared in pyproject.toml. Overwrite?")
	if err != nil {
		p.opts.Logger("prompt failed: %s: %v", name, err)
		return false
	}
	return yes
}

// add walks the attempt tiers: the resolved directive first, then the bare
// name when the first attempt was versioned. Exhausting every tier records
// a skip; nothing here aborts the run.
func (p *Pipeline) add(ctx context.Context, name string, d Directive) *Outcome {
	attempts := []Directive{d}
	if d.Constrained() {
		attempts = append(attempts, NoConstraint())
	}

	var lastErr error
	for i, attempt := range attempts {
		spec := attempt.Spec(name)
		if err := p.manager.Add(ctx, spec); err != nil {
			lastErr = err
			if i < len(attempts)-1 {
				p.opts.Logger("failed to add %s, retrying without version constraint", spec)
			}
			continue
		}
		return p.added(name, spec)
	}
	return p.skip(name, "add failed: "+lastErr.Error())
}

func (p *Pipeline) added(name, spec string) *Outcome {
	o := Outcome{Name: name, Status: StatusAdded, Spec: spec}
	p.outcomes = append(p.outcomes, o)
	return &o
}

func (p *Pipeline) skip(name, reason string) *Outcome {
	o := Outcome{Name: name, Status: StatusSkipped, Reason: reason}
	p.outcomes = append(p.outcomes, o)
	return &o
}
