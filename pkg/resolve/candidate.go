// Package resolve implements the dependency-resolution and manifest-
// reconciliation core: deciding what version directive to request for each
// discovered library, whether it conflicts with an already-declared
// dependency, and how to recover when a versioned add fails.
//
// The package orchestrates external collaborators through small interfaces
// (Manager, Index, Registry, Decider) and never touches the terminal or
// spawns processes itself.
package resolve

// Source identifies which collaborator produced a candidate.
type Source string

const (
	// SourceRequirements marks candidates parsed from a requirements file.
	SourceRequirements Source = "requirements"

	// SourceEnvironment marks candidates reported by the active virtualenv.
	SourceEnvironment Source = "venv"

	// SourceScan marks candidates found by static source scanning.
	SourceScan Source = "scan"
)

// Candidate is a raw library name with whatever version hints its producer
// could supply. It is consumed exactly once by the pipeline and never
// persisted.
type Candidate struct {
	Name       string // raw token, pre-normalization
	Pin        string // exact version from a "==" requirement line, if any
	Specifier  string // verbatim non-"==" specifier (">=2.0,<3"), if any
	EnvVersion string // version installed in the active virtualenv, if any
	From       Source // provenance
}
