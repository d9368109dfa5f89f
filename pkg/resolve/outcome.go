package resolve

// Status classifies the final disposition of one candidate.
type Status int

const (
	// StatusAdded means the package manager accepted an add at some tier.
	StatusAdded Status = iota

	// StatusSkipped means the candidate was not added (already declared,
	// declined, invalid, or every add tier failed).
	StatusSkipped
)

// Outcome is one entry of the run's append-only outcome log.
type Outcome struct {
	Name   string // normalized library name
	Status Status
	Spec   string // exact directive string that succeeded (added only)
	Reason string // why the candidate was skipped (skipped only)
}

// Report partitions a run's outcomes for display.
type Report struct {
	Added   []Outcome
	Skipped []Outcome
}

// NoOp reports whether the run added nothing. A no-op run is surfaced
// distinctly from one that added at least one dependency.
func (r Report) NoOp() bool { return len(r.Added) == 0 }
