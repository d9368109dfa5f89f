package resolve

import "context"

// Decider answers yes/no questions on behalf of the operator. The core
// never reads standard input directly; the CLI supplies an interactive
// implementation when attached to a terminal and a static one otherwise.
type Decider interface {
	// Confirm asks the operator a yes/no question. A non-nil error is
	// treated by callers as "no".
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// StaticDecider answers every question with a fixed value. The
// non-interactive default answers "no", so conflicting libraries are
// skipped unless --overwrite is given.
type StaticDecider struct{ Answer bool }

// Confirm returns the fixed answer.
func (d StaticDecider) Confirm(ctx context.Context, prompt string) (bool, error) {
	return d.Answer, nil
}
