package cli

import (
	"context"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/therealaleph/poetry-auto-add/pkg/resolve"
)

// huhDecider asks yes/no questions through an interactive terminal form.
// It implements resolve.Decider for runs attached to a TTY.
type huhDecider struct{}

// Confirm renders a yes/no form and returns the operator's answer.
func (huhDecider) Confirm(ctx context.Context, prompt string) (bool, error) {
	var yes bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(prompt).
			Affirmative("Yes").
			Negative("No").
			Value(&yes),
	))
	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}
	return yes, nil
}

// newDecider selects the decision provider for this run: interactive when
// attached to a terminal, otherwise a static decider answering assumeYes.
// Non-interactive runs therefore treat "no input" as decline.
func newDecider(assumeYes bool) resolve.Decider {
	if assumeYes {
		return resolve.StaticDecider{Answer: true}
	}
	if isTerminal(os.Stdin) {
		return huhDecider{}
	}
	return resolve.StaticDecider{Answer: false}
}

// isTerminal reports whether f is attached to a character device.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
