package resolve

// DirectiveKind discriminates the version directive attached to a request.
type DirectiveKind int

const (
	// Unconstrained requests whatever version the package manager picks.
	Unconstrained DirectiveKind = iota

	// Exact pins a single version ("name==1.2.3").
	Exact

	// Range passes a comparison specifier through verbatim ("name>=2,<3").
	Range
)

// Directive is the final version constraint resolved for a library.
// Immutable once produced.
type Directive struct {
	Kind  DirectiveKind
	Value string // version for Exact, specifier for Range, empty otherwise
}

// ExactVersion creates an exact-pin directive.
func ExactVersion(v string) Directive { return Directive{Kind: Exact, Value: v} }

// RangeSpec creates a pass-through specifier directive.
func RangeSpec(spec string) Directive { return Directive{Kind: Range, Value: spec} }

// NoConstraint creates an unconstrained directive.
func NoConstraint() Directive { return Directive{} }

// Spec renders the argument handed to the package manager's add operation.
func (d Directive) Spec(name string) string {
	switch d.Kind {
	case Exact:
		return name + "==" + d.Value
	case Range:
		return name + d.Value
	default:
		return name
	}
}

// Constrained reports whether the directive carries a version constraint.
func (d Directive) Constrained() bool { return d.Kind != Unconstrained }
