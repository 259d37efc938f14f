package claro

import "strconv"

// Value is the runtime representation of an evaluated expression: a
// number or a boolean, nothing else. A nil Value means "absent" — not
// yet evaluated or failed to evaluate — which every operation must
// distinguish from a real result.
type Value interface {
	String() string
}

type Number struct {
	V float64
}

func (n Number) String() string {
	return strconv.FormatFloat(n.V, 'g', -1, 64)
}

type Boolean struct {
	V bool
}

func (b Boolean) String() string {
	if b.V {
		return "true"
	}

	return "false"
}

// valuesEqual implements == and != across both variants: values of
// different variants are never equal.
func valuesEqual(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		return ok && x.V == y.V
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x.V == y.V
	default:
		return false
	}
}
