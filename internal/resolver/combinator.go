package resolver

import "github.com/architeacher/specargs/internal/domain/model"

// Combine joins children with the combinator. A single child is returned as
// is. Without children AND yields True and OR yields False; directive
// resolution never asks for an empty disjunction.
func Combine(kind model.Combinator, children ...model.Specification) model.Specification {
	switch len(children) {
	case 0:
		if kind.Or() {
			return model.False()
		}

		return model.True()
	case 1:
		return children[0]
	}

	specs := make([]model.Specification, len(children))
	copy(specs, children)

	if kind.Or() {
		return model.Or(specs...)
	}

	return model.And(specs...)
}
