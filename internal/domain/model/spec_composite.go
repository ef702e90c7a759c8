package model

type andSpec struct {
	specs []Specification
}

func And(specs ...Specification) Specification {
	return &andSpec{specs: specs}
}

func (s *andSpec) And(other Specification) Specification {
	specs := make([]Specification, 0, len(s.specs)+1)

	return &andSpec{specs: append(append(specs, s.specs...), other)}
}

func (s *andSpec) Or(other Specification) Specification {
	return &orSpec{specs: []Specification{s, other}}
}

func (s *andSpec) Not() Specification        { return &notSpec{spec: s} }
func (s *andSpec) IsComposite() bool         { return true }
func (s *andSpec) Children() []Specification { return s.specs }
func (s *andSpec) Operator() SpecOperator    { return SpecOpAnd }
func (s *andSpec) Paths() []Path             { return nil }
func (s *andSpec) Value() any                { return nil }

type orSpec struct {
	specs []Specification
}

func Or(specs ...Specification) Specification {
	return &orSpec{specs: specs}
}

func (s *orSpec) And(other Specification) Specification {
	return &andSpec{specs: []Specification{s, other}}
}

func (s *orSpec) Or(other Specification) Specification {
	specs := make([]Specification, 0, len(s.specs)+1)

	return &orSpec{specs: append(append(specs, s.specs...), other)}
}

func (s *orSpec) Not() Specification        { return &notSpec{spec: s} }
func (s *orSpec) IsComposite() bool         { return true }
func (s *orSpec) Children() []Specification { return s.specs }
func (s *orSpec) Operator() SpecOperator    { return SpecOpOr }
func (s *orSpec) Paths() []Path             { return nil }
func (s *orSpec) Value() any                { return nil }

type notSpec struct {
	spec Specification
}

func Not(spec Specification) Specification {
	return &notSpec{spec: spec}
}

func (s *notSpec) And(other Specification) Specification {
	return &andSpec{specs: []Specification{s, other}}
}

func (s *notSpec) Or(other Specification) Specification {
	return &orSpec{specs: []Specification{s, other}}
}

func (s *notSpec) Not() Specification        { return s.spec }
func (s *notSpec) IsComposite() bool         { return true }
func (s *notSpec) Children() []Specification { return []Specification{s.spec} }
func (s *notSpec) Operator() SpecOperator    { return SpecOpNot }
func (s *notSpec) Paths() []Path             { return nil }
func (s *notSpec) Value() any                { return nil }

// identitySpec is the neutral element of a combinator with no children.
type identitySpec struct {
	holds bool
}

func True() Specification  { return identitySpec{holds: true} }
func False() Specification { return identitySpec{holds: false} }

func (s identitySpec) And(other Specification) Specification {
	if s.holds {
		return other
	}

	return s
}

func (s identitySpec) Or(other Specification) Specification {
	if s.holds {
		return s
	}

	return other
}

func (s identitySpec) Not() Specification        { return identitySpec{holds: !s.holds} }
func (s identitySpec) IsComposite() bool         { return false }
func (s identitySpec) Children() []Specification { return nil }
func (s identitySpec) Paths() []Path             { return nil }
func (s identitySpec) Value() any                { return s.holds }

func (s identitySpec) Operator() SpecOperator {
	if s.holds {
		return SpecOpTrue
	}

	return SpecOpFalse
}
