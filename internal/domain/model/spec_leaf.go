package model

type baseSpec struct {
	self Specification
}

func (b *baseSpec) setSelf(s Specification) { b.self = s }

func (b *baseSpec) And(other Specification) Specification {
	return &andSpec{specs: []Specification{b.self, other}}
}
func (b *baseSpec) Or(other Specification) Specification {
	return &orSpec{specs: []Specification{b.self, other}}
}
func (b *baseSpec) Not() Specification        { return &notSpec{spec: b.self} }
func (b *baseSpec) IsComposite() bool         { return false }
func (b *baseSpec) Children() []Specification { return nil }

type leafSpec struct {
	baseSpec
	operator SpecOperator
	paths    []Path
	value    any
}

func newLeaf(operator SpecOperator, paths []Path, value any) Specification {
	s := &leafSpec{operator: operator, paths: paths, value: value}
	s.setSelf(s)

	return s
}

func (s *leafSpec) Operator() SpecOperator { return s.operator }
func (s *leafSpec) Paths() []Path          { return s.paths }
func (s *leafSpec) Value() any             { return s.value }

func Equal(paths []Path, value any) Specification {
	return newLeaf(SpecOpEqual, paths, value)
}

func NotEqual(paths []Path, value any) Specification {
	return newLeaf(SpecOpNotEqual, paths, value)
}

func EqualIgnoreCase(paths []Path, value string) Specification {
	return newLeaf(SpecOpEqualIgnoreCase, paths, value)
}

// Like matches pattern as given; callers add the wildcards.
func Like(paths []Path, pattern string) Specification {
	return newLeaf(SpecOpLike, paths, pattern)
}

func LikeIgnoreCase(paths []Path, pattern string) Specification {
	return newLeaf(SpecOpLikeIgnoreCase, paths, pattern)
}

func NotLike(paths []Path, pattern string) Specification {
	return newLeaf(SpecOpNotLike, paths, pattern)
}

func In(paths []Path, values ...any) Specification {
	return newLeaf(SpecOpIn, paths, values)
}

func NotIn(paths []Path, values ...any) Specification {
	return newLeaf(SpecOpNotIn, paths, values)
}

func GreaterThan(paths []Path, value any) Specification {
	return newLeaf(SpecOpGt, paths, value)
}

func GreaterThanOrEqual(paths []Path, value any) Specification {
	return newLeaf(SpecOpGte, paths, value)
}

func LessThan(paths []Path, value any) Specification {
	return newLeaf(SpecOpLt, paths, value)
}

func LessThanOrEqual(paths []Path, value any) Specification {
	return newLeaf(SpecOpLte, paths, value)
}

func Between(paths []Path, start, end any) Specification {
	return newLeaf(SpecOpBetween, paths, []any{start, end})
}

func IsNull(paths []Path) Specification {
	return newLeaf(SpecOpIsNull, paths, nil)
}

func NotNull(paths []Path) Specification {
	return newLeaf(SpecOpNotNull, paths, nil)
}
