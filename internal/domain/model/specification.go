package model

type SpecOperator string

const (
	SpecOpEqual           SpecOperator = "equal"
	SpecOpNotEqual        SpecOperator = "not_equal"
	SpecOpEqualIgnoreCase SpecOperator = "equal_ignore_case"
	SpecOpLike            SpecOperator = "like"
	SpecOpLikeIgnoreCase  SpecOperator = "like_ignore_case"
	SpecOpNotLike         SpecOperator = "not_like"
	SpecOpIn              SpecOperator = "in"
	SpecOpNotIn           SpecOperator = "not_in"
	SpecOpGt              SpecOperator = "gt"
	SpecOpGte             SpecOperator = "gte"
	SpecOpLt              SpecOperator = "lt"
	SpecOpLte             SpecOperator = "lte"
	SpecOpBetween         SpecOperator = "between"
	SpecOpIsNull          SpecOperator = "is_null"
	SpecOpNotNull         SpecOperator = "not_null"
	SpecOpAnd             SpecOperator = "and"
	SpecOpOr              SpecOperator = "or"
	SpecOpNot             SpecOperator = "not"
	SpecOpTrue            SpecOperator = "true"
	SpecOpFalse           SpecOperator = "false"
	SpecOpJoin            SpecOperator = "join"
	SpecOpJoinFetch       SpecOperator = "join_fetch"
)

// Specification is a node of a resolved filter tree. Leaves target one or
// more paths, composites combine children, join nodes carry the relations a
// query must join.
type Specification interface {
	And(other Specification) Specification
	Or(other Specification) Specification
	Not() Specification
	IsComposite() bool
	Children() []Specification
	Operator() SpecOperator
	Paths() []Path
	Value() any
}

// IsTrivial reports whether spec is the always-true identity node.
func IsTrivial(spec Specification) bool {
	return spec == nil || spec.Operator() == SpecOpTrue
}

// IsJoin reports whether spec is a join or join fetch node.
func IsJoin(spec Specification) bool {
	if spec == nil {
		return false
	}

	op := spec.Operator()

	return op == SpecOpJoin || op == SpecOpJoinFetch
}
