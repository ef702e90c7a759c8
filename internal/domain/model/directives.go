package model

import "strings"

type (
	PredicateKind string

	Combinator string

	// ValueType selects how request values are converted before they reach
	// a predicate.
	ValueType string

	DirectiveConfig struct {
		IgnoreCase bool
		// DateLayout is a Go time layout used when ValueType is ValueTime.
		DateLayout string
		ValueType  ValueType
	}

	// FilterDirective binds request keys to one leaf predicate.
	FilterDirective struct {
		Kind  PredicateKind
		Paths []string
		// Params are the request keys read for this directive. When empty
		// the paths double as keys.
		Params   []string
		Required bool
		// DefaultValues apply when none of the params is present.
		DefaultValues []string
		// ConstValues always apply and the request is not consulted.
		ConstValues []string
		Config      DirectiveConfig
	}

	// FilterGroup is a nested boolean group of filter directives.
	FilterGroup struct {
		Combinator Combinator
		Filters    []FilterDirective
		Groups     []FilterGroup
	}

	JoinDirective struct {
		Paths []string
		// Kind defaults to left for fetch joins and inner for plain joins.
		Kind     JoinKind
		Fetch    bool
		Distinct bool
	}

	// JoinContainer groups join directives declared together.
	JoinContainer struct {
		Directives []JoinDirective
	}

	// Directives is everything a parameter or a named definition declares.
	Directives struct {
		Combinator    Combinator
		Filters       []FilterDirective
		Groups        []FilterGroup
		Joins         []JoinDirective
		JoinContainer *JoinContainer
	}
)

const (
	CombinatorAnd Combinator = "and"
	CombinatorOr  Combinator = "or"

	ValueString ValueType = ""
	ValueInt    ValueType = "int"
	ValueFloat  ValueType = "float"
	ValueBool   ValueType = "bool"
	ValueTime   ValueType = "time"
)

// Or reports whether the combinator is a disjunction; anything else,
// including the zero value, combines with AND.
func (c Combinator) Or() bool { return c == CombinatorOr }

func (c Combinator) String() string {
	if c.Or() {
		return string(CombinatorOr)
	}

	return string(CombinatorAnd)
}

// Keys returns the request keys bound to the directive.
func (d FilterDirective) Keys() []string {
	if len(d.Params) > 0 {
		return d.Params
	}

	return d.Paths
}

// String identifies the directive in errors and logs.
func (d FilterDirective) String() string {
	return string(d.Kind) + "(" + strings.Join(d.Paths, ",") + ")"
}

// Signature identifies the directive together with its request keys.
func (d FilterDirective) Signature() string {
	return d.String() + "<" + strings.Join(d.Keys(), ",") + ">"
}

// EffectiveKind resolves the zero kind of a join directive.
func (d JoinDirective) EffectiveKind() JoinKind {
	if d.Kind != "" {
		return d.Kind
	}

	if d.Fetch {
		return JoinLeft
	}

	return JoinInner
}

func (d JoinDirective) String() string {
	mode := "join"
	if d.Fetch {
		mode = "join_fetch"
	}

	return mode + "(" + strings.Join(d.Paths, ",") + ")"
}

// FlattenJoins returns inline join directives followed by the container's
// directives, in declaration order.
func FlattenJoins(joins []JoinDirective, container *JoinContainer) []JoinDirective {
	flat := make([]JoinDirective, 0, len(joins))
	flat = append(flat, joins...)

	if container != nil {
		flat = append(flat, container.Directives...)
	}

	return flat
}

// IsEmpty reports whether nothing is declared.
func (d Directives) IsEmpty() bool {
	return len(d.Filters) == 0 && len(d.Groups) == 0 && len(d.Joins) == 0 &&
		(d.JoinContainer == nil || len(d.JoinContainer.Directives) == 0)
}
