package resolver

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/architeacher/specargs/internal/domain/model"
)

const (
	KindEqual              model.PredicateKind = "equal"
	KindNotEqual           model.PredicateKind = "notEqual"
	KindEqualIgnoreCase    model.PredicateKind = "equalIgnoreCase"
	KindLike               model.PredicateKind = "like"
	KindLikeIgnoreCase     model.PredicateKind = "likeIgnoreCase"
	KindNotLike            model.PredicateKind = "notLike"
	KindStartingWith       model.PredicateKind = "startingWith"
	KindEndingWith         model.PredicateKind = "endingWith"
	KindIn                 model.PredicateKind = "in"
	KindNotIn              model.PredicateKind = "notIn"
	KindGreaterThan        model.PredicateKind = "greaterThan"
	KindGreaterThanOrEqual model.PredicateKind = "greaterThanOrEqual"
	KindLessThan           model.PredicateKind = "lessThan"
	KindLessThanOrEqual    model.PredicateKind = "lessThanOrEqual"
	KindBetween            model.PredicateKind = "between"
	KindIsNull             model.PredicateKind = "isNull"
	KindNotNull            model.PredicateKind = "notNull"
	KindNull               model.PredicateKind = "null"
)

type (
	// PredicateFunc builds one leaf predicate. Paths are already resolved
	// against the query context.
	PredicateFunc func(paths []model.Path, values []string, cfg model.DirectiveConfig) (model.Specification, error)

	// PredicateFactory maps predicate kinds to their constructors. The table
	// is fixed once NewPredicateFactory returns.
	PredicateFactory struct {
		predicates map[model.PredicateKind]PredicateFunc
	}

	FactoryOption func(*PredicateFactory)
)

// WithPredicate registers fn for kind, replacing a built-in of the same kind.
func WithPredicate(kind model.PredicateKind, fn PredicateFunc) FactoryOption {
	return func(f *PredicateFactory) {
		f.predicates[kind] = fn
	}
}

func NewPredicateFactory(opts ...FactoryOption) *PredicateFactory {
	f := &PredicateFactory{
		predicates: map[model.PredicateKind]PredicateFunc{
			KindEqual:              equal,
			KindNotEqual:           single(model.NotEqual),
			KindEqualIgnoreCase:    equalIgnoreCase,
			KindLike:               like,
			KindLikeIgnoreCase:     pattern(model.LikeIgnoreCase, "%", "%"),
			KindNotLike:            pattern(model.NotLike, "%", "%"),
			KindStartingWith:       pattern(model.Like, "", "%"),
			KindEndingWith:         pattern(model.Like, "%", ""),
			KindIn:                 multi(model.In),
			KindNotIn:              multi(model.NotIn),
			KindGreaterThan:        single(model.GreaterThan),
			KindGreaterThanOrEqual: single(model.GreaterThanOrEqual),
			KindLessThan:           single(model.LessThan),
			KindLessThanOrEqual:    single(model.LessThanOrEqual),
			KindBetween:            between,
			KindIsNull:             valueless(model.IsNull),
			KindNotNull:            valueless(model.NotNull),
			KindNull:               null,
		},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Supports reports whether a constructor is registered for kind.
func (f *PredicateFactory) Supports(kind model.PredicateKind) bool {
	_, ok := f.predicates[kind]

	return ok
}

// Create builds the leaf predicate for kind. Paths that cross relations are
// resolved through qctx so they share the joins registered there.
func (f *PredicateFactory) Create(
	kind model.PredicateKind,
	paths []string,
	values []string,
	qctx *model.QueryContext,
	cfg model.DirectiveConfig,
) (model.Specification, error) {
	fn, ok := f.predicates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedPredicateKind, kind)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %q declares no path", model.ErrInvalidDirective, kind)
	}

	resolved := make([]model.Path, 0, len(paths))
	for _, p := range paths {
		resolved = append(resolved, qctx.Path(p))
	}

	return fn(resolved, values, cfg)
}

// ConvertValue converts a raw request value according to cfg.
func ConvertValue(raw string, cfg model.DirectiveConfig) (any, error) {
	var (
		v   any
		err error
	)

	switch cfg.ValueType {
	case model.ValueInt:
		v, err = strconv.ParseInt(raw, 10, 64)
	case model.ValueFloat:
		v, err = strconv.ParseFloat(raw, 64)
	case model.ValueBool:
		v, err = strconv.ParseBool(raw)
	case model.ValueTime:
		layout := cfg.DateLayout
		if layout == "" {
			layout = time.DateOnly
		}

		v, err = time.Parse(layout, raw)
	default:
		return raw, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a valid %s", model.ErrInvalidValue, raw, cfg.ValueType)
	}

	return v, nil
}

// ConvertValues converts every raw value according to cfg.
func ConvertValues(raw []string, cfg model.DirectiveConfig) ([]any, error) {
	values := make([]any, 0, len(raw))

	for _, r := range raw {
		v, err := ConvertValue(r, cfg)
		if err != nil {
			return nil, err
		}

		values = append(values, v)
	}

	return values, nil
}

func first(values []string) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("%w: no value given", model.ErrInvalidValue)
	}

	return values[0], nil
}

func single(build func([]model.Path, any) model.Specification) PredicateFunc {
	return func(paths []model.Path, values []string, cfg model.DirectiveConfig) (model.Specification, error) {
		raw, err := first(values)
		if err != nil {
			return nil, err
		}

		v, err := ConvertValue(raw, cfg)
		if err != nil {
			return nil, err
		}

		return build(paths, v), nil
	}
}

func multi(build func([]model.Path, ...any) model.Specification) PredicateFunc {
	return func(paths []model.Path, values []string, cfg model.DirectiveConfig) (model.Specification, error) {
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: no value given", model.ErrInvalidValue)
		}

		converted, err := ConvertValues(values, cfg)
		if err != nil {
			return nil, err
		}

		return build(paths, converted...), nil
	}
}

// likeEscaper makes request values match literally inside a LIKE pattern,
// using the default backslash escape of postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func pattern(build func([]model.Path, string) model.Specification, prefix, suffix string) PredicateFunc {
	return func(paths []model.Path, values []string, _ model.DirectiveConfig) (model.Specification, error) {
		raw, err := first(values)
		if err != nil {
			return nil, err
		}

		return build(paths, prefix+likeEscaper.Replace(raw)+suffix), nil
	}
}

func valueless(build func([]model.Path) model.Specification) PredicateFunc {
	return func(paths []model.Path, _ []string, _ model.DirectiveConfig) (model.Specification, error) {
		return build(paths), nil
	}
}

func equal(paths []model.Path, values []string, cfg model.DirectiveConfig) (model.Specification, error) {
	if cfg.IgnoreCase {
		return equalIgnoreCase(paths, values, cfg)
	}

	return single(model.Equal)(paths, values, cfg)
}

func equalIgnoreCase(paths []model.Path, values []string, _ model.DirectiveConfig) (model.Specification, error) {
	raw, err := first(values)
	if err != nil {
		return nil, err
	}

	return model.EqualIgnoreCase(paths, raw), nil
}

func like(paths []model.Path, values []string, cfg model.DirectiveConfig) (model.Specification, error) {
	if cfg.IgnoreCase {
		return pattern(model.LikeIgnoreCase, "%", "%")(paths, values, cfg)
	}

	return pattern(model.Like, "%", "%")(paths, values, cfg)
}

func between(paths []model.Path, values []string, cfg model.DirectiveConfig) (model.Specification, error) {
	if len(values) != 2 {
		return nil, fmt.Errorf("%w: between expects 2 values, got %d", model.ErrInvalidValue, len(values))
	}

	converted, err := ConvertValues(values, cfg)
	if err != nil {
		return nil, err
	}

	return model.Between(paths, converted[0], converted[1]), nil
}

func null(paths []model.Path, values []string, _ model.DirectiveConfig) (model.Specification, error) {
	raw, err := first(values)
	if err != nil {
		return nil, err
	}

	isNull, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a boolean", model.ErrInvalidValue, raw)
	}

	if isNull {
		return model.IsNull(paths), nil
	}

	return model.NotNull(paths), nil
}
