package resolver

import (
	"fmt"
	"strings"

	"github.com/architeacher/specargs/internal/domain/model"
)

// Engine resolves parameter metadata and request values into one
// specification. It holds no per-request state and may be shared.
type Engine struct {
	factory     *PredicateFactory
	definitions model.Definitions
}

// NewEngine returns an engine using factory for leaf predicates and
// definitions for parameters that name a reusable definition. Either may be
// nil: a nil factory falls back to the built-in predicates, nil definitions
// makes every named definition unknown.
func NewEngine(factory *PredicateFactory, definitions model.Definitions) *Engine {
	if factory == nil {
		factory = NewPredicateFactory()
	}

	return &Engine{factory: factory, definitions: definitions}
}

// Resolve builds the specification for meta from the request values. Joins
// are resolved before filters so that filters on joined relations reuse the
// join handles. On error no specification is returned.
func (e *Engine) Resolve(meta model.ParameterMetadata, values model.RequestValues) (model.Specification, error) {
	directives, err := e.directivesOf(meta)
	if err != nil {
		return nil, &model.ResolutionError{Parameter: meta.Name(), Err: err}
	}

	if err := e.validate(meta.Name(), directives); err != nil {
		return nil, err
	}

	if values == nil {
		values = model.MapValues{}
	}

	qctx := model.NewQueryContext()

	joins := ResolveJoins(directives.Joins, directives.JoinContainer, qctx)

	filters, err := e.resolveGroup(meta.Name(), directives.Combinator, directives.Filters, directives.Groups, values, qctx)
	if err != nil {
		return nil, err
	}

	return merge(filters, joins), nil
}

// directivesOf returns the parameter's directives, prefixed by those of the
// definition it names.
func (e *Engine) directivesOf(meta model.ParameterMetadata) (model.Directives, error) {
	declared := meta.Directives()

	name := meta.DefinitionName()
	if name == "" {
		return declared, nil
	}

	if e.definitions == nil {
		return model.Directives{}, fmt.Errorf("%w: %q", model.ErrUnknownDefinition, name)
	}

	def, ok := e.definitions.Definition(name)
	if !ok {
		return model.Directives{}, fmt.Errorf("%w: %q", model.ErrUnknownDefinition, name)
	}

	if def.Combinator != "" && declared.Combinator != "" && def.Combinator.Or() != declared.Combinator.Or() {
		return model.Directives{}, fmt.Errorf(
			"%w: definition %q combines with %s, parameter with %s",
			model.ErrConflictingDirectiveShape, name, def.Combinator, declared.Combinator,
		)
	}

	combinator := def.Combinator
	if combinator == "" {
		combinator = declared.Combinator
	}

	merged := model.Directives{
		Combinator: combinator,
		Filters:    append(append([]model.FilterDirective{}, def.Filters...), declared.Filters...),
		Groups:     append(append([]model.FilterGroup{}, def.Groups...), declared.Groups...),
		Joins:      append(append([]model.JoinDirective{}, def.Joins...), declared.Joins...),
	}

	if def.JoinContainer != nil || declared.JoinContainer != nil {
		merged.JoinContainer = &model.JoinContainer{
			Directives: model.FlattenJoins(containerOf(def), declared.JoinContainer),
		}
	}

	return merged, nil
}

func containerOf(d model.Directives) []model.JoinDirective {
	if d.JoinContainer == nil {
		return nil
	}

	return d.JoinContainer.Directives
}

// validate rejects declarations that cannot be resolved whatever the request
// carries.
func (e *Engine) validate(param string, d model.Directives) error {
	fail := func(directive string, err error) error {
		return &model.ResolutionError{Parameter: param, Directive: directive, Err: err}
	}

	inline := make(map[string]struct{}, len(d.Filters))
	for _, f := range d.Filters {
		inline[f.Signature()] = struct{}{}
	}

	var walk func(filters []model.FilterDirective, groups []model.FilterGroup, nested bool) error

	walk = func(filters []model.FilterDirective, groups []model.FilterGroup, nested bool) error {
		for _, f := range filters {
			if err := e.validateFilter(f); err != nil {
				return fail(f.String(), err)
			}

			if _, ok := inline[f.Signature()]; ok && nested {
				return fail(f.String(), fmt.Errorf(
					"%w: declared both inline and inside a group", model.ErrConflictingDirectiveShape,
				))
			}
		}

		for _, g := range groups {
			if err := walk(g.Filters, g.Groups, true); err != nil {
				return err
			}
		}

		return nil
	}

	if err := walk(d.Filters, d.Groups, false); err != nil {
		return err
	}

	inlineJoins := make(map[string]struct{})

	for _, j := range d.Joins {
		if len(j.Paths) == 0 {
			return fail(j.String(), fmt.Errorf("%w: join declares no path", model.ErrInvalidDirective))
		}

		for _, p := range j.Paths {
			inlineJoins[p] = struct{}{}
		}
	}

	for _, j := range containerOf(d) {
		if len(j.Paths) == 0 {
			return fail(j.String(), fmt.Errorf("%w: join declares no path", model.ErrInvalidDirective))
		}

		for _, p := range j.Paths {
			if _, ok := inlineJoins[p]; ok {
				return fail(j.String(), fmt.Errorf(
					"%w: relation %q joined both inline and in a join container",
					model.ErrConflictingDirectiveShape, p,
				))
			}
		}
	}

	return nil
}

func (e *Engine) validateFilter(f model.FilterDirective) error {
	if !e.factory.Supports(f.Kind) {
		return fmt.Errorf("%w: %q", model.ErrUnsupportedPredicateKind, f.Kind)
	}

	if len(f.Paths) == 0 {
		return fmt.Errorf("%w: no path declared", model.ErrInvalidDirective)
	}

	switch {
	case len(f.ConstValues) > 0 && len(f.DefaultValues) > 0:
		return fmt.Errorf("%w: both constant and default values declared", model.ErrConflictingDirectiveShape)
	case f.Required && (len(f.ConstValues) > 0 || len(f.DefaultValues) > 0):
		return fmt.Errorf("%w: required directive declares fallback values", model.ErrConflictingDirectiveShape)
	}

	return nil
}

func (e *Engine) resolveGroup(
	param string,
	kind model.Combinator,
	filters []model.FilterDirective,
	groups []model.FilterGroup,
	values model.RequestValues,
	qctx *model.QueryContext,
) (model.Specification, error) {
	children := make([]model.Specification, 0, len(filters)+len(groups))

	for _, f := range filters {
		spec, err := e.resolveFilter(param, f, values, qctx)
		if err != nil {
			return nil, err
		}

		if spec != nil {
			children = append(children, spec)
		}
	}

	for _, g := range groups {
		spec, err := e.resolveGroup(param, g.Combinator, g.Filters, g.Groups, values, qctx)
		if err != nil {
			return nil, err
		}

		if spec != nil {
			children = append(children, spec)
		}
	}

	if len(children) == 0 {
		return nil, nil
	}

	return Combine(kind, children...), nil
}

// resolveFilter returns nil when the directive is optional and none of its
// keys is present.
func (e *Engine) resolveFilter(
	param string,
	f model.FilterDirective,
	values model.RequestValues,
	qctx *model.QueryContext,
) (model.Specification, error) {
	raw, present := collectValues(f, values)
	if !present {
		if f.Required {
			return nil, &model.ResolutionError{
				Parameter: param,
				Directive: f.String(),
				Err: fmt.Errorf(
					"%w: none of %s present", model.ErrMissingRequiredValue, strings.Join(f.Keys(), ", "),
				),
			}
		}

		return nil, nil
	}

	spec, err := e.factory.Create(f.Kind, f.Paths, raw, qctx, f.Config)
	if err != nil {
		return nil, &model.ResolutionError{Parameter: param, Directive: f.String(), Err: err}
	}

	return spec, nil
}

func collectValues(f model.FilterDirective, values model.RequestValues) ([]string, bool) {
	if len(f.ConstValues) > 0 {
		return f.ConstValues, true
	}

	var (
		collected []string
		present   bool
	)

	for _, key := range f.Keys() {
		v, ok := values.Values(key)
		if !ok {
			continue
		}

		present = true
		collected = append(collected, v...)
	}

	if !present && len(f.DefaultValues) > 0 {
		return f.DefaultValues, true
	}

	return collected, present
}

func merge(filters, joins model.Specification) model.Specification {
	hasFilters := !model.IsTrivial(filters)
	hasJoins := !model.IsTrivial(joins)

	switch {
	case hasFilters && hasJoins:
		return model.And(filters, joins)
	case hasFilters:
		return filters
	case hasJoins:
		return joins
	}

	return model.True()
}
