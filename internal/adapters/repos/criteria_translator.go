package repos

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/pkg/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CriteriaTranslator applies a resolved specification to a squirrel select
// rooted at an entity.
type CriteriaTranslator struct {
	logger *logger.Logger
}

type translation struct {
	root     *Entity
	entities map[*model.JoinHandle]*Entity
	order    []*model.JoinHandle
	distinct bool
}

func NewCriteriaTranslator(log *logger.Logger) *CriteriaTranslator {
	return &CriteriaTranslator{logger: log}
}

// Apply adds the joins, the columns of fetched relations and the conditions
// of spec to builder. Every relation is joined once, in tree order, with its
// parents first.
func (t *CriteriaTranslator) Apply(builder sq.SelectBuilder, root *Entity, spec model.Specification) (sq.SelectBuilder, error) {
	builder, _, err := t.apply(builder, root, spec, true)

	return builder, err
}

// ApplyConditionsOnly adds the joins and conditions of spec but neither
// fetched columns nor DISTINCT, for aggregate queries.
func (t *CriteriaTranslator) ApplyConditionsOnly(builder sq.SelectBuilder, root *Entity, spec model.Specification) (sq.SelectBuilder, error) {
	builder, _, err := t.apply(builder, root, spec, false)

	return builder, err
}

// apply also reports how many relations were joined.
func (t *CriteriaTranslator) apply(builder sq.SelectBuilder, root *Entity, spec model.Specification, fetch bool) (sq.SelectBuilder, int, error) {
	tr := &translation{root: root, entities: make(map[*model.JoinHandle]*Entity)}

	tr.collect(spec)

	if t.logger != nil {
		t.logger.Debug().
			Str("table", root.Table).
			Int("joins", len(tr.order)).
			Bool("distinct", fetch && tr.distinct).
			Msg("translating specification")
	}

	for _, h := range tr.order {
		target, err := t.entityOf(tr, h)
		if err != nil {
			return builder, 0, err
		}

		rel, _ := t.ownerOf(tr, h).Relation(h.Relation)
		clause := fmt.Sprintf(
			"%s AS %s ON %s.%s = %s.%s",
			target.Table, h.Alias, h.Alias, rel.ForeignKey, tr.aliasOf(h.Parent), rel.LocalKey,
		)

		switch h.Kind {
		case model.JoinLeft:
			builder = builder.LeftJoin(clause)
		case model.JoinRight:
			builder = builder.RightJoin(clause)
		default:
			builder = builder.Join(clause)
		}

		if fetch && h.Fetch {
			builder = builder.Columns(target.SelectColumns(h.Alias, h.Path)...)
		}
	}

	if fetch && tr.distinct {
		builder = builder.Distinct()
	}

	if model.IsTrivial(spec) {
		return builder, len(tr.order), nil
	}

	cond, err := t.condition(tr, spec)
	if err != nil {
		return builder, 0, err
	}

	if cond != nil {
		builder = builder.Where(cond)
	}

	return builder, len(tr.order), nil
}

// collect records every join handle the tree needs: those of join nodes
// first, then those reached by leaf paths.
func (tr *translation) collect(spec model.Specification) {
	seen := make(map[string]struct{})

	var add func(h *model.JoinHandle)

	add = func(h *model.JoinHandle) {
		if h == nil {
			return
		}

		if _, ok := seen[h.Path]; ok {
			return
		}

		add(h.Parent)

		seen[h.Path] = struct{}{}
		tr.order = append(tr.order, h)
	}

	var joins, leaves func(s model.Specification)

	joins = func(s model.Specification) {
		if node, ok := s.(model.JoinNode); ok {
			tr.distinct = tr.distinct || node.Distinct()

			for _, h := range node.Handles() {
				add(h)
			}

			return
		}

		for _, child := range s.Children() {
			joins(child)
		}
	}

	leaves = func(s model.Specification) {
		if s.IsComposite() {
			for _, child := range s.Children() {
				leaves(child)
			}

			return
		}

		if model.IsJoin(s) {
			return
		}

		for _, p := range s.Paths() {
			add(p.Join)
		}
	}

	if spec == nil {
		return
	}

	joins(spec)
	leaves(spec)
}

func (tr *translation) aliasOf(h *model.JoinHandle) string {
	if h == nil {
		return tr.root.Table
	}

	return h.Alias
}

func (t *CriteriaTranslator) ownerOf(tr *translation, h *model.JoinHandle) *Entity {
	if h.Parent == nil {
		return tr.root
	}

	return tr.entities[h.Parent]
}

func (t *CriteriaTranslator) entityOf(tr *translation, h *model.JoinHandle) (*Entity, error) {
	if e, ok := tr.entities[h]; ok {
		return e, nil
	}

	owner := t.ownerOf(tr, h)
	if owner == nil {
		return nil, fmt.Errorf("%w: relation %q", model.ErrUnknownAttribute, h.Path)
	}

	rel, ok := owner.Relation(h.Relation)
	if !ok || rel.Target == nil {
		t.warnUnknown("relation", h.Path)

		return nil, fmt.Errorf("%w: relation %q", model.ErrUnknownAttribute, h.Path)
	}

	tr.entities[h] = rel.Target

	return rel.Target, nil
}

func (t *CriteriaTranslator) column(tr *translation, p model.Path) (string, error) {
	entity := tr.root
	if p.Join != nil {
		entity = tr.entities[p.Join]
	}

	if entity == nil {
		return "", fmt.Errorf("%w: relation of %q", model.ErrUnknownAttribute, p.String())
	}

	col, ok := entity.Column(p.Attribute)
	if !ok {
		t.warnUnknown("attribute", p.String())

		return "", fmt.Errorf("%w: %q", model.ErrUnknownAttribute, p.String())
	}

	return tr.aliasOf(p.Join) + "." + col, nil
}

func (t *CriteriaTranslator) condition(tr *translation, spec model.Specification) (sq.Sqlizer, error) {
	switch spec.Operator() {
	case model.SpecOpJoin, model.SpecOpJoinFetch:
		return nil, nil

	case model.SpecOpTrue:
		return sq.Expr("1=1"), nil

	case model.SpecOpFalse:
		return sq.Expr("1=0"), nil

	case model.SpecOpAnd, model.SpecOpOr:
		conditions := make([]sq.Sqlizer, 0, len(spec.Children()))

		for _, child := range spec.Children() {
			cond, err := t.condition(tr, child)
			if err != nil {
				return nil, err
			}

			if cond != nil {
				conditions = append(conditions, cond)
			}
		}

		switch {
		case len(conditions) == 0:
			return nil, nil
		case len(conditions) == 1:
			return conditions[0], nil
		case spec.Operator() == model.SpecOpOr:
			return sq.Or(conditions), nil
		}

		return sq.And(conditions), nil

	case model.SpecOpNot:
		children := spec.Children()
		if len(children) == 0 {
			return nil, nil
		}

		inner, err := t.condition(tr, children[0])
		if err != nil || inner == nil {
			return nil, err
		}

		return sq.Expr("NOT (?)", inner), nil
	}

	conditions := make(sq.Or, 0, len(spec.Paths()))

	for _, p := range spec.Paths() {
		col, err := t.column(tr, p)
		if err != nil {
			return nil, err
		}

		cond, err := leafCondition(spec.Operator(), col, spec.Value())
		if err != nil {
			return nil, err
		}

		conditions = append(conditions, cond)
	}

	if len(conditions) == 1 {
		return conditions[0], nil
	}

	return conditions, nil
}

func leafCondition(op model.SpecOperator, col string, value any) (sq.Sqlizer, error) {
	switch op {
	case model.SpecOpEqual, model.SpecOpIn:
		return sq.Eq{col: value}, nil
	case model.SpecOpNotEqual, model.SpecOpNotIn:
		return sq.NotEq{col: value}, nil
	case model.SpecOpEqualIgnoreCase:
		return sq.Expr(fmt.Sprintf("LOWER(%s) = LOWER(?)", col), value), nil
	case model.SpecOpLike:
		return sq.Like{col: value}, nil
	case model.SpecOpLikeIgnoreCase:
		return sq.ILike{col: value}, nil
	case model.SpecOpNotLike:
		return sq.NotLike{col: value}, nil
	case model.SpecOpGt:
		return sq.Gt{col: value}, nil
	case model.SpecOpGte:
		return sq.GtOrEq{col: value}, nil
	case model.SpecOpLt:
		return sq.Lt{col: value}, nil
	case model.SpecOpLte:
		return sq.LtOrEq{col: value}, nil
	case model.SpecOpBetween:
		bounds, ok := value.([]any)
		if !ok || len(bounds) != 2 {
			return nil, fmt.Errorf("%w: between on %s needs two bounds", model.ErrInvalidValue, col)
		}

		return sq.Expr(col+" BETWEEN ? AND ?", bounds[0], bounds[1]), nil
	case model.SpecOpIsNull:
		return sq.Eq{col: nil}, nil
	case model.SpecOpNotNull:
		return sq.NotEq{col: nil}, nil
	}

	return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedPredicateKind, op)
}

func (t *CriteriaTranslator) warnUnknown(kind, name string) {
	if t.logger == nil {
		return
	}

	t.logger.Warn().
		Str(kind, name).
		Msg("specification targets an unmapped " + kind)
}
