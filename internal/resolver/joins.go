package resolver

import "github.com/architeacher/specargs/internal/domain/model"

// ResolveJoins turns join directives into join nodes registered in qctx.
// Inline directives come first, then the container's, each in declaration
// order. A relation path already present in qctx is skipped, so the first
// directive naming a path decides its kind and fetch mode.
func ResolveJoins(joins []model.JoinDirective, container *model.JoinContainer, qctx *model.QueryContext) model.Specification {
	directives := model.FlattenJoins(joins, container)
	nodes := make([]model.Specification, 0, len(directives))

	for _, d := range directives {
		kind := d.EffectiveKind()
		handles := make([]*model.JoinHandle, 0, len(d.Paths))

		for _, path := range d.Paths {
			h, created := qctx.Join(path, kind, d.Fetch)
			if !created {
				continue
			}

			handles = append(handles, h)
		}

		if len(handles) == 0 {
			continue
		}

		if d.Fetch {
			nodes = append(nodes, model.JoinFetch(kind, d.Distinct, handles...))
		} else {
			nodes = append(nodes, model.Join(kind, d.Distinct, handles...))
		}
	}

	return Combine(model.CombinatorAnd, nodes...)
}
