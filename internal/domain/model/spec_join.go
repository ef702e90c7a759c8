package model

type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
	JoinRight JoinKind = "right"
)

// JoinNode is a join or join fetch node of a resolved tree.
type JoinNode interface {
	Specification
	Handles() []*JoinHandle
	Kind() JoinKind
	Distinct() bool
}

type joinSpec struct {
	baseSpec
	handles  []*JoinHandle
	kind     JoinKind
	fetch    bool
	distinct bool
}

func newJoin(handles []*JoinHandle, kind JoinKind, fetch, distinct bool) JoinNode {
	s := &joinSpec{handles: handles, kind: kind, fetch: fetch, distinct: distinct}
	s.setSelf(s)

	return s
}

// Join makes the relations available to other predicates without loading them.
func Join(kind JoinKind, distinct bool, handles ...*JoinHandle) JoinNode {
	return newJoin(handles, kind, false, distinct)
}

// JoinFetch joins the relations and loads them with the root rows.
func JoinFetch(kind JoinKind, distinct bool, handles ...*JoinHandle) JoinNode {
	return newJoin(handles, kind, true, distinct)
}

func (s *joinSpec) Handles() []*JoinHandle { return s.handles }
func (s *joinSpec) Kind() JoinKind         { return s.kind }
func (s *joinSpec) Distinct() bool         { return s.distinct }
func (s *joinSpec) Value() any             { return nil }

func (s *joinSpec) Operator() SpecOperator {
	if s.fetch {
		return SpecOpJoinFetch
	}

	return SpecOpJoin
}

func (s *joinSpec) Paths() []Path {
	paths := make([]Path, 0, len(s.handles))
	for _, h := range s.handles {
		paths = append(paths, Path{Join: h})
	}

	return paths
}
