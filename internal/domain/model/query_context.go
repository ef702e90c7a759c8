package model

import "strings"

const pathSeparator = "."

type (
	// JoinHandle is one joined relation of a query. Handles are shared by
	// pointer: every node that targets the same relation path within one
	// resolution holds the same handle.
	JoinHandle struct {
		Path     string
		Relation string
		Alias    string
		Parent   *JoinHandle
		Kind     JoinKind
		Fetch    bool
		// Implicit handles were created by path traversal rather than by a
		// join directive.
		Implicit bool
	}

	// Path is a resolved predicate target: an attribute of the root entity
	// when Join is nil, otherwise an attribute of the joined relation.
	Path struct {
		Join      *JoinHandle
		Attribute string
	}

	// QueryContext records the joins created while resolving one parameter.
	// It is not safe for concurrent use and must not outlive the resolution
	// that created it.
	QueryContext struct {
		joins map[string]*JoinHandle
		order []*JoinHandle
	}
)

func NewQueryContext() *QueryContext {
	return &QueryContext{joins: make(map[string]*JoinHandle)}
}

// Lookup returns the handle registered for the relation path.
func (c *QueryContext) Lookup(path string) (*JoinHandle, bool) {
	h, ok := c.joins[path]

	return h, ok
}

// Join registers a join for the relation path and reports whether it was
// created. A path already joined by a directive keeps its first handle
// untouched. A path only registered implicitly is taken over: its handle
// gets kind and fetch and counts as created. Missing parent relations of a
// nested path are registered as implicit joins of the same kind.
func (c *QueryContext) Join(path string, kind JoinKind, fetch bool) (*JoinHandle, bool) {
	if h, ok := c.joins[path]; ok {
		if !h.Implicit {
			return h, false
		}

		h.Kind, h.Fetch, h.Implicit = kind, fetch, false

		return h, true
	}

	var parent *JoinHandle
	if i := strings.LastIndex(path, pathSeparator); i > 0 {
		parent = c.ensure(path[:i], kind)
	}

	return c.register(path, parent, kind, fetch, false), true
}

// Path resolves an attribute path such as "orders.items.sku" into the
// attribute and the relation that owns it, reusing registered joins and
// registering implicit inner joins for the missing relations.
func (c *QueryContext) Path(path string) Path {
	i := strings.LastIndex(path, pathSeparator)
	if i <= 0 {
		return Path{Attribute: path}
	}

	return Path{Join: c.ensure(path[:i], JoinInner), Attribute: path[i+1:]}
}

// Handles returns the registered joins in registration order.
func (c *QueryContext) Handles() []*JoinHandle {
	handles := make([]*JoinHandle, len(c.order))
	copy(handles, c.order)

	return handles
}

func (c *QueryContext) Len() int { return len(c.order) }

func (c *QueryContext) ensure(path string, kind JoinKind) *JoinHandle {
	if h, ok := c.joins[path]; ok {
		return h
	}

	var parent *JoinHandle
	if i := strings.LastIndex(path, pathSeparator); i > 0 {
		parent = c.ensure(path[:i], kind)
	}

	return c.register(path, parent, kind, false, true)
}

func (c *QueryContext) register(path string, parent *JoinHandle, kind JoinKind, fetch, implicit bool) *JoinHandle {
	relation := path
	if i := strings.LastIndex(path, pathSeparator); i >= 0 {
		relation = path[i+1:]
	}

	h := &JoinHandle{
		Path:     path,
		Relation: relation,
		Alias:    strings.ReplaceAll(path, pathSeparator, "_"),
		Parent:   parent,
		Kind:     kind,
		Fetch:    fetch,
		Implicit: implicit,
	}

	c.joins[path] = h
	c.order = append(c.order, h)

	return h
}

// String renders the path as alias.attribute, or the bare attribute for the
// root entity.
func (p Path) String() string {
	if p.Join == nil {
		return p.Attribute
	}

	if p.Attribute == "" {
		return p.Join.Alias
	}

	return p.Join.Alias + pathSeparator + p.Attribute
}
