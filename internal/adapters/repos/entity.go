package repos

import (
	"fmt"
	"sort"
)

type (
	// Entity maps the attributes and relations a specification may target
	// onto a table.
	Entity struct {
		Table string
		// Key is the primary key column; it orders and counts results.
		Key       string
		Columns   map[string]string
		Relations map[string]Relation
	}

	// Relation joins Target rows whose ForeignKey column matches the owner's
	// LocalKey column.
	Relation struct {
		Target     *Entity
		LocalKey   string
		ForeignKey string
	}
)

func (e *Entity) Column(attribute string) (string, bool) {
	col, ok := e.Columns[attribute]

	return col, ok
}

func (e *Entity) Relation(name string) (Relation, bool) {
	rel, ok := e.Relations[name]

	return rel, ok
}

// Attributes returns the mapped attribute names in sorted order.
func (e *Entity) Attributes() []string {
	attrs := make([]string, 0, len(e.Columns))
	for attr := range e.Columns {
		attrs = append(attrs, attr)
	}

	sort.Strings(attrs)

	return attrs
}

// SelectColumns selects every mapped column under its attribute name,
// prefixed by prefix when it is not empty.
func (e *Entity) SelectColumns(alias, prefix string) []string {
	attrs := e.Attributes()
	columns := make([]string, 0, len(attrs))

	for _, attr := range attrs {
		name := attr
		if prefix != "" {
			name = prefix + "." + attr
		}

		columns = append(columns, fmt.Sprintf(`%s.%s AS "%s"`, alias, e.Columns[attr], name))
	}

	return columns
}
