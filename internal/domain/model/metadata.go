package model

type (
	// ParameterMetadata is the read-only description of one endpoint
	// parameter. A parameter either declares its directives inline, names a
	// definition, or both.
	ParameterMetadata interface {
		Name() string
		DefinitionName() string
		Directives() Directives
	}

	// Definitions looks up reusable named directive sets.
	Definitions interface {
		Definition(name string) (Directives, bool)
	}

	// RequestValues looks up the values bound to a request key. A missing
	// key reports false, which is distinct from a key bound to an empty
	// value.
	RequestValues interface {
		Values(key string) ([]string, bool)
	}

	Parameter struct {
		ParamName  string
		Definition string
		Declared   Directives
	}

	DefinitionSet map[string]Directives

	// MapValues adapts url.Values and plain maps to RequestValues.
	MapValues map[string][]string
)

func (p Parameter) Name() string           { return p.ParamName }
func (p Parameter) DefinitionName() string { return p.Definition }
func (p Parameter) Directives() Directives { return p.Declared }

func (s DefinitionSet) Definition(name string) (Directives, bool) {
	d, ok := s[name]

	return d, ok
}

func (m MapValues) Values(key string) ([]string, bool) {
	v, ok := m[key]

	return v, ok
}
