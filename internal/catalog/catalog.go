// Package catalog declares the entities served by the service and the
// specification parameters of their search endpoints.
package catalog

import (
	"slices"

	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/internal/resolver"
)

const OrderSearchDefinition = "orderSearch"

type (
	Catalog struct {
		Customers *repos.Entity
		Orders    *repos.Entity
		Items     *repos.Entity

		Definitions model.DefinitionSet
		Endpoints   []Endpoint
	}

	// Endpoint is one searchable resource.
	Endpoint struct {
		Name      string
		Entity    *repos.Entity
		Parameter model.Parameter
	}
)

// New builds the catalog. The result is read-only.
func New() *Catalog {
	customers := &repos.Entity{
		Table: "customers",
		Key:   "id",
		Columns: map[string]string{
			"id":        "id",
			"firstName": "first_name",
			"lastName":  "last_name",
			"email":     "email",
			"status":    "status",
			"createdAt": "created_at",
			"deletedAt": "deleted_at",
		},
	}

	orders := &repos.Entity{
		Table: "orders",
		Key:   "id",
		Columns: map[string]string{
			"id":        "id",
			"status":    "status",
			"total":     "total",
			"createdAt": "created_at",
		},
	}

	items := &repos.Entity{
		Table: "order_items",
		Key:   "id",
		Columns: map[string]string{
			"id":       "id",
			"sku":      "sku",
			"quantity": "quantity",
		},
	}

	customers.Relations = map[string]repos.Relation{
		"orders": {Target: orders, LocalKey: "id", ForeignKey: "customer_id"},
	}
	orders.Relations = map[string]repos.Relation{
		"customer": {Target: customers, LocalKey: "customer_id", ForeignKey: "id"},
		"items":    {Target: items, LocalKey: "id", ForeignKey: "order_id"},
	}

	return &Catalog{
		Customers:   customers,
		Orders:      orders,
		Items:       items,
		Definitions: definitions(),
		Endpoints: []Endpoint{
			{Name: "customers", Entity: customers, Parameter: customerSearch()},
			{Name: "orders", Entity: orders, Parameter: orderSearch()},
		},
	}
}

// Endpoint returns the endpoint with the given name.
func (c *Catalog) Endpoint(name string) (Endpoint, bool) {
	for _, e := range c.Endpoints {
		if e.Name == name {
			return e, true
		}
	}

	return Endpoint{}, false
}

func customerSearch() model.Parameter {
	return model.Parameter{
		ParamName: "customer",
		Declared: model.Directives{
			Filters: []model.FilterDirective{
				{
					Kind:   resolver.KindLike,
					Paths:  []string{"firstName", "lastName"},
					Params: []string{"name"},
					Config: model.DirectiveConfig{IgnoreCase: true},
				},
				{
					Kind:   resolver.KindEqual,
					Paths:  []string{"status"},
					Params: []string{"status"},
				},
				{
					Kind:   resolver.KindIn,
					Paths:  []string{"orders.status"},
					Params: []string{"orderStatus"},
				},
				{
					Kind:        resolver.KindNull,
					Paths:       []string{"deletedAt"},
					ConstValues: []string{"true"},
				},
			},
			Groups: []model.FilterGroup{
				{
					Combinator: model.CombinatorOr,
					Filters: []model.FilterDirective{
						{
							Kind:   resolver.KindEndingWith,
							Paths:  []string{"email"},
							Params: []string{"emailDomain"},
						},
						{
							Kind:   resolver.KindBetween,
							Paths:  []string{"createdAt"},
							Params: []string{"createdFrom", "createdTo"},
							Config: model.DirectiveConfig{ValueType: model.ValueTime},
						},
					},
				},
			},
			Joins: []model.JoinDirective{
				{Paths: []string{"orders"}, Fetch: true, Distinct: true},
			},
		},
	}
}

func orderSearch() model.Parameter {
	return model.Parameter{
		ParamName:  "order",
		Definition: OrderSearchDefinition,
		Declared: model.Directives{
			Filters: []model.FilterDirective{
				{
					Kind:   resolver.KindGreaterThanOrEqual,
					Paths:  []string{"createdAt"},
					Params: []string{"since"},
					Config: model.DirectiveConfig{ValueType: model.ValueTime},
				},
			},
		},
	}
}

func definitions() model.DefinitionSet {
	return model.DefinitionSet{
		OrderSearchDefinition: {
			Filters: []model.FilterDirective{
				{
					Kind:   resolver.KindEqual,
					Paths:  []string{"status"},
					Params: []string{"status"},
				},
				{
					Kind:   resolver.KindBetween,
					Paths:  []string{"total"},
					Params: []string{"minTotal", "maxTotal"},
					Config: model.DirectiveConfig{ValueType: model.ValueFloat},
				},
				{
					Kind:   resolver.KindEqual,
					Paths:  []string{"customer.email"},
					Params: []string{"customerEmail"},
				},
			},
			JoinContainer: &model.JoinContainer{
				Directives: []model.JoinDirective{
					{Paths: []string{"customer"}},
					{Paths: []string{"items"}, Kind: model.JoinLeft, Fetch: true},
				},
			},
		},
	}
}

// Keys returns the request keys the endpoint reads, including those of the
// definition its parameter names, sorted. Directives with constant values
// read no key.
func (c *Catalog) Keys(e Endpoint) []string {
	var keys []string

	var collect func(filters []model.FilterDirective, groups []model.FilterGroup)
	collect = func(filters []model.FilterDirective, groups []model.FilterGroup) {
		for _, f := range filters {
			if len(f.ConstValues) > 0 {
				continue
			}

			keys = append(keys, f.Keys()...)
		}

		for _, g := range groups {
			collect(g.Filters, g.Groups)
		}
	}

	if def, ok := c.Definitions.Definition(e.Parameter.DefinitionName()); ok {
		collect(def.Filters, def.Groups)
	}

	declared := e.Parameter.Directives()
	collect(declared.Filters, declared.Groups)

	slices.Sort(keys)

	return slices.Compact(keys)
}
