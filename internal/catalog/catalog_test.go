package catalog_test

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/catalog"
	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/internal/resolver"
	"github.com/stretchr/testify/require"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func TestCatalog_Endpoint(t *testing.T) {
	t.Parallel()

	c := catalog.New()

	customers, ok := c.Endpoint("customers")
	require.True(t, ok)
	require.Same(t, c.Customers, customers.Entity)

	orders, ok := c.Endpoint("orders")
	require.True(t, ok)
	require.Equal(t, catalog.OrderSearchDefinition, orders.Parameter.DefinitionName())

	_, ok = c.Endpoint("invoices")
	require.False(t, ok)
}

func TestCatalog_EndpointsResolveAndTranslate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name             string
		endpoint         string
		values           model.MapValues
		expectedSpec     string
		expectedSQL      []string
		expectedArgs     []any
		expectedDistinct bool
	}{
		{
			name:         "customers without values",
			endpoint:     "customers",
			expectedSpec: "and(is_null[deletedAt], join_fetch:left(orders)!distinct)",
			expectedSQL: []string{
				"LEFT JOIN orders AS orders ON orders.customer_id = customers.id",
				"WHERE customers.deleted_at IS NULL",
			},
			expectedDistinct: true,
		},
		{
			name:     "customers filtered on a fetched relation",
			endpoint: "customers",
			values: model.MapValues{
				"name":        {"al"},
				"orderStatus": {"paid", "shipped"},
				"emailDomain": {"@example.com"},
			},
			expectedSpec: "and(and(like_ignore_case[firstName|lastName](%al%), in[orders.status]([paid shipped]), " +
				"is_null[deletedAt], like[email](%@example.com)), join_fetch:left(orders)!distinct)",
			expectedSQL: []string{
				"(customers.first_name ILIKE $1 OR customers.last_name ILIKE $2)",
				"orders.status IN ($3,$4)",
				"customers.email LIKE $5",
			},
			expectedArgs:     []any{"%al%", "%al%", "paid", "shipped", "%@example.com"},
			expectedDistinct: true,
		},
		{
			name:     "orders through the named definition",
			endpoint: "orders",
			values: model.MapValues{
				"status":        {"paid"},
				"customerEmail": {"jane@example.com"},
			},
			expectedSpec: "and(and(equal[status](paid), equal[customer.email](jane@example.com)), " +
				"and(join:inner(customer), join_fetch:left(items)))",
			expectedSQL: []string{
				"JOIN customers AS customer ON customer.id = orders.customer_id",
				"LEFT JOIN order_items AS items ON items.order_id = orders.id",
				`items.sku AS "items.sku"`,
				"WHERE (orders.status = $1 AND customer.email = $2)",
			},
			expectedArgs: []any{"paid", "jane@example.com"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := catalog.New()
			engine := resolver.NewEngine(nil, c.Definitions)

			endpoint, ok := c.Endpoint(tc.endpoint)
			require.True(t, ok)

			spec, err := engine.Resolve(endpoint.Parameter, tc.values)
			require.NoError(t, err)
			require.Equal(t, tc.expectedSpec, model.Describe(spec))

			table := endpoint.Entity.Table
			builder, err := repos.NewCriteriaTranslator(nil).Apply(
				psql.Select(table+".id").From(table), endpoint.Entity, spec,
			)
			require.NoError(t, err)

			sql, args, err := builder.ToSql()
			require.NoError(t, err)

			for _, fragment := range tc.expectedSQL {
				require.Contains(t, sql, fragment)
			}

			if tc.expectedArgs == nil {
				require.Empty(t, args)
			} else {
				require.Equal(t, tc.expectedArgs, args)
			}

			if tc.expectedDistinct {
				require.Contains(t, sql, "SELECT DISTINCT")
			} else {
				require.NotContains(t, sql, "DISTINCT")
			}
		})
	}
}

func TestCatalog_InvalidDateIsClientError(t *testing.T) {
	t.Parallel()

	c := catalog.New()
	engine := resolver.NewEngine(nil, c.Definitions)

	endpoint, _ := c.Endpoint("orders")

	_, err := engine.Resolve(endpoint.Parameter, model.MapValues{"since": {"yesterday"}})

	require.ErrorIs(t, err, model.ErrInvalidValue)
	require.True(t, model.IsClientError(err))
}

func TestCatalog_Keys(t *testing.T) {
	t.Parallel()

	c := catalog.New()

	customers, _ := c.Endpoint("customers")
	orders, _ := c.Endpoint("orders")

	require.Equal(t,
		[]string{"createdFrom", "createdTo", "emailDomain", "name", "orderStatus", "status"},
		c.Keys(customers),
	)
	require.Equal(t,
		[]string{"customerEmail", "maxTotal", "minTotal", "since", "status"},
		c.Keys(orders),
	)
}
