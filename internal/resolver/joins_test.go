package resolver_test

import (
	"testing"

	"github.com/architeacher/specargs/internal/domain/model"
	"github.com/architeacher/specargs/internal/resolver"
	"github.com/stretchr/testify/require"
)

func TestResolveJoins(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		joins     []model.JoinDirective
		container *model.JoinContainer
		expected  string
	}{
		{
			name:     "nothing declared",
			expected: "true",
		},
		{
			name:     "single fetch defaults to left",
			joins:    []model.JoinDirective{{Paths: []string{"orders"}, Fetch: true}},
			expected: "join_fetch:left(orders)",
		},
		{
			name:     "plain join defaults to inner",
			joins:    []model.JoinDirective{{Paths: []string{"orders"}}},
			expected: "join:inner(orders)",
		},
		{
			name: "one node per directive with all its paths",
			joins: []model.JoinDirective{
				{Paths: []string{"orders", "addresses"}, Fetch: true, Distinct: true},
			},
			expected: "join_fetch:left(orders,addresses)!distinct",
		},
		{
			name: "container directives keep their own kinds",
			container: &model.JoinContainer{Directives: []model.JoinDirective{
				{Paths: []string{"fetch1"}, Kind: model.JoinLeft, Fetch: true},
				{Paths: []string{"fetch2"}, Kind: model.JoinInner, Fetch: true},
			}},
			expected: "and(join_fetch:left(fetch1), join_fetch:inner(fetch2))",
		},
		{
			name:  "inline directives come before the container",
			joins: []model.JoinDirective{{Paths: []string{"customer"}}},
			container: &model.JoinContainer{Directives: []model.JoinDirective{
				{Paths: []string{"items"}, Fetch: true},
			}},
			expected: "and(join:inner(customer), join_fetch:left(items))",
		},
		{
			name: "first plain join wins over a later fetch",
			joins: []model.JoinDirective{
				{Paths: []string{"orders"}},
				{Paths: []string{"orders"}, Fetch: true},
			},
			expected: "join:inner(orders)",
		},
		{
			name: "first fetch wins over a later plain join",
			joins: []model.JoinDirective{
				{Paths: []string{"orders"}, Fetch: true},
				{Paths: []string{"orders"}},
			},
			expected: "join_fetch:left(orders)",
		},
		{
			name: "nested path before its parent",
			joins: []model.JoinDirective{
				{Paths: []string{"orders.items"}, Kind: model.JoinInner, Fetch: true},
				{Paths: []string{"orders"}, Kind: model.JoinLeft, Fetch: true},
			},
			expected: "and(join_fetch:inner(orders.items), join_fetch:left(orders))",
		},
		{
			name: "directive keeps only its new paths",
			joins: []model.JoinDirective{
				{Paths: []string{"orders"}, Fetch: true},
				{Paths: []string{"orders", "addresses"}, Kind: model.JoinRight},
			},
			expected: "and(join_fetch:left(orders), join:right(addresses))",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			qctx := model.NewQueryContext()

			spec := resolver.ResolveJoins(tc.joins, tc.container, qctx)

			require.Equal(t, tc.expected, model.Describe(spec))
		})
	}
}

func TestResolveJoins_RegistersHandlesInContext(t *testing.T) {
	t.Parallel()

	qctx := model.NewQueryContext()

	spec := resolver.ResolveJoins(
		[]model.JoinDirective{{Paths: []string{"orders.items"}, Fetch: true}},
		nil,
		qctx,
	)

	node, ok := spec.(model.JoinNode)
	require.True(t, ok)
	require.Len(t, node.Handles(), 1)

	items, ok := qctx.Lookup("orders.items")
	require.True(t, ok)
	require.Same(t, items, node.Handles()[0])
	require.True(t, items.Fetch)

	orders, ok := qctx.Lookup("orders")
	require.True(t, ok)
	require.True(t, orders.Implicit)
	require.Same(t, orders, items.Parent)
}

func TestResolveJoins_ParentDeclaredAfterNestedPath(t *testing.T) {
	t.Parallel()

	qctx := model.NewQueryContext()

	spec := resolver.ResolveJoins(
		[]model.JoinDirective{
			{Paths: []string{"orders.items"}, Kind: model.JoinInner, Fetch: true},
			{Paths: []string{"orders"}, Kind: model.JoinLeft, Fetch: true},
		},
		nil,
		qctx,
	)

	require.Len(t, spec.Children(), 2)

	orders, ok := qctx.Lookup("orders")
	require.True(t, ok)
	require.False(t, orders.Implicit)
	require.True(t, orders.Fetch)
	require.Equal(t, model.JoinLeft, orders.Kind)

	items, _ := qctx.Lookup("orders.items")
	require.Same(t, orders, items.Parent)
}

func TestResolveJoins_DirectiveJoinedPathIsSkipped(t *testing.T) {
	t.Parallel()

	qctx := model.NewQueryContext()
	qctx.Join("orders", model.JoinInner, false)

	spec := resolver.ResolveJoins(
		[]model.JoinDirective{{Paths: []string{"orders"}, Fetch: true}},
		nil,
		qctx,
	)

	require.True(t, model.IsTrivial(spec))
}
