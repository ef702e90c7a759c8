package repos_test

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/architeacher/specargs/internal/adapters/repos"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func customerEntity() *repos.Entity {
	customers := &repos.Entity{
		Table: "customers",
		Key:   "id",
		Columns: map[string]string{
			"id":        "id",
			"firstName": "first_name",
			"lastName":  "last_name",
			"status":    "status",
			"createdAt": "created_at",
			"deletedAt": "deleted_at",
		},
	}

	orders := &repos.Entity{
		Table: "orders",
		Key:   "id",
		Columns: map[string]string{
			"id":     "id",
			"status": "status",
		},
	}

	items := &repos.Entity{
		Table:   "order_items",
		Key:     "id",
		Columns: map[string]string{"sku": "sku"},
	}

	customers.Relations = map[string]repos.Relation{
		"orders": {Target: orders, LocalKey: "id", ForeignKey: "customer_id"},
	}
	orders.Relations = map[string]repos.Relation{
		"items": {Target: items, LocalKey: "id", ForeignKey: "order_id"},
	}

	return customers
}
