package ports

import (
	"context"

	"github.com/architeacher/specargs/internal/adapters/repos"
	"github.com/architeacher/specargs/internal/domain/model"
)

// SpecificationRepository runs resolved specifications against the tables
// mapped by repos.Entity.
type SpecificationRepository interface {
	// Find scans the matching rows of root into dst.
	Find(ctx context.Context, root *repos.Entity, spec model.Specification, page repos.Page, dst any) error

	// Count returns the number of distinct matching rows of root.
	Count(ctx context.Context, root *repos.Entity, spec model.Specification) (uint64, error)

	// Preview renders the select Find would run without executing it.
	Preview(root *repos.Entity, spec model.Specification, page repos.Page) (string, []any, error)

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error
}
