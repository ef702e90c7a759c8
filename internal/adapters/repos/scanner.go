package repos

import (
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

type (
	// Scanner abstracts row scanning so repositories can be tested against
	// pgxmock rows.
	Scanner interface {
		ScanAll(dst any, rows pgx.Rows) error
	}

	PgxScanner struct{}
)

func NewPgxScanner() *PgxScanner {
	return &PgxScanner{}
}

// ScanAll scans every row into dst, a pointer to a slice of structs or of
// map[string]any.
func (s *PgxScanner) ScanAll(dst any, rows pgx.Rows) error {
	return pgxscan.ScanAll(dst, rows)
}
