package sheets

import (
	"context"
)

// Ports for outbound adapters.
type (
	// TableWriter replaces the content of one owner's sheet with a table
	// whose first row is the header.
	TableWriter interface {
		WriteTable(ctx context.Context, owner string, values [][]interface{}) (rangeRef string, err error)
	}
)
