package database

import (
	"database/sql/driver"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UUIDArray binds ids as a Postgres array for `= ANY($1::uuid[])` filters
func UUIDArray(ids []uuid.UUID) driver.Valuer {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return pq.StringArray(out)
}
