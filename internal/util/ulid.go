package util

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID returns a new lexicographically sortable identifier.
// Entities use ULIDs as primary keys so insertion order is preserved
// when rows are ordered by ID.
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
