package parsers

import (
	"io"

	"github.com/username/conciliador/backend/src/models"
)

// RowSource turns an input stream into the open row representation the
// reconciliation core consumes. Implementations do not interpret field
// contents; header resolution and value normalization happen downstream.
type RowSource interface {
	Parse(file io.Reader) ([]models.RawRow, error)
}
