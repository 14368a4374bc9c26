package parsers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/username/conciliador/backend/src/models"
)

// JSONRowSource reads an API payload: a JSON array of objects, one per
// transaction row. Numbers decode as float64, which is what the date parser
// expects for spreadsheet serials forwarded by integrations.
type JSONRowSource struct{}

func NewJSONRowSource() *JSONRowSource {
	return &JSONRowSource{}
}

func (s *JSONRowSource) Parse(file io.Reader) ([]models.RawRow, error) {
	var rows []models.RawRow
	if err := json.NewDecoder(file).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode JSON row payload: %w", err)
	}
	if rows == nil {
		rows = []models.RawRow{}
	}
	return rows, nil
}
