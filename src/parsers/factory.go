package parsers

import (
	"fmt"
	"strings"
)

// GetRowSource picks the row source for an upload's declared format.
func GetRowSource(source string) (RowSource, error) {
	switch strings.ToLower(source) {
	case "xlsx", "excel":
		return NewXLSXRowSource(), nil
	case "csv":
		return NewCSVRowSource(), nil
	case "json", "api":
		return NewJSONRowSource(), nil
	default:
		return nil, fmt.Errorf("no row source available for format: %s", source)
	}
}
