package parsers

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/username/conciliador/backend/src/models"
	"github.com/xuri/excelize/v2"
)

// XLSXRowSource reads the first sheet of a workbook. The first row is the
// header row; fully empty data rows are dropped.
type XLSXRowSource struct{}

func NewXLSXRowSource() *XLSXRowSource {
	return &XLSXRowSource{}
}

func (s *XLSXRowSource) Parse(file io.Reader) ([]models.RawRow, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return []models.RawRow{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]models.RawRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(models.RawRow, len(headers))
		for i, header := range headers {
			if header == "" || i >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				continue
			}
			row[header] = typeCell(cell)
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

var numericCellPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// typeCell restores the numeric typing the workbook had before excelize
// flattened it to text, so spreadsheet date serials reach the date parser as
// numbers. Anything else stays a string.
func typeCell(cell string) any {
	if numericCellPattern.MatchString(cell) {
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return v
		}
	}
	return cell
}
