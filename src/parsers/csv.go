package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/username/conciliador/backend/src/models"
	"golang.org/x/text/encoding/charmap"
)

// CSVRowSource reads delimiter-separated exports. iFood portal downloads use
// ";" and are often Windows-1252 encoded; both are detected rather than
// configured.
type CSVRowSource struct{}

func NewCSVRowSource() *CSVRowSource {
	return &CSVRowSource{}
}

func (s *CSVRowSource) Parse(file io.Reader) ([]models.RawRow, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV input: %w", err)
	}
	if !utf8.Valid(data) {
		decoded, decErr := charmap.Windows1252.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode CSV input as Windows-1252: %w", decErr)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
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
			value := strings.TrimSpace(record[i])
			if value == "" {
				continue
			}
			row[header] = value
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// detectDelimiter looks at the header line only; semicolon wins when it
// outnumbers commas there.
func detectDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
