package parsers

import (
	"strings"
	"testing"
)

func TestJSONRowSource_Parse(t *testing.T) {
	input := `[
		{"N°_PEDIDO": "1001", "VALOR_DOS_ITENS": "100,00", "DATA_DO_PEDIDO_OCORRENCIA": 45292},
		{"N°_PEDIDO": "1002", "VALOR_DOS_ITENS": 55.5}
	]`

	rows, err := NewJSONRowSource().Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// JSON numbers decode as float64, preserving spreadsheet serials.
	if serial, ok := rows[0]["DATA_DO_PEDIDO_OCORRENCIA"].(float64); !ok || serial != 45292 {
		t.Errorf("serial = %v (%T), want float64 45292", rows[0]["DATA_DO_PEDIDO_OCORRENCIA"], rows[0]["DATA_DO_PEDIDO_OCORRENCIA"])
	}
	if rows[1]["VALOR_DOS_ITENS"] != 55.5 {
		t.Errorf("items value = %v, want 55.5", rows[1]["VALOR_DOS_ITENS"])
	}
}

func TestJSONRowSource_InvalidPayload(t *testing.T) {
	if _, err := NewJSONRowSource().Parse(strings.NewReader(`{"not": "an array"}`)); err == nil {
		t.Error("expected error for non-array payload")
	}
}

func TestJSONRowSource_NullBecomesEmptySlice(t *testing.T) {
	rows, err := NewJSONRowSource().Parse(strings.NewReader("null"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("got %v, want empty non-nil slice", rows)
	}
}

func TestGetRowSource(t *testing.T) {
	for _, source := range []string{"xlsx", "excel", "csv", "json", "api", "XLSX"} {
		if _, err := GetRowSource(source); err != nil {
			t.Errorf("GetRowSource(%q) returned error: %v", source, err)
		}
	}
	if _, err := GetRowSource("pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
