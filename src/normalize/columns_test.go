package normalize

import (
	"testing"

	"github.com/username/conciliador/backend/src/models"
)

func TestFindValue_AliasPriority(t *testing.T) {
	row := models.RawRow{
		"VALOR_DOS_ITENS": "10,00",
		"Valor dos itens": "20,00",
	}
	// First alias in the list wins, not the map iteration order of the row.
	got := IfoodColumns.FindValue(row, "itemsValue")
	if got != "10,00" {
		t.Errorf("FindValue = %v, want the first alias value 10,00", got)
	}
}

func TestFindValue_SkipsEmptyAndNil(t *testing.T) {
	row := models.RawRow{
		"N°_PEDIDO":     "",
		"N° PEDIDO":     nil,
		"NUMERO_PEDIDO": "12345",
	}
	if got := IfoodColumns.FindValue(row, "orderNumber"); got != "12345" {
		t.Errorf("FindValue = %v, want 12345", got)
	}
}

func TestFindValue_MissingKey(t *testing.T) {
	row := models.RawRow{"UNRELATED": "x"}
	if got := IfoodColumns.FindValue(row, "netValue"); got != nil {
		t.Errorf("FindValue = %v, want nil for absent column", got)
	}
	if got := IfoodColumns.FindValue(row, "noSuchKey"); got != nil {
		t.Errorf("FindValue = %v, want nil for unknown key", got)
	}
}

func TestFindString_CoercesNumbers(t *testing.T) {
	row := models.RawRow{"NUMERO_PEDIDO": float64(98765)}
	if got := IfoodColumns.FindString(row, "orderNumber"); got != "98765" {
		t.Errorf("FindString = %q, want 98765", got)
	}
}

func TestValidateMapping(t *testing.T) {
	headers := []string{
		"N°_PEDIDO",
		"VALOR_DOS_ITENS",
		"DATA_DO_PEDIDO_OCORRENCIA",
	}
	report := IfoodColumns.ValidateMapping(headers)

	if report.FoundColumns["orderNumber"] != "N°_PEDIDO" {
		t.Errorf("orderNumber resolved to %q", report.FoundColumns["orderNumber"])
	}
	if report.FoundColumns["itemsValue"] != "VALOR_DOS_ITENS" {
		t.Errorf("itemsValue resolved to %q", report.FoundColumns["itemsValue"])
	}
	if report.FoundColumns["orderDate"] != "DATA_DO_PEDIDO_OCORRENCIA" {
		t.Errorf("orderDate resolved to %q", report.FoundColumns["orderDate"])
	}

	missing := make(map[string]bool)
	for _, key := range report.MissingColumns {
		missing[key] = true
	}
	if !missing["netValue"] || !missing["paymentDate"] {
		t.Errorf("expected netValue and paymentDate in MissingColumns, got %v", report.MissingColumns)
	}

	// MissingColumns must be sorted for stable reports.
	for i := 1; i < len(report.MissingColumns); i++ {
		if report.MissingColumns[i-1] > report.MissingColumns[i] {
			t.Errorf("MissingColumns not sorted: %v", report.MissingColumns)
			break
		}
	}
}
