package processors

import "testing"

func TestIsCancelled_DefaultKeywords(t *testing.T) {
	c := NewCancellationClassifier(nil)

	tests := []struct {
		billingType string
		want        bool
	}{
		{"Cancelado pelo cliente", true},
		{"CANCELADO", true},
		{"Pedido cancelado parcialmente", true},
		{"Estorno de pagamento", true},
		{"Débito de ajuste", true},
		{"debito", true},
		{"Pago", false},
		{"Venda", false},
		{"", false},
		{"Repasse semanal", false},
	}
	for _, tt := range tests {
		if got := c.IsCancelled(tt.billingType); got != tt.want {
			t.Errorf("IsCancelled(%q) = %v, want %v", tt.billingType, got, tt.want)
		}
	}
}

func TestIsCancelled_CustomKeywords(t *testing.T) {
	c := NewCancellationClassifier([]string{"chargeback", " REEMBOLSO "})

	if !c.IsCancelled("Chargeback recebido") {
		t.Error("expected custom keyword match")
	}
	if !c.IsCancelled("reembolso integral") {
		t.Error("expected trimmed, lowered keyword match")
	}
	// Default keywords no longer apply once a custom set is given.
	if c.IsCancelled("Cancelado") {
		t.Error("default keywords should not apply with a custom set")
	}
}

func TestNewCancellationClassifier_EmptySetFallsBack(t *testing.T) {
	c := NewCancellationClassifier([]string{})
	if !c.IsCancelled("Cancelado") {
		t.Error("empty keyword set should fall back to defaults")
	}
}
