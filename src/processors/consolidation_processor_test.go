package processors

import (
	"math"
	"testing"

	"github.com/username/conciliador/backend/src/models"
)

func tx(order, date, billingType, origin string, gross, net float64) models.NormalizedTransaction {
	return models.NormalizedTransaction{
		OrderNumber:   order,
		OrderDate:     date,
		BillingType:   billingType,
		PaymentOrigin: origin,
		GrossRevenue:  gross,
		NetValue:      net,
	}
}

func TestConsolidation_Totals(t *testing.T) {
	p := NewConsolidationProcessor(nil)

	analytics := p.Process([]models.NormalizedTransaction{
		tx("1", "2024-09-02", "Pago", "PIX", 100, 85),
		tx("2", "2024-09-02", "Pago", "Crédito", 50, 42),
		tx("3", "2024-09-03", "Pago", "PIX", 30, 25),
		tx("4", "2024-09-03", "Cancelado", "PIX", 200, 200),
	})

	if analytics.TotalOrders != 4 {
		t.Errorf("TotalOrders = %d, want 4", analytics.TotalOrders)
	}
	if analytics.CompletedOrders != 3 {
		t.Errorf("CompletedOrders = %d, want 3", analytics.CompletedOrders)
	}
	if analytics.CancelledOrders != 1 {
		t.Errorf("CancelledOrders = %d, want 1", analytics.CancelledOrders)
	}
	if analytics.CompletedOrders+analytics.CancelledOrders != analytics.TotalOrders {
		t.Error("completed + cancelled must equal total")
	}

	// Cancelled order revenue is excluded from every total and bucket.
	if analytics.TotalRevenue != 180 {
		t.Errorf("TotalRevenue = %v, want 180", analytics.TotalRevenue)
	}
	if analytics.TotalNetRevenue != 152 {
		t.Errorf("TotalNetRevenue = %v, want 152", analytics.TotalNetRevenue)
	}
	if analytics.DailyRevenue["2024-09-03"] != 30 {
		t.Errorf("DailyRevenue[2024-09-03] = %v, want 30", analytics.DailyRevenue["2024-09-03"])
	}

	var dailySum float64
	for _, v := range analytics.DailyRevenue {
		dailySum += v
	}
	if math.Abs(dailySum-analytics.TotalRevenue) > 1e-9 {
		t.Errorf("sum of DailyRevenue = %v, want TotalRevenue %v", dailySum, analytics.TotalRevenue)
	}

	if analytics.BestOrderDay.Date != "2024-09-02" || analytics.BestOrderDay.Count != 2 {
		t.Errorf("BestOrderDay = %+v, want 2024-09-02 with 2 orders", analytics.BestOrderDay)
	}

	want := 180.0 / 3
	if math.Abs(analytics.MonthlyAverageTicket-want) > 1e-9 {
		t.Errorf("MonthlyAverageTicket = %v, want %v", analytics.MonthlyAverageTicket, want)
	}
}

func TestConsolidation_PaymentMethodPercentages(t *testing.T) {
	p := NewConsolidationProcessor(nil)

	analytics := p.Process([]models.NormalizedTransaction{
		tx("1", "2024-09-02", "", "PIX", 60, 60),
		tx("2", "2024-09-02", "", "PIX", 20, 20),
		tx("3", "2024-09-02", "", "Crédito", 20, 20),
		tx("4", "2024-09-02", "", "", 100, 100),
	})

	pix := analytics.PaymentMethods["PIX"]
	if pix.Orders != 2 {
		t.Errorf("PIX orders = %d, want 2", pix.Orders)
	}
	if math.Abs(pix.OrdersPercentage-50) > 1e-9 {
		t.Errorf("PIX orders percentage = %v, want 50", pix.OrdersPercentage)
	}
	if math.Abs(pix.RevenuePercentage-40) > 1e-9 {
		t.Errorf("PIX revenue percentage = %v, want 40", pix.RevenuePercentage)
	}

	// Blank payment origin lands in the unknown bucket.
	unknown, ok := analytics.PaymentMethods[models.UnknownPaymentMethod]
	if !ok || unknown.Orders != 1 {
		t.Errorf("unknown bucket = %+v, want 1 order", unknown)
	}

	var ordersPct, revenuePct float64
	for _, stats := range analytics.PaymentMethods {
		ordersPct += stats.OrdersPercentage
		revenuePct += stats.RevenuePercentage
	}
	if math.Abs(ordersPct-100) > 1e-9 {
		t.Errorf("orders percentages sum to %v, want 100", ordersPct)
	}
	if math.Abs(revenuePct-100) > 1e-9 {
		t.Errorf("revenue percentages sum to %v, want 100", revenuePct)
	}
}

func TestConsolidation_ZeroDenominators(t *testing.T) {
	p := NewConsolidationProcessor(nil)

	// All orders cancelled: no valid revenue, no NaN anywhere.
	analytics := p.Process([]models.NormalizedTransaction{
		tx("1", "2024-09-02", "Cancelado", "PIX", 100, 100),
	})

	if analytics.MonthlyAverageTicket != 0 {
		t.Errorf("MonthlyAverageTicket = %v, want 0", analytics.MonthlyAverageTicket)
	}
	if len(analytics.PaymentMethods) != 0 {
		t.Errorf("PaymentMethods = %v, want empty", analytics.PaymentMethods)
	}
	if analytics.DailyOrders == nil || analytics.WeeklyRevenue == nil {
		t.Error("maps must be initialized even for all-cancelled batches")
	}
}

func TestConsolidation_BestOrderDayTieBreak(t *testing.T) {
	p := NewConsolidationProcessor(nil)

	analytics := p.Process([]models.NormalizedTransaction{
		tx("1", "2024-09-05", "", "PIX", 10, 10),
		tx("2", "2024-09-02", "", "PIX", 10, 10),
	})

	// Equal counts: the earliest date wins.
	if analytics.BestOrderDay.Date != "2024-09-02" {
		t.Errorf("BestOrderDay.Date = %q, want 2024-09-02", analytics.BestOrderDay.Date)
	}
}

func TestIsoWeekKey_YearBoundaries(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-12-30", "2025-W01"}, // Monday of ISO week 1 of 2025
		{"2021-01-01", "2020-W53"}, // Friday still in 2020's last ISO week
		{"2024-09-02", "2024-W36"},
	}
	for _, tt := range tests {
		if got := isoWeekKey(tt.date); got != tt.want {
			t.Errorf("isoWeekKey(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestIsoWeekKey_UnparseableDateGetsOwnBucket(t *testing.T) {
	if got := isoWeekKey("not-a-date"); got != "not-a-date" {
		t.Errorf("isoWeekKey = %q, want passthrough", got)
	}
}
