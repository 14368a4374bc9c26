package processors

import (
	"fmt"
	"time"

	"github.com/username/conciliador/backend/src/models"
	"github.com/username/conciliador/backend/src/normalize"
)

// ConsolidationProcessor aggregates normalized transactions into the
// per-batch analytics summary: day/week buckets, payment-method mix and
// promotion/commission totals. Cancelled transactions count toward
// TotalOrders/CancelledOrders but never contribute to any revenue bucket or
// total.
type ConsolidationProcessor struct {
	classifier *CancellationClassifier
}

func NewConsolidationProcessor(classifier *CancellationClassifier) *ConsolidationProcessor {
	if classifier == nil {
		classifier = NewCancellationClassifier(nil)
	}
	return &ConsolidationProcessor{classifier: classifier}
}

// Process consolidates a transaction list. All averages and percentages are
// guarded to 0 when their denominator is 0; they are never NaN or Inf.
func (p *ConsolidationProcessor) Process(transactions []models.NormalizedTransaction) *models.ConsolidatedAnalytics {
	var valid, cancelled []models.NormalizedTransaction
	for _, tx := range transactions {
		if p.classifier.IsCancelled(tx.BillingType) {
			cancelled = append(cancelled, tx)
		} else {
			valid = append(valid, tx)
		}
	}

	analytics := &models.ConsolidatedAnalytics{
		TotalOrders:         len(transactions),
		CompletedOrders:     len(valid),
		CancelledOrders:     len(cancelled),
		DailyOrders:         make(map[string]int),
		WeeklyOrders:        make(map[string]int),
		DailyRevenue:        make(map[string]float64),
		WeeklyRevenue:       make(map[string]float64),
		DailyAverageTicket:  make(map[string]float64),
		WeeklyAverageTicket: make(map[string]float64),
		PaymentMethods:      make(map[string]models.PaymentMethodStats),
	}

	type methodAccumulator struct {
		orders  int
		revenue float64
	}
	byMethod := make(map[string]*methodAccumulator)

	for _, tx := range valid {
		analytics.DailyOrders[tx.OrderDate]++
		analytics.DailyRevenue[tx.OrderDate] += tx.GrossRevenue

		week := isoWeekKey(tx.OrderDate)
		analytics.WeeklyOrders[week]++
		analytics.WeeklyRevenue[week] += tx.GrossRevenue

		analytics.TotalRevenue += tx.GrossRevenue
		analytics.TotalIfoodPromotions += tx.IfoodPromotions
		analytics.TotalStorePromotions += tx.StorePromotions
		analytics.TotalIfoodCommission += tx.IfoodCommissionValue
		analytics.TotalTransactionCommission += tx.TransactionCommission
		analytics.TotalWeeklyPlanFee += tx.WeeklyPlanFee
		analytics.TotalNetRevenue += tx.NetValue

		method := tx.PaymentOrigin
		if method == "" {
			method = models.UnknownPaymentMethod
		}
		acc := byMethod[method]
		if acc == nil {
			acc = &methodAccumulator{}
			byMethod[method] = acc
		}
		acc.orders++
		acc.revenue += tx.GrossRevenue
	}

	// Best day by order count; ties go to the lexicographically smallest
	// date, which for ISO dates is the earliest one.
	best := models.OrderDayCount{}
	for date, count := range analytics.DailyOrders {
		switch {
		case count > best.Count:
			best = models.OrderDayCount{Date: date, Count: count}
		case count == best.Count && date < best.Date:
			best.Date = date
		}
	}
	analytics.BestOrderDay = best

	if analytics.CompletedOrders > 0 {
		analytics.MonthlyAverageTicket = analytics.TotalRevenue / float64(analytics.CompletedOrders)
	}
	for date, orders := range analytics.DailyOrders {
		if orders > 0 {
			analytics.DailyAverageTicket[date] = analytics.DailyRevenue[date] / float64(orders)
		} else {
			analytics.DailyAverageTicket[date] = 0
		}
	}
	for week, orders := range analytics.WeeklyOrders {
		if orders > 0 {
			analytics.WeeklyAverageTicket[week] = analytics.WeeklyRevenue[week] / float64(orders)
		} else {
			analytics.WeeklyAverageTicket[week] = 0
		}
	}

	// Percentages only after full accumulation, each guarded against a zero
	// denominator.
	for method, acc := range byMethod {
		stats := models.PaymentMethodStats{Orders: acc.orders, Revenue: acc.revenue}
		if analytics.CompletedOrders > 0 {
			stats.OrdersPercentage = float64(acc.orders) / float64(analytics.CompletedOrders) * 100
		}
		if analytics.TotalRevenue != 0 {
			stats.RevenuePercentage = acc.revenue / analytics.TotalRevenue * 100
		}
		analytics.PaymentMethods[method] = stats
	}

	return analytics
}

// isoWeekKey buckets a canonical date into its ISO-8601 week, keyed
// "yyyy-Www". The year component is the ISO week-numbering year from the
// Thursday-anchored algorithm, so dates near January 1st land in the week of
// the year they belong to, not the calendar year they fall in.
func isoWeekKey(isoDate string) string {
	t, err := time.Parse(normalize.ISODate, isoDate)
	if err != nil {
		// Dates reaching consolidation are canonical by construction; an
		// unparseable one gets its own bucket rather than being dropped.
		return isoDate
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
