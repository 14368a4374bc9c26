package models

// RawRow is a single input row as produced by a row source: an open mapping
// from header name to an untyped cell value (string, float64, bool or a
// native time.Time). Header spelling varies per export and is resolved later
// through the column alias table.
type RawRow map[string]any

// UnknownPaymentMethod is the bucket label for orders whose payment origin
// column is absent or empty.
const UnknownPaymentMethod = "Não informado"

// NormalizedTransaction is one accepted order row in canonical form.
// GrossRevenue is always recomputed from its parts; the source value, if any,
// is never trusted. Promotion and commission fields hold non-negative
// magnitudes regardless of the sign used by the export.
type NormalizedTransaction struct {
	ClientID              string  `json:"client_id"`
	OrderDate             string  `json:"order_date"` // yyyy-MM-dd
	OrderNumber           string  `json:"order_number"`
	BillingType           string  `json:"billing_type"`
	PaymentDate           string  `json:"payment_date"`
	PaymentOrigin         string  `json:"payment_origin"`
	ItemsValue            float64 `json:"items_value"`
	DeliveryFee           float64 `json:"delivery_fee"`
	ServiceFee            float64 `json:"service_fee"`
	GrossRevenue          float64 `json:"gross_revenue"`
	IfoodPromotions       float64 `json:"ifood_promotions"`
	StorePromotions       float64 `json:"store_promotions"`
	IfoodCommissionValue  float64 `json:"ifood_commission_value"`
	TransactionCommission float64 `json:"transaction_commission"`
	WeeklyPlanFee         float64 `json:"weekly_plan_fee"`
	NetValue              float64 `json:"net_value"`
	Source                string  `json:"source"`
}

// PaymentMethodStats accumulates the order/revenue share of one payment
// origin label. Percentages are 0, never NaN, when their denominator is 0.
type PaymentMethodStats struct {
	Orders            int     `json:"orders"`
	OrdersPercentage  float64 `json:"ordersPercentage"`
	Revenue           float64 `json:"revenue"`
	RevenuePercentage float64 `json:"revenuePercentage"`
}

// OrderDayCount is the day with the most valid orders.
type OrderDayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// ConsolidatedAnalytics is the aggregate view of one reconciliation batch.
// Daily maps are keyed by yyyy-MM-dd, weekly maps by the ISO week key
// "yyyy-Www" (ISO year, not calendar year of the date).
type ConsolidatedAnalytics struct {
	TotalOrders     int `json:"totalOrders"`
	CompletedOrders int `json:"completedOrders"`
	CancelledOrders int `json:"cancelledOrders"`

	DailyOrders  map[string]int `json:"dailyOrders"`
	WeeklyOrders map[string]int `json:"weeklyOrders"`
	BestOrderDay OrderDayCount  `json:"bestOrderDay"`

	TotalRevenue  float64            `json:"totalRevenue"`
	DailyRevenue  map[string]float64 `json:"dailyRevenue"`
	WeeklyRevenue map[string]float64 `json:"weeklyRevenue"`

	MonthlyAverageTicket float64            `json:"monthlyAverageTicket"`
	DailyAverageTicket   map[string]float64 `json:"dailyAverageTicket"`
	WeeklyAverageTicket  map[string]float64 `json:"weeklyAverageTicket"`

	PaymentMethods map[string]PaymentMethodStats `json:"paymentMethods"`

	TotalIfoodPromotions       float64 `json:"totalIfoodPromotions"`
	TotalStorePromotions       float64 `json:"totalStorePromotions"`
	TotalIfoodCommission       float64 `json:"totalIfoodCommission"`
	TotalTransactionCommission float64 `json:"totalTransactionCommission"`
	TotalWeeklyPlanFee         float64 `json:"totalWeeklyPlanFee"`
	TotalNetRevenue            float64 `json:"totalNetRevenue"`
}

// RowError records a single row that failed projection. Row is 1-based.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ReconciliationResult is the full output of one batch invocation.
// ConsolidatedAnalytics is nil when the input batch was empty; that case is
// reported through a single diagnostic entry in Errors instead of a zeroed
// summary that would look like "no activity".
type ReconciliationResult struct {
	BatchID               string                  `json:"batch_id,omitempty"`
	ClientID              string                  `json:"client_id,omitempty"`
	DetailedData          []NormalizedTransaction `json:"detailedData"`
	ConsolidatedAnalytics *ConsolidatedAnalytics  `json:"consolidatedAnalytics"`
	Errors                []RowError              `json:"errors"`
}

// ReconciliationBatch is the persistence record for one processed batch.
type ReconciliationBatch struct {
	ID            string `json:"id"`
	ClientID      string `json:"client_id"`
	Source        string `json:"source"`
	TotalRows     int    `json:"total_rows"`
	ProcessedRows int    `json:"processed_rows"`
	ErrorRows     int    `json:"error_rows"`
	CreatedAt     string `json:"created_at"`
}
