package processors

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/username/conciliador/backend/src/models"
	"github.com/username/conciliador/backend/src/normalize"
)

// DefaultSourceTag marks records originating from iFood exports.
const DefaultSourceTag = "ifood"

// RowProcessor projects raw export rows into NormalizedTransactions. It is a
// pure function of (rows, clientID) given its column map and date parser;
// failure of one row is contained at the row boundary and recorded, never
// aborting the batch.
type RowProcessor struct {
	columns normalize.ColumnMap
	dates   *normalize.DateParser
	source  string
	log     *slog.Logger
}

func NewRowProcessor(columns normalize.ColumnMap, dates *normalize.DateParser, source string, log *slog.Logger) *RowProcessor {
	if columns == nil {
		columns = normalize.IfoodColumns
	}
	if dates == nil {
		dates = normalize.NewDateParser(log)
	}
	if source == "" {
		source = DefaultSourceTag
	}
	if log == nil {
		log = slog.Default()
	}
	return &RowProcessor{columns: columns, dates: dates, source: source, log: log}
}

// ProcessRows projects every row. Rows without an order number are silently
// skipped (documented policy, not an error); rows whose projection fails are
// recorded with their 1-based index and the batch continues.
func (p *RowProcessor) ProcessRows(rows []models.RawRow, clientID string) ([]models.NormalizedTransaction, []models.RowError) {
	var transactions []models.NormalizedTransaction
	var rowErrors []models.RowError

	skippedNoOrder := 0
	for i, row := range rows {
		tx, ok, err := p.projectRow(row, clientID)
		if err != nil {
			rowErrors = append(rowErrors, models.RowError{Row: i + 1, Error: err.Error()})
			continue
		}
		if !ok {
			skippedNoOrder++
			continue
		}
		transactions = append(transactions, tx)
	}

	if skippedNoOrder > 0 {
		p.log.Debug("rows without order number skipped", "clientID", clientID, "count", skippedNoOrder)
	}
	return transactions, rowErrors
}

// projectRow builds one NormalizedTransaction. ok is false when the row has
// no order number. A panic anywhere in the projection is converted to an
// error here so it stays confined to this row.
func (p *RowProcessor) projectRow(row models.RawRow, clientID string) (tx models.NormalizedTransaction, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			err = fmt.Errorf("row projection failed: %v", r)
		}
	}()

	orderNumber := p.columns.FindString(row, "orderNumber")
	if orderNumber == "" {
		return tx, false, nil
	}

	billingType := p.columns.FindString(row, "billingType")
	orderDate := p.dates.ParseDate(p.columns.FindValue(row, "orderDate"))
	paymentDate := p.dates.ParseDate(p.columns.FindValue(row, "paymentDate"))

	itemsValue := normalize.ParseMoneyValue(p.columns.FindValue(row, "itemsValue"))
	deliveryFee := normalize.ParseMoneyValue(p.columns.FindValue(row, "deliveryFee"))
	serviceFee := normalize.ParseMoneyValue(p.columns.FindValue(row, "serviceFee"))
	// Gross revenue is always derived; the export's own gross column is not
	// trusted.
	grossRevenue := itemsValue + deliveryFee + serviceFee

	ifoodPromotions := math.Abs(normalize.ParseMoneyValue(p.columns.FindValue(row, "ifoodPromotions")))
	storePromotions := math.Abs(normalize.ParseMoneyValue(p.columns.FindValue(row, "storePromotions")))

	ifoodCommission := math.Abs(normalize.ParseMoneyValue(p.columns.FindValue(row, "ifoodCommission")))
	transactionCommission := math.Abs(normalize.ParseMoneyValue(p.columns.FindValue(row, "transactionCommission")))
	weeklyPlanFee := math.Abs(normalize.ParseMoneyValue(p.columns.FindValue(row, "weeklyPlanFee")))

	netValue := normalize.ParseMoneyValue(p.columns.FindValue(row, "netValue"))
	if netValue == 0 {
		netValue = grossRevenue - ifoodCommission - transactionCommission - weeklyPlanFee
	}

	paymentOrigin := p.columns.FindString(row, "paymentOrigin")
	if paymentOrigin == "" {
		paymentOrigin = models.UnknownPaymentMethod
	}

	return models.NormalizedTransaction{
		ClientID:              clientID,
		OrderDate:             orderDate,
		OrderNumber:           orderNumber,
		BillingType:           billingType,
		PaymentDate:           paymentDate,
		PaymentOrigin:         paymentOrigin,
		ItemsValue:            itemsValue,
		DeliveryFee:           deliveryFee,
		ServiceFee:            serviceFee,
		GrossRevenue:          grossRevenue,
		IfoodPromotions:       ifoodPromotions,
		StorePromotions:       storePromotions,
		IfoodCommissionValue:  ifoodCommission,
		TransactionCommission: transactionCommission,
		WeeklyPlanFee:         weeklyPlanFee,
		NetValue:              netValue,
		Source:                p.source,
	}, true, nil
}
