package processors

import (
	"log/slog"
	"sort"

	"github.com/username/conciliador/backend/src/models"
	"github.com/username/conciliador/backend/src/utils"
)

// ReconciliationProcessor is the batch boundary: it projects raw rows and
// consolidates the result in one synchronous pass. It holds no mutable state
// across invocations, so independent callers can run batches concurrently.
type ReconciliationProcessor struct {
	rows          *RowProcessor
	consolidation *ConsolidationProcessor
	log           *slog.Logger
}

func NewReconciliationProcessor(rows *RowProcessor, consolidation *ConsolidationProcessor, log *slog.Logger) *ReconciliationProcessor {
	if log == nil {
		log = slog.Default()
	}
	if rows == nil {
		rows = NewRowProcessor(nil, nil, "", log)
	}
	if consolidation == nil {
		consolidation = NewConsolidationProcessor(nil)
	}
	return &ReconciliationProcessor{rows: rows, consolidation: consolidation, log: log}
}

// Process reconciles one batch of raw rows for a client. An empty batch
// short-circuits: no aggregation is attempted and the condition is reported
// as a single diagnostic error with a nil analytics object.
func (p *ReconciliationProcessor) Process(rows []models.RawRow, clientID string) models.ReconciliationResult {
	if len(rows) == 0 {
		p.log.Warn("reconciliation invoked with empty batch", "clientID", clientID)
		return models.ReconciliationResult{
			DetailedData: []models.NormalizedTransaction{},
			Errors:       []models.RowError{{Row: 0, Error: "no data received"}},
		}
	}

	report := p.rows.columns.ValidateMapping(headersOf(rows[0]))
	p.log.Debug("column mapping validated",
		"clientID", clientID,
		"rows", len(rows),
		"sampleRows", utils.MinInt(3, len(rows)),
		"foundColumns", len(report.FoundColumns),
		"missingColumns", report.MissingColumns)

	transactions, rowErrors := p.rows.ProcessRows(rows, clientID)
	analytics := p.consolidation.Process(transactions)

	if transactions == nil {
		transactions = []models.NormalizedTransaction{}
	}
	if rowErrors == nil {
		rowErrors = []models.RowError{}
	}

	p.log.Info("batch reconciled",
		"clientID", clientID,
		"totalRows", len(rows),
		"records", len(transactions),
		"completedOrders", analytics.CompletedOrders,
		"cancelledOrders", analytics.CancelledOrders,
		"rowErrors", len(rowErrors))

	return models.ReconciliationResult{
		DetailedData:          transactions,
		ConsolidatedAnalytics: analytics,
		Errors:                rowErrors,
	}
}

// Consolidate re-aggregates an already-normalized transaction list, used
// when rebuilding analytics from persisted records.
func (p *ReconciliationProcessor) Consolidate(transactions []models.NormalizedTransaction) *models.ConsolidatedAnalytics {
	return p.consolidation.Process(transactions)
}

func headersOf(row models.RawRow) []string {
	headers := make([]string, 0, len(row))
	for header := range row {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	return headers
}
