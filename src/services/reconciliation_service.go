package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/username/conciliador/backend/src/database"
	"github.com/username/conciliador/backend/src/logger"
	"github.com/username/conciliador/backend/src/models"
	"github.com/username/conciliador/backend/src/parsers"
	"github.com/username/conciliador/backend/src/processors"
	"github.com/username/conciliador/backend/src/utils"
)

const (
	// Short-lived, aggregate cache
	ckLatestReconciliation = "res_latest_reconciliation_client_%s"

	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

type reconciliationServiceImpl struct {
	processor   *processors.ReconciliationProcessor
	resultCache *cache.Cache
}

func NewReconciliationService(processor *processors.ReconciliationProcessor, resultCache *cache.Cache) ReconciliationService {
	return &reconciliationServiceImpl{
		processor:   processor,
		resultCache: resultCache,
	}
}

func (s *reconciliationServiceImpl) ProcessUpload(fileReader io.Reader, clientID string, source string) (*models.ReconciliationResult, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "clientID", clientID, "source", source)

	rowSource, err := parsers.GetRowSource(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}

	rawRows, err := rowSource.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	result, err := s.reconcileAndPersist(rawRows, clientID, source)
	if err != nil {
		return nil, err
	}

	logger.L.Info("ProcessUpload END", "clientID", clientID, "duration", time.Since(overallStartTime))
	return result, nil
}

func (s *reconciliationServiceImpl) ReconcileRows(rows []models.RawRow, clientID string) (*models.ReconciliationResult, error) {
	return s.reconcileAndPersist(rows, clientID, "api")
}

// reconcileAndPersist runs the batch pipeline, stores the accepted rows and
// refreshes the latest-result cache. A batch that produced no analytics (empty
// input) is returned as-is and never persisted.
func (s *reconciliationServiceImpl) reconcileAndPersist(rawRows []models.RawRow, clientID string, source string) (*models.ReconciliationResult, error) {
	result := s.processor.Process(rawRows, clientID)
	result.ClientID = clientID

	if result.ConsolidatedAnalytics == nil {
		return &result, nil
	}

	batchID := uuid.New().String()
	result.BatchID = batchID

	dbTx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	_, err = dbTx.Exec(
		`INSERT INTO reconciliation_batches (id, client_id, source, row_count, error_count) VALUES (?, ?, ?, ?, ?)`,
		batchID, clientID, source, len(rawRows), len(result.Errors))
	if err != nil {
		return nil, fmt.Errorf("error inserting reconciliation batch: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO normalized_transactions (batch_id, client_id, source, order_date, order_number, billing_type, payment_date, payment_origin, items_value, delivery_fee, service_fee, gross_revenue, ifood_promotions, store_promotions, ifood_commission, transaction_commission, weekly_plan_fee, net_value, hash_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, tx := range result.DetailedData {
		hashID := transactionHash(clientID, tx)
		_, err := stmt.Exec(batchID, clientID, tx.Source, tx.OrderDate, tx.OrderNumber, tx.BillingType, tx.PaymentDate, tx.PaymentOrigin, tx.ItemsValue, tx.DeliveryFee, tx.ServiceFee, tx.GrossRevenue, tx.IfoodPromotions, tx.StorePromotions, tx.IfoodCommissionValue, tx.TransactionCommission, tx.WeeklyPlanFee, tx.NetValue, hashID)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
				logger.L.Debug("Skipping duplicate transaction on upload", "clientID", clientID, "hash_id", hashID)
				continue
			}
			return nil, fmt.Errorf("error inserting transaction (order %s): %w", tx.OrderNumber, err)
		}
		inserted++
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transactions: %w", err)
	}

	cacheKey := fmt.Sprintf(ckLatestReconciliation, clientID)
	s.resultCache.Set(cacheKey, &result, DefaultCacheExpiration)

	logger.L.Info("batch persisted",
		"clientID", clientID,
		"batchID", batchID,
		"inserted", inserted,
		"duplicatesSkipped", len(result.DetailedData)-inserted,
		"totalRevenue", utils.RoundFloat(result.ConsolidatedAnalytics.TotalRevenue, 2),
		"totalNetRevenue", utils.RoundFloat(result.ConsolidatedAnalytics.TotalNetRevenue, 2))

	return &result, nil
}

// GetLatestResult serves the cached latest batch, rebuilding analytics from
// the persisted transactions on a cache miss.
func (s *reconciliationServiceImpl) GetLatestResult(clientID string) (*models.ReconciliationResult, error) {
	cacheKey := fmt.Sprintf(ckLatestReconciliation, clientID)
	if cached, found := s.resultCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for GetLatestResult", "clientID", clientID)
		return cached.(*models.ReconciliationResult), nil
	}
	logger.L.Info("Cache miss for GetLatestResult, rebuilding from DB", "clientID", clientID)

	transactions, err := s.GetNormalizedTransactions(clientID)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return nil, ErrNoData
	}

	result := &models.ReconciliationResult{
		ClientID:              clientID,
		DetailedData:          transactions,
		ConsolidatedAnalytics: s.processor.Consolidate(transactions),
		Errors:                []models.RowError{},
	}
	s.resultCache.Set(cacheKey, result, DefaultCacheExpiration)
	return result, nil
}

func (s *reconciliationServiceImpl) GetNormalizedTransactions(clientID string) ([]models.NormalizedTransaction, error) {
	logger.L.Debug("Fetching normalized transactions from DB", "clientID", clientID)
	rows, err := database.DB.Query(`SELECT client_id, source, order_date, order_number, billing_type, payment_date, payment_origin, items_value, delivery_fee, service_fee, gross_revenue, ifood_promotions, store_promotions, ifood_commission, transaction_commission, weekly_plan_fee, net_value FROM normalized_transactions WHERE client_id = ? ORDER BY order_date ASC, id ASC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions for client %s: %w", clientID, err)
	}
	defer rows.Close()

	var transactions []models.NormalizedTransaction
	for rows.Next() {
		var tx models.NormalizedTransaction
		scanErr := rows.Scan(&tx.ClientID, &tx.Source, &tx.OrderDate, &tx.OrderNumber, &tx.BillingType, &tx.PaymentDate, &tx.PaymentOrigin, &tx.ItemsValue, &tx.DeliveryFee, &tx.ServiceFee, &tx.GrossRevenue, &tx.IfoodPromotions, &tx.StorePromotions, &tx.IfoodCommissionValue, &tx.TransactionCommission, &tx.WeeklyPlanFee, &tx.NetValue)
		if scanErr != nil {
			return nil, fmt.Errorf("error scanning transaction row for client %s: %w", clientID, scanErr)
		}
		transactions = append(transactions, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transaction rows for client %s: %w", clientID, err)
	}
	logger.L.Info("DB fetch complete.", "clientID", clientID, "transactionCount", len(transactions))
	return transactions, nil
}

func (s *reconciliationServiceImpl) DeleteClientData(clientID string) (int64, error) {
	res, err := database.DB.Exec(`DELETE FROM normalized_transactions WHERE client_id = ?`, clientID)
	if err != nil {
		return 0, fmt.Errorf("error deleting transactions for client %s: %w", clientID, err)
	}
	deleted, _ := res.RowsAffected()

	if _, err := database.DB.Exec(`DELETE FROM reconciliation_batches WHERE client_id = ?`, clientID); err != nil {
		return deleted, fmt.Errorf("error deleting batches for client %s: %w", clientID, err)
	}

	s.InvalidateClientCache(clientID)
	logger.L.Info("Deleted client reconciliation data", "clientID", clientID, "transactionsDeleted", deleted)
	return deleted, nil
}

// InvalidateClientCache clears cached results for a client, forcing a rebuild
// from the database on the next request.
func (s *reconciliationServiceImpl) InvalidateClientCache(clientID string) {
	s.resultCache.Delete(fmt.Sprintf(ckLatestReconciliation, clientID))
	logger.L.Info("Invalidated result cache for client", "clientID", clientID)
}

// transactionHash identifies a persisted row for duplicate detection across
// re-uploads of overlapping export windows.
func transactionHash(clientID string, tx models.NormalizedTransaction) string {
	input := strings.Join([]string{
		clientID,
		tx.OrderNumber,
		tx.BillingType,
		tx.OrderDate,
		strconv.FormatFloat(tx.GrossRevenue, 'f', -1, 64),
		strconv.FormatFloat(tx.NetValue, 'f', -1, 64),
	}, "|")
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
