package services

import (
	"errors"
	"io"

	"github.com/username/conciliador/backend/src/models"
)

var (
	// ErrParsingFailed wraps any failure to turn an uploaded file into rows.
	ErrParsingFailed = errors.New("parsing failed")
	// ErrUnsupportedSource is returned for an upload format no row source handles.
	ErrUnsupportedSource = errors.New("unsupported source format")
	// ErrNoData is returned when a client has no persisted transactions yet.
	ErrNoData = errors.New("no reconciliation data for client")
)

// ReconciliationService defines the interface for the core reconciliation logic.
type ReconciliationService interface {
	ProcessUpload(fileReader io.Reader, clientID string, source string) (*models.ReconciliationResult, error)
	ReconcileRows(rows []models.RawRow, clientID string) (*models.ReconciliationResult, error)
	GetLatestResult(clientID string) (*models.ReconciliationResult, error)
	GetNormalizedTransactions(clientID string) ([]models.NormalizedTransaction, error)
	DeleteClientData(clientID string) (int64, error)
	InvalidateClientCache(clientID string)
}
