package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/conciliador/backend/src/config"
	"github.com/username/conciliador/backend/src/logger"
	"github.com/username/conciliador/backend/src/models"
	"github.com/username/conciliador/backend/src/security/validation"
	"github.com/username/conciliador/backend/src/services"
	"github.com/username/conciliador/backend/src/utils"
)

type ReconciliationHandler struct {
	reconciliationService services.ReconciliationService
}

func NewReconciliationHandler(service services.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: service,
	}
}

// clientIDFromRequest reads and sanitizes the client identifier, from the form
// on multipart requests and from the query string otherwise.
func clientIDFromRequest(r *http.Request) string {
	clientID := r.FormValue("client_id")
	if clientID == "" {
		clientID = r.URL.Query().Get("client_id")
	}
	return validation.SanitizeLabel(clientID)
}

func (h *ReconciliationHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientID := clientIDFromRequest(r)
	if clientID == "" {
		utils.SendJSONError(w, "Missing 'client_id' form field.", http.StatusBadRequest)
		return
	}

	source := strings.TrimSpace(r.FormValue("source"))
	if source == "" {
		source = "xlsx"
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "clientID", clientID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "clientID", clientID, "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB (header check)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "clientID", clientID, "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "clientID", clientID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	logger.L.Info("File content validated by magic bytes", "clientID", clientID, "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	logger.L.Info("Processing upload request", "clientID", clientID, "filename", fileHeader.Filename, "source", source)
	result, err := h.reconciliationService.ProcessUpload(file, clientID, source)
	if err != nil {
		h.sendServiceError(w, clientID, fileHeader.Filename, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for upload result", "clientID", clientID, "error", err)
	}
}

// HandleReconcileRows accepts pre-parsed rows, the path used by integrations
// that already hold the export in memory.
func (h *ReconciliationHandler) HandleReconcileRows(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ClientID string          `json:"client_id"`
		Rows     []models.RawRow `json:"rows"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.Cfg.MaxUploadSizeBytes)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		logger.L.Warn("Failed to decode reconcile rows payload", "error", err)
		utils.SendJSONError(w, "Invalid JSON payload. Expected {\"client_id\": ..., \"rows\": [...]}.", http.StatusBadRequest)
		return
	}

	clientID := validation.SanitizeLabel(payload.ClientID)
	if clientID == "" {
		utils.SendJSONError(w, "Missing 'client_id' field.", http.StatusBadRequest)
		return
	}

	logger.L.Info("Processing reconcile rows request", "clientID", clientID, "rows", len(payload.Rows))
	result, err := h.reconciliationService.ReconcileRows(payload.Rows, clientID)
	if err != nil {
		h.sendServiceError(w, clientID, "", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for reconcile rows result", "clientID", clientID, "error", err)
	}
}

func (h *ReconciliationHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)
	if clientID == "" {
		utils.SendJSONError(w, "Missing 'client_id' query parameter.", http.StatusBadRequest)
		return
	}
	logger.L.Debug("Handling GetLatest request with ETag support", "clientID", clientID)

	result, err := h.reconciliationService.GetLatestResult(clientID)
	if err != nil {
		if errors.Is(err, services.ErrNoData) {
			utils.SendJSONError(w, fmt.Sprintf("No reconciliation data found for client %s", clientID), http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving latest reconciliation result", "clientID", clientID, "error", err)
		utils.SendJSONError(w, "Error retrieving reconciliation data.", http.StatusInternalServerError)
		return
	}

	currentETag, etagErr := utils.GenerateETag(result)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for reconciliation result", "clientID", clientID, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Info("ETag match for reconciliation result", "clientID", clientID, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		if clientETag != "" {
			logger.L.Debug("ETag mismatch", "clientID", clientID, "clientETags", clientETag, "serverETag", quotedETag)
		}
	} else {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error or empty ETag", "clientID", clientID)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error generating JSON response for reconciliation result", "clientID", clientID, "error", err)
	}
}

func (h *ReconciliationHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)
	if clientID == "" {
		utils.SendJSONError(w, "Missing 'client_id' query parameter.", http.StatusBadRequest)
		return
	}

	transactions, err := h.reconciliationService.GetNormalizedTransactions(clientID)
	if err != nil {
		logger.L.Error("Error retrieving transactions", "clientID", clientID, "error", err)
		utils.SendJSONError(w, "Error retrieving transactions.", http.StatusInternalServerError)
		return
	}
	if transactions == nil {
		transactions = []models.NormalizedTransaction{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(transactions); err != nil {
		logger.L.Error("Error encoding JSON response for transactions", "clientID", clientID, "error", err)
	}
}

func (h *ReconciliationHandler) HandleDeleteTransactions(w http.ResponseWriter, r *http.Request) {
	clientID := clientIDFromRequest(r)
	if clientID == "" {
		utils.SendJSONError(w, "Missing 'client_id' query parameter.", http.StatusBadRequest)
		return
	}

	deleted, err := h.reconciliationService.DeleteClientData(clientID)
	if err != nil {
		logger.L.Error("Error deleting client data", "clientID", clientID, "error", err)
		utils.SendJSONError(w, "Error deleting reconciliation data.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"client_id": clientID,
		"deleted":   deleted,
	})
}

func (h *ReconciliationHandler) sendServiceError(w http.ResponseWriter, clientID, filename string, err error) {
	switch {
	case errors.Is(err, services.ErrUnsupportedSource):
		logger.L.Warn("Upload rejected for unsupported source format", "clientID", clientID, "filename", filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrParsingFailed):
		logger.L.Warn("Upload processing failed due to parsing errors", "clientID", clientID, "filename", filename, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error parsing uploaded file: %v", err), http.StatusBadRequest)
	default:
		logger.L.Error("Internal error processing upload", "clientID", clientID, "filename", filename, "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
	}
}
