package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/walterplanejamento-code/genmon-core/internal/domain"
	"github.com/walterplanejamento-code/genmon-core/internal/ingest"
	"github.com/walterplanejamento-code/genmon-core/internal/service"
)

const maxBodyBytes = 1 << 20

// Ingestor is the write/read path behind the modbus-receiver endpoint.
type Ingestor interface {
	Ingest(ctx context.Context, payload map[string]interface{}) (*ingest.Result, error)
	LatestReading(ctx context.Context, portaVPS, geradorID string) (*domain.Leitura, error)
}

// Validator checks relay connectivity for a generator.
type Validator interface {
	Validate(ctx context.Context, geradorID string) (*service.ValidationResult, error)
}

// Diagnoser builds the data-quality report for a generator.
type Diagnoser interface {
	GetDiagnostics(ctx context.Context, geradorID string) (*service.DiagnosticsReport, error)
}

type Handler struct {
	ingestor  Ingestor
	validator Validator
	diagnoser Diagnoser
	// timeout bounds one synchronous ingestion call; zero disables the bound.
	timeout time.Duration
	logger  *zap.Logger
}

func NewHandler(ingestor Ingestor, validator Validator, diagnoser Diagnoser, timeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		ingestor:  ingestor,
		validator: validator,
		diagnoser: diagnoser,
		timeout:   timeout,
		logger:    logger,
	}
}

// ReceiveReading handles POST /api/v1/modbus-receiver: one telemetry frame in,
// ingestion outcome out.
func (h *Handler) ReceiveReading(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := readBodyJSON(r, maxBodyBytes, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.ingestor.Ingest(ctx, payload)
	if err != nil {
		if errors.Is(err, ingest.ErrPortaVPSRequired) {
			writeError(w, http.StatusBadRequest, "porta_vps is required")
			return
		}
		h.logger.Error("Ingestion failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to process reading")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"gerador_id": result.GeradorID,
		"reading_id": result.LeituraID,
		"timestamp":  result.Timestamp,
	})
}

// GetLatestReading handles GET /api/v1/modbus-receiver?porta_vps=NNN (or
// ?gerador_id=UUID): the most recent stored reading.
func (h *Handler) GetLatestReading(w http.ResponseWriter, r *http.Request) {
	porta := r.URL.Query().Get("porta_vps")
	geradorID := r.URL.Query().Get("gerador_id")
	if porta == "" && geradorID == "" {
		writeError(w, http.StatusBadRequest, "porta_vps or gerador_id is required")
		return
	}

	leitura, err := h.ingestor.LatestReading(r.Context(), porta, geradorID)
	if err != nil {
		if errors.Is(err, ingest.ErrGeradorNotFound) {
			writeError(w, http.StatusNotFound, "generator not found")
			return
		}
		h.logger.Error("Latest reading lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch reading")
		return
	}
	if leitura == nil {
		writeError(w, http.StatusNotFound, "no readings found")
		return
	}

	writeJSON(w, http.StatusOK, leitura)
}

// ValidateVPS handles POST /api/v1/validate-vps: on-demand connectivity check.
func (h *Handler) ValidateVPS(w http.ResponseWriter, r *http.Request) {
	var body struct {
		GeradorID string `json:"gerador_id"`
	}
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.GeradorID == "" {
		writeError(w, http.StatusBadRequest, "gerador_id is required")
		return
	}

	result, err := h.validator.Validate(r.Context(), body.GeradorID)
	if err != nil {
		if errors.Is(err, service.ErrVPSConexaoNotFound) {
			writeError(w, http.StatusNotFound, "vps connection not found")
			return
		}
		h.logger.Error("Validation failed", zap.String("gerador_id", body.GeradorID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to validate connection")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// GetDiagnostics handles GET /api/v1/diagnostics?gerador_id=UUID.
func (h *Handler) GetDiagnostics(w http.ResponseWriter, r *http.Request) {
	geradorID := r.URL.Query().Get("gerador_id")
	if geradorID == "" {
		writeError(w, http.StatusBadRequest, "gerador_id is required")
		return
	}

	report, err := h.diagnoser.GetDiagnostics(r.Context(), geradorID)
	if err != nil {
		h.logger.Error("Diagnostics failed", zap.String("gerador_id", geradorID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build diagnostics")
		return
	}

	writeJSON(w, http.StatusOK, report)
}
