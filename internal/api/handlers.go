package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mohamedkhairy/stock-analyst/internal/advisor"
	"github.com/mohamedkhairy/stock-analyst/internal/models"
	"github.com/mohamedkhairy/stock-analyst/internal/report"
	"github.com/mohamedkhairy/stock-analyst/pkg/logger"
)

// DateLayout is the date format accepted in request bodies
const DateLayout = "2006-01-02"

// TickerList accepts either a JSON array of tickers or a single
// comma-separated string
type TickerList []string

// UnmarshalJSON implements json.Unmarshaler
func (t *TickerList) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*t = models.ParseTickers(text)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = list
	return nil
}

// FetchRequest is the body of POST /api/v1/technical/fetch
type FetchRequest struct {
	SessionID string     `json:"session_id,omitempty"`
	Tickers   TickerList `json:"tickers"`
	Start     string     `json:"start,omitempty"`
	End       string     `json:"end,omitempty"`
}

// AnalyzeRequest is the body of POST /api/v1/technical/analyze
type AnalyzeRequest struct {
	SessionID  string   `json:"session_id"`
	Indicators []string `json:"indicators"`
}

// ReportRequest is the body of POST /api/v1/reports
type ReportRequest struct {
	Symbols TickerList `json:"symbols"`
}

// IndicatorInfo describes one selectable indicator
type IndicatorInfo struct {
	ID     models.IndicatorID `json:"id"`
	Label  string             `json:"label"`
	Window int                `json:"window"`
}

// TechnicalHandler handles the technical dashboard endpoints
type TechnicalHandler struct {
	advisor  *advisor.Advisor
	defaults []string
}

// NewTechnicalHandler creates a new technical dashboard handler.
// defaults are the indicator names preselected for clients.
func NewTechnicalHandler(adv *advisor.Advisor, defaults []string) *TechnicalHandler {
	return &TechnicalHandler{advisor: adv, defaults: defaults}
}

// Fetch handles POST /api/v1/technical/fetch
func (h *TechnicalHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	start, err := parseDate(req.Start)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := parseDate(req.End)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
		return
	}

	result, err := h.advisor.Fetch(r.Context(), advisor.FetchRequest{
		SessionID: req.SessionID,
		UserID:    logger.GetUserID(r.Context()),
		Tickers:   req.Tickers,
		Start:     start,
		End:       end,
	})
	if err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Analyze handles POST /api/v1/technical/analyze
func (h *TechnicalHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SessionID == "" {
		respondWithError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	ids, err := models.ParseIndicatorRequest(req.Indicators)
	if err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	rep, err := h.advisor.Analyze(r.Context(), advisor.AnalyzeRequest{
		SessionID:  req.SessionID,
		UserID:     logger.GetUserID(r.Context()),
		Indicators: ids,
	})
	if err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, rep)
}

// ListIndicators handles GET /api/v1/technical/indicators
func (h *TechnicalHandler) ListIndicators(w http.ResponseWriter, r *http.Request) {
	all := models.AllIndicators()
	infos := make([]IndicatorInfo, 0, len(all))
	for _, id := range all {
		infos = append(infos, IndicatorInfo{ID: id, Label: id.Label(), Window: id.Window()})
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"indicators": infos,
		"defaults":   h.defaults,
	})
}

// CloseSession handles DELETE /api/v1/sessions/{id}
func (h *TechnicalHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := h.advisor.Close(r.Context(), sessionID, logger.GetUserID(r.Context())); err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReportHandler handles the fundamental report endpoint
type ReportHandler struct {
	pipeline *report.Pipeline
}

// NewReportHandler creates a new report handler. pipeline is nil when text
// generation is not configured.
func NewReportHandler(pipeline *report.Pipeline) *ReportHandler {
	return &ReportHandler{pipeline: pipeline}
}

// Create handles POST /api/v1/reports
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.pipeline == nil {
		respondWithDomainError(w, r, models.ErrGeneratorDisabled)
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.pipeline.Generate(r.Context(), req.Symbols)
	if err != nil {
		respondWithDomainError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Check reports whether a dependency is usable
type Check func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler creates a health handler. checks run on /ready.
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	if checks == nil {
		checks = map[string]Check{}
	}
	return &HealthHandler{checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Live handles GET /live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}
	if len(failed) > 0 {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "not ready",
			"checks": failed,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNoTickers),
		errors.Is(err, models.ErrUnknownIndicator),
		errors.Is(err, models.ErrInvalidDateRange),
		errors.Is(err, models.ErrInvalidSymbol):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoData):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrGeneratorDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func respondWithDomainError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error("Request failed",
			logger.String("path", r.URL.Path),
			logger.ErrorField(err),
		)
		logger.RecordError("api", http.StatusText(code))
	}
	respondWithError(w, code, err.Error())
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(DateLayout, value, time.UTC)
}
