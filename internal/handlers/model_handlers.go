package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"energy-model-builder/internal/repository"
	"energy-model-builder/internal/services"
	"energy-model-builder/pkg/logging"
	"energy-model-builder/pkg/metrics"
)

// ModelHandler handles model database inspection endpoints
type ModelHandler struct {
	service *services.InspectionService
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewModelHandler creates a new model handler
func NewModelHandler(service *services.InspectionService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *ModelHandler {
	return &ModelHandler{
		service: service,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ListResponse wraps a list of rows
type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

func optional(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func (h *ModelHandler) observe(endpoint string, start time.Time) {
	h.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// GetTechnologies handles GET /api/technologies
func (h *ModelHandler) GetTechnologies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/technologies", time.Now())

	filter := repository.TechnologyFilter{Sector: optional(r, "sector")}

	techs, err := h.service.Technologies(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_TECHNOLOGIES_ERROR] Failed to list technologies", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/technologies")
		h.sendError(w, r, "failed to retrieve technologies", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/technologies", "GET", "200")
	h.sendJSON(w, ListResponse{Data: techs, Total: len(techs)}, http.StatusOK)
}

// GetEfficiency handles GET /api/efficiency
func (h *ModelHandler) GetEfficiency(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/efficiency", time.Now())

	filter := repository.EfficiencyFilter{
		Region: optional(r, "region"),
		Tech:   optional(r, "tech"),
	}

	rows, err := h.service.Efficiency(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_EFFICIENCY_ERROR] Failed to list efficiency", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/efficiency")
		h.sendError(w, r, "failed to retrieve efficiency", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/efficiency", "GET", "200")
	h.sendJSON(w, ListResponse{Data: rows, Total: len(rows)}, http.StatusOK)
}

// GetVariableCosts handles GET /api/costs/variable
func (h *ModelHandler) GetVariableCosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/costs/variable", time.Now())

	filter := repository.CostFilter{
		Region: optional(r, "region"),
		Tech:   optional(r, "tech"),
	}

	if periodStr := r.URL.Query().Get("period"); periodStr != "" {
		period, err := strconv.Atoi(periodStr)
		if err != nil {
			h.sendError(w, r, "invalid period, expected a year", http.StatusBadRequest)
			return
		}
		filter.Period = &period
	}

	rows, err := h.service.VariableCosts(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_COSTS_ERROR] Failed to list variable costs", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/costs/variable")
		h.sendError(w, r, "failed to retrieve variable costs", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/costs/variable", "GET", "200")
	h.sendJSON(w, ListResponse{Data: rows, Total: len(rows)}, http.StatusOK)
}

// GetDemandDistribution handles GET /api/demand/distribution
func (h *ModelHandler) GetDemandDistribution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/demand/distribution", time.Now())

	region := r.URL.Query().Get("region")
	if region == "" {
		h.sendError(w, r, "region is required", http.StatusBadRequest)
		return
	}

	rows, err := h.service.DemandDistribution(ctx, region)
	if err != nil {
		var notFound *repository.NotFoundError
		if errors.As(err, &notFound) {
			h.sendError(w, r, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error(ctx, "[API_GET_DDS_ERROR] Failed to get demand distribution", logging.Fields{
			"region": region,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/demand/distribution")
		h.sendError(w, r, "failed to retrieve demand distribution", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/demand/distribution", "GET", "200")
	h.sendJSON(w, ListResponse{Data: rows, Total: len(rows)}, http.StatusOK)
}

// GetTables handles GET /api/tables
func (h *ModelHandler) GetTables(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	defer h.observe("/api/tables", time.Now())

	counts, err := h.service.TableCounts(ctx)
	if err != nil {
		h.metrics.RecordAPIError("internal_error", "/api/tables")
		h.sendError(w, r, "failed to count table rows", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/tables", "GET", "200")
	h.sendJSON(w, counts, http.StatusOK)
}

// HealthCheck handles GET /health
func (h *ModelHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if err := h.service.HealthCheck(ctx); err != nil {
		h.logger.Warn(ctx, "[HEALTH_CHECK_FAILED] Store health check failed", logging.Fields{
			"error": err.Error(),
		})
		status["status"] = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	h.sendJSON(w, status, code)
}

// sendJSON sends a JSON response
func (h *ModelHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// sendError sends an error response
func (h *ModelHandler) sendError(w http.ResponseWriter, r *http.Request, message string, statusCode int) {
	h.metrics.RecordAPIRequest(r.URL.Path, r.Method, strconv.Itoa(statusCode))

	response := ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}

	h.sendJSON(w, response, statusCode)
}

// RegisterRoutes registers all inspection API routes
func (h *ModelHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/technologies", h.GetTechnologies).Methods("GET")
	router.HandleFunc("/api/efficiency", h.GetEfficiency).Methods("GET")
	router.HandleFunc("/api/costs/variable", h.GetVariableCosts).Methods("GET")
	router.HandleFunc("/api/demand/distribution", h.GetDemandDistribution).Methods("GET")
	router.HandleFunc("/api/tables", h.GetTables).Methods("GET")
	router.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
