// Package handlers provides HTTP request handlers for the medassist API
// endpoints: the query entry point, catalog browsing and search, direct
// specialist access, and health checks, with input validation and error
// handling.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
	"github.com/arvele/medassist-api/logging"
	"github.com/arvele/medassist-api/orchestrator"
	"github.com/arvele/medassist-api/specialists"
	"github.com/go-chi/chi/v5"
)

// Renderer is the optional external collaborator that turns a structured
// response into prose. Failures degrade to the structured payload.
type Renderer interface {
	Enabled() bool
	Render(ctx context.Context, response orchestrator.AggregatedResponse) (string, error)
}

// Handler bundles the injected dependencies all endpoints share.
type Handler struct {
	catalog      interfaces.CatalogStore
	validator    interfaces.DataValidator
	orchestrator *orchestrator.Orchestrator
	interactions *specialists.InteractionChecker
	dosage       *specialists.DosageCalculator
	coverage     *specialists.CoverageAdvisor
	search       *specialists.SearchEngine
	renderer     Renderer
	health       interfaces.HealthChecker
}

// NewHandler creates a handler with injected dependencies. renderer may be a
// typed nil; rendering is skipped unless it reports Enabled.
func NewHandler(catalogStore interfaces.CatalogStore, validator interfaces.DataValidator,
	orch *orchestrator.Orchestrator, renderer Renderer, health interfaces.HealthChecker) *Handler {
	return &Handler{
		catalog:      catalogStore,
		validator:    validator,
		orchestrator: orch,
		interactions: specialists.NewInteractionChecker(catalogStore),
		dosage:       specialists.NewDosageCalculator(catalogStore),
		coverage:     specialists.NewCoverageAdvisor(catalogStore),
		search:       specialists.NewSearchEngine(catalogStore),
		renderer:     renderer,
		health:       health,
	}
}

// RespondWithJSON writes a JSON response
func (h *Handler) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *Handler) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// queryRequest is the body of POST /query, the sole call surface the UI/API
// layer needs.
type queryRequest struct {
	Query   string                       `json:"query"`
	Patient *orchestrator.PatientContext `json:"patient,omitempty"`
	Render  bool                         `json:"render,omitempty"`
}

// HandleQuery is the orchestrator entry point: classify, dispatch, merge,
// disclaim.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validator.ValidateQuery(req.Query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := h.orchestrator.Handle(r.Context(), req.Query, req.Patient)

	if req.Render && h.renderer != nil && h.renderer.Enabled() {
		rendered, err := h.renderer.Render(r.Context(), response)
		if err != nil {
			// Presentation only: fall back to the structured payload
			logging.Warn("Renderer failed, returning structured payload", "error", err)
		} else {
			response.Rendered = rendered
		}
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// ServeProducts returns all catalog products
func (h *Handler) ServeProducts(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.catalog.All())
}

// FindProductByID returns a single product by identifier
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, exists := h.catalog.Lookup(id)
	if !exists {
		h.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, product)
}

// SearchProducts searches the catalog. Category and max_price query
// parameters are hard constraints. An empty result is a 200 with an empty
// array, never an error.
func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if err := h.validator.ValidateQuery(query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var filters specialists.Filters
	if category := r.URL.Query().Get("category"); category != "" {
		filters.Category = entities.Category(category)
		if !filters.Category.Valid() {
			h.RespondWithError(w, http.StatusBadRequest, "Unknown category")
			return
		}
	}
	if maxPrice := r.URL.Query().Get("max_price"); maxPrice != "" {
		price, err := strconv.ParseFloat(maxPrice, 64)
		if err != nil || price <= 0 {
			h.RespondWithError(w, http.StatusBadRequest, "Invalid max_price")
			return
		}
		filters.MaxPrice = price
	}

	h.RespondWithJSON(w, http.StatusOK, h.search.Search(query, filters))
}

// CheckInteractions checks every pair from the comma-separated drugs
// parameter
func (h *Handler) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	drugsParam := r.URL.Query().Get("drugs")
	if drugsParam == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing drugs parameter")
		return
	}

	drugs := strings.Split(drugsParam, ",")
	findings, err := h.interactions.Check(drugs)
	if err != nil {
		h.respondSpecialistError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, findings)
}

// CalculateDosage computes a dosage recommendation for one drug
func (h *Handler) CalculateDosage(w http.ResponseWriter, r *http.Request) {
	drug := chi.URLParam(r, "drug")

	age, err := strconv.Atoi(r.URL.Query().Get("age"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid age")
		return
	}
	weight, err := strconv.ParseFloat(r.URL.Query().Get("weight"), 64)
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, "Invalid weight")
		return
	}

	result, err := h.dosage.Calculate(drug, age, weight)
	if err != nil {
		h.respondSpecialistError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, result)
}

// AdviseCoverage looks up insurance coverage for a product under a plan tier
func (h *Handler) AdviseCoverage(w http.ResponseWriter, r *http.Request) {
	product := chi.URLParam(r, "product")
	tier := entities.PlanTier(chi.URLParam(r, "tier"))

	result, err := h.coverage.Advise(product, tier)
	if err != nil {
		h.respondSpecialistError(w, err)
		return
	}

	h.RespondWithJSON(w, http.StatusOK, result)
}

// HealthCheck returns server health information
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, details, httpStatus := h.health.HealthCheck()
	response := map[string]any{
		"status": status,
	}
	for key, value := range details {
		response[key] = value
	}

	h.RespondWithJSON(w, httpStatus, response)
}

// respondSpecialistError maps the specialist error taxonomy to HTTP codes
// for the direct endpoints. The orchestrated /query path converts the same
// errors to caveats instead.
func (h *Handler) respondSpecialistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, specialists.ErrNotFound):
		h.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, specialists.ErrInvalidInput):
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, specialists.ErrNoApplicableRule):
		h.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, specialists.ErrAmbiguousRule):
		h.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		h.RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
