// Package health provides health checking functionality for the medassist API.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/arvele/medassist-api/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	catalog interfaces.CatalogStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(catalog interfaces.CatalogStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		catalog: catalog,
	}
}

// HealthCheck returns HTTP-specific health data for the /health endpoint.
// An empty catalog means the service cannot answer anything and is reported
// unhealthy; stale data degrades the service but keeps it answering.
func (h *HealthCheckerImpl) HealthCheck() (status string, details map[string]any, httpStatus int) {
	products := h.catalog.All()
	lastLoaded := h.catalog.LastLoaded()
	isReloading := h.catalog.IsReloading()

	dataAge := time.Since(lastLoaded)

	switch {
	case len(products) == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	dosageRuleCount := 0
	for _, product := range products {
		dosageRuleCount += len(h.catalog.DosageRules(product.ID))
	}

	details = map[string]any{
		"last_loaded":    lastLoaded.Format(time.RFC3339),
		"data_age_hours": math.Round(dataAge.Hours()*10) / 10,
		"products":       len(products),
		"dosage_rules":   dosageRuleCount,
		"is_reloading":   isReloading,
	}

	return status, details, httpStatus
}
