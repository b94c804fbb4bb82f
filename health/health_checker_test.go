package health

import (
	"net/http"
	"testing"
	"time"

	"github.com/arvele/medassist-api/catalog"
	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
)

func populatedCatalog() interfaces.CatalogStore {
	c := catalog.NewContainer()
	c.ReplaceData(&entities.Dataset{
		Products: []entities.ProductRecord{
			{
				ID:                "aspirin",
				Name:              "Aspirin",
				Category:          entities.CategoryPainRelief,
				ActiveIngredients: []string{"acetylsalicylic acid"},
				Price:             5.0,
			},
		},
		DosageRules: []entities.DosageRule{
			{
				DrugID: "aspirin", MinAge: 18, MaxAge: 120,
				MinWeightKg: 40, MaxWeightKg: 150,
				FlatDoseMg: 500, MaxDailyMg: 3000, Unit: "mg",
			},
		},
	})
	return c
}

func TestHealthCheckHealthy(t *testing.T) {
	checker := NewHealthChecker(populatedCatalog())

	status, details, httpStatus := checker.HealthCheck()

	if status != "healthy" {
		t.Errorf("Expected healthy status, got %s", status)
	}
	if httpStatus != http.StatusOK {
		t.Errorf("Expected status 200, got %d", httpStatus)
	}
	if details["products"] != 1 {
		t.Errorf("Expected 1 product, got %v", details["products"])
	}
	if details["dosage_rules"] != 1 {
		t.Errorf("Expected 1 dosage rule, got %v", details["dosage_rules"])
	}
}

func TestHealthCheckUnhealthyWhenEmpty(t *testing.T) {
	checker := NewHealthChecker(catalog.NewContainer())

	status, _, httpStatus := checker.HealthCheck()

	if status != "unhealthy" {
		t.Errorf("Expected unhealthy status for empty catalog, got %s", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", httpStatus)
	}
}

// staleCatalog wraps a populated catalog and reports an old load time.
type staleCatalog struct {
	interfaces.CatalogStore
}

func (s *staleCatalog) LastLoaded() time.Time {
	return time.Now().Add(-72 * time.Hour)
}

func TestHealthCheckDegradedWhenStale(t *testing.T) {
	checker := NewHealthChecker(&staleCatalog{populatedCatalog()})

	status, _, httpStatus := checker.HealthCheck()

	if status != "degraded" {
		t.Errorf("Expected degraded status for stale data, got %s", status)
	}
	if httpStatus != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", httpStatus)
	}
}
