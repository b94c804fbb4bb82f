// Package interfaces defines core abstractions for the medassist API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"time"

	"github.com/arvele/medassist-api/catalog/entities"
)

// DataQualityReport summarizes non-fatal data authoring issues found in a
// loaded dataset. Fatal violations are rejected by the validator instead.
type DataQualityReport struct {
	OverlappingDosageRules     []string // "drugID age/weight region" descriptions
	ProductsWithoutDosageRules []string
	ProductsWithoutCoverage    []string
	InteractionOnlySelfPairs   []string // entries pairing a drug with itself
}

// CatalogStore defines the contract for the read-only product catalog and
// rule tables. Implementations must support lock-free concurrent reads and
// atomic full replacement for zero-downtime reloads.
type CatalogStore interface {
	// Read operations
	Lookup(id string) (entities.ProductRecord, bool)
	All() []entities.ProductRecord
	DosageRules(drugID string) []entities.DosageRule
	Interaction(drugA, drugB string) (entities.InteractionEntry, bool)
	Coverage(productID string, tier entities.PlanTier) (entities.CoverageRecord, bool)
	FindByName(name string) (entities.ProductRecord, bool)
	KnownDrugTokens() map[string]string
	LastLoaded() time.Time
	IsReloading() bool

	// Reload operations
	ReplaceData(ds *entities.Dataset)
	BeginReload() bool
	EndReload()
}

// DatasetLoader defines the contract for reading and validating the dataset
// the catalog is built from.
type DatasetLoader interface {
	Load() (*entities.Dataset, error)
}

// DataValidator defines the contract for dataset and user input validation.
type DataValidator interface {
	// ValidateDataset rejects datasets with integrity violations: duplicate
	// identifiers, undefined categories or tiers, dangling references,
	// duplicate unordered interaction pairs, malformed dosage rules.
	ValidateDataset(ds *entities.Dataset) error

	// ReportDataQuality collects non-fatal authoring issues for logging.
	ReportDataQuality(ds *entities.Dataset) *DataQualityReport

	// ValidateQuery validates free-text user input.
	ValidateQuery(input string) error
}

// Scheduler defines the contract for dataset reload scheduling and data
// staleness monitoring.
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns current system health status, detail fields, and
	// the HTTP status code the /health endpoint should answer with.
	HealthCheck() (status string, details map[string]any, httpStatus int)
}
