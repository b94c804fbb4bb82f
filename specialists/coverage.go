package specialists

import (
	"fmt"

	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
)

// Alternative is a cost-saving suggestion: a generic with strictly better
// coverage under the same plan tier.
type Alternative struct {
	Product         entities.ProductRecord `json:"product"`
	CoveragePercent float64                `json:"coverage_percent"`
	Note            string                 `json:"note"`
}

// CoverageResult is the outcome of an insurance coverage lookup.
type CoverageResult struct {
	Product     entities.ProductRecord  `json:"product"`
	Record      entities.CoverageRecord `json:"record"`
	Alternative *Alternative            `json:"alternative,omitempty"`
	Caveats     []string                `json:"caveats,omitempty"`
}

// CoverageAdvisor looks up insurance coverage metadata and cost-saving
// alternatives for a product.
type CoverageAdvisor struct {
	catalog interfaces.CatalogStore
}

// NewCoverageAdvisor creates a coverage advisor over the given catalog
func NewCoverageAdvisor(catalogStore interfaces.CatalogStore) *CoverageAdvisor {
	return &CoverageAdvisor{catalog: catalogStore}
}

// Advise returns the coverage record of a product under a plan tier. A
// generic alternative is surfaced only when its coverage percentage is
// strictly higher than the primary record's.
func (a *CoverageAdvisor) Advise(productID string, tier entities.PlanTier) (*CoverageResult, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("%w: unknown plan tier %q", ErrInvalidInput, tier)
	}

	product, exists := a.catalog.Lookup(productID)
	if !exists {
		return nil, fmt.Errorf("%w: unknown product %q", ErrNotFound, productID)
	}

	record, exists := a.catalog.Coverage(productID, tier)
	if !exists {
		return nil, fmt.Errorf("%w: no coverage record for %q under tier %q", ErrNotFound, productID, tier)
	}

	result := &CoverageResult{
		Product: product,
		Record:  record,
	}

	if record.PriorAuthorization {
		result.Caveats = append(result.Caveats, "prior authorization may be required by the plan")
	}

	if record.GenericAlternative != "" {
		altProduct, productExists := a.catalog.Lookup(record.GenericAlternative)
		altRecord, recordExists := a.catalog.Coverage(record.GenericAlternative, tier)
		if productExists && recordExists && altRecord.CoveragePercent > record.CoveragePercent {
			result.Alternative = &Alternative{
				Product:         altProduct,
				CoveragePercent: altRecord.CoveragePercent,
				Note: fmt.Sprintf("generic alternative %s is covered at %.0f%% vs %.0f%% for %s",
					altProduct.Name, altRecord.CoveragePercent, record.CoveragePercent, product.Name),
			}
		}
	}

	return result, nil
}
