// Package entities defines the immutable data model of the decision-support
// core: product records, dosage rules, interaction entries and coverage
// records, plus the Dataset envelope they are loaded from.
package entities

// Category enumerates the product categories the catalog accepts.
type Category string

const (
	CategoryPainRelief    Category = "pain-relief"
	CategoryAntibiotic    Category = "antibiotic"
	CategoryChronicCare   Category = "chronic-care"
	CategoryBloodPressure Category = "blood-pressure"
	CategoryAllergy       Category = "allergy"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryPainRelief, CategoryAntibiotic, CategoryChronicCare,
		CategoryBloodPressure, CategoryAllergy:
		return true
	}
	return false
}

// ProductRecord is a single catalog entry. Records are immutable once loaded;
// the catalog container is their sole owner.
type ProductRecord struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	BrandName            string   `json:"brand_name,omitempty"`
	Category             Category `json:"category"`
	ActiveIngredients    []string `json:"active_ingredients"`
	Price                float64  `json:"price"`
	Strengths            []string `json:"strengths,omitempty"`
	Manufacturer         string   `json:"manufacturer,omitempty"`
	Description          string   `json:"description,omitempty"`
	Indications          string   `json:"indications,omitempty"`
	Warnings             string   `json:"warnings,omitempty"`
	SideEffects          string   `json:"side_effects,omitempty"`
	PrescriptionRequired bool     `json:"prescription_required"`
}
