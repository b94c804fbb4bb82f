package specialists

import (
	"fmt"

	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
)

// dosageNotice accompanies every successful calculation. The figure is
// informational, never a prescription.
const dosageNotice = "Informational figure only, not a prescription. Dosing must be confirmed by a healthcare provider."

// DosageResult is the outcome of a dosage calculation.
type DosageResult struct {
	DrugID        string              `json:"drug_id"`
	DoseMg        float64             `json:"dose_mg"`
	Unit          string              `json:"unit"`
	MaxDailyMg    float64             `json:"max_daily_mg"`
	IntervalHours int                 `json:"interval_hours,omitempty"`
	Clamped       bool                `json:"clamped"`
	Rule          entities.DosageRule `json:"rule"`
	Caveats       []string            `json:"caveats"`
}

// DosageCalculator maps (drug, age, weight) to a dose recommendation using
// the catalog's authored rules. It never guesses: zero matching rules and
// multiple matching rules are both reported as errors.
type DosageCalculator struct {
	catalog interfaces.CatalogStore
}

// NewDosageCalculator creates a dosage calculator over the given catalog
func NewDosageCalculator(catalogStore interfaces.CatalogStore) *DosageCalculator {
	return &DosageCalculator{catalog: catalogStore}
}

// Calculate selects the single rule whose age and weight bands contain the
// inputs and computes the dose, clamped to the rule's maximum daily dose.
func (c *DosageCalculator) Calculate(drugID string, age int, weightKg float64) (*DosageResult, error) {
	if age < 0 {
		return nil, fmt.Errorf("%w: age must be >= 0, got %d", ErrInvalidInput, age)
	}
	if weightKg <= 0 {
		return nil, fmt.Errorf("%w: weight must be > 0, got %.1f", ErrInvalidInput, weightKg)
	}

	if _, exists := c.catalog.Lookup(drugID); !exists {
		return nil, fmt.Errorf("%w: unknown drug %q", ErrNotFound, drugID)
	}

	var matched []entities.DosageRule
	for _, rule := range c.catalog.DosageRules(drugID) {
		if rule.Contains(age, weightKg) {
			matched = append(matched, rule)
		}
	}

	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("%w: no rule for %q covers age %d and weight %.1f kg",
			ErrNoApplicableRule, drugID, age, weightKg)
	case 1:
		// The only acceptable outcome
	default:
		// Overlapping ranges are a data authoring defect. Never silently
		// pick one.
		return nil, fmt.Errorf("%w: %d rules for %q match age %d and weight %.1f kg",
			ErrAmbiguousRule, len(matched), drugID, age, weightKg)
	}

	rule := matched[0]
	dose := rule.FlatDoseMg
	if rule.DosePerKgMg > 0 {
		dose = rule.DosePerKgMg * weightKg
	}

	result := &DosageResult{
		DrugID:        drugID,
		DoseMg:        dose,
		Unit:          rule.Unit,
		MaxDailyMg:    rule.MaxDailyMg,
		IntervalHours: rule.IntervalHours,
		Rule:          rule,
		Caveats:       []string{dosageNotice},
	}

	if dose > rule.MaxDailyMg {
		result.DoseMg = rule.MaxDailyMg
		result.Clamped = true
		result.Caveats = append(result.Caveats,
			fmt.Sprintf("computed dose %.1f %s exceeds the maximum daily dose and was clamped to %.1f %s",
				dose, rule.Unit, rule.MaxDailyMg, rule.Unit))
	}

	return result, nil
}
