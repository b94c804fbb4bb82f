package entities

// Severity enumerates interaction severities, most dangerous first.
type Severity string

const (
	SeveritySevere   Severity = "severe"
	SeverityModerate Severity = "moderate"
	SeverityMild     Severity = "mild"
	SeverityNone     Severity = "none"
)

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	switch s {
	case SeveritySevere, SeverityModerate, SeverityMild, SeverityNone:
		return true
	}
	return false
}

// Rank maps severities to a sortable weight. Higher is more dangerous.
func (s Severity) Rank() int {
	switch s {
	case SeveritySevere:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMild:
		return 1
	case SeverityNone:
		return 0
	}
	return -1
}

// PlanTier enumerates the insurance plan tiers coverage records are keyed by.
type PlanTier string

const (
	TierBasic    PlanTier = "basic"
	TierStandard PlanTier = "standard"
	TierPremium  PlanTier = "premium"
)

// Valid reports whether the tier is one of the known values.
func (t PlanTier) Valid() bool {
	switch t {
	case TierBasic, TierStandard, TierPremium:
		return true
	}
	return false
}

// DosageRule maps an age and weight band of one drug to a dose expression.
// Exactly one of DosePerKgMg and FlatDoseMg is positive. Bands for the same
// drug must not overlap; an overlap is a data authoring defect surfaced at
// calculation time.
type DosageRule struct {
	DrugID        string  `json:"drug_id"`
	MinAge        int     `json:"min_age"`
	MaxAge        int     `json:"max_age"`
	MinWeightKg   float64 `json:"min_weight_kg"`
	MaxWeightKg   float64 `json:"max_weight_kg"`
	DosePerKgMg   float64 `json:"dose_per_kg_mg,omitempty"`
	FlatDoseMg    float64 `json:"flat_dose_mg,omitempty"`
	MaxDailyMg    float64 `json:"max_daily_mg"`
	Unit          string  `json:"unit"`
	IntervalHours int     `json:"interval_hours,omitempty"`
}

// Contains reports whether the rule's age and weight bands both contain the
// given inputs. Bounds are inclusive.
func (r DosageRule) Contains(age int, weightKg float64) bool {
	return age >= r.MinAge && age <= r.MaxAge &&
		weightKg >= r.MinWeightKg && weightKg <= r.MaxWeightKg
}

// InteractionEntry records a known interaction between an unordered pair of
// drugs. Lookups are symmetric; the container canonicalizes the pair key.
type InteractionEntry struct {
	DrugA       string   `json:"drug_a"`
	DrugB       string   `json:"drug_b"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// CoverageRecord describes insurance coverage of one product under one tier.
type CoverageRecord struct {
	ProductID          string   `json:"product_id"`
	PlanTier           PlanTier `json:"plan_tier"`
	CoveragePercent    float64  `json:"coverage_percent"`
	GenericAlternative string   `json:"generic_alternative,omitempty"`
	PriorAuthorization bool     `json:"prior_authorization,omitempty"`
}

// Dataset is the envelope the loader reads from the dataset file. All four
// collections are loaded once and treated as read-only afterwards.
type Dataset struct {
	Products     []ProductRecord    `json:"products"`
	DosageRules  []DosageRule       `json:"dosage_rules"`
	Interactions []InteractionEntry `json:"interactions"`
	Coverage     []CoverageRecord   `json:"coverage"`
}
