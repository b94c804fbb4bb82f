// Package validation provides dataset integrity validation and user input
// validation for the medassist API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
)

// Input validation: letters, numbers, spaces and safe punctuation
var queryRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+',\?àâäéèêëïîôöùûüÿç]+$`)

// Dangerous substrings rejected outright. strings.Contains is faster than
// regex for plain patterns.
var dangerousPatterns = []string{
	"<script", "</script>", "javascript:", "onload=", "onerror=",
	"eval(", "expression(", "union select", "drop table", "delete from",
	"insert into", "--", "/*", "*/", "../", "..\\", "${", "$(",
}

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateDataset performs comprehensive dataset integrity validation.
// Violations here are fatal at load time: the caller must refuse to serve.
func (v *DataValidatorImpl) ValidateDataset(ds *entities.Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil")
	}

	if len(ds.Products) == 0 {
		return fmt.Errorf("no products found")
	}

	// Check products for duplicate IDs and undefined categories
	productIDs := make(map[string]bool, len(ds.Products))
	for _, product := range ds.Products {
		id := normalizeID(product.ID)
		if id == "" {
			return fmt.Errorf("product with empty identifier: %q", product.Name)
		}
		if productIDs[id] {
			return fmt.Errorf("duplicate product identifier found: %s", product.ID)
		}
		productIDs[id] = true

		if err := v.validateProduct(&product); err != nil {
			return fmt.Errorf("invalid product %s: %w", product.ID, err)
		}
	}

	// Check dosage rules reference existing drugs and are well formed
	for i, rule := range ds.DosageRules {
		if !productIDs[normalizeID(rule.DrugID)] {
			return fmt.Errorf("dosage rule %d references unknown drug: %s", i, rule.DrugID)
		}
		if err := v.validateDosageRule(&rule); err != nil {
			return fmt.Errorf("invalid dosage rule %d for %s: %w", i, rule.DrugID, err)
		}
	}

	// Check interactions: known drugs, known severities, no duplicate
	// unordered pairs
	pairs := make(map[string]bool, len(ds.Interactions))
	for i, entry := range ds.Interactions {
		if !productIDs[normalizeID(entry.DrugA)] {
			return fmt.Errorf("interaction %d references unknown drug: %s", i, entry.DrugA)
		}
		if !productIDs[normalizeID(entry.DrugB)] {
			return fmt.Errorf("interaction %d references unknown drug: %s", i, entry.DrugB)
		}
		if !entry.Severity.Valid() {
			return fmt.Errorf("interaction %d has unknown severity: %s", i, entry.Severity)
		}
		key := pairKey(entry.DrugA, entry.DrugB)
		if pairs[key] {
			return fmt.Errorf("duplicate interaction entry for pair %s and %s", entry.DrugA, entry.DrugB)
		}
		pairs[key] = true
	}

	// Check coverage: known products, known tiers, valid percentages, and
	// generic alternatives that exist in the catalog
	coverageKeys := make(map[string]bool, len(ds.Coverage))
	for i, record := range ds.Coverage {
		if !productIDs[normalizeID(record.ProductID)] {
			return fmt.Errorf("coverage record %d references unknown product: %s", i, record.ProductID)
		}
		if !record.PlanTier.Valid() {
			return fmt.Errorf("coverage record %d has unknown plan tier: %s", i, record.PlanTier)
		}
		if record.CoveragePercent < 0 || record.CoveragePercent > 100 {
			return fmt.Errorf("coverage record %d has percentage out of range: %.1f", i, record.CoveragePercent)
		}
		if record.GenericAlternative != "" && !productIDs[normalizeID(record.GenericAlternative)] {
			return fmt.Errorf("coverage record %d references unknown generic alternative: %s", i, record.GenericAlternative)
		}
		key := normalizeID(record.ProductID) + "|" + normalizeID(string(record.PlanTier))
		if coverageKeys[key] {
			return fmt.Errorf("duplicate coverage record for %s tier %s", record.ProductID, record.PlanTier)
		}
		coverageKeys[key] = true
	}

	return nil
}

// validateProduct checks a single product record
func (v *DataValidatorImpl) validateProduct(p *entities.ProductRecord) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("empty name")
	}

	if len(p.Name) > 200 {
		return fmt.Errorf("name too long: %d characters", len(p.Name))
	}

	if !p.Category.Valid() {
		return fmt.Errorf("undefined category: %s", p.Category)
	}

	if p.Price < 0 {
		return fmt.Errorf("negative price: %.2f", p.Price)
	}

	if len(p.ActiveIngredients) == 0 {
		return fmt.Errorf("no active ingredients")
	}

	return nil
}

// validateDosageRule checks a single dosage rule
func (v *DataValidatorImpl) validateDosageRule(r *entities.DosageRule) error {
	if r.MinAge < 0 || r.MaxAge < r.MinAge {
		return fmt.Errorf("invalid age range: %d-%d", r.MinAge, r.MaxAge)
	}

	if r.MinWeightKg <= 0 || r.MaxWeightKg < r.MinWeightKg {
		return fmt.Errorf("invalid weight range: %.1f-%.1f", r.MinWeightKg, r.MaxWeightKg)
	}

	perKg := r.DosePerKgMg > 0
	flat := r.FlatDoseMg > 0
	if perKg == flat {
		return fmt.Errorf("exactly one of dose_per_kg_mg and flat_dose_mg must be positive")
	}

	if r.MaxDailyMg <= 0 {
		return fmt.Errorf("max daily dose must be positive, got: %.1f", r.MaxDailyMg)
	}

	if strings.TrimSpace(r.Unit) == "" {
		return fmt.Errorf("empty unit")
	}

	return nil
}

// ReportDataQuality collects non-fatal authoring issues for logging. Unlike
// ValidateDataset, nothing here prevents the dataset from serving; the
// overlapping-rule check in particular only warns, since overlaps are
// reported per request as ambiguous-rule failures.
func (v *DataValidatorImpl) ReportDataQuality(ds *entities.Dataset) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		OverlappingDosageRules:     []string{},
		ProductsWithoutDosageRules: []string{},
		ProductsWithoutCoverage:    []string{},
		InteractionOnlySelfPairs:   []string{},
	}
	if ds == nil {
		return report
	}

	// Check 1: overlapping dosage rule bands per drug
	rulesByDrug := make(map[string][]entities.DosageRule)
	for _, rule := range ds.DosageRules {
		key := normalizeID(rule.DrugID)
		rulesByDrug[key] = append(rulesByDrug[key], rule)
	}
	for drug, rules := range rulesByDrug {
		for i := 0; i < len(rules); i++ {
			for j := i + 1; j < len(rules); j++ {
				if rangesOverlap(rules[i], rules[j]) {
					report.OverlappingDosageRules = append(report.OverlappingDosageRules,
						fmt.Sprintf("%s: ages %d-%d/%d-%d", drug,
							rules[i].MinAge, rules[i].MaxAge, rules[j].MinAge, rules[j].MaxAge))
				}
			}
		}
	}

	// Check 2 and 3: products lacking dosage rules or coverage records
	covered := make(map[string]bool, len(ds.Coverage))
	for _, record := range ds.Coverage {
		covered[normalizeID(record.ProductID)] = true
	}
	for _, product := range ds.Products {
		id := normalizeID(product.ID)
		if len(rulesByDrug[id]) == 0 {
			report.ProductsWithoutDosageRules = append(report.ProductsWithoutDosageRules, product.ID)
		}
		if !covered[id] {
			report.ProductsWithoutCoverage = append(report.ProductsWithoutCoverage, product.ID)
		}
	}

	// Check 4: entries pairing a drug with itself
	for _, entry := range ds.Interactions {
		if normalizeID(entry.DrugA) == normalizeID(entry.DrugB) {
			report.InteractionOnlySelfPairs = append(report.InteractionOnlySelfPairs, entry.DrugA)
		}
	}

	return report
}

// ValidateQuery validates free-text user input
func (v *DataValidatorImpl) ValidateQuery(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if len(input) > 300 {
		return fmt.Errorf("query too long: maximum 300 characters")
	}

	words := strings.Fields(input)
	if len(words) > 40 {
		return fmt.Errorf("query too complex: maximum 40 words allowed")
	}

	lowerInput := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowerInput, pattern) {
			return fmt.Errorf("query contains potentially dangerous content")
		}
	}

	if !queryRegex.MatchString(input) {
		return fmt.Errorf("query contains invalid characters. Only letters, numbers, spaces and common punctuation are allowed")
	}

	return nil
}

// rangesOverlap reports whether two rules for the same drug share any
// (age, weight) point. Both bands are inclusive.
func rangesOverlap(a, b entities.DosageRule) bool {
	agesOverlap := a.MinAge <= b.MaxAge && b.MinAge <= a.MaxAge
	weightsOverlap := a.MinWeightKg <= b.MaxWeightKg && b.MinWeightKg <= a.MaxWeightKg
	return agesOverlap && weightsOverlap
}

// normalizeID lowercases identifiers so validation agrees with the catalog's
// case-insensitive keying.
func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// pairKey canonicalizes an unordered drug pair for duplicate detection.
func pairKey(drugA, drugB string) string {
	a, b := normalizeID(drugA), normalizeID(drugB)
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
