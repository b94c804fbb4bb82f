package validation

import (
	"strings"
	"testing"

	"github.com/arvele/medassist-api/catalog/entities"
)

func validDataset() *entities.Dataset {
	return &entities.Dataset{
		Products: []entities.ProductRecord{
			{
				ID:                "aspirin",
				Name:              "Aspirin",
				Category:          entities.CategoryPainRelief,
				ActiveIngredients: []string{"acetylsalicylic acid"},
				Price:             5.0,
			},
			{
				ID:                "warfarin",
				Name:              "Warfarin",
				Category:          entities.CategoryChronicCare,
				ActiveIngredients: []string{"warfarin sodium"},
				Price:             12.0,
			},
		},
		DosageRules: []entities.DosageRule{
			{
				DrugID: "aspirin", MinAge: 18, MaxAge: 120,
				MinWeightKg: 40, MaxWeightKg: 150,
				FlatDoseMg: 500, MaxDailyMg: 3000, Unit: "mg",
			},
		},
		Interactions: []entities.InteractionEntry{
			{
				DrugA: "aspirin", DrugB: "warfarin",
				Severity:    entities.SeveritySevere,
				Description: "Increased bleeding risk",
			},
		},
		Coverage: []entities.CoverageRecord{
			{ProductID: "aspirin", PlanTier: entities.TierStandard, CoveragePercent: 50},
		},
	}
}

func TestNewDataValidator(t *testing.T) {
	validator := NewDataValidator()

	if validator == nil {
		t.Fatal("NewDataValidator returned nil")
	}

	if _, ok := validator.(*DataValidatorImpl); !ok {
		t.Error("NewDataValidator should return *DataValidatorImpl")
	}
}

func TestValidateDataset_Valid(t *testing.T) {
	validator := NewDataValidator()

	if err := validator.ValidateDataset(validDataset()); err != nil {
		t.Errorf("Expected no error for valid dataset, got: %v", err)
	}
}

func TestValidateDataset_Nil(t *testing.T) {
	validator := NewDataValidator()

	if err := validator.ValidateDataset(nil); err == nil {
		t.Error("Expected error for nil dataset")
	}
}

func TestValidateDataset_Empty(t *testing.T) {
	validator := NewDataValidator()

	if err := validator.ValidateDataset(&entities.Dataset{}); err == nil {
		t.Error("Expected error for dataset without products")
	}
}

func TestValidateDataset_DuplicateProductID(t *testing.T) {
	validator := NewDataValidator()
	ds := validDataset()
	ds.Products = append(ds.Products, entities.ProductRecord{
		ID:                "ASPIRIN", // same identifier, different case
		Name:              "Aspirin Forte",
		Category:          entities.CategoryPainRelief,
		ActiveIngredients: []string{"acetylsalicylic acid"},
	})

	err := validator.ValidateDataset(ds)
	if err == nil {
		t.Fatal("Expected error for case-insensitive duplicate product identifier")
	}
	if !strings.Contains(err.Error(), "duplicate product identifier") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidateDataset_InvalidProducts(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*entities.ProductRecord)
	}{
		{"Empty name", func(p *entities.ProductRecord) { p.Name = "  " }},
		{"Name too long", func(p *entities.ProductRecord) { p.Name = strings.Repeat("a", 201) }},
		{"Undefined category", func(p *entities.ProductRecord) { p.Category = "homeopathy" }},
		{"Negative price", func(p *entities.ProductRecord) { p.Price = -1 }},
		{"No active ingredients", func(p *entities.ProductRecord) { p.ActiveIngredients = nil }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			validator := NewDataValidator()
			ds := validDataset()
			tc.mutate(&ds.Products[0])

			if err := validator.ValidateDataset(ds); err == nil {
				t.Error("Expected error for invalid product")
			}
		})
	}
}

func TestValidateDataset_InvalidDosageRules(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*entities.DosageRule)
	}{
		{"Unknown drug", func(r *entities.DosageRule) { r.DrugID = "ghost" }},
		{"Inverted age range", func(r *entities.DosageRule) { r.MinAge = 65; r.MaxAge = 18 }},
		{"Non-positive weight band", func(r *entities.DosageRule) { r.MinWeightKg = 0 }},
		{"Both dose expressions set", func(r *entities.DosageRule) { r.DosePerKgMg = 10 }},
		{"Neither dose expression set", func(r *entities.DosageRule) { r.FlatDoseMg = 0 }},
		{"Non-positive max daily dose", func(r *entities.DosageRule) { r.MaxDailyMg = 0 }},
		{"Empty unit", func(r *entities.DosageRule) { r.Unit = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			validator := NewDataValidator()
			ds := validDataset()
			tc.mutate(&ds.DosageRules[0])

			if err := validator.ValidateDataset(ds); err == nil {
				t.Error("Expected error for invalid dosage rule")
			}
		})
	}
}

func TestValidateDataset_DuplicateInteractionPair(t *testing.T) {
	validator := NewDataValidator()
	ds := validDataset()
	// Same unordered pair, reversed
	ds.Interactions = append(ds.Interactions, entities.InteractionEntry{
		DrugA: "warfarin", DrugB: "aspirin",
		Severity: entities.SeverityMild, Description: "duplicate",
	})

	if err := validator.ValidateDataset(ds); err == nil {
		t.Error("Expected error for duplicate unordered interaction pair")
	}
}

func TestValidateDataset_InvalidCoverage(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*entities.CoverageRecord)
	}{
		{"Unknown product", func(r *entities.CoverageRecord) { r.ProductID = "ghost" }},
		{"Unknown tier", func(r *entities.CoverageRecord) { r.PlanTier = "platinum" }},
		{"Percent above 100", func(r *entities.CoverageRecord) { r.CoveragePercent = 101 }},
		{"Negative percent", func(r *entities.CoverageRecord) { r.CoveragePercent = -5 }},
		{"Unknown generic alternative", func(r *entities.CoverageRecord) { r.GenericAlternative = "ghost" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			validator := NewDataValidator()
			ds := validDataset()
			tc.mutate(&ds.Coverage[0])

			if err := validator.ValidateDataset(ds); err == nil {
				t.Error("Expected error for invalid coverage record")
			}
		})
	}
}

func TestReportDataQuality(t *testing.T) {
	validator := NewDataValidator()
	ds := validDataset()

	// Overlapping band for aspirin and a self-pair interaction are non-fatal
	ds.DosageRules = append(ds.DosageRules, entities.DosageRule{
		DrugID: "aspirin", MinAge: 60, MaxAge: 120,
		MinWeightKg: 40, MaxWeightKg: 150,
		FlatDoseMg: 250, MaxDailyMg: 1500, Unit: "mg",
	})
	ds.Interactions = append(ds.Interactions, entities.InteractionEntry{
		DrugA: "warfarin", DrugB: "warfarin",
		Severity: entities.SeverityMild, Description: "self pair",
	})

	report := validator.ReportDataQuality(ds)

	if len(report.OverlappingDosageRules) != 1 {
		t.Errorf("Expected 1 overlapping rule pair, got %d", len(report.OverlappingDosageRules))
	}
	if len(report.InteractionOnlySelfPairs) != 1 {
		t.Errorf("Expected 1 self pair, got %d", len(report.InteractionOnlySelfPairs))
	}
	// warfarin has no dosage rules and no coverage
	if len(report.ProductsWithoutDosageRules) != 1 || report.ProductsWithoutDosageRules[0] != "warfarin" {
		t.Errorf("Expected warfarin without dosage rules, got %v", report.ProductsWithoutDosageRules)
	}
	if len(report.ProductsWithoutCoverage) != 1 || report.ProductsWithoutCoverage[0] != "warfarin" {
		t.Errorf("Expected warfarin without coverage, got %v", report.ProductsWithoutCoverage)
	}
}

func TestReportDataQuality_NonOverlappingBands(t *testing.T) {
	validator := NewDataValidator()
	ds := validDataset()

	// Adjacent but disjoint age bands should not be reported
	ds.DosageRules = append(ds.DosageRules, entities.DosageRule{
		DrugID: "aspirin", MinAge: 12, MaxAge: 17,
		MinWeightKg: 30, MaxWeightKg: 80,
		DosePerKgMg: 7, MaxDailyMg: 1000, Unit: "mg",
	})

	report := validator.ReportDataQuality(ds)
	if len(report.OverlappingDosageRules) != 0 {
		t.Errorf("Expected no overlaps for disjoint age bands, got %v", report.OverlappingDosageRules)
	}
}

func TestValidateQuery_Valid(t *testing.T) {
	validator := NewDataValidator()

	validQueries := []string{
		"can I take aspirin with warfarin?",
		"paracétamol dosage",
		"cheap pain relief under 10",
	}

	for _, query := range validQueries {
		if err := validator.ValidateQuery(query); err != nil {
			t.Errorf("Expected no error for query %q, got: %v", query, err)
		}
	}
}

func TestValidateQuery_Invalid(t *testing.T) {
	validator := NewDataValidator()

	testCases := []struct {
		name  string
		query string
	}{
		{"Empty", ""},
		{"Blank", "   "},
		{"Too long", strings.Repeat("a", 301)},
		{"Too many words", strings.Repeat("word ", 41)},
		{"Script injection", "<script>alert(1)</script>"},
		{"SQL injection", "aspirin'; drop table products"},
		{"Path traversal", "../etc/passwd"},
		{"Invalid characters", "aspirin; rm -rf"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := validator.ValidateQuery(tc.query); err == nil {
				t.Errorf("Expected error for query %q", tc.query)
			}
		})
	}
}
