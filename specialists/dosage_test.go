package specialists

import (
	"errors"
	"testing"
)

func TestCalculatePerKgDose(t *testing.T) {
	calc := NewDosageCalculator(testCatalog())

	// 10 mg/kg at 70 kg is 700 mg, under the 1000 mg daily maximum
	result, err := calc.Calculate("acetaminophen", 35, 70)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.DoseMg != 700 {
		t.Errorf("Expected 700 mg, got %.1f", result.DoseMg)
	}
	if result.Clamped {
		t.Error("Expected dose under the daily maximum to not be clamped")
	}
	if result.Unit != "mg" {
		t.Errorf("Expected unit mg, got %s", result.Unit)
	}
	if result.IntervalHours != 6 {
		t.Errorf("Expected 6 hour interval, got %d", result.IntervalHours)
	}
	if len(result.Caveats) == 0 {
		t.Error("Expected the informational notice caveat on every result")
	}
}

func TestCalculateFlatDose(t *testing.T) {
	calc := NewDosageCalculator(testCatalog())

	result, err := calc.Calculate("ibuprofen", 40, 80)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.DoseMg != 400 {
		t.Errorf("Expected flat 400 mg, got %.1f", result.DoseMg)
	}
}

func TestCalculateClampsToMaxDaily(t *testing.T) {
	calc := NewDosageCalculator(testCatalog())

	// 1 mg/kg at 90 kg is 90 mg against a 40 mg daily maximum
	result, err := calc.Calculate("lisinopril", 50, 90)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !result.Clamped {
		t.Fatal("Expected dose to be clamped")
	}
	if result.DoseMg != 40 {
		t.Errorf("Expected dose clamped to 40 mg, got %.1f", result.DoseMg)
	}
	if len(result.Caveats) < 2 {
		t.Errorf("Expected a clamp caveat in addition to the notice, got %v", result.Caveats)
	}
}

func TestCalculateNoApplicableRule(t *testing.T) {
	calc := NewDosageCalculator(testCatalog())

	// Weight outside every authored band for acetaminophen
	_, err := calc.Calculate("acetaminophen", 35, 150)
	if !errors.Is(err, ErrNoApplicableRule) {
		t.Errorf("Expected ErrNoApplicableRule, got: %v", err)
	}

	// Age outside every authored band
	_, err = calc.Calculate("acetaminophen", 10, 70)
	if !errors.Is(err, ErrNoApplicableRule) {
		t.Errorf("Expected ErrNoApplicableRule for age outside bands, got: %v", err)
	}
}

func TestCalculateAmbiguousRule(t *testing.T) {
	calc := NewDosageCalculator(testCatalog())

	// Two warfarin bands contain age 70 at 80 kg; the calculator must refuse
	// rather than pick one
	_, err := calc.Calculate("warfarin", 70, 80)
	if !errors.Is(err, ErrAmbiguousRule) {
		t.Errorf("Expected ErrAmbiguousRule, got: %v", err)
	}

	// Below 60 only one band matches
	result, err := calc.Calculate("warfarin", 45, 80)
	if err != nil {
		t.Fatalf("Expected no error outside the overlap, got: %v", err)
	}
	if result.DoseMg != 5 {
		t.Errorf("Expected 5 mg, got %.1f", result.DoseMg)
	}
}

func TestCalculateUnknownDrug(t *testing.T) {
	calc := NewDosageCalculator(testCatalog())

	_, err := calc.Calculate("ghost", 35, 70)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestCalculateInvalidInput(t *testing.T) {
	calc := NewDosageCalculator(testCatalog())

	testCases := []struct {
		name   string
		age    int
		weight float64
	}{
		{"Negative age", -1, 70},
		{"Zero weight", 35, 0},
		{"Negative weight", 35, -10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.Calculate("acetaminophen", tc.age, tc.weight)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got: %v", err)
			}
		})
	}
}

func TestCalculateBandBoundsAreInclusive(t *testing.T) {
	calc := NewDosageCalculator(testCatalog())

	// acetaminophen band: ages 18-120, weight 50-100
	for _, edge := range []struct {
		age    int
		weight float64
	}{
		{18, 50},
		{120, 100},
	} {
		if _, err := calc.Calculate("acetaminophen", edge.age, edge.weight); err != nil {
			t.Errorf("Expected boundary age %d weight %.0f to match, got: %v", edge.age, edge.weight, err)
		}
	}
}
