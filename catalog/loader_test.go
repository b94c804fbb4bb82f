package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arvele/medassist-api/validation"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write dataset fixture: %v", err)
	}
	return path
}

const validDatasetJSON = `{
	"products": [
		{
			"id": "aspirin",
			"name": "Aspirin",
			"category": "pain-relief",
			"active_ingredients": ["acetylsalicylic acid"],
			"price": 5.0
		},
		{
			"id": "warfarin",
			"name": "Warfarin",
			"category": "chronic-care",
			"active_ingredients": ["warfarin sodium"],
			"price": 12.0,
			"prescription_required": true
		}
	],
	"dosage_rules": [
		{
			"drug_id": "aspirin",
			"min_age": 18, "max_age": 120,
			"min_weight_kg": 40, "max_weight_kg": 150,
			"flat_dose_mg": 500, "max_daily_mg": 3000, "unit": "mg"
		}
	],
	"interactions": [
		{
			"drug_a": "aspirin", "drug_b": "warfarin",
			"severity": "severe",
			"description": "Increased bleeding risk"
		}
	],
	"coverage": [
		{"product_id": "aspirin", "plan_tier": "standard", "coverage_percent": 50}
	]
}`

func TestLoadValidDataset(t *testing.T) {
	path := writeDataset(t, validDatasetJSON)
	loader := NewFileLoader(path, validation.NewDataValidator())

	ds, err := loader.Load()
	if err != nil {
		t.Fatalf("Expected no error for valid dataset, got: %v", err)
	}

	if len(ds.Products) != 2 {
		t.Errorf("Expected 2 products, got %d", len(ds.Products))
	}
	if len(ds.DosageRules) != 1 {
		t.Errorf("Expected 1 dosage rule, got %d", len(ds.DosageRules))
	}
	if len(ds.Interactions) != 1 {
		t.Errorf("Expected 1 interaction, got %d", len(ds.Interactions))
	}
	if len(ds.Coverage) != 1 {
		t.Errorf("Expected 1 coverage record, got %d", len(ds.Coverage))
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewFileLoader(filepath.Join(t.TempDir(), "missing.json"), validation.NewDataValidator())

	_, err := loader.Load()
	if err == nil {
		t.Fatal("Expected error for missing dataset file")
	}

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *LoadError, got %T", err)
	}
	if loadErr.Reason != "cannot read dataset file" {
		t.Errorf("Unexpected reason: %s", loadErr.Reason)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeDataset(t, `{"products": [`)
	loader := NewFileLoader(path, validation.NewDataValidator())

	_, err := loader.Load()
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected *LoadError for malformed JSON, got %T", err)
	}
	if loadErr.Reason != "cannot parse dataset file" {
		t.Errorf("Unexpected reason: %s", loadErr.Reason)
	}
}

func TestLoadIntegrityViolations(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			"Duplicate product identifier",
			`{"products": [
				{"id": "aspirin", "name": "Aspirin", "category": "pain-relief", "active_ingredients": ["asa"], "price": 5},
				{"id": "aspirin", "name": "Aspirin Forte", "category": "pain-relief", "active_ingredients": ["asa"], "price": 8}
			]}`,
		},
		{
			"Undefined category",
			`{"products": [
				{"id": "aspirin", "name": "Aspirin", "category": "homeopathy", "active_ingredients": ["asa"], "price": 5}
			]}`,
		},
		{
			"Dosage rule for unknown drug",
			`{"products": [
				{"id": "aspirin", "name": "Aspirin", "category": "pain-relief", "active_ingredients": ["asa"], "price": 5}
			],
			"dosage_rules": [
				{"drug_id": "ghost", "min_age": 0, "max_age": 10, "min_weight_kg": 5, "max_weight_kg": 30, "flat_dose_mg": 100, "max_daily_mg": 400, "unit": "mg"}
			]}`,
		},
		{
			"Duplicate interaction pair in reversed order",
			`{"products": [
				{"id": "aspirin", "name": "Aspirin", "category": "pain-relief", "active_ingredients": ["asa"], "price": 5},
				{"id": "warfarin", "name": "Warfarin", "category": "chronic-care", "active_ingredients": ["warfarin"], "price": 12}
			],
			"interactions": [
				{"drug_a": "aspirin", "drug_b": "warfarin", "severity": "severe", "description": "bleeding"},
				{"drug_a": "warfarin", "drug_b": "aspirin", "severity": "mild", "description": "duplicate"}
			]}`,
		},
		{
			"Coverage referencing unknown generic alternative",
			`{"products": [
				{"id": "aspirin", "name": "Aspirin", "category": "pain-relief", "active_ingredients": ["asa"], "price": 5}
			],
			"coverage": [
				{"product_id": "aspirin", "plan_tier": "basic", "coverage_percent": 20, "generic_alternative": "ghost"}
			]}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDataset(t, tc.content)
			loader := NewFileLoader(path, validation.NewDataValidator())

			_, err := loader.Load()
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected *LoadError, got %v", err)
			}
			if loadErr.Reason != "dataset integrity violation" {
				t.Errorf("Unexpected reason: %s", loadErr.Reason)
			}
		})
	}
}
