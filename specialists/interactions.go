package specialists

import (
	"fmt"
	"sort"

	"github.com/arvele/medassist-api/catalog"
	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
)

// noKnownInteraction is reported for pairs without a table entry, so the
// caller sees what was checked rather than a false sense of completeness.
const noKnownInteraction = "no known interaction on record"

// Finding is one pairwise interaction check outcome.
type Finding struct {
	DrugA       string            `json:"drug_a"`
	DrugB       string            `json:"drug_b"`
	Severity    entities.Severity `json:"severity"`
	Description string            `json:"description"`
	Known       bool              `json:"known"`
}

// InteractionChecker evaluates a set of drugs against the pairwise
// interaction table.
type InteractionChecker struct {
	catalog interfaces.CatalogStore
}

// NewInteractionChecker creates an interaction checker over the given catalog
func NewInteractionChecker(catalogStore interfaces.CatalogStore) *InteractionChecker {
	return &InteractionChecker{catalog: catalogStore}
}

// Check evaluates every unordered pair drawn from the input set and returns
// findings ordered most dangerous first. Pairs are O(n²) for n drugs, which
// is acceptable for user-entered medication lists.
func (c *InteractionChecker) Check(drugIDs []string) ([]Finding, error) {
	unique := dedupe(drugIDs)
	if len(unique) < 2 {
		return nil, fmt.Errorf("%w: at least 2 drugs are required, got %d", ErrInvalidInput, len(unique))
	}

	for _, id := range unique {
		if _, exists := c.catalog.Lookup(id); !exists {
			return nil, fmt.Errorf("%w: unknown drug %q", ErrNotFound, id)
		}
	}

	findings := make([]Finding, 0, len(unique)*(len(unique)-1)/2)
	for i := 0; i < len(unique); i++ {
		for j := i + 1; j < len(unique); j++ {
			entry, known := c.catalog.Interaction(unique[i], unique[j])
			if known {
				findings = append(findings, Finding{
					DrugA:       unique[i],
					DrugB:       unique[j],
					Severity:    entry.Severity,
					Description: entry.Description,
					Known:       true,
				})
				continue
			}
			// Explicit absence, not silence
			findings = append(findings, Finding{
				DrugA:       unique[i],
				DrugB:       unique[j],
				Severity:    entities.SeverityNone,
				Description: noKnownInteraction,
				Known:       false,
			})
		}
	}

	// Most dangerous finding first; ties broken by pair names for
	// determinism
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity.Rank() != findings[j].Severity.Rank() {
			return findings[i].Severity.Rank() > findings[j].Severity.Rank()
		}
		if findings[i].DrugA != findings[j].DrugA {
			return findings[i].DrugA < findings[j].DrugA
		}
		return findings[i].DrugB < findings[j].DrugB
	})

	return findings, nil
}

// dedupe removes duplicate drug identifiers while preserving first-seen
// order. Identifiers are compared in normalized form.
func dedupe(drugIDs []string) []string {
	seen := make(map[string]bool, len(drugIDs))
	unique := make([]string, 0, len(drugIDs))
	for _, id := range drugIDs {
		key := catalog.Normalize(id)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, id)
	}
	return unique
}
