package orchestrator

import (
	"github.com/arvele/medassist-api/catalog"
	"github.com/arvele/medassist-api/interfaces"
)

// Intent keyword tables. Classification is deliberately rule-based: the
// external language model is a presentation collaborator, never part of
// routing.
var (
	dosageKeywords = map[string]bool{
		"dose": true, "dosage": true, "dosing": true, "doses": true,
		"mg": true, "milligrams": true,
	}
	safetyKeywords = map[string]bool{
		"interaction": true, "interactions": true, "interact": true,
		"safe": true, "safety": true, "together": true, "combine": true,
		"combined": true, "mixing": true, "mix": true,
	}
	coverageKeywords = map[string]bool{
		"insurance": true, "coverage": true, "covered": true, "cover": true,
		"cost": true, "costs": true, "copay": true, "price": true,
		"cheaper": true, "afford": true, "plan": true, "tier": true,
	}
)

// Classification is the outcome of intent classification: which specialists
// fire, and the catalog products recognized in the query in order of
// appearance.
type Classification struct {
	Drugs    []string // resolved product IDs, first mention first
	Safety   bool
	Dosage   bool
	Coverage bool
	Search   bool
}

// Classifier maps free-text queries to specialist subsets using keyword
// rules over normalized tokens and the catalog's drug name index.
type Classifier struct {
	catalog interfaces.CatalogStore
}

// NewClassifier creates a classifier over the given catalog
func NewClassifier(catalogStore interfaces.CatalogStore) *Classifier {
	return &Classifier{catalog: catalogStore}
}

// Classify applies the routing rules:
//   - two or more recognized drug names fire the interaction checker
//   - a recognized drug plus a dose keyword fires the dosage calculator
//   - insurance/coverage/cost keywords fire the coverage advisor
//   - the search engine fires when nothing else did, so no query is ever
//     dropped silently
func (c *Classifier) Classify(query string) Classification {
	tokens := catalog.Tokenize(query)
	index := c.catalog.KnownDrugTokens()

	var cls Classification
	seen := make(map[string]bool)
	for _, token := range tokens {
		if id, known := index[token]; known && !seen[id] {
			seen[id] = true
			cls.Drugs = append(cls.Drugs, id)
		}
	}

	var dosageWord, safetyWord, coverageWord bool
	for _, token := range tokens {
		dosageWord = dosageWord || dosageKeywords[token]
		safetyWord = safetyWord || safetyKeywords[token]
		coverageWord = coverageWord || coverageKeywords[token]
	}

	// An explicit safety question with a single recognized drug still
	// routes to the checker; its invalid-input failure becomes a caveat,
	// keeping the trace auditable.
	cls.Safety = len(cls.Drugs) >= 2 || (safetyWord && len(cls.Drugs) >= 1)
	cls.Dosage = dosageWord && len(cls.Drugs) >= 1
	cls.Coverage = coverageWord

	// Fallback: a query matching no routing rule still gets an answer
	if !cls.Safety && !cls.Dosage && !cls.Coverage {
		cls.Search = true
	}

	return cls
}
