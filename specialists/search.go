package specialists

import (
	"sort"
	"strings"

	"github.com/arvele/medassist-api/catalog"
	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
)

// Relevance scores, highest first: an exact name or brand match beats an
// ingredient match, which beats a partial token match.
const (
	ScoreExactName  = 3
	ScoreIngredient = 2
	ScorePartial    = 1
)

// Filters are hard constraints applied before scoring.
type Filters struct {
	Category entities.Category `json:"category,omitempty"`
	MaxPrice float64           `json:"max_price,omitempty"`
}

// ScoredProduct pairs a catalog record with its relevance score.
type ScoredProduct struct {
	Product entities.ProductRecord `json:"product"`
	Score   int                    `json:"score"`
}

// SearchEngine filters and ranks catalog entries against a text query.
type SearchEngine struct {
	catalog interfaces.CatalogStore
}

// NewSearchEngine creates a search engine over the given catalog
func NewSearchEngine(catalogStore interfaces.CatalogStore) *SearchEngine {
	return &SearchEngine{catalog: catalogStore}
}

// Search returns matching products ordered by descending score, then
// ascending price, then identifier. An empty result is a valid outcome,
// never an error.
func (s *SearchEngine) Search(query string, filters Filters) []ScoredProduct {
	normalized := catalog.Normalize(query)
	tokens := catalog.Tokenize(query)

	results := make([]ScoredProduct, 0)
	if normalized == "" {
		return results
	}

	for _, product := range s.catalog.All() {
		if !s.passesFilters(product, filters) {
			continue
		}
		if score := s.score(product, normalized, tokens); score > 0 {
			results = append(results, ScoredProduct{Product: product, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Product.Price != results[j].Product.Price {
			return results[i].Product.Price < results[j].Product.Price
		}
		return results[i].Product.ID < results[j].Product.ID
	})

	return results
}

// passesFilters applies category and price constraints before any scoring
func (s *SearchEngine) passesFilters(product entities.ProductRecord, filters Filters) bool {
	if filters.Category != "" && product.Category != filters.Category {
		return false
	}
	if filters.MaxPrice > 0 && product.Price > filters.MaxPrice {
		return false
	}
	return true
}

// score grades one product against the normalized query and its tokens.
// The best matching field wins; fields never stack.
func (s *SearchEngine) score(product entities.ProductRecord, normalized string, tokens []string) int {
	name := catalog.Normalize(product.Name)
	brand := catalog.Normalize(product.BrandName)

	if normalized == name || (brand != "" && normalized == brand) {
		return ScoreExactName
	}

	for _, ingredient := range product.ActiveIngredients {
		folded := catalog.Normalize(ingredient)
		if normalized == folded {
			return ScoreIngredient
		}
		for _, token := range tokens {
			if token == folded {
				return ScoreIngredient
			}
		}
	}

	// Partial token match against name, brand, ingredients and category
	haystack := name + " " + brand + " " + catalog.Normalize(string(product.Category))
	for _, ingredient := range product.ActiveIngredients {
		haystack += " " + catalog.Normalize(ingredient)
	}
	for _, token := range tokens {
		if strings.Contains(haystack, token) {
			return ScorePartial
		}
	}

	return 0
}
