// Package catalog provides thread-safe storage for the product catalog and
// rule tables. The Container holds all collections behind atomic pointers so
// reads never block and scheduled reloads swap the whole dataset at once.
package catalog

import (
	"sync/atomic"
	"time"

	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
	"github.com/arvele/medassist-api/logging"
)

// Compile-time check to ensure Container implements CatalogStore
var _ interfaces.CatalogStore = (*Container)(nil)

// Container holds all the data with atomic pointers for zero-downtime reloads
type Container struct {
	products     atomic.Value // []entities.ProductRecord
	productsMap  atomic.Value // map[string]entities.ProductRecord
	dosageRules  atomic.Value // map[string][]entities.DosageRule
	interactions atomic.Value // map[string]entities.InteractionEntry, keyed by PairKey
	coverage     atomic.Value // map[string]entities.CoverageRecord, keyed by coverageKey
	nameIndex    atomic.Value // map[string]string, normalized name/ingredient -> product ID
	lastLoaded   atomic.Value // time.Time
	reloading    atomic.Bool
}

// NewContainer creates a new Container with empty data
func NewContainer() *Container {
	c := &Container{}
	c.products.Store(make([]entities.ProductRecord, 0))
	c.productsMap.Store(make(map[string]entities.ProductRecord))
	c.dosageRules.Store(make(map[string][]entities.DosageRule))
	c.interactions.Store(make(map[string]entities.InteractionEntry))
	c.coverage.Store(make(map[string]entities.CoverageRecord))
	c.nameIndex.Store(make(map[string]string))
	c.lastLoaded.Store(time.Time{})
	return c
}

// Thread-safe getters with type check

// All returns every product record in load order.
func (c *Container) All() []entities.ProductRecord {
	if v := c.products.Load(); v != nil {
		if products, ok := v.([]entities.ProductRecord); ok {
			return products
		}
	}

	logging.Warn("Product list is empty or invalid")
	return []entities.ProductRecord{}
}

// Lookup returns the product with the given identifier.
func (c *Container) Lookup(id string) (entities.ProductRecord, bool) {
	if v := c.productsMap.Load(); v != nil {
		if productsMap, ok := v.(map[string]entities.ProductRecord); ok {
			product, exists := productsMap[Normalize(id)]
			return product, exists
		}
	}

	logging.Warn("Products map is empty or invalid")
	return entities.ProductRecord{}, false
}

// DosageRules returns the dosage rules authored for a drug, or nil.
func (c *Container) DosageRules(drugID string) []entities.DosageRule {
	if v := c.dosageRules.Load(); v != nil {
		if rules, ok := v.(map[string][]entities.DosageRule); ok {
			return rules[Normalize(drugID)]
		}
	}

	logging.Warn("Dosage rules map is empty or invalid")
	return nil
}

// Interaction returns the entry for an unordered drug pair. The lookup is
// symmetric: (a, b) and (b, a) resolve to the same entry.
func (c *Container) Interaction(drugA, drugB string) (entities.InteractionEntry, bool) {
	if v := c.interactions.Load(); v != nil {
		if interactions, ok := v.(map[string]entities.InteractionEntry); ok {
			entry, exists := interactions[PairKey(drugA, drugB)]
			return entry, exists
		}
	}

	logging.Warn("Interactions map is empty or invalid")
	return entities.InteractionEntry{}, false
}

// Coverage returns the coverage record of a product under a plan tier.
func (c *Container) Coverage(productID string, tier entities.PlanTier) (entities.CoverageRecord, bool) {
	if v := c.coverage.Load(); v != nil {
		if coverage, ok := v.(map[string]entities.CoverageRecord); ok {
			record, exists := coverage[coverageKey(productID, string(tier))]
			return record, exists
		}
	}

	logging.Warn("Coverage map is empty or invalid")
	return entities.CoverageRecord{}, false
}

// FindByName resolves a product by normalized name, brand name or active
// ingredient.
func (c *Container) FindByName(name string) (entities.ProductRecord, bool) {
	index := c.KnownDrugTokens()
	id, exists := index[Normalize(name)]
	if !exists {
		return entities.ProductRecord{}, false
	}
	return c.Lookup(id)
}

// KnownDrugTokens returns the normalized token index (name, brand name and
// ingredient spellings mapped to product IDs) used by search and intent
// classification.
func (c *Container) KnownDrugTokens() map[string]string {
	if v := c.nameIndex.Load(); v != nil {
		if index, ok := v.(map[string]string); ok {
			return index
		}
	}

	logging.Warn("Name index is empty or invalid")
	return make(map[string]string)
}

// LastLoaded returns the timestamp of the last dataset load.
func (c *Container) LastLoaded() time.Time {
	if v := c.lastLoaded.Load(); v != nil {
		if lastLoaded, ok := v.(time.Time); ok {
			return lastLoaded
		}
	}

	logging.Warn("Could not get the last loaded value")
	return time.Time{}
}

// IsReloading returns true if a dataset reload is currently in progress
func (c *Container) IsReloading() bool {
	return c.reloading.Load()
}

// ReplaceData atomically replaces all collections with the contents of a
// validated dataset. Readers observe either the old tables or the new ones,
// never a mix.
func (c *Container) ReplaceData(ds *entities.Dataset) {
	productsMap := make(map[string]entities.ProductRecord, len(ds.Products))
	nameIndex := make(map[string]string)
	for _, product := range ds.Products {
		id := Normalize(product.ID)
		productsMap[id] = product
		nameIndex[Normalize(product.Name)] = id
		if product.BrandName != "" {
			nameIndex[Normalize(product.BrandName)] = id
		}
		for _, ingredient := range product.ActiveIngredients {
			nameIndex[Normalize(ingredient)] = id
		}
	}

	dosageRules := make(map[string][]entities.DosageRule)
	for _, rule := range ds.DosageRules {
		key := Normalize(rule.DrugID)
		dosageRules[key] = append(dosageRules[key], rule)
	}

	interactions := make(map[string]entities.InteractionEntry, len(ds.Interactions))
	for _, entry := range ds.Interactions {
		interactions[PairKey(entry.DrugA, entry.DrugB)] = entry
	}

	coverage := make(map[string]entities.CoverageRecord, len(ds.Coverage))
	for _, record := range ds.Coverage {
		coverage[coverageKey(record.ProductID, string(record.PlanTier))] = record
	}

	// Atomic swap (zero downtime replacement)
	c.products.Store(ds.Products)
	c.productsMap.Store(productsMap)
	c.dosageRules.Store(dosageRules)
	c.interactions.Store(interactions)
	c.coverage.Store(coverage)
	c.nameIndex.Store(nameIndex)
	c.lastLoaded.Store(time.Now())
}

// BeginReload marks the start of a dataset reload operation.
// Returns true if the reload can proceed, false if another is in progress.
func (c *Container) BeginReload() bool {
	return c.reloading.CompareAndSwap(false, true)
}

// EndReload marks the end of a dataset reload operation
func (c *Container) EndReload() {
	c.reloading.Store(false)
}
