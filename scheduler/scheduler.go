// Package scheduler provides automated dataset reloading and staleness
// monitoring for the medassist API. It handles cron-based reloads and
// coordinates refresh operations with the catalog container using dependency
// injection.
package scheduler

import (
	"fmt"
	"time"

	"github.com/arvele/medassist-api/interfaces"
	"github.com/arvele/medassist-api/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler handles dataset reloads and staleness monitoring using dependency
// injection
type Scheduler struct {
	catalog   interfaces.CatalogStore
	loader    interfaces.DatasetLoader
	validator interfaces.DataValidator
	scheduler *gocron.Scheduler
	stopCh    chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(catalog interfaces.CatalogStore, loader interfaces.DatasetLoader,
	validator interfaces.DataValidator) *Scheduler {
	return &Scheduler{
		catalog:   catalog,
		loader:    loader,
		validator: validator,
		scheduler: gocron.NewScheduler(time.Local),
		stopCh:    make(chan struct{}),
	}
}

// Start schedules the daily reload and begins staleness monitoring. The
// initial dataset load is the caller's responsibility; a failed scheduled
// reload keeps the previous catalog serving.
func (s *Scheduler) Start() error {
	// Reload once a day, early morning, off the peak hours
	_, err := s.scheduler.Every(1).Days().At("05:30").Do(func() {
		if err := s.ReloadData(); err != nil {
			logging.Error("Scheduled reload failed, keeping previous catalog", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule reloads", "error", err)
		return fmt.Errorf("failed to schedule reloads: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.stopCh)
}

// ReloadData loads, validates and atomically swaps in a fresh dataset.
// Readers never observe a partially replaced catalog.
func (s *Scheduler) ReloadData() error {
	if !s.catalog.BeginReload() {
		logging.Info("Reload already in progress, skipping...")
		return nil
	}
	defer s.catalog.EndReload()

	logging.Info(fmt.Sprintf("Starting catalog reload at: %s", time.Now().Format(time.RFC3339)))
	start := time.Now()

	dataset, err := s.loader.Load()
	if err != nil {
		logging.Error("Failed to load dataset", "error", err)
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	LogDataQuality(s.validator.ReportDataQuality(dataset))

	s.catalog.ReplaceData(dataset)

	logging.Info("Catalog reload completed",
		"products", len(dataset.Products),
		"dosage_rules", len(dataset.DosageRules),
		"interactions", len(dataset.Interactions),
		"coverage", len(dataset.Coverage),
		"duration", time.Since(start).String(),
	)

	return nil
}

// LogDataQuality logs every non-fatal authoring issue the validator found.
// These keep the dataset servable but deserve an operator's attention.
func LogDataQuality(report *interfaces.DataQualityReport) {
	if report == nil {
		return
	}

	if len(report.OverlappingDosageRules) > 0 {
		logging.Warn("Overlapping dosage rule bands detected",
			"count", len(report.OverlappingDosageRules),
			"rules", report.OverlappingDosageRules,
		)
	}

	if len(report.InteractionOnlySelfPairs) > 0 {
		logging.Warn("Interaction entries pairing a drug with itself",
			"count", len(report.InteractionOnlySelfPairs),
			"drugs", report.InteractionOnlySelfPairs,
		)
	}

	if len(report.ProductsWithoutDosageRules) > 0 {
		logging.Info("Products without dosage rules",
			"count", len(report.ProductsWithoutDosageRules),
			"products", report.ProductsWithoutDosageRules,
		)
	}

	if len(report.ProductsWithoutCoverage) > 0 {
		logging.Info("Products without coverage records",
			"count", len(report.ProductsWithoutCoverage),
			"products", report.ProductsWithoutCoverage,
		)
	}
}

// startStalenessMonitoring periodically checks the catalog age and warns when
// the data has not been refreshed in over 24 hours
func (s *Scheduler) startStalenessMonitoring() {
	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				age := time.Since(s.catalog.LastLoaded())
				if age > 24*time.Hour {
					logging.Warn("Catalog data is stale",
						"age_hours", int(age.Hours()),
						"last_loaded", s.catalog.LastLoaded().Format(time.RFC3339),
					)
				}
			case <-s.stopCh:
				return
			}
		}
	}()
}
