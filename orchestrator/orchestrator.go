// Package orchestrator implements the query pipeline of the decision-support
// core: intent classification, specialist dispatch in fixed risk-first
// order, result merging and mandatory disclaimer handling.
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/arvele/medassist-api/catalog/entities"
	"github.com/arvele/medassist-api/interfaces"
	"github.com/arvele/medassist-api/logging"
	"github.com/arvele/medassist-api/metrics"
	"github.com/arvele/medassist-api/specialists"
	"github.com/google/uuid"
)

// Disclaimer is appended exactly once to every response, success or partial
// failure. A response is never returned without it.
const Disclaimer = "This information is for general reference only and is not medical advice, " +
	"a diagnosis, or a prescription. Always consult a qualified healthcare provider " +
	"before starting, stopping, or combining any medication."

// Pipeline states. Transitions are strictly in this order for every query.
type State string

const (
	StateReceived   State = "received"
	StateClassified State = "classified"
	StateDispatched State = "dispatched"
	StateMerged     State = "merged"
	StateDisclaimed State = "disclaimed"
	StateDone       State = "done"
)

// PatientContext carries the optional patient facts some specialists need.
type PatientContext struct {
	Age      *int              `json:"age,omitempty"`
	WeightKg *float64          `json:"weight_kg,omitempty"`
	PlanTier entities.PlanTier `json:"plan_tier,omitempty"`
}

// AggregatedResponse is the merged outcome of one query. Results are ordered
// by the fixed dispatch order, most safety-critical first.
type AggregatedResponse struct {
	ID         string               `json:"id"`
	Query      string               `json:"query"`
	Results    []specialists.Result `json:"results"`
	Disclaimer string               `json:"disclaimer"`
	Rendered   string               `json:"rendered,omitempty"`
}

// Orchestrator classifies incoming queries, dispatches the selected
// specialists and merges their results. It holds no per-request state;
// independent queries may run concurrently.
type Orchestrator struct {
	classifier   *Classifier
	interactions *specialists.InteractionChecker
	dosage       *specialists.DosageCalculator
	coverage     *specialists.CoverageAdvisor
	search       *specialists.SearchEngine
}

// New creates an orchestrator with all four specialists over one catalog
func New(catalogStore interfaces.CatalogStore) *Orchestrator {
	return &Orchestrator{
		classifier:   NewClassifier(catalogStore),
		interactions: specialists.NewInteractionChecker(catalogStore),
		dosage:       specialists.NewDosageCalculator(catalogStore),
		coverage:     specialists.NewCoverageAdvisor(catalogStore),
		search:       specialists.NewSearchEngine(catalogStore),
	}
}

// Handle runs the full pipeline for one query. Specialist failures are
// converted to caveats on that specialist's result and never abort the
// pipeline; partial results from other specialists are always returned.
func (o *Orchestrator) Handle(ctx context.Context, queryText string, patient *PatientContext) AggregatedResponse {
	response := AggregatedResponse{
		ID:    uuid.New().String(),
		Query: queryText,
	}

	state := StateReceived
	query := strings.TrimSpace(queryText)

	cls := o.classifier.Classify(query)
	state = StateClassified
	logging.Debug("Query classified",
		"response_id", response.ID,
		"state", string(state),
		"drugs", cls.Drugs,
		"safety", cls.Safety,
		"dosage", cls.Dosage,
		"coverage", cls.Coverage,
		"search", cls.Search,
	)

	// Fixed dispatch order: higher-risk information is computed and
	// surfaced before lower-stakes informational content, independent of
	// classification order.
	if cls.Safety {
		response.Results = append(response.Results, o.runInteractions(cls))
	}
	if cls.Dosage {
		response.Results = append(response.Results, o.runDosage(cls, patient))
	}
	if cls.Coverage {
		response.Results = append(response.Results, o.runCoverage(cls, patient))
	}
	if cls.Search {
		response.Results = append(response.Results, o.runSearch(query))
	}
	state = StateDispatched

	// Merging is the concatenation above; every selected specialist
	// contributed an entry, found something or not.
	state = StateMerged

	response.Disclaimer = Disclaimer
	state = StateDisclaimed

	state = StateDone
	logging.Info("Query handled",
		"response_id", response.ID,
		"state", string(state),
		"results", len(response.Results),
	)

	return response
}

// runInteractions invokes the interaction checker for the recognized drugs
func (o *Orchestrator) runInteractions(cls Classification) specialists.Result {
	findings, err := o.interactions.Check(cls.Drugs)
	if err != nil {
		return failedResult(specialists.TagInteractions, err)
	}

	result := specialists.Result{
		Specialist: specialists.TagInteractions,
		Payload:    findings,
		Match:      specialists.MatchExact,
	}
	known := 0
	for _, finding := range findings {
		if finding.Known {
			known++
		}
	}
	if known == 0 {
		result.Match = specialists.MatchNone
		result.Caveats = append(result.Caveats, "no interactions on record for the drugs checked")
		metrics.SpecialistInvocations.WithLabelValues(string(specialists.TagInteractions), "empty").Inc()
		return result
	}

	metrics.SpecialistInvocations.WithLabelValues(string(specialists.TagInteractions), "ok").Inc()
	return result
}

// runDosage invokes the dosage calculator for the first recognized drug
func (o *Orchestrator) runDosage(cls Classification, patient *PatientContext) specialists.Result {
	if patient == nil || patient.Age == nil || patient.WeightKg == nil {
		err := fmt.Errorf("%w: patient age and weight are required for dosage calculation",
			specialists.ErrInvalidInput)
		return failedResult(specialists.TagDosage, err)
	}

	dosage, err := o.dosage.Calculate(cls.Drugs[0], *patient.Age, *patient.WeightKg)
	if err != nil {
		return failedResult(specialists.TagDosage, err)
	}

	metrics.SpecialistInvocations.WithLabelValues(string(specialists.TagDosage), "ok").Inc()
	return specialists.Result{
		Specialist: specialists.TagDosage,
		Payload:    dosage,
		Match:      specialists.MatchExact,
		Caveats:    dosage.Caveats,
	}
}

// runCoverage invokes the coverage advisor for the first recognized drug
func (o *Orchestrator) runCoverage(cls Classification, patient *PatientContext) specialists.Result {
	if len(cls.Drugs) == 0 {
		err := fmt.Errorf("%w: no product recognized in the query for a coverage lookup",
			specialists.ErrInvalidInput)
		return failedResult(specialists.TagCoverage, err)
	}

	tier := entities.TierStandard
	var caveats []string
	if patient != nil && patient.PlanTier != "" {
		tier = patient.PlanTier
	} else {
		caveats = append(caveats, "no plan tier provided; assuming the standard tier")
	}

	coverage, err := o.coverage.Advise(cls.Drugs[0], tier)
	if err != nil {
		return failedResult(specialists.TagCoverage, err)
	}

	metrics.SpecialistInvocations.WithLabelValues(string(specialists.TagCoverage), "ok").Inc()
	return specialists.Result{
		Specialist: specialists.TagCoverage,
		Payload:    coverage,
		Match:      specialists.MatchExact,
		Caveats:    append(caveats, coverage.Caveats...),
	}
}

// runSearch invokes the search engine as the default and fallback specialist
func (o *Orchestrator) runSearch(query string) specialists.Result {
	if query == "" {
		err := fmt.Errorf("%w: empty query", specialists.ErrInvalidInput)
		return failedResult(specialists.TagSearch, err)
	}

	matches := o.search.Search(query, specialists.Filters{})
	result := specialists.Result{
		Specialist: specialists.TagSearch,
		Payload:    matches,
		Match:      specialists.MatchPartial,
	}

	if len(matches) == 0 {
		result.Match = specialists.MatchNone
		result.Caveats = append(result.Caveats, "no matching products found")
		metrics.SpecialistInvocations.WithLabelValues(string(specialists.TagSearch), "empty").Inc()
		return result
	}

	if matches[0].Score == specialists.ScoreExactName {
		result.Match = specialists.MatchExact
	}
	metrics.SpecialistInvocations.WithLabelValues(string(specialists.TagSearch), "ok").Inc()
	return result
}

// failedResult converts a specialist error into an explicit no-result entry
// carrying the failure as a caveat, so the pipeline never aborts.
func failedResult(tag specialists.Tag, err error) specialists.Result {
	metrics.SpecialistInvocations.WithLabelValues(string(tag), "error").Inc()
	logging.Warn("Specialist failed", "specialist", string(tag), "error", err)
	return specialists.Result{
		Specialist: tag,
		Match:      specialists.MatchNone,
		Caveats:    []string{err.Error()},
		Err:        err.Error(),
	}
}
