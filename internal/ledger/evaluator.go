package ledger

import (
	"fmt"

	"gocause/domain/belief"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
	"gocause/ports"
)

// EvaluatorConfig holds the evidence and status thresholds.
type EvaluatorConfig struct {
	// SupportThreshold: posterior at or above this marks the hypothesis supported.
	SupportThreshold float64 `json:"support_threshold"`
	// RefuteThreshold: posterior at or below this marks the hypothesis refuted.
	RefuteThreshold float64 `json:"refute_threshold"`
	// StrongEvidenceThreshold classifies evidence strength for reporting.
	StrongEvidenceThreshold float64 `json:"strong_evidence_threshold"`
	// WeakEvidenceThreshold: evidence weaker than this is neutral.
	WeakEvidenceThreshold float64 `json:"weak_evidence_threshold"`
}

// DefaultEvaluatorConfig returns the standard evaluator configuration.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		SupportThreshold:        0.7,
		RefuteThreshold:         0.3,
		StrongEvidenceThreshold: 0.8,
		WeakEvidenceThreshold:   0.3,
	}
}

// EvaluationRecord is one entry in the append-only evaluation history.
type EvaluationRecord struct {
	HypothesisID core.HypothesisID       `json:"hypothesis_id"`
	EvidenceID   core.EvidenceID         `json:"evidence_id"`
	Prior        float64                 `json:"prior"`
	Posterior    *float64                `json:"posterior"`
	EvidenceType hypothesis.EvidenceType `json:"evidence_type"`
	Timestamp    core.Timestamp          `json:"timestamp"`
}

// Evaluator turns experiment outcomes into evidence, updates hypothesis
// beliefs via Bayes' theorem, and verifies results against predictions.
type Evaluator struct {
	config     EvaluatorConfig
	comparator ports.Comparator

	evidence      map[core.EvidenceID]*hypothesis.Evidence
	evidenceOrder []core.EvidenceID
	history       []EvaluationRecord
}

// NewEvaluator creates an evaluator. A nil comparator falls back to the
// word-overlap heuristic.
func NewEvaluator(config EvaluatorConfig, comparator ports.Comparator) *Evaluator {
	if config.SupportThreshold <= 0 {
		config = DefaultEvaluatorConfig()
	}
	if comparator == nil {
		comparator = NewOverlapComparator(DefaultOverlapRatio)
	}
	return &Evaluator{
		config:     config,
		comparator: comparator,
		evidence:   make(map[core.EvidenceID]*hypothesis.Evidence),
	}
}

// EvaluateEvidence classifies an experiment outcome as evidence and marks
// the experiment completed. Evidence below the weak threshold is neutral
// regardless of whether it matched the prediction; otherwise a match
// supports and a mismatch contradicts.
func (e *Evaluator) EvaluateEvidence(exp *hypothesis.Experiment, observation string, matchesPrediction bool, strength float64, data map[string]interface{}) (*hypothesis.Evidence, error) {
	if observation == "" {
		return nil, core.ErrEmptyObservation
	}
	strength = belief.Clamp(strength)

	var evidenceType hypothesis.EvidenceType
	switch {
	case strength < e.config.WeakEvidenceThreshold:
		evidenceType = hypothesis.EvidenceNeutral
	case matchesPrediction:
		evidenceType = hypothesis.EvidenceSupporting
	default:
		evidenceType = hypothesis.EvidenceContradicting
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	ev := &hypothesis.Evidence{
		ID:           core.NewEvidenceID(),
		ExperimentID: exp.ID,
		Type:         evidenceType,
		Description:  observation,
		Data:         data,
		Strength:     strength,
		Timestamp:    core.Now(),
	}

	e.evidence[ev.ID] = ev
	e.evidenceOrder = append(e.evidenceOrder, ev.ID)

	completedAt := core.Now()
	exp.EvidenceIDs = append(exp.EvidenceIDs, ev.ID)
	exp.Status = hypothesis.ExperimentCompleted
	exp.CompletedAt = &completedAt
	exp.Results = map[string]interface{}{
		"observation":        observation,
		"matches_prediction": matchesPrediction,
		"evidence_id":        ev.ID.String(),
	}

	return ev, nil
}

// UpdateBelief applies one piece of evidence to a hypothesis. The update
// starts from the current probability (posterior if present, else prior),
// re-derives the status from the new posterior, and appends an audit
// record to the evaluation history.
func (e *Evaluator) UpdateBelief(h *hypothesis.Hypothesis, ev *hypothesis.Evidence) belief.Belief {
	current := h.Belief.Current()

	updated := belief.New(current).Update(ev.SupportsHypothesis(), ev.Strength)
	h.Belief = updated
	h.UpdatedAt = core.Now()
	e.updateStatus(h)

	e.history = append(e.history, EvaluationRecord{
		HypothesisID: h.ID,
		EvidenceID:   ev.ID,
		Prior:        current,
		Posterior:    updated.Posterior,
		EvidenceType: ev.Type,
		Timestamp:    core.Now(),
	})

	return updated
}

// BatchUpdateBeliefs folds several pieces of evidence into a hypothesis
// in order and returns the final belief.
func (e *Evaluator) BatchUpdateBeliefs(h *hypothesis.Hypothesis, evidenceList []*hypothesis.Evidence) belief.Belief {
	current := h.Belief
	for _, ev := range evidenceList {
		current = e.UpdateBelief(h, ev)
	}
	return current
}

// updateStatus re-derives the hypothesis status from the posterior.
// Status is untouched while no posterior exists.
func (e *Evaluator) updateStatus(h *hypothesis.Hypothesis) {
	if h.Belief.Posterior == nil {
		return
	}

	posterior := *h.Belief.Posterior
	switch {
	case posterior >= e.config.SupportThreshold:
		h.Status = hypothesis.StatusSupported
	case posterior <= e.config.RefuteThreshold:
		h.Status = hypothesis.StatusRefuted
	default:
		h.Status = hypothesis.StatusInconclusive
	}
}

// FormRefinedHypothesis builds a child hypothesis from one whose evidence
// was inconclusive. The parent's posterior becomes the child's prior and
// predictions carry over. The caller registers the result with the
// generator; refinement priors are deliberately not re-clamped.
func (e *Evaluator) FormRefinedHypothesis(original *hypothesis.Hypothesis, ev *hypothesis.Evidence, refinement string) *hypothesis.Hypothesis {
	now := core.Now()
	return &hypothesis.Hypothesis{
		ID:          core.NewHypothesisID(),
		Statement:   refinement,
		Rationale:   fmt.Sprintf("Refined from %s based on evidence %s", original.ID, ev.ID),
		Predictions: append([]string(nil), original.Predictions...),
		Belief:      belief.New(original.Belief.Current()),
		Status:      hypothesis.StatusPending,
		ParentID:    original.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Verdict classifies a verification against the expected/null outcomes.
type Verdict string

const (
	VerdictConfirmed    Verdict = "CONFIRMED"
	VerdictRefuted      Verdict = "REFUTED"
	VerdictAmbiguous    Verdict = "AMBIGUOUS"
	VerdictInconclusive Verdict = "INCONCLUSIVE"
)

// Verification is the result of checking an outcome against predictions.
type Verification struct {
	ExperimentID    core.ExperimentID `json:"experiment_id"`
	ExpectedOutcome string            `json:"expected_outcome"`
	ActualOutcome   string            `json:"actual_outcome"`
	MatchesExpected bool              `json:"matches_expected"`
	MatchesNull     bool              `json:"matches_null"`
	SuccessCriteria string            `json:"success_criteria"`
	Verdict         Verdict           `json:"verdict"`
	Timestamp       core.Timestamp    `json:"timestamp"`
}

// VerifyResults compares an actual outcome against an experiment's
// expected and null outcomes through the configured comparator and maps
// the 2x2 match matrix onto a verdict.
func (e *Evaluator) VerifyResults(exp *hypothesis.Experiment, actualOutcome string) *Verification {
	matchesExpected := e.comparator.Matches(actualOutcome, exp.ExpectedOutcome)
	matchesNull := e.comparator.Matches(actualOutcome, exp.NullOutcome)

	return &Verification{
		ExperimentID:    exp.ID,
		ExpectedOutcome: exp.ExpectedOutcome,
		ActualOutcome:   actualOutcome,
		MatchesExpected: matchesExpected,
		MatchesNull:     matchesNull,
		SuccessCriteria: exp.SuccessCriteria,
		Verdict:         verdict(matchesExpected, matchesNull),
		Timestamp:       core.Now(),
	}
}

func verdict(matchesExpected, matchesNull bool) Verdict {
	switch {
	case matchesExpected && !matchesNull:
		return VerdictConfirmed
	case matchesNull && !matchesExpected:
		return VerdictRefuted
	case matchesExpected && matchesNull:
		return VerdictAmbiguous
	default:
		return VerdictInconclusive
	}
}

// IsStrongEvidence reports whether evidence clears the strong threshold.
func (e *Evaluator) IsStrongEvidence(ev *hypothesis.Evidence) bool {
	return ev.Strength >= e.config.StrongEvidenceThreshold
}

// Evidence returns a stored evidence record, or a not-found error.
func (e *Evaluator) Evidence(id core.EvidenceID) (*hypothesis.Evidence, error) {
	ev, ok := e.evidence[id]
	if !ok {
		return nil, core.NewNotFoundError("evidence", id.String())
	}
	return ev, nil
}

// AllEvidence returns evidence records in creation order.
func (e *Evaluator) AllEvidence() []*hypothesis.Evidence {
	out := make([]*hypothesis.Evidence, 0, len(e.evidenceOrder))
	for _, id := range e.evidenceOrder {
		out = append(out, e.evidence[id])
	}
	return out
}

// History returns the append-only evaluation history.
func (e *Evaluator) History() []EvaluationRecord {
	return append([]EvaluationRecord(nil), e.history...)
}

// EvaluationSummary aggregates evaluator activity for status reports.
type EvaluationSummary struct {
	TotalEvidence     int                             `json:"total_evidence"`
	Evaluations       int                             `json:"evaluations"`
	EvidenceByType    map[hypothesis.EvidenceType]int `json:"evidence_by_type"`
	RecentEvaluations []EvaluationRecord              `json:"recent_evaluations"`
}

// Summary reports evidence counts by type and the last ten evaluations.
func (e *Evaluator) Summary() EvaluationSummary {
	summary := EvaluationSummary{
		TotalEvidence: len(e.evidence),
		Evaluations:   len(e.history),
		EvidenceByType: map[hypothesis.EvidenceType]int{
			hypothesis.EvidenceSupporting:    0,
			hypothesis.EvidenceContradicting: 0,
			hypothesis.EvidenceNeutral:       0,
		},
	}
	for _, id := range e.evidenceOrder {
		summary.EvidenceByType[e.evidence[id].Type]++
	}

	recent := e.history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	summary.RecentEvaluations = append(summary.RecentEvaluations, recent...)
	return summary
}
