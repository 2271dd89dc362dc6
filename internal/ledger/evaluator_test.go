package ledger

import (
	"errors"
	"math"
	"testing"

	"gocause/domain/core"
	"gocause/domain/hypothesis"
)

func newTestLedger(t *testing.T) (*Generator, *Evaluator, *hypothesis.Hypothesis, *hypothesis.Experiment) {
	t.Helper()
	g := NewGenerator(DefaultGeneratorConfig())
	e := NewEvaluator(DefaultEvaluatorConfig(), nil)

	h, err := g.GenerateHypothesis("stale cache causes wrong totals", "", []string{"totals fix after flush"}, nil, "")
	if err != nil {
		t.Fatalf("GenerateHypothesis failed: %v", err)
	}
	exp, err := g.DesignExperiment(h.ID, ExperimentSpec{
		Description:     "Flush the cache and recompute",
		ExpectedOutcome: "totals become correct",
		SuccessCriteria: "all totals match source of truth",
	})
	if err != nil {
		t.Fatalf("DesignExperiment failed: %v", err)
	}
	return g, e, h, exp
}

func TestEvaluateEvidence_DecisionTable(t *testing.T) {
	cases := []struct {
		name     string
		strength float64
		matches  bool
		want     hypothesis.EvidenceType
	}{
		{"weak match is neutral", 0.2, true, hypothesis.EvidenceNeutral},
		{"weak mismatch is neutral", 0.2, false, hypothesis.EvidenceNeutral},
		{"strong match supports", 0.7, true, hypothesis.EvidenceSupporting},
		{"strong mismatch contradicts", 0.7, false, hypothesis.EvidenceContradicting},
	}

	for _, c := range cases {
		_, e, _, exp := newTestLedger(t)
		ev, err := e.EvaluateEvidence(exp, "observed totals", c.matches, c.strength, nil)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if ev.Type != c.want {
			t.Errorf("%s: type = %s, want %s", c.name, ev.Type, c.want)
		}
	}
}

func TestEvaluateEvidence_CompletesExperiment(t *testing.T) {
	_, e, _, exp := newTestLedger(t)

	ev, err := e.EvaluateEvidence(exp, "totals became correct after flush", true, 0.9, map[string]interface{}{"rows": 12})
	if err != nil {
		t.Fatalf("EvaluateEvidence failed: %v", err)
	}

	if exp.Status != hypothesis.ExperimentCompleted {
		t.Errorf("Experiment must complete, got %s", exp.Status)
	}
	if exp.CompletedAt == nil {
		t.Error("Completion time not recorded")
	}
	if len(exp.EvidenceIDs) != 1 || exp.EvidenceIDs[0] != ev.ID {
		t.Errorf("Evidence not linked to experiment: %v", exp.EvidenceIDs)
	}
	if exp.Results["matches_prediction"] != true {
		t.Errorf("Outcome not recorded on experiment: %v", exp.Results)
	}
}

func TestEvaluateEvidence_EmptyObservation(t *testing.T) {
	_, e, _, exp := newTestLedger(t)

	_, err := e.EvaluateEvidence(exp, "", true, 0.9, nil)
	if !errors.Is(err, core.ErrEmptyObservation) {
		t.Errorf("Expected ErrEmptyObservation, got %v", err)
	}
}

func TestUpdateBelief_SupportedLifecycle(t *testing.T) {
	_, e, h, exp := newTestLedger(t)

	ev, _ := e.EvaluateEvidence(exp, "totals became correct", true, 0.9, nil)
	updated := e.UpdateBelief(h, ev)

	if updated.Posterior == nil || math.Abs(*updated.Posterior-0.9) > 1e-9 {
		t.Fatalf("Expected posterior 0.9, got %v", updated.Posterior)
	}
	if h.Status != hypothesis.StatusSupported {
		t.Errorf("Posterior 0.9 must mark supported, got %s", h.Status)
	}
}

func TestUpdateBelief_RefutedLifecycle(t *testing.T) {
	_, e, h, exp := newTestLedger(t)

	ev, _ := e.EvaluateEvidence(exp, "totals stayed wrong", false, 0.9, nil)
	updated := e.UpdateBelief(h, ev)

	if updated.Posterior == nil || math.Abs(*updated.Posterior-0.1) > 1e-9 {
		t.Fatalf("Expected posterior 0.1, got %v", updated.Posterior)
	}
	if h.Status != hypothesis.StatusRefuted {
		t.Errorf("Posterior 0.1 must mark refuted, got %s", h.Status)
	}
}

func TestUpdateBelief_Inconclusive(t *testing.T) {
	_, e, h, exp := newTestLedger(t)

	ev, _ := e.EvaluateEvidence(exp, "totals drifted slightly", true, 0.6, nil)
	updated := e.UpdateBelief(h, ev)

	// 0.6*0.5 / (0.6*0.5 + 0.4*0.5) = 0.6, between the thresholds.
	if updated.Posterior == nil || math.Abs(*updated.Posterior-0.6) > 1e-9 {
		t.Fatalf("Expected posterior 0.6, got %v", updated.Posterior)
	}
	if h.Status != hypothesis.StatusInconclusive {
		t.Errorf("Posterior 0.6 must mark inconclusive, got %s", h.Status)
	}
}

func TestUpdateBelief_AppendsHistory(t *testing.T) {
	_, e, h, exp := newTestLedger(t)

	ev, _ := e.EvaluateEvidence(exp, "totals became correct", true, 0.9, nil)
	e.UpdateBelief(h, ev)

	history := e.History()
	if len(history) != 1 {
		t.Fatalf("Expected one history record, got %d", len(history))
	}
	record := history[0]
	if record.HypothesisID != h.ID || record.EvidenceID != ev.ID {
		t.Errorf("History record references wrong entities: %+v", record)
	}
	if math.Abs(record.Prior-0.5) > 1e-9 {
		t.Errorf("History must record the pre-update probability, got %f", record.Prior)
	}
	if record.Posterior == nil || math.Abs(*record.Posterior-0.9) > 1e-9 {
		t.Errorf("History must record the posterior, got %v", record.Posterior)
	}
}

func TestBatchUpdateBeliefs_Sequential(t *testing.T) {
	_, e, h, exp := newTestLedger(t)

	ev1, _ := e.EvaluateEvidence(exp, "first run matched", true, 0.8, nil)
	ev2, _ := e.EvaluateEvidence(exp, "second run matched", true, 0.8, nil)

	final := e.BatchUpdateBeliefs(h, []*hypothesis.Evidence{ev1, ev2})

	// 0.5 -> 0.8, then 0.64/0.68.
	want := 0.64 / 0.68
	if final.Posterior == nil || math.Abs(*final.Posterior-want) > 1e-9 {
		t.Fatalf("Expected compounded posterior %.4f, got %v", want, final.Posterior)
	}
	if len(e.History()) != 2 {
		t.Errorf("Each batched update must be audited, got %d records", len(e.History()))
	}
}

func TestFormRefinedHypothesis(t *testing.T) {
	_, e, h, exp := newTestLedger(t)

	ev, _ := e.EvaluateEvidence(exp, "totals drifted slightly", true, 0.6, nil)
	e.UpdateBelief(h, ev)

	refined := e.FormRefinedHypothesis(h, ev, "stale cache causes wrong totals only for bulk orders")

	if refined.ParentID != h.ID {
		t.Error("Refinement must reference the original hypothesis")
	}
	if math.Abs(refined.Belief.Prior-0.6) > 1e-9 {
		t.Errorf("Refinement prior must roll from the posterior, got %f", refined.Belief.Prior)
	}
	if refined.Belief.HasPosterior() {
		t.Error("Refinement starts without a posterior")
	}
	if refined.Status != hypothesis.StatusPending {
		t.Errorf("Refinement starts pending, got %s", refined.Status)
	}
	if len(refined.Predictions) != len(h.Predictions) {
		t.Error("Refinement must copy the original predictions")
	}
}

func TestVerifyResults_Verdicts(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	e := NewEvaluator(DefaultEvaluatorConfig(), nil)
	h, _ := g.GenerateHypothesis("rollback fixes latency", "", nil, nil, "")

	exp, _ := g.DesignExperiment(h.ID, ExperimentSpec{
		Description:     "Roll back and measure",
		ExpectedOutcome: "latency rises sharply",
		NullOutcome:     "latency stays flat",
	})

	cases := []struct {
		actual string
		want   Verdict
	}{
		{"latency rises sharply under load", VerdictConfirmed},
		{"latency stays flat throughout", VerdictRefuted},
		{"cpu spiked instead", VerdictInconclusive},
	}
	for _, c := range cases {
		v := e.VerifyResults(exp, c.actual)
		if v.Verdict != c.want {
			t.Errorf("actual %q: verdict = %s, want %s", c.actual, v.Verdict, c.want)
		}
	}
}

func TestVerifyResults_Ambiguous(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	e := NewEvaluator(DefaultEvaluatorConfig(), nil)
	h, _ := g.GenerateHypothesis("ambiguity check", "", nil, nil, "")

	exp, _ := g.DesignExperiment(h.ID, ExperimentSpec{
		ExpectedOutcome: "queue depth grows",
		NullOutcome:     "queue depth shrinks",
	})

	// Shares most terms with both expectations.
	v := e.VerifyResults(exp, "queue depth grows then shrinks")
	if v.Verdict != VerdictAmbiguous {
		t.Errorf("Expected AMBIGUOUS, got %s", v.Verdict)
	}
}

func TestEvaluatorSummary(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	e := NewEvaluator(DefaultEvaluatorConfig(), nil)
	h, _ := g.GenerateHypothesis("summary check", "", nil, nil, "")
	exp, _ := g.DesignExperiment(h.ID, ExperimentSpec{ExpectedOutcome: "x"})

	ev1, _ := e.EvaluateEvidence(exp, "match", true, 0.9, nil)
	e.EvaluateEvidence(exp, "mismatch", false, 0.9, nil)
	e.EvaluateEvidence(exp, "noise", true, 0.1, nil)
	e.UpdateBelief(h, ev1)

	summary := e.Summary()
	if summary.TotalEvidence != 3 {
		t.Errorf("TotalEvidence = %d, want 3", summary.TotalEvidence)
	}
	if summary.Evaluations != 1 {
		t.Errorf("Evaluations = %d, want 1", summary.Evaluations)
	}
	if summary.EvidenceByType[hypothesis.EvidenceSupporting] != 1 ||
		summary.EvidenceByType[hypothesis.EvidenceContradicting] != 1 ||
		summary.EvidenceByType[hypothesis.EvidenceNeutral] != 1 {
		t.Errorf("Unexpected type counts: %v", summary.EvidenceByType)
	}
	if len(summary.RecentEvaluations) != 1 {
		t.Errorf("Expected 1 recent evaluation, got %d", len(summary.RecentEvaluations))
	}
}

func TestOverlapComparator(t *testing.T) {
	c := NewOverlapComparator(0.5)

	cases := []struct {
		actual, expected string
		want             bool
	}{
		{"the error rate increased sharply", "error rate increased", true},
		{"cpu usage is fine", "error rate increased", false},
		{"ERROR RATE INCREASED", "error rate increased", true},
		{"anything", "", false},
	}
	for _, tc := range cases {
		if got := c.Matches(tc.actual, tc.expected); got != tc.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tc.actual, tc.expected, got, tc.want)
		}
	}
}
