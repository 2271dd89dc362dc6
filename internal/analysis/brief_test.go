package analysis

import (
	"math"
	"testing"

	"gocause/domain/belief"
	domain "gocause/domain/causal"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
	"gocause/ports"
)

func hypWithBelief(b belief.Belief) *hypothesis.Hypothesis {
	return &hypothesis.Hypothesis{
		ID:     core.NewHypothesisID(),
		Belief: b,
	}
}

func TestSummarizeBeliefs(t *testing.T) {
	low := belief.New(0.2)
	mid := belief.New(0.5)
	high := belief.New(0.5).Update(true, 0.8)

	brief := SummarizeBeliefs([]*hypothesis.Hypothesis{
		hypWithBelief(low),
		hypWithBelief(mid),
		hypWithBelief(high),
	})

	if brief.Count != 3 {
		t.Errorf("Expected count 3, got %d", brief.Count)
	}
	if brief.WithPosterior != 1 {
		t.Errorf("Expected 1 belief with posterior, got %d", brief.WithPosterior)
	}
	// Values are 0.2, 0.5 and 0.8 (posterior of a 0.5 prior with 0.8 evidence).
	if math.Abs(brief.Mean-0.5) > 1e-9 {
		t.Errorf("Expected mean 0.5, got %f", brief.Mean)
	}
	if math.Abs(brief.Median-0.5) > 1e-9 {
		t.Errorf("Expected median 0.5, got %f", brief.Median)
	}
	if math.Abs(brief.Min-0.2) > 1e-9 || math.Abs(brief.Max-0.8) > 1e-9 {
		t.Errorf("Expected range [0.2, 0.8], got [%f, %f]", brief.Min, brief.Max)
	}
	if brief.StdDev <= 0 {
		t.Errorf("Expected positive std dev, got %f", brief.StdDev)
	}
}

func TestSummarizeBeliefs_Empty(t *testing.T) {
	brief := SummarizeBeliefs(nil)
	if brief.Count != 0 || brief.Mean != 0 {
		t.Errorf("Empty input must yield a zero brief, got %+v", brief)
	}
}

func TestSummarizeEvidence(t *testing.T) {
	evs := []*hypothesis.Evidence{
		{Type: hypothesis.EvidenceSupporting, Strength: 0.9},
		{Type: hypothesis.EvidenceSupporting, Strength: 0.7},
		{Type: hypothesis.EvidenceContradicting, Strength: 0.8},
	}

	brief := SummarizeEvidence(evs)
	if brief.Count != 3 {
		t.Errorf("Expected count 3, got %d", brief.Count)
	}
	if math.Abs(brief.MeanStrength-0.8) > 1e-9 {
		t.Errorf("Expected mean strength 0.8, got %f", brief.MeanStrength)
	}
	if brief.ByType[hypothesis.EvidenceSupporting] != 2 {
		t.Errorf("Expected 2 supporting, got %d", brief.ByType[hypothesis.EvidenceSupporting])
	}
	if brief.ByType[hypothesis.EvidenceContradicting] != 1 {
		t.Errorf("Expected 1 contradicting, got %d", brief.ByType[hypothesis.EvidenceContradicting])
	}
}

func TestCredibleInterval_ContainsPoint(t *testing.T) {
	b := belief.New(0.5)
	lower, upper := CredibleInterval(b)

	if !(lower < 0.5 && 0.5 < upper) {
		t.Errorf("Interval [%f, %f] must contain the point 0.5", lower, upper)
	}
	if lower < 0 || upper > 1 {
		t.Errorf("Interval [%f, %f] escapes [0, 1]", lower, upper)
	}
}

func TestCredibleInterval_NarrowsWithEvidence(t *testing.T) {
	fresh := belief.New(0.5)
	seasoned := fresh
	for i := 0; i < 4; i++ {
		seasoned = seasoned.Update(true, 0.5)
	}

	// Neutral-strength updates keep the belief at 0.5 but raise confidence,
	// so the interval should tighten around the same point.
	freshLo, freshHi := CredibleInterval(fresh)
	seasonedLo, seasonedHi := CredibleInterval(seasoned)

	if (seasonedHi - seasonedLo) >= (freshHi - freshLo) {
		t.Errorf("Expected narrower interval after updates: fresh [%f, %f], seasoned [%f, %f]",
			freshLo, freshHi, seasonedLo, seasonedHi)
	}
}

func TestRankingConcentration(t *testing.T) {
	uniform := RankingConcentration([]domain.RankedCause{
		{Cause: "A", Probability: 0.25},
		{Cause: "B", Probability: 0.25},
		{Cause: "C", Probability: 0.25},
		{Cause: "D", Probability: 0.25},
	})
	if uniform == nil {
		t.Fatal("Expected a concentration stat for 4 causes")
	}
	if math.Abs(uniform.Concentration) > 1e-9 {
		t.Errorf("Uniform ranking must have zero concentration, got %f", uniform.Concentration)
	}

	skewed := RankingConcentration([]domain.RankedCause{
		{Cause: "A", Probability: 0.97},
		{Cause: "B", Probability: 0.01},
		{Cause: "C", Probability: 0.01},
		{Cause: "D", Probability: 0.01},
	})
	if skewed.Concentration <= uniform.Concentration {
		t.Errorf("Skewed ranking must be more concentrated: %f vs %f",
			skewed.Concentration, uniform.Concentration)
	}
}

func TestRankingConcentration_Degenerate(t *testing.T) {
	if got := RankingConcentration(nil); got != nil {
		t.Errorf("Expected nil for empty ranking, got %+v", got)
	}
	if got := RankingConcentration([]domain.RankedCause{{Cause: "A", Probability: 0.9}}); got != nil {
		t.Errorf("Expected nil for single-cause ranking, got %+v", got)
	}
}

func TestBuildBrief(t *testing.T) {
	report := &ports.SessionReport{
		Hypotheses: []*hypothesis.Hypothesis{
			hypWithBelief(belief.New(0.5).Update(true, 0.7)),
			hypWithBelief(belief.New(0.3)),
		},
		Evidence: []*hypothesis.Evidence{
			{Type: hypothesis.EvidenceSupporting, Strength: 0.7},
		},
	}

	brief := BuildBrief(report, []domain.RankedCause{
		{Cause: "Deploy", Probability: 0.7},
		{Cause: "Traffic", Probability: 0.3},
	})

	if brief.Beliefs.Count != 2 || brief.Evidence.Count != 1 {
		t.Errorf("Counts wrong: %d beliefs, %d evidence", brief.Beliefs.Count, brief.Evidence.Count)
	}
	if len(brief.CredibleIntervals) != 2 {
		t.Fatalf("Expected 2 credible intervals, got %d", len(brief.CredibleIntervals))
	}
	for _, ci := range brief.CredibleIntervals {
		if !(ci.Lower < ci.Point && ci.Point < ci.Upper) {
			t.Errorf("Interval [%f, %f] must contain point %f", ci.Lower, ci.Upper, ci.Point)
		}
	}
	if brief.CauseEntropy == nil || brief.CauseEntropy.Concentration <= 0 {
		t.Error("Expected a positive cause concentration for a skewed ranking")
	}
}
