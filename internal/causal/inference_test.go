package causal

import (
	"math"
	"testing"
)

// Rain/WetGrass scenario: P(Rain=true|WetGrass=true) from Bayes' rule with
// the likelihood inferred from link strength.
func TestBackwardsProbability_DirectBayes(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddVariable("Rain", "rained overnight", []string{"true", "false"},
		map[string]float64{"true": 0.3, "false": 0.7})
	g.AddVariable("WetGrass", "grass is wet", []string{"true", "false"}, nil)
	g.AddCausalLink("Rain", "WetGrass", 0.9, nil)

	got := g.BackwardsProbability("Rain", "true", "WetGrass", "true")

	// (0.9*0.3) / (0.9*0.3 + 0.1*0.7)
	want := 0.27 / 0.34
	if math.Abs(got-want) > 1e-3 {
		t.Errorf("Expected posterior %.4f, got %.4f", want, got)
	}
}

func TestBackwardsProbability_UnknownEverythingDegrades(t *testing.T) {
	g := NewGraph(DefaultConfig())

	// No variables, no links: likelihood 0.5, prior 0.5, marginal = prior
	// of the unknown effect = 0.5, so the posterior is 0.5.
	got := g.BackwardsProbability("Ghost", "true", "Phantom", "true")
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected degraded posterior 0.5, got %f", got)
	}
}

func TestBackwardsProbability_ExplicitTableWins(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddVariable("Rain", "", nil, map[string]float64{"true": 0.3, "false": 0.7})
	g.AddCausalLink("Rain", "WetGrass", 0.9, nil)

	baseline := g.BackwardsProbability("Rain", "true", "WetGrass", "true")

	// Pin the likelihood explicitly; the table entry must take priority
	// over the strength-derived value.
	g.SetConditionalProbability("WetGrass", "true", "Rain", "true", 0.5)
	overridden := g.BackwardsProbability("Rain", "true", "WetGrass", "true")

	if math.Abs(baseline-overridden) < 1e-9 {
		t.Error("Explicit conditional table entry had no effect on inference")
	}
}

func TestBackwardsProbability_CacheCoherence(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddVariable("Rain", "", nil, map[string]float64{"true": 0.3, "false": 0.7})
	g.AddCausalLink("Rain", "WetGrass", 0.9, nil)

	first := g.BackwardsProbability("Rain", "true", "WetGrass", "true")
	if len(g.cache) == 0 {
		t.Fatal("Expected the result to be memoized")
	}

	// Mutating a conditional probability must invalidate the cache and
	// the next query must reflect the new table.
	g.SetConditionalProbability("WetGrass", "true", "Rain", "true", 0.1)
	if len(g.cache) != 0 {
		t.Fatal("Cache not cleared after conditional probability mutation")
	}

	second := g.BackwardsProbability("Rain", "true", "WetGrass", "true")
	if math.Abs(first-second) < 1e-9 {
		t.Error("Stale cached posterior served after mutation")
	}

	// Adding a link must also invalidate.
	g.BackwardsProbability("Rain", "true", "WetGrass", "true")
	g.AddCausalLink("Sprinkler", "WetGrass", 0.6, nil)
	if len(g.cache) != 0 {
		t.Error("Cache not cleared after link mutation")
	}
}

func TestBackwardsProbability_FlooredAtMinProbability(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddVariable("Cause", "", nil, map[string]float64{"true": 0.0, "false": 1.0})
	g.AddCausalLink("Cause", "Effect", 1.0, nil)

	got := g.BackwardsProbability("Cause", "true", "Effect", "true")
	if got < g.config.MinProbability {
		t.Errorf("Posterior %f below configured floor %f", got, g.config.MinProbability)
	}
}

func TestMarginal_NoCausesFallsBackToPrior(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddVariable("Fever", "", nil, map[string]float64{"true": 0.2, "false": 0.8})

	if got := g.marginal("Fever", "true"); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("Expected marginal to fall back to prior 0.2, got %f", got)
	}
}

func TestLikelihood_StrengthAlignment(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddCausalLink("A", "B", 0.8, nil)

	cases := []struct {
		causeVal, effectVal string
		want                float64
	}{
		{"true", "true", 0.8},
		{"false", "false", 0.8},
		{"true", "false", 0.2},
		{"false", "true", 0.2},
	}
	for _, c := range cases {
		got := g.likelihood("B", c.effectVal, "A", c.causeVal)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("likelihood(B=%s|A=%s) = %f, want %f", c.effectVal, c.causeVal, got, c.want)
		}
	}
}
