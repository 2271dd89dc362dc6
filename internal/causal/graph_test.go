package causal

import (
	"math"
	"testing"

	domain "gocause/domain/causal"
)

func TestAddVariable_UniformPriorDefault(t *testing.T) {
	g := NewGraph(DefaultConfig())

	v := g.AddVariable("Rain", "it rained overnight", nil, nil)

	if len(v.PossibleValues) != 2 {
		t.Fatalf("Expected default binary values, got %v", v.PossibleValues)
	}
	for _, value := range v.PossibleValues {
		if math.Abs(v.Prior(value)-0.5) > 1e-9 {
			t.Errorf("Expected uniform prior 0.5 for %s, got %f", value, v.Prior(value))
		}
	}
}

func TestAddVariable_Upsert(t *testing.T) {
	g := NewGraph(DefaultConfig())

	g.AddVariable("Load", "", nil, nil)
	g.AddVariable("Load", "request load", []string{"low", "high"}, map[string]float64{"low": 0.8, "high": 0.2})

	if len(g.VariableNames()) != 1 {
		t.Fatalf("Upsert should not duplicate variables, got %v", g.VariableNames())
	}
	v := g.Variable("Load")
	if v.Description != "request load" {
		t.Errorf("Expected updated description, got %q", v.Description)
	}
	if v.Prior("low") != 0.8 {
		t.Errorf("Expected updated prior 0.8, got %f", v.Prior("low"))
	}
}

func TestAddCausalLink_AutoCreatesVariables(t *testing.T) {
	g := NewGraph(DefaultConfig())

	g.AddCausalLink("Deploy", "ErrorRate", 0.7, nil)

	if g.Variable("Deploy") == nil || g.Variable("ErrorRate") == nil {
		t.Fatal("Expected both endpoint variables to be auto-created")
	}
	if !g.IsCauseOf("Deploy", "ErrorRate") {
		t.Error("Expected Deploy to be a cause of ErrorRate")
	}
	if g.IsCauseOf("ErrorRate", "Deploy") {
		t.Error("Causal links are directed; reverse edge must not exist")
	}
}

func TestSetConditionalProbability_UpsertNoDuplication(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddCausalLink("Rain", "WetGrass", 0.9, nil)

	g.SetConditionalProbability("WetGrass", "true", "Rain", "true", 0.85)
	g.SetConditionalProbability("WetGrass", "true", "Rain", "true", 0.95)

	rows := g.tables["WetGrass"]
	matches := 0
	var latest float64
	for _, cp := range rows {
		if cp.CauseVar == "Rain" && cp.CauseValue == "true" && cp.EffectValue == "true" {
			matches++
			latest = cp.Probability
		}
	}
	if matches != 1 {
		t.Fatalf("Expected exactly one table row for the key, got %d", matches)
	}
	if latest != 0.95 {
		t.Errorf("Expected latest probability 0.95, got %f", latest)
	}
}

func TestCauses_Effects(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddCausalLink("A", "E", 0.9, nil)
	g.AddCausalLink("B", "E", 0.2, nil)
	g.AddCausalLink("E", "F", 0.5, nil)

	causes := g.Causes("E")
	if len(causes) != 2 || causes[0] != "A" || causes[1] != "B" {
		t.Errorf("Expected causes [A B] in insertion order, got %v", causes)
	}

	effects := g.Effects("E")
	if len(effects) != 1 || effects[0] != "F" {
		t.Errorf("Expected effects [F], got %v", effects)
	}
}

func TestNetworkSummary(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddCausalLink("Rain", "WetGrass", 0.9, nil)
	g.AddVariable("Sprinkler", "", nil, nil)

	summary := g.NetworkSummary()
	if summary.NumVariables != 3 {
		t.Errorf("Expected 3 variables, got %d", summary.NumVariables)
	}
	if summary.NumLinks != 1 {
		t.Errorf("Expected 1 link, got %d", summary.NumLinks)
	}
	if len(summary.Links) != 1 || summary.Links[0].Strength != 0.9 {
		t.Errorf("Unexpected link summary: %+v", summary.Links)
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	g := NewGraph(DefaultConfig())
	g.AddVariable("Rain", "rain", nil, map[string]float64{"true": 0.3, "false": 0.7})
	g.AddCausalLink("Rain", "WetGrass", 0.9, map[domain.ValuePair]float64{
		{Cause: "true", Effect: "true"}: 0.85,
	})
	g.QueryCauses("WetGrass", "true")

	restored := RestoreGraph(g.Snapshot())

	if len(restored.VariableNames()) != len(g.VariableNames()) {
		t.Errorf("Variable count mismatch after restore")
	}
	if restored.Link("Rain", "WetGrass") == nil {
		t.Fatal("Link lost in round trip")
	}
	if got := restored.Link("Rain", "WetGrass").Probs[domain.ValuePair{Cause: "true", Effect: "true"}]; got != 0.85 {
		t.Errorf("Conditional prob lost in round trip: %f", got)
	}
	if len(restored.Queries()) != 1 {
		t.Errorf("Query log lost in round trip")
	}

	// Inference must agree before and after
	want := g.BackwardsProbability("Rain", "true", "WetGrass", "true")
	got := restored.BackwardsProbability("Rain", "true", "WetGrass", "true")
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("Inference diverged after restore: %f vs %f", want, got)
	}
}
