package orchestrator

import (
	domain "gocause/domain/causal"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
	"gocause/ports"
)

// Status is the session snapshot exposed to the report collaborator.
type Status struct {
	Hypotheses     HypothesisCounts      `json:"hypotheses"`
	Experiments    ExperimentCounts      `json:"experiments"`
	Evidence       EvidenceCounts        `json:"evidence"`
	Schemas        SchemaCounts          `json:"schemas"`
	CausalNetwork  domain.NetworkSummary `json:"causal_network"`
	ReasoningSteps int                   `json:"reasoning_steps"`
}

type HypothesisCounts struct {
	Total    int                       `json:"total"`
	ByStatus map[hypothesis.Status]int `json:"by_status"`
}

type ExperimentCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

type EvidenceCounts struct {
	Total  int                             `json:"total"`
	ByType map[hypothesis.EvidenceType]int `json:"by_type"`
}

type SchemaCounts struct {
	Total int `json:"total"`
}

// GetStatus aggregates hypothesis, experiment, evidence, and network
// counts for the session.
func (o *Orchestrator) GetStatus() *Status {
	status := &Status{
		Hypotheses:     HypothesisCounts{ByStatus: make(map[hypothesis.Status]int)},
		Evidence:       EvidenceCounts{ByType: make(map[hypothesis.EvidenceType]int)},
		CausalNetwork:  o.graph.NetworkSummary(),
		ReasoningSteps: len(o.history),
	}

	for _, h := range o.generator.Hypotheses() {
		status.Hypotheses.Total++
		status.Hypotheses.ByStatus[h.Status]++
	}
	for _, exp := range o.generator.Experiments() {
		status.Experiments.Total++
		if exp.Status == hypothesis.ExperimentCompleted {
			status.Experiments.Completed++
		}
	}
	for _, ev := range o.evaluator.AllEvidence() {
		status.Evidence.Total++
		status.Evidence.ByType[ev.Type]++
	}
	status.Schemas.Total = len(o.generator.Schemas())

	return status
}

// Report flattens the session into the renderer-neutral report form.
// Session identity fields are filled in by the session manager.
func (o *Orchestrator) Report() *ports.SessionReport {
	return &ports.SessionReport{
		GeneratedAt: core.Now(),
		Hypotheses:  o.generator.Hypotheses(),
		Experiments: o.generator.Experiments(),
		Evidence:    o.evaluator.AllEvidence(),
		Network:     o.graph.NetworkSummary(),
	}
}
