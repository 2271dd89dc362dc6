package orchestrator

import (
	applog "gocause/internal"
	"gocause/internal/causal"
	"gocause/internal/ledger"
	"gocause/ports"
)

// Snapshot is the plain serializable form of a full reasoning session.
type Snapshot struct {
	Config    Config                    `json:"config"`
	Graph     *causal.Snapshot          `json:"causal_graph"`
	Generator *ledger.GeneratorSnapshot `json:"ledger"`
	Evaluator *ledger.EvaluatorSnapshot `json:"evaluator"`
	History   []*ReasoningStep          `json:"reasoning_history"`
}

// Snapshot exports the whole session as plain data.
func (o *Orchestrator) Snapshot() *Snapshot {
	return &Snapshot{
		Config:    o.config,
		Graph:     o.graph.Snapshot(),
		Generator: o.generator.Snapshot(),
		Evaluator: o.evaluator.Snapshot(),
		History:   append([]*ReasoningStep(nil), o.history...),
	}
}

// Restore reconstructs a session from a snapshot. The comparator is
// behavior, not state; pass nil for the default.
func Restore(snap *Snapshot, comparator ports.Comparator) *Orchestrator {
	return &Orchestrator{
		config:    snap.Config,
		generator: ledger.RestoreGenerator(snap.Generator),
		evaluator: ledger.RestoreEvaluator(snap.Evaluator, comparator),
		graph:     causal.RestoreGraph(snap.Graph),
		history:   append([]*ReasoningStep(nil), snap.History...),
		log:       applog.DefaultLogger,
	}
}
