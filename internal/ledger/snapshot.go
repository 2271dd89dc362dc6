package ledger

import (
	"gocause/domain/hypothesis"
	"gocause/ports"
)

// GeneratorSnapshot is the plain serializable form of a Generator.
type GeneratorSnapshot struct {
	Config      GeneratorConfig              `json:"config"`
	Hypotheses  []*hypothesis.Hypothesis     `json:"hypotheses"`
	Experiments []*hypothesis.Experiment     `json:"experiments"`
	Schemas     []*hypothesis.WorktreeSchema `json:"worktree_schemas"`
}

// Snapshot exports the generator state as a plain data structure.
func (g *Generator) Snapshot() *GeneratorSnapshot {
	snap := &GeneratorSnapshot{Config: g.config}
	for _, id := range g.hypOrder {
		snap.Hypotheses = append(snap.Hypotheses, g.hypotheses[id])
	}
	for _, id := range g.expOrder {
		snap.Experiments = append(snap.Experiments, g.experiments[id])
	}
	for _, id := range g.schemaOrder {
		snap.Schemas = append(snap.Schemas, g.schemas[id])
	}
	return snap
}

// RestoreGenerator reconstructs a generator from a snapshot.
func RestoreGenerator(snap *GeneratorSnapshot) *Generator {
	g := NewGenerator(snap.Config)
	for _, h := range snap.Hypotheses {
		g.hypotheses[h.ID] = h
		g.hypOrder = append(g.hypOrder, h.ID)
	}
	for _, exp := range snap.Experiments {
		if exp.Results == nil {
			exp.Results = make(map[string]interface{})
		}
		g.experiments[exp.ID] = exp
		g.expOrder = append(g.expOrder, exp.ID)
	}
	for _, s := range snap.Schemas {
		g.schemas[s.ID] = s
		g.schemaOrder = append(g.schemaOrder, s.ID)
	}
	return g
}

// EvaluatorSnapshot is the plain serializable form of an Evaluator. The
// comparator is behavior, not state, and is re-supplied on restore.
type EvaluatorSnapshot struct {
	Config   EvaluatorConfig        `json:"config"`
	Evidence []*hypothesis.Evidence `json:"evidence"`
	History  []EvaluationRecord     `json:"history"`
}

// Snapshot exports the evaluator state as a plain data structure.
func (e *Evaluator) Snapshot() *EvaluatorSnapshot {
	snap := &EvaluatorSnapshot{Config: e.config}
	for _, id := range e.evidenceOrder {
		snap.Evidence = append(snap.Evidence, e.evidence[id])
	}
	snap.History = append(snap.History, e.history...)
	return snap
}

// RestoreEvaluator reconstructs an evaluator from a snapshot.
func RestoreEvaluator(snap *EvaluatorSnapshot, comparator ports.Comparator) *Evaluator {
	e := NewEvaluator(snap.Config, comparator)
	for _, ev := range snap.Evidence {
		e.evidence[ev.ID] = ev
		e.evidenceOrder = append(e.evidenceOrder, ev.ID)
	}
	e.history = append(e.history, snap.History...)
	return e
}
