// Package ledger owns hypotheses, experiments, and evidence: the
// generator materializes testable hypotheses and experiment designs, the
// evaluator turns experiment outcomes into evidence and belief updates.
// Cross-references into the causal reasoner are by ID only. Like the
// reasoner, a ledger belongs to one session and callers serialize access.
package ledger

import (
	"fmt"

	"gocause/domain/belief"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
)

// GeneratorConfig bounds hypothesis priors and experiment batteries.
type GeneratorConfig struct {
	MinPrior                    float64 `json:"min_prior"`
	MaxPrior                    float64 `json:"max_prior"`
	DefaultPrior                float64 `json:"default_prior"`
	MaxExperimentsPerHypothesis int     `json:"max_experiments_per_hypothesis"`
}

// DefaultGeneratorConfig returns the standard generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		MinPrior:                    0.1,
		MaxPrior:                    0.9,
		DefaultPrior:                0.5,
		MaxExperimentsPerHypothesis: 5,
	}
}

// Generator creates hypotheses, designs their experiments, and emits
// worktree schemas for parallel exploration.
type Generator struct {
	config GeneratorConfig

	hypotheses  map[core.HypothesisID]*hypothesis.Hypothesis
	hypOrder    []core.HypothesisID
	experiments map[core.ExperimentID]*hypothesis.Experiment
	expOrder    []core.ExperimentID
	schemas     map[core.SchemaID]*hypothesis.WorktreeSchema
	schemaOrder []core.SchemaID
}

// NewGenerator creates an empty generator.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.MaxPrior <= 0 {
		config = DefaultGeneratorConfig()
	}
	return &Generator{
		config:      config,
		hypotheses:  make(map[core.HypothesisID]*hypothesis.Hypothesis),
		experiments: make(map[core.ExperimentID]*hypothesis.Experiment),
		schemas:     make(map[core.SchemaID]*hypothesis.WorktreeSchema),
	}
}

// GenerateHypothesis creates and stores a hypothesis with a clamped
// Bayesian prior. A nil prior uses the configured default.
func (g *Generator) GenerateHypothesis(statement, rationale string, predictions []string, prior *float64, parentID core.HypothesisID) (*hypothesis.Hypothesis, error) {
	if statement == "" {
		return nil, core.ErrEmptyStatement
	}

	p := g.config.DefaultPrior
	if prior != nil {
		p = *prior
	}
	p = max(g.config.MinPrior, min(g.config.MaxPrior, p))

	now := core.Now()
	h := &hypothesis.Hypothesis{
		ID:          core.NewHypothesisID(),
		Statement:   statement,
		Rationale:   rationale,
		Predictions: append([]string(nil), predictions...),
		Belief:      belief.New(p),
		Status:      hypothesis.StatusPending,
		ParentID:    parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	g.register(h)
	return h, nil
}

// GenerateAlternatives produces several competing hypotheses for one
// observation. Priors start from 1/(k+1), leaving residual mass for "no
// listed alternative is correct", and are perturbed by distance from the
// middle alternative so they are not all equally plausible.
func (g *Generator) GenerateAlternatives(observation string, numAlternatives int) []*hypothesis.Hypothesis {
	var alternatives []*hypothesis.Hypothesis

	basePrior := 1.0 / float64(numAlternatives+1)
	for i := 0; i < numAlternatives; i++ {
		prior := basePrior * (1 + 0.2*float64(i-numAlternatives/2))
		prior = max(0.1, min(0.5, prior))

		h, err := g.GenerateHypothesis(
			fmt.Sprintf("Alternative %d for: %s", i+1, observation),
			fmt.Sprintf("Generated as alternative explanation #%d", i+1),
			nil, &prior, "")
		if err != nil {
			continue
		}
		alternatives = append(alternatives, h)
	}

	return alternatives
}

// ExperimentSpec describes one experiment to design against a hypothesis.
type ExperimentSpec struct {
	Description     string `json:"description"`
	ExpectedOutcome string `json:"expected_outcome"`
	SuccessCriteria string `json:"success_criteria"`
	Methodology     string `json:"methodology"`
	NullOutcome     string `json:"null_outcome"`
}

// DesignExperiment links a new experiment to a hypothesis. The null
// outcome defaults to the negation of the expected outcome.
func (g *Generator) DesignExperiment(hypothesisID core.HypothesisID, spec ExperimentSpec) (*hypothesis.Experiment, error) {
	h, ok := g.hypotheses[hypothesisID]
	if !ok {
		return nil, core.NewNotFoundError("hypothesis", hypothesisID.String())
	}

	nullOutcome := spec.NullOutcome
	if nullOutcome == "" {
		nullOutcome = "Not: " + spec.ExpectedOutcome
	}

	exp := &hypothesis.Experiment{
		ID:              core.NewExperimentID(),
		HypothesisID:    h.ID,
		Description:     spec.Description,
		Methodology:     spec.Methodology,
		ExpectedOutcome: spec.ExpectedOutcome,
		SuccessCriteria: spec.SuccessCriteria,
		NullOutcome:     nullOutcome,
		Status:          hypothesis.ExperimentDesigned,
		Results:         make(map[string]interface{}),
	}
	exp.CreatedAt = core.Now()

	h.ExperimentIDs = append(h.ExperimentIDs, exp.ID)
	h.UpdatedAt = core.Now()

	g.experiments[exp.ID] = exp
	g.expOrder = append(g.expOrder, exp.ID)
	return exp, nil
}

// DesignExperimentBattery designs several experiments at once, capped at
// MaxExperimentsPerHypothesis.
func (g *Generator) DesignExperimentBattery(hypothesisID core.HypothesisID, specs []ExperimentSpec) ([]*hypothesis.Experiment, error) {
	if len(specs) > g.config.MaxExperimentsPerHypothesis {
		specs = specs[:g.config.MaxExperimentsPerHypothesis]
	}

	var experiments []*hypothesis.Experiment
	for _, spec := range specs {
		exp, err := g.DesignExperiment(hypothesisID, spec)
		if err != nil {
			return experiments, err
		}
		experiments = append(experiments, exp)
	}
	return experiments, nil
}

// CreateWorktreeSchema builds and registers a worktree schema for a
// hypothesis. When no experiment IDs are given, every experiment linked
// to the hypothesis is included.
func (g *Generator) CreateWorktreeSchema(hypothesisID core.HypothesisID, experimentIDs []core.ExperimentID) (*hypothesis.WorktreeSchema, error) {
	h, ok := g.hypotheses[hypothesisID]
	if !ok {
		return nil, core.NewNotFoundError("hypothesis", hypothesisID.String())
	}

	if experimentIDs == nil {
		experimentIDs = h.ExperimentIDs
	}
	var experiments []hypothesis.Experiment
	for _, id := range experimentIDs {
		if exp, ok := g.experiments[id]; ok {
			experiments = append(experiments, *exp)
		}
	}

	schema := hypothesis.NewWorktreeSchema(h, experiments)
	g.schemas[schema.ID] = schema
	g.schemaOrder = append(g.schemaOrder, schema.ID)
	return schema, nil
}

// OutcomeForecast predicts observable outcomes under both truth values
// of a hypothesis.
type OutcomeForecast struct {
	IfTrue  OutcomeBranch `json:"if_true"`
	IfFalse OutcomeBranch `json:"if_false"`
}

// OutcomeBranch is one side of a forecast.
type OutcomeBranch struct {
	Probability float64               `json:"probability"`
	Outcomes    []string              `json:"outcomes"`
	Experiments []ExperimentPrognosis `json:"experiments"`
}

// ExperimentPrognosis names what an experiment should show on this branch.
type ExperimentPrognosis struct {
	ID       core.ExperimentID `json:"id"`
	Expected string            `json:"expected"`
}

// PredictOutcomes forecasts what the hypothesis's experiments should show
// if it is true versus false, weighted by the current prior.
func (g *Generator) PredictOutcomes(hypothesisID core.HypothesisID) (*OutcomeForecast, error) {
	h, ok := g.hypotheses[hypothesisID]
	if !ok {
		return nil, core.NewNotFoundError("hypothesis", hypothesisID.String())
	}

	prior := h.Belief.Prior
	forecast := &OutcomeForecast{
		IfTrue:  OutcomeBranch{Probability: prior, Outcomes: append([]string(nil), h.Predictions...)},
		IfFalse: OutcomeBranch{Probability: 1 - prior},
	}
	for _, pred := range h.Predictions {
		forecast.IfFalse.Outcomes = append(forecast.IfFalse.Outcomes, "Not: "+pred)
	}
	for _, expID := range h.ExperimentIDs {
		exp, ok := g.experiments[expID]
		if !ok {
			continue
		}
		forecast.IfTrue.Experiments = append(forecast.IfTrue.Experiments,
			ExperimentPrognosis{ID: exp.ID, Expected: exp.ExpectedOutcome})
		forecast.IfFalse.Experiments = append(forecast.IfFalse.Experiments,
			ExperimentPrognosis{ID: exp.ID, Expected: exp.NullOutcome})
	}

	return forecast, nil
}

// HypothesisTree is a breadth-first exploration tree of alternatives.
type HypothesisTree struct {
	Observation string            `json:"observation"`
	Nodes       []*HypothesisNode `json:"hypotheses"`
}

// HypothesisNode pairs a hypothesis with its worktree schema and the
// refinement alternatives spawned beneath it.
type HypothesisNode struct {
	Hypothesis *hypothesis.Hypothesis     `json:"hypothesis"`
	Schema     *hypothesis.WorktreeSchema `json:"schema"`
	Children   []*HypothesisNode          `json:"children"`
}

// CreateHypothesisTree generates a tree of alternative hypotheses with a
// worktree schema per node, breadth alternatives per level.
func (g *Generator) CreateHypothesisTree(rootObservation string, depth, breadth int) *HypothesisTree {
	return &HypothesisTree{
		Observation: rootObservation,
		Nodes:       g.buildTreeLevel(rootObservation, 1, depth, breadth, ""),
	}
}

func (g *Generator) buildTreeLevel(observation string, level, depth, breadth int, parentID core.HypothesisID) []*HypothesisNode {
	if level > depth {
		return nil
	}

	var nodes []*HypothesisNode
	for _, h := range g.GenerateAlternatives(observation, breadth) {
		if parentID != "" {
			h.ParentID = parentID
		}
		schema, err := g.CreateWorktreeSchema(h.ID, nil)
		if err != nil {
			continue
		}
		nodes = append(nodes, &HypothesisNode{
			Hypothesis: h,
			Schema:     schema,
			Children: g.buildTreeLevel(
				fmt.Sprintf("Given %s, what follows?", h.Statement),
				level+1, depth, breadth, h.ID),
		})
	}
	return nodes
}

// register adopts an externally built hypothesis, e.g. a refinement from
// the evaluator, without re-clamping its prior.
func (g *Generator) register(h *hypothesis.Hypothesis) {
	if _, exists := g.hypotheses[h.ID]; !exists {
		g.hypOrder = append(g.hypOrder, h.ID)
	}
	g.hypotheses[h.ID] = h
}

// Adopt stores a hypothesis created outside the generator.
func (g *Generator) Adopt(h *hypothesis.Hypothesis) {
	g.register(h)
}

// Hypothesis returns a stored hypothesis, or a not-found error.
func (g *Generator) Hypothesis(id core.HypothesisID) (*hypothesis.Hypothesis, error) {
	h, ok := g.hypotheses[id]
	if !ok {
		return nil, core.NewNotFoundError("hypothesis", id.String())
	}
	return h, nil
}

// Experiment returns a stored experiment, or a not-found error.
func (g *Generator) Experiment(id core.ExperimentID) (*hypothesis.Experiment, error) {
	exp, ok := g.experiments[id]
	if !ok {
		return nil, core.NewNotFoundError("experiment", id.String())
	}
	return exp, nil
}

// Hypotheses returns all hypotheses in creation order.
func (g *Generator) Hypotheses() []*hypothesis.Hypothesis {
	out := make([]*hypothesis.Hypothesis, 0, len(g.hypOrder))
	for _, id := range g.hypOrder {
		out = append(out, g.hypotheses[id])
	}
	return out
}

// PendingHypotheses returns hypotheses awaiting testing.
func (g *Generator) PendingHypotheses() []*hypothesis.Hypothesis {
	var pending []*hypothesis.Hypothesis
	for _, id := range g.hypOrder {
		if h := g.hypotheses[id]; h.Status == hypothesis.StatusPending {
			pending = append(pending, h)
		}
	}
	return pending
}

// Experiments returns all experiments in creation order.
func (g *Generator) Experiments() []*hypothesis.Experiment {
	out := make([]*hypothesis.Experiment, 0, len(g.expOrder))
	for _, id := range g.expOrder {
		out = append(out, g.experiments[id])
	}
	return out
}

// Schemas returns all worktree schemas in creation order.
func (g *Generator) Schemas() []*hypothesis.WorktreeSchema {
	out := make([]*hypothesis.WorktreeSchema, 0, len(g.schemaOrder))
	for _, id := range g.schemaOrder {
		out = append(out, g.schemas[id])
	}
	return out
}

// Schema returns a stored worktree schema, or a not-found error.
func (g *Generator) Schema(id core.SchemaID) (*hypothesis.WorktreeSchema, error) {
	s, ok := g.schemas[id]
	if !ok {
		return nil, core.NewNotFoundError("worktree schema", id.String())
	}
	return s, nil
}
