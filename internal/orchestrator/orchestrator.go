// Package orchestrator drives one reasoning session end to end: it turns
// observations into hypotheses and experiments via the causal reasoner
// and the ledger, folds experiment results back into beliefs and link
// strengths, and exposes status and history for the surrounding system.
package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	applog "gocause/internal"
	"gocause/internal/causal"
	"gocause/internal/ledger"
	"gocause/ports"

	domain "gocause/domain/causal"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
)

// Config aggregates the per-component configurations for one session.
type Config struct {
	Generator ledger.GeneratorConfig `json:"generator"`
	Evaluator ledger.EvaluatorConfig `json:"evaluator"`
	Reasoner  causal.Config          `json:"reasoner"`
	// EnableBackwardsReasoning turns the causal graph on for observation
	// analysis and evidence feedback.
	EnableBackwardsReasoning bool `json:"enable_backwards_reasoning"`
	// MinSuggestionProbability filters hypothesis suggestions derived
	// from backwards queries.
	MinSuggestionProbability float64 `json:"min_suggestion_probability"`
	// DefaultAlternatives is the breadth of the free-text fallback.
	DefaultAlternatives int `json:"default_alternatives"`
}

// DefaultConfig returns the standard session configuration.
func DefaultConfig() Config {
	return Config{
		Generator:                ledger.DefaultGeneratorConfig(),
		Evaluator:                ledger.DefaultEvaluatorConfig(),
		Reasoner:                 causal.DefaultConfig(),
		EnableBackwardsReasoning: true,
		MinSuggestionProbability: 0.1,
		DefaultAlternatives:      3,
	}
}

// Orchestrator owns one reasoning session: a ledger, a causal graph, and
// the reasoning history. It is not safe for concurrent use; the session
// manager serializes access.
type Orchestrator struct {
	config    Config
	generator *ledger.Generator
	evaluator *ledger.Evaluator
	graph     *causal.Graph
	history   []*ReasoningStep
	log       *applog.Logger
}

// New creates a session orchestrator. A nil comparator uses the default
// word-overlap heuristic for result verification.
func New(config Config, comparator ports.Comparator) *Orchestrator {
	if config.DefaultAlternatives <= 0 {
		config.DefaultAlternatives = DefaultConfig().DefaultAlternatives
	}
	if config.MinSuggestionProbability <= 0 {
		config.MinSuggestionProbability = DefaultConfig().MinSuggestionProbability
	}
	return &Orchestrator{
		config:    config,
		generator: ledger.NewGenerator(config.Generator),
		evaluator: ledger.NewEvaluator(config.Evaluator, comparator),
		graph:     causal.NewGraph(config.Reasoner),
		log:       applog.DefaultLogger,
	}
}

// HypothesisRef summarizes a materialized hypothesis in results.
type HypothesisRef struct {
	ID        core.HypothesisID `json:"id"`
	Statement string            `json:"statement"`
	Prior     float64           `json:"prior"`
}

// SchemaRef summarizes a materialized worktree schema in results.
type SchemaRef struct {
	ID     core.SchemaID `json:"id"`
	Branch string        `json:"branch"`
}

// ReasoningStep is one recorded pass of reason_from_observation.
type ReasoningStep struct {
	Observation       string              `json:"observation"`
	Timestamp         core.Timestamp      `json:"timestamp"`
	BackwardsAnalysis *domain.Explanation `json:"backwards_analysis,omitempty"`
	Hypotheses        []HypothesisRef     `json:"hypotheses"`
	Schemas           []SchemaRef         `json:"schemas"`
}

// ReasonFromObservation runs the full forward workflow. With structured
// variable observations and backwards reasoning enabled, candidate causes
// come from the causal graph and each suggestion becomes a hypothesis
// with designed experiments and a worktree schema. Without them, the
// generator produces alternative hypotheses directly from the free text.
func (o *Orchestrator) ReasonFromObservation(observation string, observationVars map[string]string) (*ReasoningStep, error) {
	if observation == "" && len(observationVars) == 0 {
		return nil, core.ErrEmptyObservation
	}

	step := &ReasoningStep{
		Observation: observation,
		Timestamp:   core.Now(),
	}

	if o.config.EnableBackwardsReasoning && len(observationVars) > 0 {
		if err := o.reasonStructured(step, observationVars); err != nil {
			return nil, err
		}
	} else {
		if err := o.reasonFreeText(step, observation); err != nil {
			return nil, err
		}
	}

	o.history = append(o.history, step)
	o.log.Info("[Orchestrator] reasoned from observation: %d hypotheses, %d schemas",
		len(step.Hypotheses), len(step.Schemas))
	return step, nil
}

func (o *Orchestrator) reasonStructured(step *ReasoningStep, observationVars map[string]string) error {
	order := make([]string, 0, len(observationVars))
	for name := range observationVars {
		order = append(order, name)
	}
	sort.Strings(order)

	step.BackwardsAnalysis = o.graph.ExplainObservation(observationVars, order)

	for _, effectVar := range order {
		effectValue := observationVars[effectVar]
		suggestions := o.graph.SuggestHypotheses(effectVar, effectValue, o.config.MinSuggestionProbability)

		for _, suggestion := range suggestions {
			prior := suggestion.PriorProbability
			h, err := o.generator.GenerateHypothesis(
				suggestion.Statement,
				suggestion.SupportingReasoning,
				[]string{fmt.Sprintf("If %s is manipulated, %s will change", suggestion.CauseVariable, effectVar)},
				&prior, "")
			if err != nil {
				return err
			}

			for _, expSuggestion := range suggestion.SuggestedExperiments {
				if _, err := o.generator.DesignExperiment(h.ID, ledger.ExperimentSpec{
					Description:     expSuggestion,
					ExpectedOutcome: fmt.Sprintf("%s changes as predicted", effectVar),
					SuccessCriteria: "Statistically significant change",
				}); err != nil {
					return err
				}
			}

			schema, err := o.generator.CreateWorktreeSchema(h.ID, nil)
			if err != nil {
				return err
			}

			step.Hypotheses = append(step.Hypotheses, HypothesisRef{ID: h.ID, Statement: h.Statement, Prior: h.Belief.Prior})
			step.Schemas = append(step.Schemas, SchemaRef{ID: schema.ID, Branch: schema.BranchName})
		}
	}
	return nil
}

func (o *Orchestrator) reasonFreeText(step *ReasoningStep, observation string) error {
	for _, h := range o.generator.GenerateAlternatives(observation, o.config.DefaultAlternatives) {
		if _, err := o.generator.DesignExperiment(h.ID, ledger.ExperimentSpec{
			Description:     "Test hypothesis: " + h.Statement,
			ExpectedOutcome: "Observation explained",
			SuccessCriteria: "Hypothesis predictions match reality",
		}); err != nil {
			return err
		}

		schema, err := o.generator.CreateWorktreeSchema(h.ID, nil)
		if err != nil {
			return err
		}

		step.Hypotheses = append(step.Hypotheses, HypothesisRef{ID: h.ID, Statement: h.Statement, Prior: h.Belief.Prior})
		step.Schemas = append(step.Schemas, SchemaRef{ID: schema.ID, Branch: schema.BranchName})
	}
	return nil
}

// EvaluationResult reports one experiment result folded into the session.
type EvaluationResult struct {
	ExperimentID core.ExperimentID         `json:"experiment_id"`
	HypothesisID core.HypothesisID         `json:"hypothesis_id"`
	EvidenceID   core.EvidenceID           `json:"evidence_id"`
	EvidenceType hypothesis.EvidenceType   `json:"evidence_type"`
	Prior        float64                   `json:"prior"`
	Posterior    *float64                  `json:"posterior"`
	Status       hypothesis.Status         `json:"status"`
	BeliefChange float64                   `json:"belief_change"`
	LinkUpdates  []causal.LinkUpdate       `json:"link_updates,omitempty"`
	Suggestion   string                    `json:"suggestion,omitempty"`
	RelevantVars []domain.RelevantVariable `json:"relevant_variables,omitempty"`
}

// EvaluateExperimentResult records an outcome against an experiment,
// updates the owning hypothesis's belief, and feeds the evidence back
// into the causal graph. An inconclusive result additionally surfaces
// structurally relevant variables to investigate next.
func (o *Orchestrator) EvaluateExperimentResult(experimentID core.ExperimentID, observation string, matchesPrediction bool, strength float64, data map[string]interface{}) (*EvaluationResult, error) {
	exp, err := o.generator.Experiment(experimentID)
	if err != nil {
		return nil, err
	}
	h, err := o.generator.Hypothesis(exp.HypothesisID)
	if err != nil {
		return nil, err
	}

	ev, err := o.evaluator.EvaluateEvidence(exp, observation, matchesPrediction, strength, data)
	if err != nil {
		return nil, err
	}

	prior := h.Belief.Current()
	updated := o.evaluator.UpdateBelief(h, ev)

	result := &EvaluationResult{
		ExperimentID: exp.ID,
		HypothesisID: h.ID,
		EvidenceID:   ev.ID,
		EvidenceType: ev.Type,
		Prior:        prior,
		Posterior:    updated.Posterior,
		Status:       h.Status,
	}
	if updated.Posterior != nil {
		result.BeliefChange = *updated.Posterior - prior
	}

	if o.config.EnableBackwardsReasoning {
		result.LinkUpdates = o.graph.UpdateFromEvidence(ev, h)
	}

	if h.Status == hypothesis.StatusInconclusive {
		result.Suggestion = "Consider refining the hypothesis"
		if target := o.statementVariable(h.Statement); target != "" {
			result.RelevantVars = o.graph.FindConditionalVariables(target, nil)
		}
	}

	o.log.Debug("[Orchestrator] evaluated %s: %s -> %s", exp.ID, ev.Type, h.Status)
	return result, nil
}

// statementVariable returns the first graph variable named in a
// hypothesis statement, in variable insertion order. Same coarse textual
// heuristic as the evidence feedback path.
func (o *Orchestrator) statementVariable(statement string) string {
	for _, name := range o.graph.VariableNames() {
		if strings.Contains(statement, name) {
			return name
		}
	}
	return ""
}

// RefinementResult reports a materialized refinement.
type RefinementResult struct {
	OriginalID core.HypothesisID `json:"original_id"`
	RefinedID  core.HypothesisID `json:"refined_id"`
	Statement  string            `json:"statement"`
	Prior      float64           `json:"prior"`
	SchemaID   core.SchemaID     `json:"schema_id"`
	Branch     string            `json:"branch"`
}

// RefineHypothesis spawns a refined child hypothesis from inconclusive
// evidence and materializes a worktree schema for it.
func (o *Orchestrator) RefineHypothesis(originalID core.HypothesisID, evidenceID core.EvidenceID, refinement string) (*RefinementResult, error) {
	if refinement == "" {
		return nil, core.ErrEmptyStatement
	}
	original, err := o.generator.Hypothesis(originalID)
	if err != nil {
		return nil, err
	}
	ev, err := o.evaluator.Evidence(evidenceID)
	if err != nil {
		return nil, err
	}

	refined := o.evaluator.FormRefinedHypothesis(original, ev, refinement)
	o.generator.Adopt(refined)

	schema, err := o.generator.CreateWorktreeSchema(refined.ID, nil)
	if err != nil {
		return nil, err
	}

	return &RefinementResult{
		OriginalID: original.ID,
		RefinedID:  refined.ID,
		Statement:  refined.Statement,
		Prior:      refined.Belief.Prior,
		SchemaID:   schema.ID,
		Branch:     schema.BranchName,
	}, nil
}

// VariableSpec declares one causal variable for bulk network setup.
type VariableSpec struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Values      []string           `json:"values"`
	Priors      map[string]float64 `json:"priors"`
}

// ConditionalRow is one explicit conditional probability on a link.
type ConditionalRow struct {
	CauseValue  string  `json:"cause_value"`
	EffectValue string  `json:"effect_value"`
	Probability float64 `json:"probability"`
}

// LinkSpec declares one causal link for bulk network setup. A zero
// strength means unspecified and defaults to 0.5.
type LinkSpec struct {
	Cause        string           `json:"cause"`
	Effect       string           `json:"effect"`
	Strength     float64          `json:"strength"`
	Conditionals []ConditionalRow `json:"conditionals"`
}

// SetupCausalNetwork loads variables and links into the session's graph.
func (o *Orchestrator) SetupCausalNetwork(variables []VariableSpec, links []LinkSpec) {
	for _, v := range variables {
		o.graph.AddVariable(v.Name, v.Description, v.Values, v.Priors)
	}
	for _, l := range links {
		strength := l.Strength
		if strength == 0 {
			strength = 0.5
		}
		probs := make(map[domain.ValuePair]float64, len(l.Conditionals))
		for _, row := range l.Conditionals {
			probs[domain.ValuePair{Cause: row.CauseValue, Effect: row.EffectValue}] = row.Probability
		}
		o.graph.AddCausalLink(l.Cause, l.Effect, strength, probs)
	}
	o.log.Info("[Orchestrator] causal network loaded: %d variables, %d links", len(variables), len(links))
}

// BackwardsResult is the answer to a backwards query plus the variables
// worth conditioning on next.
type BackwardsResult struct {
	QueryID      core.QueryID              `json:"query_id"`
	Effect       string                    `json:"effect"`
	Causes       map[string]float64        `json:"causes"`
	Ranked       []domain.RankedCause      `json:"ranked_causes"`
	Reasoning    []string                  `json:"reasoning"`
	RelevantVars []domain.RelevantVariable `json:"conditional_variables"`
}

// QueryBackwards asks the causal graph for the most likely causes of an
// observed effect.
func (o *Orchestrator) QueryBackwards(effectVar, effectValue string) *BackwardsResult {
	query := o.graph.QueryCauses(effectVar, effectValue)
	return &BackwardsResult{
		QueryID:      query.ID,
		Effect:       fmt.Sprintf("%s = %s", effectVar, effectValue),
		Causes:       query.Results,
		Ranked:       query.RankedCauses,
		Reasoning:    query.ReasoningChain,
		RelevantVars: o.graph.FindConditionalVariables(effectVar, nil),
	}
}

// Generator exposes the session's ledger generator.
func (o *Orchestrator) Generator() *ledger.Generator { return o.generator }

// Evaluator exposes the session's ledger evaluator.
func (o *Orchestrator) Evaluator() *ledger.Evaluator { return o.evaluator }

// Graph exposes the session's causal graph.
func (o *Orchestrator) Graph() *causal.Graph { return o.graph }

// History returns the recorded reasoning steps in order.
func (o *Orchestrator) History() []*ReasoningStep {
	return append([]*ReasoningStep(nil), o.history...)
}
