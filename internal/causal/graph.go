// Package causal implements the causal graph store and the backwards
// (abductive) reasoner: inverse conditional probability queries over an
// explicit graph of variables and weighted causal links.
//
// The store is a pure, total function over its graph: lookups on unknown
// variables or links degrade to documented defaults and no operation has
// a fatal error path. One Graph belongs to one reasoning session; callers
// serialize access.
package causal

import (
	"fmt"

	domain "gocause/domain/causal"
	"gocause/domain/core"
)

// Config holds the reasoner's tuning knobs.
type Config struct {
	// MinProbability floors marginals and posteriors to avoid division
	// by zero and zero-probability dead ends.
	MinProbability float64 `json:"min_probability"`
	// MaxCausesToConsider truncates relevance rankings.
	MaxCausesToConsider int `json:"max_causes_to_consider"`
}

// DefaultConfig returns the standard reasoner configuration.
func DefaultConfig() Config {
	return Config{
		MinProbability:      0.001,
		MaxCausesToConsider: 10,
	}
}

// Graph owns the variables, causal links, conditional probability tables,
// the backwards-query log, and the inference cache.
type Graph struct {
	config    Config
	variables map[string]*domain.Variable
	varOrder  []string
	links     map[domain.LinkKey]*domain.Link
	linkOrder []domain.LinkKey
	tables    map[string][]*domain.ConditionalProbability
	queries   []*domain.BackwardsQuery
	cache     map[domain.CacheKey]float64
}

// NewGraph creates an empty causal graph with the given configuration.
func NewGraph(config Config) *Graph {
	if config.MinProbability <= 0 {
		config.MinProbability = DefaultConfig().MinProbability
	}
	if config.MaxCausesToConsider <= 0 {
		config.MaxCausesToConsider = DefaultConfig().MaxCausesToConsider
	}
	return &Graph{
		config:    config,
		variables: make(map[string]*domain.Variable),
		links:     make(map[domain.LinkKey]*domain.Link),
		tables:    make(map[string][]*domain.ConditionalProbability),
		cache:     make(map[domain.CacheKey]float64),
	}
}

// AddVariable upserts a variable. A nil or empty prior distribution is
// initialized uniform over the possible values (default {true,false}).
func (g *Graph) AddVariable(name, description string, possibleValues []string, priors map[string]float64) *domain.Variable {
	v := domain.NewVariable(name, description, possibleValues, priors)
	if _, exists := g.variables[name]; !exists {
		g.varOrder = append(g.varOrder, name)
	}
	g.variables[name] = v
	return v
}

// Variable returns a stored variable, or nil if unknown.
func (g *Graph) Variable(name string) *domain.Variable {
	return g.variables[name]
}

// AddCausalLink upserts the directed link cause→effect, auto-creating
// missing variables and merging the conditional probability table.
// Mutating the link structure invalidates the inference cache.
func (g *Graph) AddCausalLink(cause, effect string, strength float64, conditionalProbs map[domain.ValuePair]float64) *domain.Link {
	if _, ok := g.variables[cause]; !ok {
		g.AddVariable(cause, "", nil, nil)
	}
	if _, ok := g.variables[effect]; !ok {
		g.AddVariable(effect, "", nil, nil)
	}

	key := domain.LinkKey{Cause: cause, Effect: effect}
	if _, exists := g.links[key]; !exists {
		g.linkOrder = append(g.linkOrder, key)
	}

	link := &domain.Link{
		Cause:    cause,
		Effect:   effect,
		Strength: strength,
		Probs:    make(map[domain.ValuePair]float64, len(conditionalProbs)),
	}
	for pair, prob := range conditionalProbs {
		link.Probs[pair] = prob
		g.upsertConditionalProbability(effect, pair.Effect, cause, pair.Cause, prob)
	}
	g.links[key] = link

	g.invalidateCache()
	return link
}

// Link returns the stored link for the ordered pair, or nil.
func (g *Graph) Link(cause, effect string) *domain.Link {
	return g.links[domain.LinkKey{Cause: cause, Effect: effect}]
}

// SetConditionalProbability upserts P(effect_var=effect_value |
// cause_var=cause_value) on both the link (when present) and the effect
// variable's conditional table, then invalidates the inference cache.
func (g *Graph) SetConditionalProbability(effectVar, effectValue, causeVar, causeValue string, probability float64) {
	if link := g.links[domain.LinkKey{Cause: causeVar, Effect: effectVar}]; link != nil {
		if link.Probs == nil {
			link.Probs = make(map[domain.ValuePair]float64)
		}
		link.Probs[domain.ValuePair{Cause: causeValue, Effect: effectValue}] = probability
	}

	g.upsertConditionalProbability(effectVar, effectValue, causeVar, causeValue, probability)
	g.invalidateCache()
}

// upsertConditionalProbability overwrites an existing table row with a
// matching (effect_var, effect_value, cause_var, cause_value) key and
// only appends when no match exists, so repeated calibration never grows
// the table.
func (g *Graph) upsertConditionalProbability(effectVar, effectValue, causeVar, causeValue string, probability float64) {
	for _, cp := range g.tables[effectVar] {
		if cp.CauseVar == causeVar && cp.CauseValue == causeValue && cp.EffectValue == effectValue {
			cp.Probability = probability
			return
		}
	}

	g.tables[effectVar] = append(g.tables[effectVar], &domain.ConditionalProbability{
		EffectVar:   effectVar,
		EffectValue: effectValue,
		CauseVar:    causeVar,
		CauseValue:  causeValue,
		Probability: probability,
	})
}

// Causes returns the names of all direct causes of an effect variable,
// in link insertion order.
func (g *Graph) Causes(effectVar string) []string {
	var causes []string
	for _, key := range g.linkOrder {
		if key.Effect == effectVar {
			causes = append(causes, key.Cause)
		}
	}
	return causes
}

// Effects returns the names of all direct effects of a cause variable,
// in link insertion order.
func (g *Graph) Effects(causeVar string) []string {
	var effects []string
	for _, key := range g.linkOrder {
		if key.Cause == causeVar {
			effects = append(effects, key.Effect)
		}
	}
	return effects
}

// IsCauseOf reports whether a direct causal link exists.
func (g *Graph) IsCauseOf(potentialCause, potentialEffect string) bool {
	_, ok := g.links[domain.LinkKey{Cause: potentialCause, Effect: potentialEffect}]
	return ok
}

// VariableNames returns all variable names in insertion order.
func (g *Graph) VariableNames() []string {
	return append([]string(nil), g.varOrder...)
}

func (g *Graph) invalidateCache() {
	g.cache = make(map[domain.CacheKey]float64)
}

// NetworkSummary reports the causal network for status snapshots.
func (g *Graph) NetworkSummary() domain.NetworkSummary {
	summary := domain.NetworkSummary{
		Variables:    g.VariableNames(),
		NumVariables: len(g.variables),
		NumLinks:     len(g.links),
		NumQueries:   len(g.queries),
		CacheSize:    len(g.cache),
	}
	for _, key := range g.linkOrder {
		link := g.links[key]
		summary.Links = append(summary.Links, domain.LinkSummary{
			Cause:    link.Cause,
			Effect:   link.Effect,
			Strength: link.Strength,
		})
	}
	return summary
}

// Queries returns the backwards-query log in creation order.
func (g *Graph) Queries() []*domain.BackwardsQuery {
	return append([]*domain.BackwardsQuery(nil), g.queries...)
}

func (g *Graph) nextQueryID(effectVar string) core.QueryID {
	return core.QueryID(fmt.Sprintf("bq-%d-%s", len(g.queries), effectVar))
}
