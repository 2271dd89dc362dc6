// Package causal defines the entities owned by the causal graph store:
// variables, directed causal links with conditional probability tables,
// and the query records produced by backwards reasoning.
package causal

import (
	"encoding/json"
	"fmt"
	"sort"

	"gocause/domain/core"
)

// Default possible values for a variable created without an explicit set.
var DefaultValues = []string{"true", "false"}

// Variable is a node in the conditional probability network.
type Variable struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	PossibleValues []string           `json:"possible_values"`
	Priors         map[string]float64 `json:"prior_distribution"`
	ObservedValue  string             `json:"observed_value,omitempty"`
	IsObserved     bool               `json:"is_observed"`
}

// NewVariable creates a variable. An empty prior distribution is
// initialized uniform over the possible values.
func NewVariable(name, description string, possibleValues []string, priors map[string]float64) *Variable {
	if len(possibleValues) == 0 {
		possibleValues = append([]string(nil), DefaultValues...)
	}
	if len(priors) == 0 {
		priors = make(map[string]float64, len(possibleValues))
		uniform := 1.0 / float64(len(possibleValues))
		for _, v := range possibleValues {
			priors[v] = uniform
		}
	}
	return &Variable{
		Name:           name,
		Description:    description,
		PossibleValues: possibleValues,
		Priors:         priors,
	}
}

// Prior returns the prior probability for a value, zero if unknown.
func (v *Variable) Prior(value string) float64 {
	return v.Priors[value]
}

// SetObserved marks the variable observed at the given value. Values not
// in the variable's domain are ignored.
func (v *Variable) SetObserved(value string) {
	for _, pv := range v.PossibleValues {
		if pv == value {
			v.ObservedValue = value
			v.IsObserved = true
			return
		}
	}
}

// ValuePair keys a conditional probability table entry on a link:
// P(effect=Effect | cause=Cause).
type ValuePair struct {
	Cause  string `json:"cause_value"`
	Effect string `json:"effect_value"`
}

// Link is a directed, weighted causal relationship. At most one link
// exists per ordered (cause, effect) pair.
type Link struct {
	Cause    string                `json:"cause"`
	Effect   string                `json:"effect"`
	Strength float64               `json:"strength"`
	Probs    map[ValuePair]float64 `json:"-"`
}

// linkJSON is the serialized form of a Link; the conditional table is
// flattened to rows so session snapshots stay plain JSON.
type linkJSON struct {
	Cause    string        `json:"cause"`
	Effect   string        `json:"effect"`
	Strength float64       `json:"strength"`
	Probs    []linkProbRow `json:"conditional_probs"`
}

type linkProbRow struct {
	CauseValue  string  `json:"cause_value"`
	EffectValue string  `json:"effect_value"`
	Probability float64 `json:"probability"`
}

// MarshalJSON flattens the conditional probability table into rows.
func (l Link) MarshalJSON() ([]byte, error) {
	out := linkJSON{Cause: l.Cause, Effect: l.Effect, Strength: l.Strength}
	for pair, prob := range l.Probs {
		out.Probs = append(out.Probs, linkProbRow{
			CauseValue:  pair.Cause,
			EffectValue: pair.Effect,
			Probability: prob,
		})
	}
	sort.Slice(out.Probs, func(i, j int) bool {
		if out.Probs[i].CauseValue != out.Probs[j].CauseValue {
			return out.Probs[i].CauseValue < out.Probs[j].CauseValue
		}
		return out.Probs[i].EffectValue < out.Probs[j].EffectValue
	})
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the conditional table from flattened rows.
func (l *Link) UnmarshalJSON(data []byte) error {
	var in linkJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	l.Cause = in.Cause
	l.Effect = in.Effect
	l.Strength = in.Strength
	l.Probs = make(map[ValuePair]float64, len(in.Probs))
	for _, row := range in.Probs {
		l.Probs[ValuePair{Cause: row.CauseValue, Effect: row.EffectValue}] = row.Probability
	}
	return nil
}

// LinkKey identifies a link by its ordered endpoints.
type LinkKey struct {
	Cause  string
	Effect string
}

// ConditionalProbability is a row in an effect variable's conditional
// table: P(effect_var=effect_value | cause_var=cause_value).
type ConditionalProbability struct {
	EffectVar   string  `json:"effect_var"`
	EffectValue string  `json:"effect_value"`
	CauseVar    string  `json:"cause_var"`
	CauseValue  string  `json:"cause_value"`
	Probability float64 `json:"probability"`
}

// String renders the row in standard notation.
func (cp ConditionalProbability) String() string {
	return fmt.Sprintf("P(%s=%s|%s=%s) = %.4f",
		cp.EffectVar, cp.EffectValue, cp.CauseVar, cp.CauseValue, cp.Probability)
}

// CacheKey identifies a memoized backwards probability. A composite key
// avoids the formatting ambiguity of concatenated strings.
type CacheKey struct {
	CauseVar    string
	CauseValue  string
	EffectVar   string
	EffectValue string
}

// BackwardsQuery records one query_causes invocation. Queries are kept in
// a log and never mutated after creation.
type BackwardsQuery struct {
	ID              core.QueryID       `json:"query_id"`
	EffectVar       string             `json:"effect_var"`
	EffectValue     string             `json:"effect_value"`
	CandidateCauses []string           `json:"candidate_causes"`
	Results         map[string]float64 `json:"results"`
	RankedCauses    []RankedCause      `json:"ranked_causes"`
	ReasoningChain  []string           `json:"reasoning_chain"`
	Timestamp       core.Timestamp     `json:"timestamp"`
}

// RankedCause is one entry of a query result, sorted descending by
// probability when stored.
type RankedCause struct {
	Cause       string  `json:"cause"`
	BestValue   string  `json:"best_value"`
	Probability float64 `json:"probability"`
}

// RelevantVariable is one entry of a find_conditional_variables ranking.
type RelevantVariable struct {
	Variable     string  `json:"variable"`
	Description  string  `json:"description"`
	Relevance    float64 `json:"relevance"`
	Relationship string  `json:"relationship"`
	IsCause      bool    `json:"is_cause"`
	IsEffect     bool    `json:"is_effect"`
}

// HypothesisSuggestion is a probability-ranked cause hypothesis derived
// from backwards reasoning, consumed by the hypothesis generator.
type HypothesisSuggestion struct {
	Statement            string   `json:"hypothesis_statement"`
	CauseVariable        string   `json:"cause_variable"`
	PriorProbability     float64  `json:"prior_probability"`
	SupportingReasoning  string   `json:"supporting_reasoning"`
	SuggestedExperiments []string `json:"suggested_experiments"`
}

// Explanation combines per-observation cause rankings into a normalized
// distribution over causes.
type Explanation struct {
	Observations   map[string]string             `json:"observations"`
	PerObservation map[string]*ObservationCauses `json:"per_observation_explanations"`
	CombinedCauses []RankedCause                 `json:"combined_most_likely_causes"`
}

// ObservationCauses holds the query and top causes for one observation.
type ObservationCauses struct {
	Query     *BackwardsQuery `json:"query"`
	TopCauses []RankedCause   `json:"top_causes"`
}

// NetworkSummary is the causal-network portion of a status snapshot.
type NetworkSummary struct {
	Variables    []string      `json:"variables"`
	NumVariables int           `json:"num_variables"`
	NumLinks     int           `json:"num_causal_links"`
	Links        []LinkSummary `json:"causal_links"`
	NumQueries   int           `json:"num_queries"`
	CacheSize    int           `json:"cache_size"`
}

// LinkSummary is one link in a network summary.
type LinkSummary struct {
	Cause    string  `json:"cause"`
	Effect   string  `json:"effect"`
	Strength float64 `json:"strength"`
}
