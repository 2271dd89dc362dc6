package causal

import (
	"fmt"
	"sort"
	"strings"

	domain "gocause/domain/causal"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
)

// QueryCauses ranks the most likely causes of an observed effect. The
// candidates are the known causes of the effect, or every other variable
// when the effect has none. For each candidate the value with the highest
// backwards probability is kept. The query is appended to the query log
// and never mutated afterwards.
func (g *Graph) QueryCauses(effectVar, effectValue string) *domain.BackwardsQuery {
	queryID := g.nextQueryID(effectVar)

	candidates := g.Causes(effectVar)
	if len(candidates) == 0 {
		for _, name := range g.varOrder {
			if name != effectVar {
				candidates = append(candidates, name)
			}
		}
	}

	results := make(map[string]float64, len(candidates))
	var ranked []domain.RankedCause
	chain := []string{fmt.Sprintf("Observed: %s = %s", effectVar, effectValue)}

	for _, causeVar := range candidates {
		causeVariable := g.variables[causeVar]
		if causeVariable == nil {
			continue
		}

		bestValue := ""
		bestProb := 0.0
		for _, causeValue := range causeVariable.PossibleValues {
			prob := g.BackwardsProbability(causeVar, causeValue, effectVar, effectValue)
			if prob > bestProb {
				bestProb = prob
				bestValue = causeValue
			}
		}

		results[causeVar] = bestProb
		ranked = append(ranked, domain.RankedCause{
			Cause:       causeVar,
			BestValue:   bestValue,
			Probability: bestProb,
		})
		chain = append(chain, fmt.Sprintf("P(%s=%s|%s=%s) = %.4f",
			causeVar, bestValue, effectVar, effectValue, bestProb))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})

	mostLikely := "unknown"
	if len(ranked) > 0 {
		mostLikely = ranked[0].Cause
	}
	chain = append(chain, "Most likely cause: "+mostLikely)

	query := &domain.BackwardsQuery{
		ID:              queryID,
		EffectVar:       effectVar,
		EffectValue:     effectValue,
		CandidateCauses: candidates,
		Results:         results,
		RankedCauses:    ranked,
		ReasoningChain:  chain,
		Timestamp:       core.Now(),
	}

	g.queries = append(g.queries, query)
	return query
}

// ExplainObservation marks each observed variable, queries causes per
// observation, and combines the per-observation cause scores by summation
// normalized to 1. Ties keep accumulation order.
func (g *Graph) ExplainObservation(observations map[string]string, order []string) *domain.Explanation {
	if len(order) == 0 {
		for name := range observations {
			order = append(order, name)
		}
		sort.Strings(order)
	}

	explanation := &domain.Explanation{
		Observations:   observations,
		PerObservation: make(map[string]*domain.ObservationCauses, len(observations)),
	}

	combined := make(map[string]float64)
	var combinedOrder []string

	for _, name := range order {
		value, ok := observations[name]
		if !ok {
			continue
		}
		if v := g.variables[name]; v != nil {
			v.SetObserved(value)
		}

		query := g.QueryCauses(name, value)
		top := query.RankedCauses
		if len(top) > 3 {
			top = top[:3]
		}
		explanation.PerObservation[name] = &domain.ObservationCauses{
			Query:     query,
			TopCauses: top,
		}

		for _, rc := range query.RankedCauses {
			if _, seen := combined[rc.Cause]; !seen {
				combinedOrder = append(combinedOrder, rc.Cause)
			}
			combined[rc.Cause] += rc.Probability
		}
	}

	total := 0.0
	for _, p := range combined {
		total += p
	}

	for _, cause := range combinedOrder {
		p := combined[cause]
		if total > 0 {
			p /= total
		}
		explanation.CombinedCauses = append(explanation.CombinedCauses, domain.RankedCause{
			Cause:       cause,
			Probability: p,
		})
	}
	sort.SliceStable(explanation.CombinedCauses, func(i, j int) bool {
		return explanation.CombinedCauses[i].Probability > explanation.CombinedCauses[j].Probability
	})
	if len(explanation.CombinedCauses) > 5 {
		explanation.CombinedCauses = explanation.CombinedCauses[:5]
	}

	return explanation
}

// SuggestHypotheses derives probability-ranked cause hypotheses from an
// observed effect, with canonical experiments for each cause-effect pair.
func (g *Graph) SuggestHypotheses(effectVar, effectValue string, minProbability float64) []domain.HypothesisSuggestion {
	query := g.QueryCauses(effectVar, effectValue)

	var suggestions []domain.HypothesisSuggestion
	for _, rc := range query.RankedCauses {
		if rc.Probability < minProbability {
			continue
		}
		suggestions = append(suggestions, domain.HypothesisSuggestion{
			Statement:           fmt.Sprintf("%s caused %s=%s", rc.Cause, effectVar, effectValue),
			CauseVariable:       rc.Cause,
			PriorProbability:    rc.Probability,
			SupportingReasoning: g.DescribeRelationship(rc.Cause, effectVar),
			SuggestedExperiments: []string{
				fmt.Sprintf("Manipulate %s and observe changes in %s", rc.Cause, effectVar),
				fmt.Sprintf("Find natural variation in %s and correlate with %s", rc.Cause, effectVar),
				fmt.Sprintf("Look for mediating variables between %s and %s", rc.Cause, effectVar),
			},
		})
	}
	return suggestions
}

// LinkUpdate records one conditional probability nudged by evidence.
type LinkUpdate struct {
	Link string  `json:"link"`
	Old  float64 `json:"old"`
	New  float64 `json:"new"`
}

// UpdateFromEvidence nudges the conditional probabilities of every link
// whose cause or effect name appears in the hypothesis statement:
// supporting evidence multiplies by 1+0.5*strength, contradicting by
// 1-0.5*strength, clamped to [0.01, 0.99].
//
// Matching links by substring against a natural-language statement is a
// deliberately coarse heuristic; callers wanting precision should pass
// explicit (cause,effect) references instead. Kept as-is pending product
// guidance.
func (g *Graph) UpdateFromEvidence(evidence *hypothesis.Evidence, hyp *hypothesis.Hypothesis) []LinkUpdate {
	var factor float64
	switch evidence.Type {
	case hypothesis.EvidenceSupporting:
		factor = 1 + evidence.Strength*0.5
	case hypothesis.EvidenceContradicting:
		factor = 1 - evidence.Strength*0.5
	default:
		factor = 1.0
	}

	var updates []LinkUpdate
	for _, key := range g.linkOrder {
		link := g.links[key]
		if hyp.Statement == "" || !statementMentions(hyp.Statement, link.Cause, link.Effect) {
			continue
		}
		for pair, old := range link.Probs {
			next := max(0.01, min(0.99, old*factor))
			link.Probs[pair] = next
			updates = append(updates, LinkUpdate{
				Link: link.Cause + " -> " + link.Effect,
				Old:  old,
				New:  next,
			})
		}
	}

	g.invalidateCache()
	return updates
}

func statementMentions(statement string, names ...string) bool {
	for _, name := range names {
		if name != "" && strings.Contains(statement, name) {
			return true
		}
	}
	return false
}
