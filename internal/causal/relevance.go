package causal

import (
	"sort"
	"strings"

	domain "gocause/domain/causal"
)

// Relevance score contributions, derived from d-separation structure.
const (
	relevanceDirectCause  = 0.8 // variable directly causes the target
	relevanceDirectEffect = 0.6 // target causes the variable; effects inform causes
	relevanceConfounder   = 0.4 // per shared common cause
	relevanceCollider     = 0.3 // per shared common effect
	relevanceObserved     = 0.2 // flat bonus for any edge shared with an observation
)

// FindConditionalVariables ranks every variable other than the target and
// the observations by structural relevance to the target. Variables below
// MinProbability are dropped; survivors are sorted descending and
// truncated to MaxCausesToConsider.
func (g *Graph) FindConditionalVariables(targetVar string, observedVars []string) []domain.RelevantVariable {
	observed := make(map[string]bool, len(observedVars))
	for _, v := range observedVars {
		observed[v] = true
	}

	var relevant []domain.RelevantVariable
	for _, name := range g.varOrder {
		if name == targetVar || observed[name] {
			continue
		}

		relevance := g.relevance(name, targetVar, observedVars)
		if relevance <= g.config.MinProbability {
			continue
		}

		relevant = append(relevant, domain.RelevantVariable{
			Variable:     name,
			Description:  g.variables[name].Description,
			Relevance:    relevance,
			Relationship: g.DescribeRelationship(name, targetVar),
			IsCause:      g.IsCauseOf(name, targetVar),
			IsEffect:     g.IsCauseOf(targetVar, name),
		})
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Relevance > relevant[j].Relevance
	})

	if len(relevant) > g.config.MaxCausesToConsider {
		relevant = relevant[:g.config.MaxCausesToConsider]
	}
	return relevant
}

// relevance accumulates the structural score of a variable with respect
// to the target, clamped to 1.0.
func (g *Graph) relevance(varName, target string, observed []string) float64 {
	relevance := 0.0

	if g.IsCauseOf(varName, target) {
		relevance += relevanceDirectCause
	} else if g.IsCauseOf(target, varName) {
		relevance += relevanceDirectEffect
	}

	for _, other := range g.varOrder {
		if g.IsCauseOf(other, varName) && g.IsCauseOf(other, target) {
			relevance += relevanceConfounder
		}
		if g.IsCauseOf(varName, other) && g.IsCauseOf(target, other) {
			relevance += relevanceCollider
		}
	}

	// A single flat bonus for sharing an edge with any observation;
	// multiplying per observation would grow without bound.
	for _, obs := range observed {
		if g.IsCauseOf(obs, varName) || g.IsCauseOf(varName, obs) {
			relevance += relevanceObserved
			break
		}
	}

	return min(1.0, relevance)
}

// DescribeRelationship renders the structural relationship between two
// variables for reasoning trails.
func (g *Graph) DescribeRelationship(var1, var2 string) string {
	if g.IsCauseOf(var1, var2) {
		return var1 + " causes " + var2
	}
	if g.IsCauseOf(var2, var1) {
		return var1 + " is caused by " + var2
	}

	if common := g.commonMembers(g.Causes(var1), g.Causes(var2)); len(common) > 0 {
		return "Common cause: " + strings.Join(common, ", ")
	}
	if common := g.commonMembers(g.Effects(var1), g.Effects(var2)); len(common) > 0 {
		return "Common effect: " + strings.Join(common, ", ")
	}
	return "No direct relationship"
}

func (g *Graph) commonMembers(a, b []string) []string {
	inA := make(map[string]bool, len(a))
	for _, v := range a {
		inA[v] = true
	}
	var common []string
	for _, v := range b {
		if inA[v] {
			common = append(common, v)
		}
	}
	return common
}
