package causal

import (
	domain "gocause/domain/causal"
)

// BackwardsProbability calculates P(cause_value|effect_value) via Bayes'
// theorem:
//
//	P(Cause|Effect) = P(Effect|Cause) * P(Cause) / P(Effect)
//
// Results are memoized per (cause, cause_value, effect, effect_value);
// the cache is cleared whenever the graph is mutated.
func (g *Graph) BackwardsProbability(causeVar, causeValue, effectVar, effectValue string) float64 {
	key := domain.CacheKey{
		CauseVar:    causeVar,
		CauseValue:  causeValue,
		EffectVar:   effectVar,
		EffectValue: effectValue,
	}
	if cached, ok := g.cache[key]; ok {
		return cached
	}

	likelihood := g.likelihood(effectVar, effectValue, causeVar, causeValue)
	prior := g.prior(causeVar, causeValue)
	marginal := g.marginal(effectVar, effectValue)

	posterior := prior
	if marginal > 0 {
		posterior = (likelihood * prior) / marginal
	}

	// Keep the result a usable probability
	posterior = max(g.config.MinProbability, min(1.0, posterior))

	g.cache[key] = posterior
	return posterior
}

// likelihood resolves P(effect_value|cause_value) in priority order:
// exact conditional-table row, the link's explicit table entry, a value
// inferred from link strength, then the uniform default 0.5.
func (g *Graph) likelihood(effectVar, effectValue, causeVar, causeValue string) float64 {
	for _, cp := range g.tables[effectVar] {
		if cp.CauseVar == causeVar && cp.CauseValue == causeValue && cp.EffectValue == effectValue {
			return cp.Probability
		}
	}

	if link := g.links[domain.LinkKey{Cause: causeVar, Effect: effectVar}]; link != nil {
		if prob, ok := link.Probs[domain.ValuePair{Cause: causeValue, Effect: effectValue}]; ok {
			return prob
		}
		// Infer from strength: aligned binary values follow the link,
		// misaligned values take the complement.
		if (causeValue == "true" && effectValue == "true") ||
			(causeValue == "false" && effectValue == "false") {
			return link.Strength
		}
		return 1 - link.Strength
	}

	return 0.5 // Uniform if unknown
}

// prior resolves P(var=value) from the variable's prior distribution,
// defaulting to 0.5 when the variable is unknown.
func (g *Graph) prior(varName, value string) float64 {
	if v := g.variables[varName]; v != nil {
		return v.Prior(value)
	}
	return 0.5
}

// marginal computes P(Effect) by summing likelihood·prior over all known
// causes of the effect and all possible values of each cause. With no
// known causes it falls back to the effect's own prior. The result is
// floored at MinProbability.
func (g *Graph) marginal(effectVar, effectValue string) float64 {
	causes := g.Causes(effectVar)
	if len(causes) == 0 {
		return g.prior(effectVar, effectValue)
	}

	marginal := 0.0
	for _, causeVar := range causes {
		causeVariable := g.variables[causeVar]
		if causeVariable == nil {
			continue
		}
		for _, causeValue := range causeVariable.PossibleValues {
			likelihood := g.likelihood(effectVar, effectValue, causeVar, causeValue)
			prior := g.prior(causeVar, causeValue)
			marginal += likelihood * prior
		}
	}

	return max(g.config.MinProbability, marginal)
}
