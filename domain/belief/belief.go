// Package belief holds the Bayesian belief primitive shared by the
// hypothesis ledger and the causal reasoner.
package belief

// Belief represents a Bayesian belief with prior and posterior probabilities.
// Values are immutable snapshots: Update returns a new Belief and never
// mutates the receiver, so call sites decide when to roll posterior into
// prior (e.g. when refining a hypothesis).
type Belief struct {
	Prior          float64  `json:"prior"`
	Likelihood     float64  `json:"likelihood"`
	LikelihoodNull float64  `json:"likelihood_null"`
	Posterior      *float64 `json:"posterior,omitempty"`
	Confidence     float64  `json:"confidence"`
}

// DefaultConfidence is the confidence assigned to a fresh belief before
// any evidence has been incorporated.
const DefaultConfidence = 0.5

// confidenceStep is added to confidence on every update, capped at 1.
const confidenceStep = 0.1

// New creates a belief holding only a prior. Likelihoods start uniform.
func New(prior float64) Belief {
	return Belief{
		Prior:          prior,
		Likelihood:     0.5,
		LikelihoodNull: 0.5,
		Confidence:     DefaultConfidence,
	}
}

// Current returns the posterior if one has been computed, otherwise the prior.
func (b Belief) Current() float64 {
	if b.Posterior != nil {
		return *b.Posterior
	}
	return b.Prior
}

// HasPosterior reports whether at least one update has been applied.
func (b Belief) HasPosterior() bool {
	return b.Posterior != nil
}

// Update applies Bayes' theorem and returns the updated belief.
//
//	P(H|E) = P(E|H) * P(H) / P(E)
//	P(E)   = P(E|H) * P(H) + P(E|¬H) * P(¬H)
//
// Supporting evidence sets the likelihood to the evidence strength;
// contradicting evidence swaps likelihood and null likelihood. A zero
// marginal falls back to the prior rather than dividing by zero. The
// prior of the returned belief equals the prior of the input.
func (b Belief) Update(evidenceSupports bool, strength float64) Belief {
	var likelihood, likelihoodNull float64
	if evidenceSupports {
		likelihood = strength
		likelihoodNull = 1 - strength
	} else {
		likelihood = 1 - strength
		likelihoodNull = strength
	}

	marginal := likelihood*b.Prior + likelihoodNull*(1-b.Prior)

	posterior := b.Prior
	if marginal > 0 {
		posterior = (likelihood * b.Prior) / marginal
	}

	return Belief{
		Prior:          b.Prior,
		Likelihood:     likelihood,
		LikelihoodNull: likelihoodNull,
		Posterior:      &posterior,
		Confidence:     min(1.0, b.Confidence+confidenceStep),
	}
}

// Clamp bounds a probability to [0,1]. Public operations clamp at their
// boundary instead of returning errors.
func Clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
