// Package analysis computes statistical briefs over a reasoning session:
// posterior distributions across hypotheses, evidence strength summaries,
// and credible intervals for individual beliefs.
package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"gocause/domain/belief"
	domain "gocause/domain/causal"
	"gocause/domain/hypothesis"
	"gocause/ports"
)

// BeliefBrief summarizes the posterior distribution across hypotheses.
type BeliefBrief struct {
	Count         int     `json:"count"`
	WithPosterior int     `json:"with_posterior"`
	Mean          float64 `json:"mean"`
	Median        float64 `json:"median"`
	StdDev        float64 `json:"std_dev"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
}

// EvidenceBrief summarizes evidence strength by type.
type EvidenceBrief struct {
	Count        int                             `json:"count"`
	MeanStrength float64                         `json:"mean_strength"`
	ByType       map[hypothesis.EvidenceType]int `json:"by_type"`
}

// SessionBrief is the combined statistical summary of a session.
type SessionBrief struct {
	Beliefs           BeliefBrief        `json:"beliefs"`
	Evidence          EvidenceBrief      `json:"evidence"`
	CredibleIntervals []BeliefInterval   `json:"credible_intervals"`
	CauseEntropy      *ConcentrationStat `json:"cause_concentration,omitempty"`
}

// BeliefInterval is a 95% credible interval for one hypothesis's belief.
type BeliefInterval struct {
	HypothesisID string  `json:"hypothesis_id"`
	Point        float64 `json:"point"`
	Lower        float64 `json:"lower"`
	Upper        float64 `json:"upper"`
}

// ConcentrationStat reports how concentrated a cause ranking is: 0 means
// uniform, 1 means all mass on one cause.
type ConcentrationStat struct {
	Entropy       float64 `json:"entropy"`
	Concentration float64 `json:"concentration"`
}

// SummarizeBeliefs computes distribution statistics over the current
// probabilities of the given hypotheses.
func SummarizeBeliefs(hyps []*hypothesis.Hypothesis) BeliefBrief {
	brief := BeliefBrief{Count: len(hyps)}
	if len(hyps) == 0 {
		return brief
	}

	values := make([]float64, 0, len(hyps))
	for _, h := range hyps {
		if h.Belief.HasPosterior() {
			brief.WithPosterior++
		}
		values = append(values, h.Belief.Current())
	}

	brief.Mean, _ = stats.Mean(values)
	brief.Median, _ = stats.Median(values)
	brief.StdDev, _ = stats.StandardDeviation(values)
	brief.Min, _ = stats.Min(values)
	brief.Max, _ = stats.Max(values)
	return brief
}

// SummarizeEvidence computes strength statistics over evidence records.
func SummarizeEvidence(evs []*hypothesis.Evidence) EvidenceBrief {
	brief := EvidenceBrief{
		Count:  len(evs),
		ByType: make(map[hypothesis.EvidenceType]int),
	}
	if len(evs) == 0 {
		return brief
	}

	strengths := make([]float64, 0, len(evs))
	for _, ev := range evs {
		strengths = append(strengths, ev.Strength)
		brief.ByType[ev.Type]++
	}
	brief.MeanStrength, _ = stats.Mean(strengths)
	return brief
}

// CredibleInterval approximates a 95% credible interval for a belief by
// fitting a Beta distribution. The confidence ratchet encodes how many
// updates the belief has absorbed, which sets the pseudo-count mass.
func CredibleInterval(b belief.Belief) (lower, upper float64) {
	p := b.Current()

	// Confidence walks 0.5 -> 1.0 in 0.1 steps, one per update.
	updates := math.Round((b.Confidence - belief.DefaultConfidence) / 0.1)
	pseudo := 2.0 + 2.0*math.Max(0, updates)

	alpha := p*pseudo + 1
	beta := (1-p)*pseudo + 1
	dist := distuv.Beta{Alpha: alpha, Beta: beta}
	return dist.Quantile(0.025), dist.Quantile(0.975)
}

// RankingConcentration measures how decisively a backwards query ranks
// its causes, via normalized Shannon entropy of the probability mass.
func RankingConcentration(ranked []domain.RankedCause) *ConcentrationStat {
	if len(ranked) < 2 {
		return nil
	}

	total := 0.0
	for _, rc := range ranked {
		total += rc.Probability
	}
	if total <= 0 {
		return nil
	}

	normalized := make([]float64, len(ranked))
	for i, rc := range ranked {
		normalized[i] = rc.Probability / total
	}

	entropy := stat.Entropy(normalized)
	maxEntropy := math.Log(float64(len(ranked)))
	return &ConcentrationStat{
		Entropy:       entropy,
		Concentration: 1 - entropy/maxEntropy,
	}
}

// BuildBrief assembles the full statistical brief for a session report,
// optionally including the concentration of the latest backwards query.
func BuildBrief(report *ports.SessionReport, latestRanking []domain.RankedCause) *SessionBrief {
	brief := &SessionBrief{
		Beliefs:      SummarizeBeliefs(report.Hypotheses),
		Evidence:     SummarizeEvidence(report.Evidence),
		CauseEntropy: RankingConcentration(latestRanking),
	}

	for _, h := range report.Hypotheses {
		lower, upper := CredibleInterval(h.Belief)
		brief.CredibleIntervals = append(brief.CredibleIntervals, BeliefInterval{
			HypothesisID: h.ID.String(),
			Point:        h.Belief.Current(),
			Lower:        lower,
			Upper:        upper,
		})
	}
	return brief
}
