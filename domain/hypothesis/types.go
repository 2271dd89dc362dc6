// Package hypothesis defines the entities owned by the hypothesis ledger:
// hypotheses, the experiments that test them, and the evidence those
// experiments produce. Cross-references between entities are by ID only.
package hypothesis

import (
	"fmt"
	"strings"
	"unicode"

	"gocause/domain/belief"
	"gocause/domain/core"
)

// Status represents the lifecycle state of a hypothesis
type Status string

const (
	StatusPending      Status = "pending"
	StatusTesting      Status = "testing"
	StatusSupported    Status = "supported"
	StatusRefuted      Status = "refuted"
	StatusInconclusive Status = "inconclusive"
)

// ExperimentStatus represents the lifecycle state of an experiment
type ExperimentStatus string

const (
	ExperimentDesigned  ExperimentStatus = "designed"
	ExperimentRunning   ExperimentStatus = "running"
	ExperimentCompleted ExperimentStatus = "completed"
	ExperimentFailed    ExperimentStatus = "failed"
)

// EvidenceType classifies how a piece of evidence bears on its hypothesis
type EvidenceType string

const (
	EvidenceSupporting    EvidenceType = "supporting"
	EvidenceContradicting EvidenceType = "contradicting"
	EvidenceNeutral       EvidenceType = "neutral"
)

// Hypothesis is a testable statement with an attached Bayesian belief.
// The parent reference is a weak back-reference for refinement chains;
// the ledger owns all hypotheses in a flat table regardless of depth.
type Hypothesis struct {
	ID            core.HypothesisID   `json:"id"`
	Statement     string              `json:"statement"`
	Rationale     string              `json:"rationale"`
	Predictions   []string            `json:"predictions"`
	Belief        belief.Belief       `json:"belief"`
	Status        Status              `json:"status"`
	ParentID      core.HypothesisID   `json:"parent_hypothesis_id,omitempty"`
	ExperimentIDs []core.ExperimentID `json:"experiment_ids"`
	CreatedAt     core.Timestamp      `json:"created_at"`
	UpdatedAt     core.Timestamp      `json:"updated_at"`
}

// IsActionable reports whether the hypothesis is ready for testing.
func (h *Hypothesis) IsActionable() bool {
	return h.Status == StatusPending && len(h.Predictions) > 0
}

// Experiment tests exactly one hypothesis.
type Experiment struct {
	ID              core.ExperimentID      `json:"id"`
	HypothesisID    core.HypothesisID      `json:"hypothesis_id"`
	Description     string                 `json:"description"`
	Methodology     string                 `json:"methodology"`
	ExpectedOutcome string                 `json:"expected_outcome"`
	SuccessCriteria string                 `json:"success_criteria"`
	NullOutcome     string                 `json:"null_outcome"`
	Status          ExperimentStatus       `json:"status"`
	Results         map[string]interface{} `json:"results"`
	EvidenceIDs     []core.EvidenceID      `json:"evidence_ids"`
	CreatedAt       core.Timestamp         `json:"created_at"`
	CompletedAt     *core.Timestamp        `json:"completed_at,omitempty"`
}

// Evidence is created once by the evaluator and immutable thereafter.
type Evidence struct {
	ID           core.EvidenceID        `json:"id"`
	ExperimentID core.ExperimentID      `json:"experiment_id"`
	Type         EvidenceType           `json:"type"`
	Description  string                 `json:"description"`
	Data         map[string]interface{} `json:"data"`
	Strength     float64                `json:"strength"`
	Timestamp    core.Timestamp         `json:"timestamp"`
}

// SupportsHypothesis reports whether the evidence supports its hypothesis.
func (e *Evidence) SupportsHypothesis() bool {
	return e.Type == EvidenceSupporting
}

// WorktreeSchema describes a branch/exploration unit for the git
// collaborator. The engine only emits the schema; it never invokes git.
type WorktreeSchema struct {
	ID           core.SchemaID     `json:"schema_id"`
	HypothesisID core.HypothesisID `json:"hypothesis_id"`
	Statement    string            `json:"hypothesis"`
	Predictions  []string          `json:"predictions,omitempty"`
	Prior        float64           `json:"prior_probability"`
	Posterior    *float64          `json:"posterior_probability,omitempty"`
	BranchName   string            `json:"branch_name"`
	WorktreePath string            `json:"worktree_path,omitempty"`
	Experiments  []Experiment      `json:"experiments"`
	Evidence     []Evidence        `json:"evidence_collected"`
	Status       string            `json:"status"`
	CreatedAt    core.Timestamp    `json:"created_at"`
}

// NewWorktreeSchema derives a schema from a hypothesis, including the
// branch name experiment/{hypothesis-id}-{slug}.
func NewWorktreeSchema(h *Hypothesis, experiments []Experiment) *WorktreeSchema {
	return &WorktreeSchema{
		ID:           core.NewSchemaID(),
		HypothesisID: h.ID,
		Statement:    h.Statement,
		Predictions:  append([]string(nil), h.Predictions...),
		Prior:        h.Belief.Prior,
		Posterior:    h.Belief.Posterior,
		BranchName:   BranchName(h),
		Experiments:  experiments,
		Status:       "pending",
		CreatedAt:    core.Now(),
	}
}

// BranchName builds the branch-name suggestion for a hypothesis:
// experiment/{id}-{slug of the first 30 statement characters}.
func BranchName(h *Hypothesis) string {
	return fmt.Sprintf("experiment/%s-%s", h.ID, Slug(h.Statement, 30))
}

// Slug lowercases the first maxLen characters of s and replaces every
// non-alphanumeric rune with a dash, trimming leading/trailing dashes.
func Slug(s string, maxLen int) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	var b strings.Builder
	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
