// Package worktree materializes the file set a hypothesis worktree should
// contain. The engine emits branch names and files only; running git is
// left to whatever collaborator consumes the output.
package worktree

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gocause/domain/hypothesis"
	"gocause/ports"
)

// Emitter renders worktree schemas into file sets. RenderHTML additionally
// produces an HTML copy of the exploration summary.
type Emitter struct {
	RenderHTML bool
}

// NewEmitter creates a worktree file emitter
func NewEmitter(renderHTML bool) *Emitter {
	return &Emitter{RenderHTML: renderHTML}
}

type hypothesisInfo struct {
	ID          string   `json:"id"`
	Statement   string   `json:"statement"`
	Prior       float64  `json:"prior"`
	Predictions []string `json:"predictions"`
}

type experimentInfo struct {
	ID              string `json:"id"`
	Description     string `json:"description"`
	ExpectedOutcome string `json:"expected_outcome"`
	SuccessCriteria string `json:"success_criteria"`
}

// Emit renders the schema into its worktree file set:
// .hypothesis/hypothesis.json, .hypothesis/experiments.json and
// HYPOTHESIS.md, plus HYPOTHESIS.html when HTML rendering is on.
func (e *Emitter) Emit(_ context.Context, schema *hypothesis.WorktreeSchema) (ports.WorktreeFiles, error) {
	files := make(ports.WorktreeFiles)

	hypJSON, err := json.MarshalIndent(hypothesisInfo{
		ID:          schema.HypothesisID.String(),
		Statement:   schema.Statement,
		Prior:       schema.Prior,
		Predictions: schema.Predictions,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode hypothesis info: %w", err)
	}
	files[".hypothesis/hypothesis.json"] = hypJSON

	exps := make([]experimentInfo, 0, len(schema.Experiments))
	for _, exp := range schema.Experiments {
		exps = append(exps, experimentInfo{
			ID:              exp.ID.String(),
			Description:     exp.Description,
			ExpectedOutcome: exp.ExpectedOutcome,
			SuccessCriteria: exp.SuccessCriteria,
		})
	}
	expJSON, err := json.MarshalIndent(exps, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode experiment info: %w", err)
	}
	files[".hypothesis/experiments.json"] = expJSON

	md := renderMarkdown(schema)
	files["HYPOTHESIS.md"] = []byte(md)

	if e.RenderHTML {
		p := parser.NewWithExtensions(parser.CommonExtensions)
		renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
		files["HYPOTHESIS.html"] = markdown.ToHTML([]byte(md), p, renderer)
	}

	return files, nil
}

func renderMarkdown(schema *hypothesis.WorktreeSchema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Hypothesis Exploration: %s\n\n", schema.HypothesisID)
	fmt.Fprintf(&b, "## Hypothesis\n%s\n\n", schema.Statement)
	fmt.Fprintf(&b, "## Prior Probability\n%.2f%%\n\n", schema.Prior*100)
	b.WriteString("## Experiments to Run\n\n")

	for _, exp := range schema.Experiments {
		fmt.Fprintf(&b, "### %s\n", exp.ID)
		fmt.Fprintf(&b, "- **Description**: %s\n", exp.Description)
		fmt.Fprintf(&b, "- **Expected Outcome**: %s\n", exp.ExpectedOutcome)
		fmt.Fprintf(&b, "- **Success Criteria**: %s\n\n", exp.SuccessCriteria)
	}
	return b.String()
}
