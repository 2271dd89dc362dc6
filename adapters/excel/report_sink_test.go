package excel

import (
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"gocause/domain/belief"
	domain "gocause/domain/causal"
	"gocause/domain/core"
	"gocause/domain/hypothesis"
	"gocause/ports"
)

func TestReportSink_Export(t *testing.T) {
	sink := NewReportSink(t.TempDir())

	hyp := &hypothesis.Hypothesis{
		ID:        core.NewHypothesisID(),
		Statement: "The deploy caused the error spike",
		Status:    hypothesis.StatusTesting,
		Belief:    belief.New(0.6),
		CreatedAt: core.Now(),
	}
	report := &ports.SessionReport{
		SessionID:   core.NewSessionID(),
		SessionName: "incident review",
		GeneratedAt: core.Now(),
		Hypotheses:  []*hypothesis.Hypothesis{hyp},
		Experiments: []*hypothesis.Experiment{
			{
				ID:           core.NewExperimentID(),
				HypothesisID: hyp.ID,
				Description:  "Roll back and watch error rate",
				Status:       hypothesis.ExperimentDesigned,
				CreatedAt:    core.Now(),
			},
		},
		Evidence: []*hypothesis.Evidence{
			{
				ID:           core.NewEvidenceID(),
				ExperimentID: core.NewExperimentID(),
				Type:         hypothesis.EvidenceSupporting,
				Strength:     0.8,
				Description:  "Error rate dropped after rollback",
				Timestamp:    core.Now(),
			},
		},
		Network: domain.NetworkSummary{
			Links: []domain.LinkSummary{{Cause: "Deploy", Effect: "Errors", Strength: 0.8}},
		},
	}

	path, err := sink.Export(context.Background(), report)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Workbook unreadable: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Hypotheses", "Experiments", "Evidence", "Causal Links"} {
		rows, err := f.GetRows(sheet)
		if err != nil {
			t.Fatalf("Sheet %q missing: %v", sheet, err)
		}
		if len(rows) != 2 {
			t.Errorf("Sheet %q: expected header plus 1 row, got %d rows", sheet, len(rows))
		}
	}

	statement, err := f.GetCellValue("Hypotheses", "B2")
	if err != nil || statement != hyp.Statement {
		t.Errorf("Expected statement in B2, got %q (%v)", statement, err)
	}
}
