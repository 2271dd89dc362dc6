// Package excel renders session reports as xlsx workbooks with one sheet
// per entity kind: hypotheses, experiments, evidence and causal links.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"gocause/domain/hypothesis"
	"gocause/ports"
)

// ReportSink writes one workbook per exported session under BaseDir.
type ReportSink struct {
	BaseDir string
}

// NewReportSink creates an xlsx report sink
func NewReportSink(baseDir string) *ReportSink {
	return &ReportSink{BaseDir: baseDir}
}

// Export writes the report workbook and returns its path.
func (s *ReportSink) Export(_ context.Context, report *ports.SessionReport) (string, error) {
	if err := os.MkdirAll(s.BaseDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeHypotheses(f, report.Hypotheses); err != nil {
		return "", err
	}
	if err := s.writeExperiments(f, report.Experiments); err != nil {
		return "", err
	}
	if err := s.writeEvidence(f, report.Evidence); err != nil {
		return "", err
	}
	if err := s.writeNetwork(f, report); err != nil {
		return "", err
	}

	// The default Sheet1 is replaced by the first named sheet.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Hypotheses"); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}

	path := filepath.Join(s.BaseDir, fmt.Sprintf("%s.xlsx", report.SessionID))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report workbook: %w", err)
	}
	return path, nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []interface{}) error {
	for c, v := range values {
		cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func newSheet(f *excelize.File, name string, headers []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRow(f, name, 1, headers)
}

func (s *ReportSink) writeHypotheses(f *excelize.File, hyps []*hypothesis.Hypothesis) error {
	sheet := "Hypotheses"
	headers := []interface{}{"ID", "Statement", "Status", "Prior", "Current", "Confidence", "Parent", "Experiments", "Created"}
	if err := newSheet(f, sheet, headers); err != nil {
		return err
	}

	for i, h := range hyps {
		row := []interface{}{
			h.ID.String(),
			h.Statement,
			string(h.Status),
			h.Belief.Prior,
			h.Belief.Current(),
			h.Belief.Confidence,
			h.ParentID.String(),
			len(h.ExperimentIDs),
			h.CreatedAt.String(),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportSink) writeExperiments(f *excelize.File, exps []*hypothesis.Experiment) error {
	sheet := "Experiments"
	headers := []interface{}{"ID", "Hypothesis", "Description", "Expected", "Null", "Status", "Completed"}
	if err := newSheet(f, sheet, headers); err != nil {
		return err
	}

	for i, e := range exps {
		completed := ""
		if e.CompletedAt != nil {
			completed = e.CompletedAt.String()
		}
		row := []interface{}{
			e.ID.String(),
			e.HypothesisID.String(),
			e.Description,
			e.ExpectedOutcome,
			e.NullOutcome,
			string(e.Status),
			completed,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportSink) writeEvidence(f *excelize.File, evs []*hypothesis.Evidence) error {
	sheet := "Evidence"
	headers := []interface{}{"ID", "Experiment", "Type", "Strength", "Description", "Recorded"}
	if err := newSheet(f, sheet, headers); err != nil {
		return err
	}

	for i, ev := range evs {
		row := []interface{}{
			ev.ID.String(),
			ev.ExperimentID.String(),
			string(ev.Type),
			ev.Strength,
			ev.Description,
			ev.Timestamp.String(),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReportSink) writeNetwork(f *excelize.File, report *ports.SessionReport) error {
	sheet := "Causal Links"
	headers := []interface{}{"Cause", "Effect", "Strength"}
	if err := newSheet(f, sheet, headers); err != nil {
		return err
	}

	for i, link := range report.Network.Links {
		row := []interface{}{link.Cause, link.Effect, link.Strength}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}
