package reports

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"evals/internal/domain/workflow"
)

// SheetReader is the slice of the workflow service the PDF export reads.
type SheetReader interface {
	GetSheet(ctx context.Context, sheetID string) (workflow.Sheet, error)
	ListScores(ctx context.Context, sheetID string) ([]workflow.ScoreRow, error)
}

// SheetPDF renders one sheet as a printable summary with per-item scores
// and the derived total.
func (s *Service) SheetPDF(ctx context.Context, sheetID string) ([]byte, error) {
	sheet, err := s.sheets.GetSheet(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	scores, err := s.sheets.ListScores(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	result, err := s.aggregator.ComputeAggregate(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	employeeName, cycleName, err := s.store.SheetNames(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Evaluation Sheet")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", employeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Cycle: %s", cycleName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", sheet.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(75, 8, "Item", "1", 0, "", false, 0, "")
	pdf.CellFormat(25, 8, "Weight", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Manager", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Final", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range scores {
		pdf.CellFormat(75, 8, row.ItemName, "1", 0, "", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.1f", row.Weight), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, pointLabel(row.ManagerScorePoint), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, pointLabel(row.FinalScorePoint), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	if result.TotalScore != nil {
		pdf.Cell(0, 8, fmt.Sprintf("Total score: %.1f", *result.TotalScore))
	} else {
		pdf.Cell(0, 8, "Total score: not yet scored")
	}
	if len(result.Flags) > 0 {
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 8, fmt.Sprintf("Flags: %s", strings.Join(result.Flags, ", ")))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pointLabel(point *int) string {
	if point == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *point)
}
