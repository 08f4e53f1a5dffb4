package reports

import (
	"context"
	"log/slog"
	"time"

	"evals/internal/domain/scoring"
)

// Aggregator is the single source of derived totals; the reports never
// recompute weighted scores themselves.
type Aggregator interface {
	ComputeAggregate(ctx context.Context, sheetID string) (scoring.Result, error)
}

type Service struct {
	store      StoreAPI
	aggregator Aggregator
	sheets     SheetReader
}

func NewService(store StoreAPI, aggregator Aggregator, sheets SheetReader) *Service {
	return &Service{store: store, aggregator: aggregator, sheets: sheets}
}

// CycleProgress reports per-status counts and per-sheet derived totals for
// one cycle. A failed aggregate degrades that row, not the whole report.
func (s *Service) CycleProgress(ctx context.Context, cycleID string) (CycleProgress, error) {
	cycleName, err := s.store.CycleName(ctx, cycleID)
	if err != nil {
		return CycleProgress{}, err
	}

	refs, err := s.store.ListCycleSheets(ctx, cycleID)
	if err != nil {
		return CycleProgress{}, err
	}

	progress := CycleProgress{
		CycleID:      cycleID,
		CycleName:    cycleName,
		StatusCounts: map[string]int{},
	}
	for _, ref := range refs {
		progress.StatusCounts[ref.Status]++
		row := SheetProgress{
			SheetID:      ref.SheetID,
			EmployeeID:   ref.EmployeeID,
			EmployeeName: ref.EmployeeName,
			Status:       ref.Status,
		}
		result, err := s.aggregator.ComputeAggregate(ctx, ref.SheetID)
		if err != nil {
			slog.Warn("progress aggregate failed", "sheetId", ref.SheetID, "err", err)
		} else {
			row.TotalScore = result.TotalScore
			row.MissingCount = result.MissingCount
			row.Flags = result.Flags
		}
		progress.Sheets = append(progress.Sheets, row)
	}
	return progress, nil
}

// WeeklyPoints sums logged task points per employee per week inside the
// given range.
func (s *Service) WeeklyPoints(ctx context.Context, from, to time.Time) ([]WeeklyPointsRow, error) {
	return s.store.WeeklyPoints(ctx, from, to)
}
