package scoring

import (
	"context"
	"errors"
)

var ErrSheetNotFound = errors.New("evaluation sheet not found")

// SheetContext is what the aggregator needs to know about a sheet: whose it
// is and which date window its cycle covers.
type SheetContext struct {
	SheetID    string
	EmployeeID string
	Window     Window
}

type StoreAPI interface {
	SheetContext(ctx context.Context, sheetID string) (SheetContext, error)
	ScoredItems(ctx context.Context, sheetID string) ([]ScoredItem, error)
	EvidenceEntries(ctx context.Context, employeeID string) ([]EvidenceEntry, error)
}

type Service struct {
	store     StoreAPI
	threshold float64
}

func NewService(store StoreAPI, threshold float64) *Service {
	if threshold <= 0 {
		threshold = DefaultEvidenceThreshold
	}
	return &Service{store: store, threshold: threshold}
}

// ComputeAggregate recomputes the derived view for one sheet. The only
// business error is a missing sheet.
func (s *Service) ComputeAggregate(ctx context.Context, sheetID string) (Result, error) {
	sheetCtx, err := s.store.SheetContext(ctx, sheetID)
	if err != nil {
		return Result{}, err
	}

	rows, err := s.store.ScoredItems(ctx, sheetID)
	if err != nil {
		return Result{}, err
	}

	evidence, err := s.store.EvidenceEntries(ctx, sheetCtx.EmployeeID)
	if err != nil {
		return Result{}, err
	}

	return Aggregate(rows, evidence, sheetCtx.Window, s.threshold), nil
}
