package workflow

import "context"

type StoreAPI interface {
	GetSheet(ctx context.Context, sheetID string) (Sheet, error)
	// Transition applies the write only if the sheet still holds FromStatus;
	// it reports false without any mutation when the check fails.
	Transition(ctx context.Context, write TransitionWrite) (bool, error)
	ListActions(ctx context.Context, sheetID string) ([]WorkflowAction, error)
	ListScores(ctx context.Context, sheetID string) ([]ScoreRow, error)
	ScoreRowExists(ctx context.Context, sheetID, itemID string) (bool, error)
	// The score updates are conditional on the sheet holding one of the
	// allowed statuses at write time; they report false when no row matched.
	UpdateManagerScore(ctx context.Context, sheetID, itemID string, point *int, comment string, allowedStatuses []string) (bool, error)
	UpdateFinalScore(ctx context.Context, sheetID, itemID string, point *int, comment string, allowedStatuses []string) (bool, error)
	UpdateSelfComment(ctx context.Context, sheetID, itemID, comment string, allowedStatuses []string) (bool, error)
	ListSheetsForEmployee(ctx context.Context, employeeID string) ([]SheetSummary, error)
	Inbox(ctx context.Context, role, employeeID string) ([]SheetSummary, error)
}

// DirectoryAPI is the slice of the employee directory the engine needs for
// its manager-of guard.
type DirectoryAPI interface {
	IsManagerOfEmployee(ctx context.Context, employeeID, managerID string) (bool, error)
}
