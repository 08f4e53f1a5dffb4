package cycles

import (
	"context"
	"time"

	"evals/internal/domain/directory"
	"evals/internal/domain/templates"
)

type StoreAPI interface {
	CreateCycle(ctx context.Context, name string, start, end, due *time.Time, status string) (string, error)
	GetCycle(ctx context.Context, cycleID string) (Cycle, error)
	ListCycles(ctx context.Context) ([]Cycle, error)
	// CreateSheetWithScores inserts the sheet and one score row per item in
	// one transaction. It reports false without writing anything when the
	// employee already holds a sheet for the cycle.
	CreateSheetWithScores(ctx context.Context, cycleID, employeeID, templateID string, itemIDs []string) (bool, error)
}

// RosterAPI is the employee roster lookup the generator consumes.
type RosterAPI interface {
	Roster(ctx context.Context) ([]directory.RosterEntry, error)
}

// TemplateResolver resolves the active template for an employee's org unit
// and position at generation time.
type TemplateResolver interface {
	ActiveTemplate(ctx context.Context, orgUnitID, positionID string) (templates.Template, error)
	TemplateItems(ctx context.Context, templateID string) ([]templates.Item, error)
}
