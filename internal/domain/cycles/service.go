package cycles

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"evals/internal/domain/templates"
)

const defaultGenerationWorkers = 8

type Service struct {
	store    StoreAPI
	roster   RosterAPI
	resolver TemplateResolver
	workers  int
}

func NewService(store StoreAPI, roster RosterAPI, resolver TemplateResolver) *Service {
	return &Service{store: store, roster: roster, resolver: resolver, workers: defaultGenerationWorkers}
}

// CreateCycleAndGenerate creates the cycle and instantiates one sheet per
// eligible employee.
func (s *Service) CreateCycleAndGenerate(ctx context.Context, name string, start, end, due *time.Time) (GenerationResult, error) {
	cycleID, err := s.store.CreateCycle(ctx, name, start, end, due, CycleStatusActive)
	if err != nil {
		return GenerationResult{}, err
	}
	return s.GenerateSheets(ctx, cycleID)
}

// GenerateSheets walks the roster and creates a draft sheet plus its score
// rows for every employee that lacks one. Idempotent per employee: re-running
// for a cycle only covers roster members added since the last run. Employees
// run independently so one failure never blocks the rest.
func (s *Service) GenerateSheets(ctx context.Context, cycleID string) (GenerationResult, error) {
	if _, err := s.store.GetCycle(ctx, cycleID); err != nil {
		return GenerationResult{}, err
	}

	roster, err := s.roster.Roster(ctx)
	if err != nil {
		return GenerationResult{}, err
	}

	var mu sync.Mutex
	result := GenerationResult{CycleID: cycleID}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)
	for _, entry := range roster {
		entry := entry
		group.Go(func() error {
			created, skip := s.generateForEmployee(groupCtx, cycleID, entry.EmployeeID, entry.OrgUnitID, entry.PositionID)
			mu.Lock()
			defer mu.Unlock()
			if created {
				result.Created++
			}
			if skip != nil {
				result.Skipped = append(result.Skipped, *skip)
			}
			return nil
		})
	}
	_ = group.Wait()

	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].EmployeeID < result.Skipped[j].EmployeeID
	})
	return result, nil
}

func (s *Service) generateForEmployee(ctx context.Context, cycleID, employeeID, orgUnitID, positionID string) (bool, *SkippedEmployee) {
	if orgUnitID == "" || positionID == "" {
		return false, &SkippedEmployee{EmployeeID: employeeID, Reason: SkipReasonNoActiveTemplate}
	}

	tmpl, err := s.resolver.ActiveTemplate(ctx, orgUnitID, positionID)
	if errors.Is(err, templates.ErrNoActiveTemplate) {
		return false, &SkippedEmployee{EmployeeID: employeeID, Reason: SkipReasonNoActiveTemplate}
	}
	if err != nil {
		slog.Warn("sheet generation template lookup failed", "employeeId", employeeID, "err", err)
		return false, &SkippedEmployee{EmployeeID: employeeID, Reason: SkipReasonGenerationFailed}
	}

	items, err := s.resolver.TemplateItems(ctx, tmpl.ID)
	if err != nil {
		slog.Warn("sheet generation item lookup failed", "employeeId", employeeID, "err", err)
		return false, &SkippedEmployee{EmployeeID: employeeID, Reason: SkipReasonGenerationFailed}
	}

	itemIDs := make([]string, 0, len(items))
	for _, item := range items {
		itemIDs = append(itemIDs, item.ID)
	}

	created, err := s.store.CreateSheetWithScores(ctx, cycleID, employeeID, tmpl.ID, itemIDs)
	if err != nil {
		slog.Warn("sheet generation failed", "employeeId", employeeID, "err", err)
		return false, &SkippedEmployee{EmployeeID: employeeID, Reason: SkipReasonGenerationFailed}
	}
	return created, nil
}

func (s *Service) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	return s.store.GetCycle(ctx, cycleID)
}

func (s *Service) ListCycles(ctx context.Context) ([]Cycle, error) {
	return s.store.ListCycles(ctx)
}
