package workflow

import (
	"context"
	"fmt"
	"strings"

	"evals/internal/domain/auth"
)

// Guards is the explicit configuration object governing authorization checks.
// Bypass skips role and ownership gating (development and test wiring only);
// it never changes state-machine legality.
type Guards struct {
	Bypass bool
}

type Service struct {
	store  StoreAPI
	dir    DirectoryAPI
	guards Guards
}

func NewService(store StoreAPI, dir DirectoryAPI, guards Guards) *Service {
	return &Service{store: store, dir: dir, guards: guards}
}

// Submit moves the actor's own sheet from draft or returned to submitted.
func (s *Service) Submit(ctx context.Context, sheetID string, actor auth.UserContext) error {
	return s.transition(ctx, sheetID, actor, ActionSubmit, "")
}

// Approve moves a report's sheet to final review.
func (s *Service) Approve(ctx context.Context, sheetID string, actor auth.UserContext, note string) error {
	return s.transition(ctx, sheetID, actor, ActionApprove, note)
}

// Return hands the sheet back to the employee; a reason is mandatory.
func (s *Service) Return(ctx context.Context, sheetID string, actor auth.UserContext, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: a return reason is required", ErrValidation)
	}
	return s.transition(ctx, sheetID, actor, ActionReturn, reason)
}

// Finalize locks the sheet. No score field changes after this succeeds.
func (s *Service) Finalize(ctx context.Context, sheetID string, actor auth.UserContext, note string) error {
	return s.transition(ctx, sheetID, actor, ActionFinalize, note)
}

func (s *Service) transition(ctx context.Context, sheetID string, actor auth.UserContext, action, note string) error {
	sheet, err := s.store.GetSheet(ctx, sheetID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, sheet, actor, action); err != nil {
		return err
	}

	if !CanTransition(sheet.Status, action) {
		return fmt.Errorf("%w: cannot %s a sheet in status %s", ErrInvalidTransition, action, sheet.Status)
	}

	target, _ := Target(action)
	applied, err := s.store.Transition(ctx, TransitionWrite{
		SheetID:       sheetID,
		FromStatus:    sheet.Status,
		ToStatus:      target,
		Action:        action,
		ActorID:       actor.EmployeeID,
		Note:          strings.TrimSpace(note),
		MarkSubmitted: action == ActionSubmit,
		MarkFinalized: action == ActionFinalize,
	})
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: sheet status changed concurrently, re-read and retry", ErrConflict)
	}
	return nil
}

// authorize enforces the role and ownership guard for a transition. The
// state-machine check stays outside: an actor who may never perform the
// action gets Forbidden regardless of the sheet's status.
func (s *Service) authorize(ctx context.Context, sheet Sheet, actor auth.UserContext, action string) error {
	if s.guards.Bypass || actor.Role == auth.RoleAdmin {
		return nil
	}

	switch action {
	case ActionSubmit:
		if actor.EmployeeID == "" || actor.EmployeeID != sheet.EmployeeID {
			return fmt.Errorf("%w: only the sheet owner may submit", ErrForbidden)
		}
	case ActionApprove, ActionReturn:
		if !actor.HasRole(auth.RoleManager) {
			return fmt.Errorf("%w: %s requires the manager role", ErrForbidden, action)
		}
		isManager, err := s.dir.IsManagerOfEmployee(ctx, sheet.EmployeeID, actor.EmployeeID)
		if err != nil {
			return err
		}
		if !isManager {
			return fmt.Errorf("%w: actor is not this employee's manager", ErrForbidden)
		}
	case ActionFinalize:
		if !actor.HasRole(auth.RoleHR) {
			return fmt.Errorf("%w: finalize requires the hr role", ErrForbidden)
		}
	default:
		return fmt.Errorf("%w: unknown action %s", ErrInvalidTransition, action)
	}
	return nil
}

func (s *Service) GetSheet(ctx context.Context, sheetID string) (Sheet, error) {
	return s.store.GetSheet(ctx, sheetID)
}

func (s *Service) ListActions(ctx context.Context, sheetID string) ([]WorkflowAction, error) {
	if _, err := s.store.GetSheet(ctx, sheetID); err != nil {
		return nil, err
	}
	return s.store.ListActions(ctx, sheetID)
}

func (s *Service) ListScores(ctx context.Context, sheetID string) ([]ScoreRow, error) {
	if _, err := s.store.GetSheet(ctx, sheetID); err != nil {
		return nil, err
	}
	return s.store.ListScores(ctx, sheetID)
}

func (s *Service) ListSheetsForEmployee(ctx context.Context, employeeID string) ([]SheetSummary, error) {
	return s.store.ListSheetsForEmployee(ctx, employeeID)
}

// Inbox lists the sheets waiting on the actor: own editable sheets for
// employees, reports' submitted sheets for managers, final-review sheets
// for hr.
func (s *Service) Inbox(ctx context.Context, actor auth.UserContext) ([]SheetSummary, error) {
	return s.store.Inbox(ctx, actor.Role, actor.EmployeeID)
}
