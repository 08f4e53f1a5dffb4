package workflow

import (
	"context"
	"fmt"
	"strings"

	"evals/internal/domain/auth"
)

// SetManagerScore records the first-pass score for one item. Allowed only
// while the sheet is submitted or under manager review, only by the
// employee's manager, and only with a justification comment.
func (s *Service) SetManagerScore(ctx context.Context, sheetID, itemID string, actor auth.UserContext, point *int, comment string) error {
	if err := validateScoreInput(point, comment); err != nil {
		return err
	}

	sheet, err := s.store.GetSheet(ctx, sheetID)
	if err != nil {
		return err
	}
	if err := s.authorizeManagerEdit(ctx, sheet, actor); err != nil {
		return err
	}
	if err := requireEditable(sheet.Status, managerEditableStatuses, "manager score"); err != nil {
		return err
	}

	updated, err := s.store.UpdateManagerScore(ctx, sheetID, itemID, point, strings.TrimSpace(comment), managerEditableStatuses)
	if err != nil {
		return err
	}
	if !updated {
		return s.explainScoreWriteMiss(ctx, sheetID, itemID)
	}
	return nil
}

// SetFinalScore records the finalizing score for one item; hr only, final
// review only.
func (s *Service) SetFinalScore(ctx context.Context, sheetID, itemID string, actor auth.UserContext, point *int, comment string) error {
	if err := validateScoreInput(point, comment); err != nil {
		return err
	}

	sheet, err := s.store.GetSheet(ctx, sheetID)
	if err != nil {
		return err
	}
	if !s.guards.Bypass && !actor.HasRole(auth.RoleHR) {
		return fmt.Errorf("%w: final score edits require the hr role", ErrForbidden)
	}
	if err := requireEditable(sheet.Status, finalEditableStatuses, "final score"); err != nil {
		return err
	}

	updated, err := s.store.UpdateFinalScore(ctx, sheetID, itemID, point, strings.TrimSpace(comment), finalEditableStatuses)
	if err != nil {
		return err
	}
	if !updated {
		return s.explainScoreWriteMiss(ctx, sheetID, itemID)
	}
	return nil
}

// SetSelfComment records the owner's self-assessment note for one item while
// the sheet is a draft or has been returned.
func (s *Service) SetSelfComment(ctx context.Context, sheetID, itemID string, actor auth.UserContext, comment string) error {
	sheet, err := s.store.GetSheet(ctx, sheetID)
	if err != nil {
		return err
	}
	if !s.guards.Bypass && actor.Role != auth.RoleAdmin && actor.EmployeeID != sheet.EmployeeID {
		return fmt.Errorf("%w: only the sheet owner may edit the self comment", ErrForbidden)
	}
	if err := requireEditable(sheet.Status, selfEditableStatuses, "self comment"); err != nil {
		return err
	}

	updated, err := s.store.UpdateSelfComment(ctx, sheetID, itemID, strings.TrimSpace(comment), selfEditableStatuses)
	if err != nil {
		return err
	}
	if !updated {
		return s.explainScoreWriteMiss(ctx, sheetID, itemID)
	}
	return nil
}

func (s *Service) authorizeManagerEdit(ctx context.Context, sheet Sheet, actor auth.UserContext) error {
	if s.guards.Bypass || actor.Role == auth.RoleAdmin {
		return nil
	}
	if !actor.HasRole(auth.RoleManager) {
		return fmt.Errorf("%w: manager score edits require the manager role", ErrForbidden)
	}
	isManager, err := s.dir.IsManagerOfEmployee(ctx, sheet.EmployeeID, actor.EmployeeID)
	if err != nil {
		return err
	}
	if !isManager {
		return fmt.Errorf("%w: actor is not this employee's manager", ErrForbidden)
	}
	return nil
}

func validateScoreInput(point *int, comment string) error {
	if point == nil {
		return nil
	}
	if *point < 0 || *point > 100 || *point%10 != 0 {
		return fmt.Errorf("%w: score point must be one of 0,10,...,100", ErrValidation)
	}
	if strings.TrimSpace(comment) == "" {
		return fmt.Errorf("%w: a comment is required when setting a score", ErrValidation)
	}
	return nil
}

func requireEditable(status string, allowed []string, field string) error {
	if statusIn(status, allowed) {
		return nil
	}
	return fmt.Errorf("%w: %s cannot be edited while the sheet is %s", ErrValidation, field, status)
}

// explainScoreWriteMiss distinguishes a missing score row from a sheet whose
// status moved between the gate check and the conditional write.
func (s *Service) explainScoreWriteMiss(ctx context.Context, sheetID, itemID string) error {
	exists, err := s.store.ScoreRowExists(ctx, sheetID, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrScoreRowNotFound
	}
	return fmt.Errorf("%w: sheet status changed concurrently, re-read and retry", ErrConflict)
}
