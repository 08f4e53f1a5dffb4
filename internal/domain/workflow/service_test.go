package workflow

import (
	"context"
	"errors"
	"testing"

	"evals/internal/domain/auth"
)

type fakeStore struct {
	sheet Sheet

	transitions []TransitionWrite
	applied     bool

	scoreUpdated   bool
	scoreRowExists bool
	lastStatuses   []string
}

func (f *fakeStore) GetSheet(ctx context.Context, sheetID string) (Sheet, error) {
	if f.sheet.ID == "" || f.sheet.ID != sheetID {
		return Sheet{}, ErrSheetNotFound
	}
	return f.sheet, nil
}

func (f *fakeStore) Transition(ctx context.Context, write TransitionWrite) (bool, error) {
	if !f.applied {
		return false, nil
	}
	f.transitions = append(f.transitions, write)
	return true, nil
}

func (f *fakeStore) ListActions(ctx context.Context, sheetID string) ([]WorkflowAction, error) {
	return nil, nil
}

func (f *fakeStore) ListScores(ctx context.Context, sheetID string) ([]ScoreRow, error) {
	return nil, nil
}

func (f *fakeStore) ScoreRowExists(ctx context.Context, sheetID, itemID string) (bool, error) {
	return f.scoreRowExists, nil
}

func (f *fakeStore) UpdateManagerScore(ctx context.Context, sheetID, itemID string, point *int, comment string, allowedStatuses []string) (bool, error) {
	f.lastStatuses = allowedStatuses
	return f.scoreUpdated, nil
}

func (f *fakeStore) UpdateFinalScore(ctx context.Context, sheetID, itemID string, point *int, comment string, allowedStatuses []string) (bool, error) {
	f.lastStatuses = allowedStatuses
	return f.scoreUpdated, nil
}

func (f *fakeStore) UpdateSelfComment(ctx context.Context, sheetID, itemID, comment string, allowedStatuses []string) (bool, error) {
	f.lastStatuses = allowedStatuses
	return f.scoreUpdated, nil
}

func (f *fakeStore) ListSheetsForEmployee(ctx context.Context, employeeID string) ([]SheetSummary, error) {
	return nil, nil
}

func (f *fakeStore) Inbox(ctx context.Context, role, employeeID string) ([]SheetSummary, error) {
	return nil, nil
}

type fakeDirectory struct {
	manages bool
}

func (f *fakeDirectory) IsManagerOfEmployee(ctx context.Context, employeeID, managerID string) (bool, error) {
	return f.manages, nil
}

func newTestService(sheet Sheet, manages bool) (*Service, *fakeStore) {
	store := &fakeStore{sheet: sheet, applied: true, scoreUpdated: true, scoreRowExists: true}
	return NewService(store, &fakeDirectory{manages: manages}, Guards{}), store
}

var (
	owner   = auth.UserContext{UserID: "u1", EmployeeID: "e1", Role: auth.RoleEmployee}
	manager = auth.UserContext{UserID: "u2", EmployeeID: "e2", Role: auth.RoleManager}
	hr      = auth.UserContext{UserID: "u3", EmployeeID: "e3", Role: auth.RoleHR}
	admin   = auth.UserContext{UserID: "u4", EmployeeID: "e4", Role: auth.RoleAdmin}
)

func TestSubmitByOwner(t *testing.T) {
	svc, store := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusDraft}, false)

	if err := svc.Submit(context.Background(), "s1", owner); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if len(store.transitions) != 1 {
		t.Fatalf("expected 1 transition write, got %d", len(store.transitions))
	}
	write := store.transitions[0]
	if write.FromStatus != StatusDraft || write.ToStatus != StatusSubmitted {
		t.Fatalf("unexpected transition %s -> %s", write.FromStatus, write.ToStatus)
	}
	if !write.MarkSubmitted {
		t.Fatal("submit must stamp submitted_at")
	}
}

func TestSubmitByNonOwnerForbidden(t *testing.T) {
	svc, store := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusDraft}, false)

	err := svc.Submit(context.Background(), "s1", auth.UserContext{EmployeeID: "e9", Role: auth.RoleEmployee})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(store.transitions) != 0 {
		t.Fatal("forbidden submit must not write a transition")
	}
}

func TestApproveFromDraftIsInvalidTransition(t *testing.T) {
	svc, store := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusDraft}, true)

	err := svc.Approve(context.Background(), "s1", manager, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if len(store.transitions) != 0 {
		t.Fatal("rejected transition must not write an audit entry")
	}
}

func TestApproveRequiresManagerOfEmployee(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusSubmitted}, false)

	err := svc.Approve(context.Background(), "s1", manager, "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-manager, got %v", err)
	}
}

func TestApproveByEmployeeForbidden(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusSubmitted}, true)

	err := svc.Approve(context.Background(), "s1", owner, "")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for employee approve, got %v", err)
	}
}

func TestReturnRequiresReason(t *testing.T) {
	svc, store := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusSubmitted}, true)

	err := svc.Return(context.Background(), "s1", manager, "  ")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty reason, got %v", err)
	}
	if len(store.transitions) != 0 {
		t.Fatal("rejected return must not write a transition")
	}

	if err := svc.Return(context.Background(), "s1", manager, "missing evidence"); err != nil {
		t.Fatalf("return with reason failed: %v", err)
	}
	if store.transitions[0].Note != "missing evidence" {
		t.Fatalf("reason must land in the audit note, got %q", store.transitions[0].Note)
	}
}

func TestFinalizeRequiresHR(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusFinalReview}, true)

	if err := svc.Finalize(context.Background(), "s1", manager, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager finalize, got %v", err)
	}
	if err := svc.Finalize(context.Background(), "s1", hr, ""); err != nil {
		t.Fatalf("hr finalize failed: %v", err)
	}
}

func TestAdminPassesEveryGuard(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusSubmitted}, false)

	if err := svc.Approve(context.Background(), "s1", admin, ""); err != nil {
		t.Fatalf("admin approve failed: %v", err)
	}
}

func TestConcurrentTransitionConflict(t *testing.T) {
	store := &fakeStore{sheet: Sheet{ID: "s1", EmployeeID: "e1", Status: StatusDraft}, applied: false}
	svc := NewService(store, &fakeDirectory{}, Guards{})

	err := svc.Submit(context.Background(), "s1", owner)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict when the conditional write misses, got %v", err)
	}
}

func TestTransitionUnknownSheet(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusDraft}, false)

	if err := svc.Submit(context.Background(), "missing", owner); !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func intPtr(v int) *int { return &v }

func TestSetManagerScoreValidation(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusSubmitted}, true)

	if err := svc.SetManagerScore(context.Background(), "s1", "i1", manager, intPtr(55), "ok"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for off-scale point, got %v", err)
	}
	if err := svc.SetManagerScore(context.Background(), "s1", "i1", manager, intPtr(110), "ok"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for point above 100, got %v", err)
	}
	if err := svc.SetManagerScore(context.Background(), "s1", "i1", manager, intPtr(80), ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing comment, got %v", err)
	}
	if err := svc.SetManagerScore(context.Background(), "s1", "i1", manager, intPtr(80), "solid quarter"); err != nil {
		t.Fatalf("valid manager score failed: %v", err)
	}
}

func TestSetManagerScoreByEmployeeForbidden(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusSubmitted}, true)

	err := svc.SetManagerScore(context.Background(), "s1", "i1", owner, intPtr(80), "self serve")
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSetManagerScoreWrongStatus(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusDraft}, true)

	err := svc.SetManagerScore(context.Background(), "s1", "i1", manager, intPtr(80), "too early")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for draft sheet, got %v", err)
	}
}

func TestSetFinalScoreGating(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusFinalReview}, false)

	if err := svc.SetFinalScore(context.Background(), "s1", "i1", manager, intPtr(90), "done"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager final score, got %v", err)
	}
	if err := svc.SetFinalScore(context.Background(), "s1", "i1", hr, intPtr(90), "done"); err != nil {
		t.Fatalf("hr final score failed: %v", err)
	}
}

func TestSetSelfCommentOwnerOnly(t *testing.T) {
	svc, _ := newTestService(Sheet{ID: "s1", EmployeeID: "e1", Status: StatusDraft}, false)

	if err := svc.SetSelfComment(context.Background(), "s1", "i1", manager, "note"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.SetSelfComment(context.Background(), "s1", "i1", owner, "note"); err != nil {
		t.Fatalf("owner self comment failed: %v", err)
	}
}

func TestScoreWriteMissExplained(t *testing.T) {
	store := &fakeStore{sheet: Sheet{ID: "s1", EmployeeID: "e1", Status: StatusSubmitted}, scoreUpdated: false, scoreRowExists: false}
	svc := NewService(store, &fakeDirectory{manages: true}, Guards{})

	err := svc.SetManagerScore(context.Background(), "s1", "i1", manager, intPtr(70), "ok")
	if !errors.Is(err, ErrScoreRowNotFound) {
		t.Fatalf("expected ErrScoreRowNotFound for missing row, got %v", err)
	}

	store.scoreRowExists = true
	err = svc.SetManagerScore(context.Background(), "s1", "i1", manager, intPtr(70), "ok")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict when the row exists but the write missed, got %v", err)
	}
}

func TestGuardBypassSkipsAuthorization(t *testing.T) {
	store := &fakeStore{sheet: Sheet{ID: "s1", EmployeeID: "e1", Status: StatusSubmitted}, applied: true}
	svc := NewService(store, &fakeDirectory{}, Guards{Bypass: true})

	if err := svc.Approve(context.Background(), "s1", owner, ""); err != nil {
		t.Fatalf("bypass approve failed: %v", err)
	}

	// legality is never bypassed
	store.sheet.Status = StatusFinalized
	if err := svc.Approve(context.Background(), "s1", owner, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("bypass must not relax the state machine, got %v", err)
	}
}
