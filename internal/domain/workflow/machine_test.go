package workflow

import "testing"

func TestCanTransitionGrid(t *testing.T) {
	allowed := map[string]map[string]bool{
		StatusDraft:         {ActionSubmit: true},
		StatusReturned:      {ActionSubmit: true},
		StatusSubmitted:     {ActionApprove: true, ActionReturn: true},
		StatusManagerReview: {ActionApprove: true, ActionReturn: true},
		StatusFinalReview:   {ActionFinalize: true},
		StatusFinalized:     {},
	}

	for _, status := range Statuses {
		for _, action := range Actions {
			want := allowed[status][action]
			if got := CanTransition(status, action); got != want {
				t.Fatalf("CanTransition(%q, %q) = %v, want %v", status, action, got, want)
			}
		}
	}
}

func TestCanTransitionUnknownAction(t *testing.T) {
	if CanTransition(StatusDraft, "reopen") {
		t.Fatal("unknown action must never be legal")
	}
}

func TestTarget(t *testing.T) {
	cases := map[string]string{
		ActionSubmit:   StatusSubmitted,
		ActionApprove:  StatusFinalReview,
		ActionReturn:   StatusReturned,
		ActionFinalize: StatusFinalized,
	}
	for action, want := range cases {
		got, ok := Target(action)
		if !ok || got != want {
			t.Fatalf("Target(%q) = %q, %v; want %q, true", action, got, ok, want)
		}
	}
	if _, ok := Target("reopen"); ok {
		t.Fatal("Target must reject unknown actions")
	}
}

func TestFinalizedIsTerminal(t *testing.T) {
	for _, action := range Actions {
		if CanTransition(StatusFinalized, action) {
			t.Fatalf("finalized sheet must not accept %q", action)
		}
	}
}
