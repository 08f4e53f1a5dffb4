package workflow

type edge struct {
	from []string
	to   string
}

var edges = map[string]edge{
	ActionSubmit:   {from: []string{StatusDraft, StatusReturned}, to: StatusSubmitted},
	ActionApprove:  {from: []string{StatusSubmitted, StatusManagerReview}, to: StatusFinalReview},
	ActionReturn:   {from: []string{StatusSubmitted, StatusManagerReview}, to: StatusReturned},
	ActionFinalize: {from: []string{StatusFinalReview}, to: StatusFinalized},
}

// CanTransition reports whether the action is legal from the given status.
func CanTransition(from, action string) bool {
	e, ok := edges[action]
	if !ok {
		return false
	}
	for _, status := range e.from {
		if status == from {
			return true
		}
	}
	return false
}

// Target returns the status the action moves a sheet to.
func Target(action string) (string, bool) {
	e, ok := edges[action]
	if !ok {
		return "", false
	}
	return e.to, true
}

// selfEditableStatuses gate self-comment edits, managerEditableStatuses gate
// manager score edits, finalEditableStatuses gate final score edits.
var (
	selfEditableStatuses    = []string{StatusDraft, StatusReturned}
	managerEditableStatuses = []string{StatusSubmitted, StatusManagerReview}
	finalEditableStatuses   = []string{StatusFinalReview}
)

func statusIn(status string, set []string) bool {
	for _, candidate := range set {
		if candidate == status {
			return true
		}
	}
	return false
}
