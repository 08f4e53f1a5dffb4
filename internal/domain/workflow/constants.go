package workflow

const (
	StatusDraft         = "draft"
	StatusSubmitted     = "submitted"
	StatusManagerReview = "manager_review"
	StatusFinalReview   = "final_review"
	StatusFinalized     = "finalized"
	StatusReturned      = "returned"

	ActionSubmit   = "submit"
	ActionApprove  = "approve"
	ActionReturn   = "return"
	ActionFinalize = "finalize"
)

var Actions = []string{ActionSubmit, ActionApprove, ActionReturn, ActionFinalize}

var Statuses = []string{
	StatusDraft,
	StatusSubmitted,
	StatusManagerReview,
	StatusFinalReview,
	StatusFinalized,
	StatusReturned,
}
