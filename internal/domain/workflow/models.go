package workflow

import "time"

type Sheet struct {
	ID          string     `json:"id"`
	CycleID     string     `json:"cycleId"`
	EmployeeID  string     `json:"employeeId"`
	TemplateID  string     `json:"templateId"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	FinalizedAt *time.Time `json:"finalizedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// WorkflowAction is one append-only audit entry; exactly one is written per
// successful transition, in the same transaction as the status change.
type WorkflowAction struct {
	ID        string    `json:"id"`
	SheetID   string    `json:"sheetId"`
	ActorID   string    `json:"actorId"`
	Action    string    `json:"action"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ScoreRow struct {
	ID                string  `json:"id"`
	SheetID           string  `json:"sheetId"`
	ItemID            string  `json:"itemId"`
	ItemName          string  `json:"itemName"`
	Weight            float64 `json:"weight"`
	SortOrder         int     `json:"sortOrder"`
	SelfComment       string  `json:"selfComment"`
	ManagerScorePoint *int    `json:"managerScorePoint,omitempty"`
	ManagerComment    string  `json:"managerComment"`
	FinalScorePoint   *int    `json:"finalScorePoint,omitempty"`
	FinalComment      string  `json:"finalComment"`
}

// SheetSummary is a sheet row decorated for list views and the inbox.
type SheetSummary struct {
	Sheet
	EmployeeName string `json:"employeeName"`
	CycleName    string `json:"cycleName"`
}

// TransitionWrite is the atomic unit a transition persists: conditional
// status change, timestamps, and the audit entry.
type TransitionWrite struct {
	SheetID       string
	FromStatus    string
	ToStatus      string
	Action        string
	ActorID       string
	Note          string
	MarkSubmitted bool
	MarkFinalized bool
}
