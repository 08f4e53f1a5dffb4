package cycles

import "time"

type Cycle struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	DueDate   *time.Time `json:"dueDate,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

type SkippedEmployee struct {
	EmployeeID string `json:"employeeId"`
	Reason     string `json:"reason"`
}

type GenerationResult struct {
	CycleID string            `json:"cycleId"`
	Created int               `json:"created"`
	Skipped []SkippedEmployee `json:"skipped"`
}
