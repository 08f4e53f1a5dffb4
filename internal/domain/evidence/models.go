package evidence

import "time"

// Task is a master entry in the weekly task catalogue.
type Task struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	BasePoints float64 `json:"basePoints"`
}

// TaskLog is one employee's logged task activity for one week. Logs back up
// self-assessment claims; the aggregator reads them for evidence checks.
type TaskLog struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	TaskID     string    `json:"taskId"`
	TaskName   string    `json:"taskName"`
	WeekStart  time.Time `json:"weekStart"`
	Quantity   int       `json:"quantity"`
	Points     float64   `json:"points"`
	Note       string    `json:"note"`
	Links      []Link    `json:"links,omitempty"`
}

// Link is a reference backing a task log, for example a URL to the artifact.
type Link struct {
	ID        string `json:"id"`
	TaskLogID string `json:"taskLogId"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
}
