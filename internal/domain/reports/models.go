package reports

import "time"

// SheetProgress is one sheet's row in the cycle progress report, with the
// derived totals recomputed through the aggregator.
type SheetProgress struct {
	SheetID      string   `json:"sheetId"`
	EmployeeID   string   `json:"employeeId"`
	EmployeeName string   `json:"employeeName"`
	Status       string   `json:"status"`
	TotalScore   *float64 `json:"totalScore"`
	MissingCount int      `json:"missingCount"`
	Flags        []string `json:"flags"`
}

type CycleProgress struct {
	CycleID      string          `json:"cycleId"`
	CycleName    string          `json:"cycleName"`
	StatusCounts map[string]int  `json:"statusCounts"`
	Sheets       []SheetProgress `json:"sheets"`
}

type WeeklyPointsRow struct {
	EmployeeID   string    `json:"employeeId"`
	EmployeeName string    `json:"employeeName"`
	WeekStart    time.Time `json:"weekStart"`
	Points       float64   `json:"points"`
}
