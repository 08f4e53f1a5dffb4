package directory

import "time"

type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	OrgUnitID  string    `json:"orgUnitId"`
	PositionID string    `json:"positionId"`
	ManagerID  string    `json:"managerId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type OrgUnit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Position struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EmployeeInput carries the writable employee fields. Empty reference ids
// are stored as NULL.
type EmployeeInput struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	OrgUnitID  string `json:"orgUnitId"`
	PositionID string `json:"positionId"`
	ManagerID  string `json:"managerId"`
	Status     string `json:"status"`
}

// RosterEntry is the slice of an employee the cycle generator needs to
// resolve a template.
type RosterEntry struct {
	EmployeeID string
	OrgUnitID  string
	PositionID string
}
