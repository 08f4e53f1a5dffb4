package directory

import "context"

type StoreAPI interface {
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	Roster(ctx context.Context) ([]RosterEntry, error)
	IsManagerOfEmployee(ctx context.Context, employeeID, managerID string) (bool, error)
	ListOrgUnits(ctx context.Context) ([]OrgUnit, error)
	ListPositions(ctx context.Context) ([]Position, error)
	CreateEmployee(ctx context.Context, input EmployeeInput) (string, error)
	UpdateEmployee(ctx context.Context, employeeID string, input EmployeeInput) (bool, error)
}
