package directory

import "context"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.store.GetEmployee(ctx, employeeID)
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.store.ListEmployees(ctx)
}

func (s *Service) Roster(ctx context.Context) ([]RosterEntry, error) {
	return s.store.Roster(ctx)
}

func (s *Service) IsManagerOfEmployee(ctx context.Context, employeeID, managerID string) (bool, error) {
	return s.store.IsManagerOfEmployee(ctx, employeeID, managerID)
}

func (s *Service) CreateEmployee(ctx context.Context, input EmployeeInput) (string, error) {
	if input.Status == "" {
		input.Status = "active"
	}
	if input.Role == "" {
		input.Role = "employee"
	}
	return s.store.CreateEmployee(ctx, input)
}

func (s *Service) UpdateEmployee(ctx context.Context, employeeID string, input EmployeeInput) error {
	updated, err := s.store.UpdateEmployee(ctx, employeeID, input)
	if err != nil {
		return err
	}
	if !updated {
		return ErrEmployeeNotFound
	}
	return nil
}

func (s *Service) ListOrgUnits(ctx context.Context) ([]OrgUnit, error) {
	return s.store.ListOrgUnits(ctx)
}

func (s *Service) ListPositions(ctx context.Context) ([]Position, error) {
	return s.store.ListPositions(ctx)
}
