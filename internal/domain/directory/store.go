package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var out Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, role, COALESCE(org_unit_id::text,''), COALESCE(position_id::text,''), COALESCE(manager_id::text,''), created_at
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&out.ID, &out.Name, &out.Role, &out.OrgUnitID, &out.PositionID, &out.ManagerID, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return out, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, role, COALESCE(org_unit_id::text,''), COALESCE(position_id::text,''), COALESCE(manager_id::text,''), created_at
    FROM employees
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var employee Employee
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.Role, &employee.OrgUnitID, &employee.PositionID, &employee.ManagerID, &employee.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (s *Store) Roster(ctx context.Context) ([]RosterEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, COALESCE(org_unit_id::text,''), COALESCE(position_id::text,'')
    FROM employees
    WHERE status = 'active'
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []RosterEntry
	for rows.Next() {
		var entry RosterEntry
		if err := rows.Scan(&entry.EmployeeID, &entry.OrgUnitID, &entry.PositionID); err != nil {
			return nil, err
		}
		roster = append(roster, entry)
	}
	return roster, rows.Err()
}

func (s *Store) IsManagerOfEmployee(ctx context.Context, employeeID, managerID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM employees
    WHERE id = $1 AND manager_id = $2
  `, employeeID, managerID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) CreateEmployee(ctx context.Context, input EmployeeInput) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, role, org_unit_id, position_id, manager_id, status)
    VALUES ($1, $2, NULLIF($3,'')::uuid, NULLIF($4,'')::uuid, NULLIF($5,'')::uuid, $6)
    RETURNING id
  `, input.Name, input.Role, input.OrgUnitID, input.PositionID, input.ManagerID, input.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, input EmployeeInput) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $2,
        role = $3,
        org_unit_id = NULLIF($4,'')::uuid,
        position_id = NULLIF($5,'')::uuid,
        manager_id = NULLIF($6,'')::uuid,
        status = $7
    WHERE id = $1
  `, employeeID, input.Name, input.Role, input.OrgUnitID, input.PositionID, input.ManagerID, input.Status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListOrgUnits(ctx context.Context) ([]OrgUnit, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM org_units ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []OrgUnit
	for rows.Next() {
		var unit OrgUnit
		if err := rows.Scan(&unit.ID, &unit.Name); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, rows.Err()
}

func (s *Store) ListPositions(ctx context.Context) ([]Position, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM positions ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []Position
	for rows.Next() {
		var position Position
		if err := rows.Scan(&position.ID, &position.Name); err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, rows.Err()
}
