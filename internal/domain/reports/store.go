package reports

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCycleNotFound = errors.New("evaluation cycle not found")

type SheetRef struct {
	SheetID      string
	EmployeeID   string
	EmployeeName string
	Status       string
}

type StoreAPI interface {
	CycleName(ctx context.Context, cycleID string) (string, error)
	ListCycleSheets(ctx context.Context, cycleID string) ([]SheetRef, error)
	SheetNames(ctx context.Context, sheetID string) (employeeName, cycleName string, err error)
	WeeklyPoints(ctx context.Context, from, to time.Time) ([]WeeklyPointsRow, error)
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CycleName(ctx context.Context, cycleID string) (string, error) {
	var name string
	err := s.DB.QueryRow(ctx, "SELECT name FROM evaluation_cycles WHERE id = $1", cycleID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrCycleNotFound
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) ListCycleSheets(ctx context.Context, cycleID string) ([]SheetRef, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sh.id, sh.employee_id, e.name, sh.status
    FROM evaluation_sheets sh
    JOIN employees e ON sh.employee_id = e.id
    WHERE sh.cycle_id = $1
    ORDER BY e.name
  `, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []SheetRef
	for rows.Next() {
		var ref SheetRef
		if err := rows.Scan(&ref.SheetID, &ref.EmployeeID, &ref.EmployeeName, &ref.Status); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *Store) SheetNames(ctx context.Context, sheetID string) (string, string, error) {
	var employeeName, cycleName string
	err := s.DB.QueryRow(ctx, `
    SELECT e.name, c.name
    FROM evaluation_sheets sh
    JOIN employees e ON sh.employee_id = e.id
    JOIN evaluation_cycles c ON sh.cycle_id = c.id
    WHERE sh.id = $1
  `, sheetID).Scan(&employeeName, &cycleName)
	if err != nil {
		return "", "", err
	}
	return employeeName, cycleName, nil
}

func (s *Store) WeeklyPoints(ctx context.Context, from, to time.Time) ([]WeeklyPointsRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT l.employee_id, e.name, l.week_start, COALESCE(SUM(l.points),0)
    FROM task_logs l
    JOIN employees e ON l.employee_id = e.id
    WHERE l.week_start >= $1 AND l.week_start <= $2
    GROUP BY l.employee_id, e.name, l.week_start
    ORDER BY l.week_start, e.name
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WeeklyPointsRow
	for rows.Next() {
		var row WeeklyPointsRow
		if err := rows.Scan(&row.EmployeeID, &row.EmployeeName, &row.WeekStart, &row.Points); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
