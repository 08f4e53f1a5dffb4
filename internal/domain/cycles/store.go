package cycles

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrCycleNotFound = errors.New("evaluation cycle not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateCycle(ctx context.Context, name string, start, end, due *time.Time, status string) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluation_cycles (name, start_date, end_date, due_date, status)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, name, start, end, due, status).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	var cycle Cycle
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, start_date, end_date, due_date, status, created_at
    FROM evaluation_cycles
    WHERE id = $1
  `, cycleID).Scan(&cycle.ID, &cycle.Name, &cycle.StartDate, &cycle.EndDate, &cycle.DueDate, &cycle.Status, &cycle.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cycle{}, ErrCycleNotFound
	}
	if err != nil {
		return Cycle{}, err
	}
	return cycle, nil
}

func (s *Store) ListCycles(ctx context.Context) ([]Cycle, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, start_date, end_date, due_date, status, created_at
    FROM evaluation_cycles
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Cycle
	for rows.Next() {
		var cycle Cycle
		if err := rows.Scan(&cycle.ID, &cycle.Name, &cycle.StartDate, &cycle.EndDate, &cycle.DueDate, &cycle.Status, &cycle.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cycle)
	}
	return out, rows.Err()
}

func (s *Store) CreateSheetWithScores(ctx context.Context, cycleID, employeeID, templateID string, itemIDs []string) (bool, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var sheetID string
	err = tx.QueryRow(ctx, `
    INSERT INTO evaluation_sheets (cycle_id, employee_id, template_id, status)
    VALUES ($1,$2,$3,'draft')
    ON CONFLICT (cycle_id, employee_id) DO NOTHING
    RETURNING id
  `, cycleID, employeeID, templateID).Scan(&sheetID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Sheet already exists; generation is a no-op for this employee.
		return false, nil
	}
	if err != nil {
		return false, err
	}

	for _, itemID := range itemIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO evaluation_scores (sheet_id, item_id)
      VALUES ($1,$2)
    `, sheetID, itemID); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
