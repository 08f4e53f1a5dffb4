package scoring

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) SheetContext(ctx context.Context, sheetID string) (SheetContext, error) {
	var out SheetContext
	err := s.DB.QueryRow(ctx, `
    SELECT sh.id, sh.employee_id, c.start_date, c.end_date
    FROM evaluation_sheets sh
    JOIN evaluation_cycles c ON sh.cycle_id = c.id
    WHERE sh.id = $1
  `, sheetID).Scan(&out.SheetID, &out.EmployeeID, &out.Window.Start, &out.Window.End)
	if errors.Is(err, pgx.ErrNoRows) {
		return SheetContext{}, ErrSheetNotFound
	}
	if err != nil {
		return SheetContext{}, err
	}
	return out, nil
}

func (s *Store) ScoredItems(ctx context.Context, sheetID string) ([]ScoredItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sc.item_id, i.weight, sc.manager_score_point, sc.final_score_point
    FROM evaluation_scores sc
    JOIN evaluation_items i ON sc.item_id = i.id
    WHERE sc.sheet_id = $1
    ORDER BY i.sort_order
  `, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ScoredItem
	for rows.Next() {
		var item ScoredItem
		if err := rows.Scan(&item.ItemID, &item.Weight, &item.ManagerPoint, &item.FinalPoint); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) EvidenceEntries(ctx context.Context, employeeID string) ([]EvidenceEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT week_start, points
    FROM task_logs
    WHERE employee_id = $1
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []EvidenceEntry
	for rows.Next() {
		var entry EvidenceEntry
		if err := rows.Scan(&entry.WeekStart, &entry.Points); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
