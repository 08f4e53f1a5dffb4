package workflow

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"evals/internal/domain/auth"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetSheet(ctx context.Context, sheetID string) (Sheet, error) {
	var sheet Sheet
	err := s.DB.QueryRow(ctx, `
    SELECT id, cycle_id, employee_id, template_id, status, submitted_at, finalized_at, created_at
    FROM evaluation_sheets
    WHERE id = $1
  `, sheetID).Scan(&sheet.ID, &sheet.CycleID, &sheet.EmployeeID, &sheet.TemplateID, &sheet.Status, &sheet.SubmittedAt, &sheet.FinalizedAt, &sheet.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sheet{}, ErrSheetNotFound
	}
	if err != nil {
		return Sheet{}, err
	}
	return sheet, nil
}

// Transition performs the optimistic-concurrency write: the status update is
// conditional on the caller's observed status, and the audit entry lands in
// the same transaction or not at all.
func (s *Store) Transition(ctx context.Context, write TransitionWrite) (bool, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE evaluation_sheets
    SET status = $1,
        submitted_at = CASE WHEN $2 THEN now() ELSE submitted_at END,
        finalized_at = CASE WHEN $3 THEN now() ELSE finalized_at END
    WHERE id = $4 AND status = $5
  `, write.ToStatus, write.MarkSubmitted, write.MarkFinalized, write.SheetID, write.FromStatus)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO workflow_actions (sheet_id, actor_id, action, note)
    VALUES ($1,$2,$3,NULLIF($4,''))
  `, write.SheetID, write.ActorID, write.Action, write.Note); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListActions(ctx context.Context, sheetID string) ([]WorkflowAction, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, sheet_id, actor_id, action, COALESCE(note,''), created_at
    FROM workflow_actions
    WHERE sheet_id = $1
    ORDER BY created_at
  `, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []WorkflowAction
	for rows.Next() {
		var action WorkflowAction
		if err := rows.Scan(&action.ID, &action.SheetID, &action.ActorID, &action.Action, &action.Note, &action.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

func (s *Store) ListScores(ctx context.Context, sheetID string) ([]ScoreRow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT s.id, s.sheet_id, s.item_id, i.item_name, i.weight, i.sort_order,
           COALESCE(s.self_comment,''), s.manager_score_point, COALESCE(s.manager_comment,''),
           s.final_score_point, COALESCE(s.final_comment,'')
    FROM evaluation_scores s
    JOIN evaluation_items i ON s.item_id = i.id
    WHERE s.sheet_id = $1
    ORDER BY i.sort_order
  `, sheetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []ScoreRow
	for rows.Next() {
		var score ScoreRow
		if err := rows.Scan(&score.ID, &score.SheetID, &score.ItemID, &score.ItemName, &score.Weight, &score.SortOrder,
			&score.SelfComment, &score.ManagerScorePoint, &score.ManagerComment,
			&score.FinalScorePoint, &score.FinalComment); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func (s *Store) ScoreRowExists(ctx context.Context, sheetID, itemID string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM evaluation_scores WHERE sheet_id = $1 AND item_id = $2
  `, sheetID, itemID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) UpdateManagerScore(ctx context.Context, sheetID, itemID string, point *int, comment string, allowedStatuses []string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_scores sc
    SET manager_score_point = $1, manager_comment = $2, updated_at = now()
    FROM evaluation_sheets sh
    WHERE sc.sheet_id = sh.id AND sc.sheet_id = $3 AND sc.item_id = $4 AND sh.status = ANY($5)
  `, point, comment, sheetID, itemID, allowedStatuses)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UpdateFinalScore(ctx context.Context, sheetID, itemID string, point *int, comment string, allowedStatuses []string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_scores sc
    SET final_score_point = $1, final_comment = $2, updated_at = now()
    FROM evaluation_sheets sh
    WHERE sc.sheet_id = sh.id AND sc.sheet_id = $3 AND sc.item_id = $4 AND sh.status = ANY($5)
  `, point, comment, sheetID, itemID, allowedStatuses)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) UpdateSelfComment(ctx context.Context, sheetID, itemID, comment string, allowedStatuses []string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE evaluation_scores sc
    SET self_comment = $1, updated_at = now()
    FROM evaluation_sheets sh
    WHERE sc.sheet_id = sh.id AND sc.sheet_id = $2 AND sc.item_id = $3 AND sh.status = ANY($4)
  `, comment, sheetID, itemID, allowedStatuses)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) ListSheetsForEmployee(ctx context.Context, employeeID string) ([]SheetSummary, error) {
	return s.querySummaries(ctx, `
    WHERE sh.employee_id = $1
    ORDER BY sh.created_at DESC
  `, employeeID)
}

func (s *Store) Inbox(ctx context.Context, role, employeeID string) ([]SheetSummary, error) {
	switch role {
	case auth.RoleManager:
		return s.querySummaries(ctx, `
      WHERE sh.status = ANY($2) AND e.manager_id = $1
      ORDER BY sh.created_at DESC
    `, employeeID, managerEditableStatuses)
	case auth.RoleHR, auth.RoleAdmin:
		return s.querySummaries(ctx, `
      WHERE sh.status = ANY($1)
      ORDER BY sh.created_at DESC
    `, finalEditableStatuses)
	default:
		return s.querySummaries(ctx, `
      WHERE sh.employee_id = $1 AND sh.status = ANY($2)
      ORDER BY sh.created_at DESC
    `, employeeID, selfEditableStatuses)
	}
}

func (s *Store) querySummaries(ctx context.Context, tail string, args ...any) ([]SheetSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sh.id, sh.cycle_id, sh.employee_id, sh.template_id, sh.status,
           sh.submitted_at, sh.finalized_at, sh.created_at, e.name, c.name
    FROM evaluation_sheets sh
    JOIN employees e ON sh.employee_id = e.id
    JOIN evaluation_cycles c ON sh.cycle_id = c.id
  `+tail, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []SheetSummary
	for rows.Next() {
		var summary SheetSummary
		if err := rows.Scan(&summary.ID, &summary.CycleID, &summary.EmployeeID, &summary.TemplateID, &summary.Status,
			&summary.SubmittedAt, &summary.FinalizedAt, &summary.CreatedAt, &summary.EmployeeName, &summary.CycleName); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
