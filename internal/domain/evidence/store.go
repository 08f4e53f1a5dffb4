package evidence

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(category,''), COALESCE(base_points,0)
    FROM tasks
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var task Task
		if err := rows.Scan(&task.ID, &task.Name, &task.Category, &task.BasePoints); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) ListLogs(ctx context.Context, employeeID string, weekStart time.Time) ([]TaskLog, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT l.id, l.employee_id, l.task_id, t.name, l.week_start, l.quantity, l.points, COALESCE(l.note,'')
    FROM task_logs l
    JOIN tasks t ON l.task_id = t.id
    WHERE l.employee_id = $1 AND l.week_start = $2
    ORDER BY t.name
  `, employeeID, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []TaskLog
	for rows.Next() {
		var log TaskLog
		if err := rows.Scan(&log.ID, &log.EmployeeID, &log.TaskID, &log.TaskName, &log.WeekStart, &log.Quantity, &log.Points, &log.Note); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range logs {
		links, err := s.listLinks(ctx, logs[i].ID)
		if err != nil {
			return nil, err
		}
		logs[i].Links = links
	}
	return logs, nil
}

func (s *Store) listLinks(ctx context.Context, logID string) ([]Link, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, task_log_id, kind, value
    FROM evidences
    WHERE task_log_id = $1
    ORDER BY created_at
  `, logID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var link Link
		if err := rows.Scan(&link.ID, &link.TaskLogID, &link.Kind, &link.Value); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *Store) CreateLog(ctx context.Context, log TaskLog) (string, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO task_logs (employee_id, task_id, week_start, quantity, points, note)
    VALUES ($1,$2,$3,$4,$5,NULLIF($6,''))
    RETURNING id
  `, log.EmployeeID, log.TaskID, log.WeekStart, log.Quantity, log.Points, log.Note).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) UpdateLog(ctx context.Context, logID, employeeID string, quantity *int, points *float64, note *string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE task_logs
    SET quantity = COALESCE($1, quantity),
        points = COALESCE($2, points),
        note = COALESCE($3, note),
        updated_at = now()
    WHERE id = $4 AND employee_id = $5
  `, quantity, points, note, logID, employeeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) CreateLink(ctx context.Context, logID, employeeID, kind, value string) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO evidences (owner_employee_id, task_log_id, kind, value)
    VALUES ($1,$2,$3,$4)
  `, employeeID, logID, kind, value)
	return err
}
