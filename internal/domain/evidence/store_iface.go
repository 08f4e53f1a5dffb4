package evidence

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListTasks(ctx context.Context) ([]Task, error)
	ListLogs(ctx context.Context, employeeID string, weekStart time.Time) ([]TaskLog, error)
	CreateLog(ctx context.Context, log TaskLog) (string, error)
	UpdateLog(ctx context.Context, logID, employeeID string, quantity *int, points *float64, note *string) (bool, error)
	CreateLink(ctx context.Context, logID, employeeID, kind, value string) error
}
