package evidence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrLogNotFound = errors.New("task log not found")
	ErrValidation  = errors.New("validation failed")
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListTasks(ctx context.Context) ([]Task, error) {
	return s.store.ListTasks(ctx)
}

func (s *Service) ListWeek(ctx context.Context, employeeID string, weekStart time.Time) ([]TaskLog, error) {
	return s.store.ListLogs(ctx, employeeID, weekStart)
}

// CreateLog appends one weekly entry, optionally with a first evidence link.
func (s *Service) CreateLog(ctx context.Context, log TaskLog, link *Link) (string, error) {
	if log.EmployeeID == "" || log.TaskID == "" {
		return "", fmt.Errorf("%w: employee and task are required", ErrValidation)
	}
	if log.Quantity < 0 || log.Points < 0 {
		return "", fmt.Errorf("%w: quantity and points must not be negative", ErrValidation)
	}
	if log.WeekStart.IsZero() {
		return "", fmt.Errorf("%w: week start is required", ErrValidation)
	}

	logID, err := s.store.CreateLog(ctx, log)
	if err != nil {
		return "", err
	}
	if link != nil && strings.TrimSpace(link.Value) != "" {
		if err := s.store.CreateLink(ctx, logID, log.EmployeeID, link.Kind, strings.TrimSpace(link.Value)); err != nil {
			return "", err
		}
	}
	return logID, nil
}

// UpdateLog edits quantity, points or note on an existing entry. Only the
// owner may edit their log.
func (s *Service) UpdateLog(ctx context.Context, logID, employeeID string, quantity *int, points *float64, note *string) error {
	if quantity != nil && *quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if points != nil && *points < 0 {
		return fmt.Errorf("%w: points must not be negative", ErrValidation)
	}
	updated, err := s.store.UpdateLog(ctx, logID, employeeID, quantity, points, note)
	if err != nil {
		return err
	}
	if !updated {
		return ErrLogNotFound
	}
	return nil
}

func (s *Service) AddLink(ctx context.Context, logID, employeeID, kind, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: link value is required", ErrValidation)
	}
	if kind == "" {
		kind = "url"
	}
	return s.store.CreateLink(ctx, logID, employeeID, kind, strings.TrimSpace(value))
}
