package evidence

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	logs    []TaskLog
	links   []Link
	updated bool
	nextID  string
}

func (f *fakeStore) ListTasks(ctx context.Context) ([]Task, error) { return nil, nil }

func (f *fakeStore) ListLogs(ctx context.Context, employeeID string, weekStart time.Time) ([]TaskLog, error) {
	return f.logs, nil
}

func (f *fakeStore) CreateLog(ctx context.Context, log TaskLog) (string, error) {
	f.logs = append(f.logs, log)
	if f.nextID == "" {
		f.nextID = "log-1"
	}
	return f.nextID, nil
}

func (f *fakeStore) UpdateLog(ctx context.Context, logID, employeeID string, quantity *int, points *float64, note *string) (bool, error) {
	return f.updated, nil
}

func (f *fakeStore) CreateLink(ctx context.Context, logID, employeeID, kind, value string) error {
	f.links = append(f.links, Link{TaskLogID: logID, Kind: kind, Value: value})
	return nil
}

func monday() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func TestCreateLog(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	id, err := svc.CreateLog(context.Background(), TaskLog{
		EmployeeID: "e1",
		TaskID:     "t1",
		WeekStart:  monday(),
		Quantity:   3,
		Points:     12,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "log-1" {
		t.Fatalf("unexpected id %q", id)
	}
	if len(store.links) != 0 {
		t.Fatal("no link should be written without one in the request")
	}
}

func TestCreateLogWithLink(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	_, err := svc.CreateLog(context.Background(), TaskLog{
		EmployeeID: "e1",
		TaskID:     "t1",
		WeekStart:  monday(),
	}, &Link{Kind: "pr", Value: " https://git.example.com/pr/42 "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.links) != 1 {
		t.Fatalf("expected one link, got %d", len(store.links))
	}
	link := store.links[0]
	if link.TaskLogID != "log-1" || link.Kind != "pr" || link.Value != "https://git.example.com/pr/42" {
		t.Fatalf("unexpected link %+v", link)
	}
}

func TestCreateLogValidation(t *testing.T) {
	svc := NewService(&fakeStore{})

	cases := []TaskLog{
		{TaskID: "t1", WeekStart: monday()},
		{EmployeeID: "e1", WeekStart: monday()},
		{EmployeeID: "e1", TaskID: "t1"},
		{EmployeeID: "e1", TaskID: "t1", WeekStart: monday(), Quantity: -1},
		{EmployeeID: "e1", TaskID: "t1", WeekStart: monday(), Points: -5},
	}
	for i, log := range cases {
		if _, err := svc.CreateLog(context.Background(), log, nil); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestUpdateLog(t *testing.T) {
	store := &fakeStore{updated: true}
	svc := NewService(store)

	quantity := 5
	if err := svc.UpdateLog(context.Background(), "log-1", "e1", &quantity, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateLogRejectsNegative(t *testing.T) {
	svc := NewService(&fakeStore{updated: true})

	quantity := -1
	if err := svc.UpdateLog(context.Background(), "log-1", "e1", &quantity, nil, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	points := -0.5
	if err := svc.UpdateLog(context.Background(), "log-1", "e1", nil, &points, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateLogNotFound(t *testing.T) {
	svc := NewService(&fakeStore{updated: false})

	if err := svc.UpdateLog(context.Background(), "missing", "e1", nil, nil, nil); !errors.Is(err, ErrLogNotFound) {
		t.Fatalf("expected ErrLogNotFound, got %v", err)
	}
}

func TestAddLinkDefaultsKind(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	if err := svc.AddLink(context.Background(), "log-1", "e1", "", "https://example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.links[0].Kind != "url" {
		t.Fatalf("expected kind url, got %q", store.links[0].Kind)
	}
}

func TestAddLinkRequiresValue(t *testing.T) {
	svc := NewService(&fakeStore{})

	if err := svc.AddLink(context.Background(), "log-1", "e1", "url", "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
