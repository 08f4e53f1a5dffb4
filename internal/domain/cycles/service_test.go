package cycles

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"evals/internal/domain/directory"
	"evals/internal/domain/templates"
)

type fakeCycleStore struct {
	mu     sync.Mutex
	cycles map[string]Cycle
	sheets map[string]bool // cycleID+employeeID

	failFor map[string]error
}

func newFakeCycleStore() *fakeCycleStore {
	return &fakeCycleStore{
		cycles:  map[string]Cycle{},
		sheets:  map[string]bool{},
		failFor: map[string]error{},
	}
}

func (f *fakeCycleStore) CreateCycle(ctx context.Context, name string, start, end, due *time.Time, status string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := "c1"
	f.cycles[id] = Cycle{ID: id, Name: name, Status: status}
	return id, nil
}

func (f *fakeCycleStore) GetCycle(ctx context.Context, cycleID string) (Cycle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cycle, ok := f.cycles[cycleID]
	if !ok {
		return Cycle{}, ErrCycleNotFound
	}
	return cycle, nil
}

func (f *fakeCycleStore) ListCycles(ctx context.Context) ([]Cycle, error) { return nil, nil }

func (f *fakeCycleStore) CreateSheetWithScores(ctx context.Context, cycleID, employeeID, templateID string, itemIDs []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[employeeID]; err != nil {
		return false, err
	}
	key := cycleID + "/" + employeeID
	if f.sheets[key] {
		return false, nil
	}
	f.sheets[key] = true
	return true, nil
}

type fakeRoster struct {
	entries []directory.RosterEntry
}

func (f *fakeRoster) Roster(ctx context.Context) ([]directory.RosterEntry, error) {
	return f.entries, nil
}

type fakeResolver struct {
	templates map[string]templates.Template // keyed by orgUnitID/positionID
}

func (f *fakeResolver) ActiveTemplate(ctx context.Context, orgUnitID, positionID string) (templates.Template, error) {
	tmpl, ok := f.templates[orgUnitID+"/"+positionID]
	if !ok {
		return templates.Template{}, templates.ErrNoActiveTemplate
	}
	return tmpl, nil
}

func (f *fakeResolver) TemplateItems(ctx context.Context, templateID string) ([]templates.Item, error) {
	return []templates.Item{{ID: "i1"}, {ID: "i2"}, {ID: "i3"}}, nil
}

func TestGenerateSheets(t *testing.T) {
	store := newFakeCycleStore()
	roster := &fakeRoster{entries: []directory.RosterEntry{
		{EmployeeID: "e1", OrgUnitID: "o1", PositionID: "p1"},
		{EmployeeID: "e2", OrgUnitID: "o2", PositionID: "p2"}, // no template
	}}
	resolver := &fakeResolver{templates: map[string]templates.Template{
		"o1/p1": {ID: "t1", Version: 1, Active: true},
	}}
	svc := NewService(store, roster, resolver)

	result, err := svc.CreateCycleAndGenerate(context.Background(), "H1 2026", nil, nil, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if result.Created != 1 {
		t.Fatalf("expected 1 created sheet, got %d", result.Created)
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped employee, got %+v", result.Skipped)
	}
	if result.Skipped[0].EmployeeID != "e2" || result.Skipped[0].Reason != SkipReasonNoActiveTemplate {
		t.Fatalf("unexpected skip entry: %+v", result.Skipped[0])
	}
}

func TestGenerateSheetsIdempotent(t *testing.T) {
	store := newFakeCycleStore()
	roster := &fakeRoster{entries: []directory.RosterEntry{
		{EmployeeID: "e1", OrgUnitID: "o1", PositionID: "p1"},
	}}
	resolver := &fakeResolver{templates: map[string]templates.Template{
		"o1/p1": {ID: "t1"},
	}}
	svc := NewService(store, roster, resolver)

	result, err := svc.CreateCycleAndGenerate(context.Background(), "H1", nil, nil, nil)
	if err != nil || result.Created != 1 {
		t.Fatalf("first run: %+v %v", result, err)
	}

	// second run covers only roster additions; here there are none
	result, err = svc.GenerateSheets(context.Background(), result.CycleID)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if result.Created != 0 || len(result.Skipped) != 0 {
		t.Fatalf("re-run must be a no-op, got %+v", result)
	}

	// a late joiner gets a sheet without touching existing ones
	roster.entries = append(roster.entries, directory.RosterEntry{EmployeeID: "e2", OrgUnitID: "o1", PositionID: "p1"})
	result, err = svc.GenerateSheets(context.Background(), result.CycleID)
	if err != nil || result.Created != 1 {
		t.Fatalf("late joiner run: %+v %v", result, err)
	}
}

func TestGenerateSheetsMissingAssignment(t *testing.T) {
	store := newFakeCycleStore()
	roster := &fakeRoster{entries: []directory.RosterEntry{
		{EmployeeID: "e1", OrgUnitID: "", PositionID: "p1"},
	}}
	svc := NewService(store, roster, &fakeResolver{})

	result, err := svc.CreateCycleAndGenerate(context.Background(), "H1", nil, nil, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.Created != 0 || len(result.Skipped) != 1 || result.Skipped[0].Reason != SkipReasonNoActiveTemplate {
		t.Fatalf("employee without assignment must be skipped, got %+v", result)
	}
}

func TestGenerateSheetsOneFailureDoesNotBlockOthers(t *testing.T) {
	store := newFakeCycleStore()
	store.failFor["e2"] = errors.New("insert blew up")
	roster := &fakeRoster{entries: []directory.RosterEntry{
		{EmployeeID: "e1", OrgUnitID: "o1", PositionID: "p1"},
		{EmployeeID: "e2", OrgUnitID: "o1", PositionID: "p1"},
		{EmployeeID: "e3", OrgUnitID: "o1", PositionID: "p1"},
	}}
	resolver := &fakeResolver{templates: map[string]templates.Template{
		"o1/p1": {ID: "t1"},
	}}
	svc := NewService(store, roster, resolver)

	result, err := svc.CreateCycleAndGenerate(context.Background(), "H1", nil, nil, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("expected 2 created sheets, got %d", result.Created)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].EmployeeID != "e2" || result.Skipped[0].Reason != SkipReasonGenerationFailed {
		t.Fatalf("unexpected skip list: %+v", result.Skipped)
	}
}

func TestGenerateSheetsSkippedSorted(t *testing.T) {
	store := newFakeCycleStore()
	roster := &fakeRoster{entries: []directory.RosterEntry{
		{EmployeeID: "z9", OrgUnitID: "", PositionID: ""},
		{EmployeeID: "a1", OrgUnitID: "", PositionID: ""},
		{EmployeeID: "m5", OrgUnitID: "", PositionID: ""},
	}}
	svc := NewService(store, roster, &fakeResolver{})

	result, err := svc.CreateCycleAndGenerate(context.Background(), "H1", nil, nil, nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	want := []string{"a1", "m5", "z9"}
	for i, id := range want {
		if result.Skipped[i].EmployeeID != id {
			t.Fatalf("skip list must be sorted by employee id, got %+v", result.Skipped)
		}
	}
}

func TestGenerateSheetsUnknownCycle(t *testing.T) {
	svc := NewService(newFakeCycleStore(), &fakeRoster{}, &fakeResolver{})

	_, err := svc.GenerateSheets(context.Background(), "missing")
	if !errors.Is(err, ErrCycleNotFound) {
		t.Fatalf("expected ErrCycleNotFound, got %v", err)
	}
}
