package templates

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct {
	staged    []Row
	committed []VersionSpec
	version   int
}

func (f *fakeStore) ReplaceStaging(ctx context.Context, rows []Row) error {
	f.staged = rows
	return nil
}

func (f *fakeStore) ListStaged(ctx context.Context) ([]Row, error) {
	return f.staged, nil
}

func (f *fakeStore) CommitVersions(ctx context.Context, specs []VersionSpec) ([]CommittedVersion, error) {
	f.committed = append(f.committed, specs...)
	f.staged = nil

	f.version++
	out := make([]CommittedVersion, 0, len(specs))
	for _, spec := range specs {
		out = append(out, CommittedVersion{
			OrgUnitName:  spec.OrgUnitName,
			PositionName: spec.PositionName,
			Version:      f.version,
			ItemCount:    len(spec.Items),
		})
	}
	return out, nil
}

func (f *fakeStore) ListTemplates(ctx context.Context) ([]Template, error) { return nil, nil }

func (f *fakeStore) ActiveTemplate(ctx context.Context, orgUnitID, positionID string) (Template, error) {
	return Template{}, ErrNoActiveTemplate
}

func (f *fakeStore) TemplateItems(ctx context.Context, templateID string) ([]Item, error) {
	return nil, nil
}

func (f *fakeStore) ItemLevels(ctx context.Context, templateID string) ([]Level, error) {
	return nil, nil
}

func validRows() []Row {
	return []Row{
		{Line: 2, OrgUnitName: "Engineering", PositionName: "Backend", ItemName: "Delivery", Weight: "5"},
		{Line: 3, OrgUnitName: "Engineering", PositionName: "Backend", ItemName: "Quality", Weight: "3"},
	}
}

func TestStageRejectsInvalidBatchWholesale(t *testing.T) {
	store := &fakeStore{staged: validRows()}
	svc := NewService(store)

	bad := []Row{
		{Line: 2, OrgUnitName: "Engineering", PositionName: "Backend", ItemName: "Delivery", Weight: "abc"},
	}

	err := svc.Stage(context.Background(), bad)
	var importErr *ImportError
	if !errors.As(err, &importErr) {
		t.Fatalf("expected ImportError, got %v", err)
	}
	if len(importErr.Rows) != 1 {
		t.Fatalf("expected 1 row error, got %v", importErr.Rows)
	}
	if len(store.staged) != 2 {
		t.Fatal("a rejected batch must leave the prior staging intact")
	}
}

func TestStageReplacesPriorStaging(t *testing.T) {
	store := &fakeStore{staged: []Row{{Line: 2, OrgUnitName: "Old", PositionName: "Old", ItemName: "Old", Weight: "1"}}}
	svc := NewService(store)

	if err := svc.Stage(context.Background(), validRows()); err != nil {
		t.Fatalf("stage failed: %v", err)
	}
	if len(store.staged) != 2 || store.staged[0].OrgUnitName != "Engineering" {
		t.Fatalf("staging must be replaced wholesale, got %+v", store.staged)
	}
}

func TestCommitNothingStaged(t *testing.T) {
	svc := NewService(&fakeStore{})

	_, err := svc.Commit(context.Background())
	if !errors.Is(err, ErrNothingStaged) {
		t.Fatalf("expected ErrNothingStaged, got %v", err)
	}
}

func TestCommitClearsStaging(t *testing.T) {
	store := &fakeStore{staged: validRows()}
	svc := NewService(store)

	versions, err := svc.Commit(context.Background())
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if len(versions) != 1 || versions[0].ItemCount != 2 {
		t.Fatalf("unexpected commit result: %+v", versions)
	}
	if len(store.staged) != 0 {
		t.Fatal("commit must clear the staging area")
	}
}

func TestImportStageAndCommit(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	versions, err := svc.Import(context.Background(), validRows())
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("expected 1 committed version, got %d", len(versions))
	}
	if len(store.committed) != 1 {
		t.Fatalf("expected 1 committed spec, got %d", len(store.committed))
	}
}
