package templates

import "context"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

// Stage validates row shape and replaces the pending batch wholesale. Any row
// error rejects the batch and leaves the prior staged rows in place.
func (s *Service) Stage(ctx context.Context, rows []Row) error {
	if errs := ValidateRows(rows); len(errs) > 0 {
		return &ImportError{Rows: errs}
	}
	return s.store.ReplaceStaging(ctx, rows)
}

// Commit turns the staged batch into new template versions, one per
// (org unit, position) group, activating each new version and deactivating
// its predecessor inside a single transaction. Nothing commits when any row
// fails validation; the staging area is cleared only on success.
func (s *Service) Commit(ctx context.Context) ([]CommittedVersion, error) {
	rows, err := s.store.ListStaged(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNothingStaged
	}

	specs, rowErrs := BuildVersions(rows)
	if len(rowErrs) > 0 {
		return nil, &ImportError{Rows: rowErrs}
	}
	return s.store.CommitVersions(ctx, specs)
}

// Import stages and commits a batch in one call.
func (s *Service) Import(ctx context.Context, rows []Row) ([]CommittedVersion, error) {
	if err := s.Stage(ctx, rows); err != nil {
		return nil, err
	}
	return s.Commit(ctx)
}

func (s *Service) ListTemplates(ctx context.Context) ([]Template, error) {
	return s.store.ListTemplates(ctx)
}

func (s *Service) ActiveTemplate(ctx context.Context, orgUnitID, positionID string) (Template, error) {
	return s.store.ActiveTemplate(ctx, orgUnitID, positionID)
}

func (s *Service) TemplateItems(ctx context.Context, templateID string) ([]Item, error) {
	return s.store.TemplateItems(ctx, templateID)
}

func (s *Service) ItemLevels(ctx context.Context, templateID string) ([]Level, error) {
	return s.store.ItemLevels(ctx, templateID)
}
