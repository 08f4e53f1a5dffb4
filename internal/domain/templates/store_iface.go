package templates

import "context"

type StoreAPI interface {
	ReplaceStaging(ctx context.Context, rows []Row) error
	ListStaged(ctx context.Context) ([]Row, error)
	CommitVersions(ctx context.Context, specs []VersionSpec) ([]CommittedVersion, error)
	ListTemplates(ctx context.Context) ([]Template, error)
	ActiveTemplate(ctx context.Context, orgUnitID, positionID string) (Template, error)
	TemplateItems(ctx context.Context, templateID string) ([]Item, error)
	ItemLevels(ctx context.Context, templateID string) ([]Level, error)
}
