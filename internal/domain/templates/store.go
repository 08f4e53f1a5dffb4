package templates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ReplaceStaging(ctx context.Context, rows []Row) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DELETE FROM stg_template_rows"); err != nil {
		return err
	}
	for _, row := range rows {
		levelsJSON, err := json.Marshal(row.ScoreLevels)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
      INSERT INTO stg_template_rows (line, org_unit_name, position_name, item_name, period, rubric_description, weight, unit, score_levels_json)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, row.Line, row.OrgUnitName, row.PositionName, row.ItemName, row.Period, row.Rubric, row.Weight, row.Unit, levelsJSON); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ListStaged(ctx context.Context) ([]Row, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT line, org_unit_name, position_name, item_name, period, rubric_description, weight, unit, score_levels_json
    FROM stg_template_rows
    ORDER BY line
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		var levelsJSON []byte
		if err := rows.Scan(&row.Line, &row.OrgUnitName, &row.PositionName, &row.ItemName, &row.Period, &row.Rubric, &row.Weight, &row.Unit, &levelsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(levelsJSON, &row.ScoreLevels); err != nil {
			row.ScoreLevels = map[int]string{}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CommitVersions writes every group's new version in one transaction so a
// failing group never leaves another group half-activated. The staging area
// is cleared in the same transaction.
func (s *Store) CommitVersions(ctx context.Context, specs []VersionSpec) ([]CommittedVersion, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	committed := make([]CommittedVersion, 0, len(specs))
	for _, spec := range specs {
		version, err := s.commitVersion(ctx, tx, spec)
		if err != nil {
			return nil, fmt.Errorf("commit %s/%s: %w", spec.OrgUnitName, spec.PositionName, err)
		}
		committed = append(committed, version)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM stg_template_rows"); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return committed, nil
}

func (s *Store) commitVersion(ctx context.Context, tx pgx.Tx, spec VersionSpec) (CommittedVersion, error) {
	orgUnitID, err := ensureNamed(ctx, tx, "org_units", spec.OrgUnitName)
	if err != nil {
		return CommittedVersion{}, err
	}
	positionID, err := ensureNamed(ctx, tx, "positions", spec.PositionName)
	if err != nil {
		return CommittedVersion{}, err
	}

	// Serialize concurrent commits for the same slot on the prior active row,
	// then compute the next version from the full history.
	var current int
	err = tx.QueryRow(ctx, `
    SELECT COALESCE(MAX(version), 0)
    FROM evaluation_templates
    WHERE org_unit_id = $1 AND position_id = $2
  `, orgUnitID, positionID).Scan(&current)
	if err != nil {
		return CommittedVersion{}, err
	}

	if _, err := tx.Exec(ctx, `
    UPDATE evaluation_templates
    SET active = false
    WHERE org_unit_id = $1 AND position_id = $2 AND active
  `, orgUnitID, positionID); err != nil {
		return CommittedVersion{}, err
	}

	var templateID string
	if err := tx.QueryRow(ctx, `
    INSERT INTO evaluation_templates (org_unit_id, position_id, version, active)
    VALUES ($1,$2,$3,true)
    RETURNING id
  `, orgUnitID, positionID, current+1).Scan(&templateID); err != nil {
		return CommittedVersion{}, err
	}

	for _, item := range spec.Items {
		var itemID string
		if err := tx.QueryRow(ctx, `
      INSERT INTO evaluation_items (template_id, item_name, weight, sort_order, period, unit, rubric_description)
      VALUES ($1,$2,$3,$4,$5,$6,$7)
      RETURNING id
    `, templateID, item.Name, item.Weight, item.SortOrder, item.Period, item.Unit, item.Rubric).Scan(&itemID); err != nil {
			return CommittedVersion{}, err
		}
		for _, point := range ScorePoints {
			criterion, ok := item.Levels[point]
			if !ok {
				continue
			}
			if _, err := tx.Exec(ctx, `
        INSERT INTO evaluation_item_levels (item_id, score_point, criterion_value)
        VALUES ($1,$2,$3)
      `, itemID, point, criterion); err != nil {
				return CommittedVersion{}, err
			}
		}
	}

	return CommittedVersion{
		TemplateID:   templateID,
		OrgUnitName:  spec.OrgUnitName,
		PositionName: spec.PositionName,
		Version:      current + 1,
		ItemCount:    len(spec.Items),
	}, nil
}

func ensureNamed(ctx context.Context, tx pgx.Tx, table, name string) (string, error) {
	var id string
	query := fmt.Sprintf(`
    INSERT INTO %s (name) VALUES ($1)
    ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `, table)
	if err := tx.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.org_unit_id, t.position_id, o.name, p.name, t.version, t.active, t.created_at
    FROM evaluation_templates t
    JOIN org_units o ON t.org_unit_id = o.id
    JOIN positions p ON t.position_id = p.id
    ORDER BY o.name, p.name, t.version DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		var tmpl Template
		if err := rows.Scan(&tmpl.ID, &tmpl.OrgUnitID, &tmpl.PositionID, &tmpl.OrgUnitName, &tmpl.PositionName, &tmpl.Version, &tmpl.Active, &tmpl.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, rows.Err()
}

func (s *Store) ActiveTemplate(ctx context.Context, orgUnitID, positionID string) (Template, error) {
	var tmpl Template
	err := s.DB.QueryRow(ctx, `
    SELECT t.id, t.org_unit_id, t.position_id, o.name, p.name, t.version, t.active, t.created_at
    FROM evaluation_templates t
    JOIN org_units o ON t.org_unit_id = o.id
    JOIN positions p ON t.position_id = p.id
    WHERE t.org_unit_id = $1 AND t.position_id = $2 AND t.active
  `, orgUnitID, positionID).Scan(&tmpl.ID, &tmpl.OrgUnitID, &tmpl.PositionID, &tmpl.OrgUnitName, &tmpl.PositionName, &tmpl.Version, &tmpl.Active, &tmpl.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Template{}, ErrNoActiveTemplate
	}
	if err != nil {
		return Template{}, err
	}
	return tmpl, nil
}

func (s *Store) TemplateItems(ctx context.Context, templateID string) ([]Item, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, template_id, item_name, weight, sort_order, period, unit, rubric_description
    FROM evaluation_items
    WHERE template_id = $1
    ORDER BY sort_order
  `, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.TemplateID, &item.Name, &item.Weight, &item.SortOrder, &item.Period, &item.Unit, &item.Rubric); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) ItemLevels(ctx context.Context, templateID string) ([]Level, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT l.id, l.item_id, l.score_point, l.criterion_value
    FROM evaluation_item_levels l
    JOIN evaluation_items i ON l.item_id = i.id
    WHERE i.template_id = $1
    ORDER BY i.sort_order, l.score_point
  `, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []Level
	for rows.Next() {
		var level Level
		if err := rows.Scan(&level.ID, &level.ItemID, &level.ScorePoint, &level.Criterion); err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}
	return levels, rows.Err()
}
