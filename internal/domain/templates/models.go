package templates

import "time"

type Template struct {
	ID           string    `json:"id"`
	OrgUnitID    string    `json:"orgUnitId"`
	PositionID   string    `json:"positionId"`
	OrgUnitName  string    `json:"orgUnitName"`
	PositionName string    `json:"positionName"`
	Version      int       `json:"version"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Item struct {
	ID         string  `json:"id"`
	TemplateID string  `json:"templateId"`
	Name       string  `json:"name"`
	Weight     float64 `json:"weight"`
	SortOrder  int     `json:"sortOrder"`
	Period     string  `json:"period"`
	Unit       string  `json:"unit"`
	Rubric     string  `json:"rubric"`
}

type Level struct {
	ID         string `json:"id"`
	ItemID     string `json:"itemId"`
	ScorePoint int    `json:"scorePoint"`
	Criterion  string `json:"criterion"`
}

// Row is one staged import row. Weight stays textual until commit so the
// validator owns the parse, not the staging table.
type Row struct {
	Line         int
	OrgUnitName  string
	PositionName string
	ItemName     string
	Period       string
	Rubric       string
	Weight       string
	Unit         string
	// ScoreLevels holds only the populated score_N columns, keyed by point.
	ScoreLevels map[int]string
}

// VersionSpec is a fully validated template version ready to be written.
type VersionSpec struct {
	OrgUnitName  string
	PositionName string
	Items        []ItemSpec
}

type ItemSpec struct {
	Name      string
	Weight    float64
	SortOrder int
	Period    string
	Unit      string
	Rubric    string
	Levels    map[int]string
}

type CommittedVersion struct {
	TemplateID   string `json:"templateId"`
	OrgUnitName  string `json:"orgUnitName"`
	PositionName string `json:"positionName"`
	Version      int    `json:"version"`
	ItemCount    int    `json:"itemCount"`
}
