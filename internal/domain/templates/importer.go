package templates

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ScorePoints are the discrete rubric points a level may describe.
var ScorePoints = []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

const (
	colOrgUnit  = "org_unit_name"
	colPosition = "position_name"
	colItemName = "item_name"
	colPeriod   = "period"
	colRubric   = "rubric_description"
	colWeight   = "weight"
	colUnit     = "unit"
)

var requiredColumns = []string{colOrgUnit, colPosition, colItemName, colWeight}

// ParseCSV decodes an import file into rows. Column names are case-sensitive;
// unrecognized columns are ignored. A required column missing from the header
// fails every data row on that field, matching the per-row error contract.
func ParseCSV(r io.Reader) ([]Row, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	var rowErrs []RowError
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		line++

		for _, col := range missing {
			rowErrs = append(rowErrs, RowError{Line: line, Field: col, Reason: "required column missing"})
		}

		row := Row{
			Line:         line,
			OrgUnitName:  field(record, colOrgUnit),
			PositionName: field(record, colPosition),
			ItemName:     field(record, colItemName),
			Period:       field(record, colPeriod),
			Rubric:       field(record, colRubric),
			Weight:       field(record, colWeight),
			Unit:         field(record, colUnit),
			ScoreLevels:  map[int]string{},
		}
		for _, point := range ScorePoints {
			if value := field(record, fmt.Sprintf("score_%d", point)); value != "" {
				row.ScoreLevels[point] = value
			}
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

// ValidateRows checks every row and returns the full error list rather than
// stopping at the first failure.
func ValidateRows(rows []Row) []RowError {
	var errs []RowError
	for _, row := range rows {
		if row.OrgUnitName == "" {
			errs = append(errs, RowError{Line: row.Line, Field: colOrgUnit, Reason: "must not be empty"})
		}
		if row.PositionName == "" {
			errs = append(errs, RowError{Line: row.Line, Field: colPosition, Reason: "must not be empty"})
		}
		if row.ItemName == "" {
			errs = append(errs, RowError{Line: row.Line, Field: colItemName, Reason: "must not be empty"})
		}
		if _, err := parseWeight(row.Weight); err != nil {
			errs = append(errs, RowError{Line: row.Line, Field: colWeight, Reason: err.Error()})
		}
	}
	return errs
}

// BuildVersions groups validated rows by (org unit, position) into version
// specs, preserving first-appearance order for groups and items.
func BuildVersions(rows []Row) ([]VersionSpec, []RowError) {
	if errs := ValidateRows(rows); len(errs) > 0 {
		return nil, errs
	}

	type groupKey struct{ orgUnit, position string }
	var order []groupKey
	groups := map[groupKey]*VersionSpec{}
	itemIndex := map[groupKey]map[string]int{}

	for _, row := range rows {
		key := groupKey{row.OrgUnitName, row.PositionName}
		spec, ok := groups[key]
		if !ok {
			spec = &VersionSpec{OrgUnitName: row.OrgUnitName, PositionName: row.PositionName}
			groups[key] = spec
			itemIndex[key] = map[string]int{}
			order = append(order, key)
		}

		if _, exists := itemIndex[key][row.ItemName]; exists {
			// Duplicate item names within a group merge into the first
			// occurrence; later rows only contribute missing levels.
			existing := &spec.Items[itemIndex[key][row.ItemName]]
			for point, criterion := range row.ScoreLevels {
				if _, has := existing.Levels[point]; !has {
					existing.Levels[point] = criterion
				}
			}
			continue
		}

		weight, _ := parseWeight(row.Weight)
		levels := make(map[int]string, len(row.ScoreLevels))
		for point, criterion := range row.ScoreLevels {
			levels[point] = criterion
		}
		spec.Items = append(spec.Items, ItemSpec{
			Name:      row.ItemName,
			Weight:    weight,
			SortOrder: len(spec.Items) + 1,
			Period:    row.Period,
			Unit:      row.Unit,
			Rubric:    row.Rubric,
			Levels:    levels,
		})
		itemIndex[key][row.ItemName] = len(spec.Items) - 1
	}

	specs := make([]VersionSpec, 0, len(order))
	for _, key := range order {
		specs = append(specs, *groups[key])
	}
	return specs, nil
}

func parseWeight(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, fmt.Errorf("must not be empty")
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	if weight < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return weight, nil
}
