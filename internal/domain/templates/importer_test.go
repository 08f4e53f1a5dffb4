package templates

import (
	"strings"
	"testing"
)

const sampleCSV = `org_unit_name,position_name,item_name,weight,period,unit,rubric_description,score_0,score_50,score_100
Engineering,Backend,Delivery,5,H1,count,Ship features,none,some,all
Engineering,Backend,Quality,3,H1,count,Defect rate,poor,fair,excellent
Engineering,Backend,Teamwork,2,H1,,Peer feedback,weak,steady,strong
Sales,Rep,Revenue,10,H1,yen,Quota attainment,0%,50%,100%
`

func TestParseCSV(t *testing.T) {
	rows, rowErrs, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrs)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Line != 2 {
		t.Fatalf("data rows start at line 2, got %d", first.Line)
	}
	if first.OrgUnitName != "Engineering" || first.ItemName != "Delivery" || first.Weight != "5" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if first.ScoreLevels[0] != "none" || first.ScoreLevels[50] != "some" || first.ScoreLevels[100] != "all" {
		t.Fatalf("unexpected score levels: %v", first.ScoreLevels)
	}
	if _, ok := first.ScoreLevels[10]; ok {
		t.Fatal("absent score columns must not appear in levels")
	}
}

func TestParseCSVMissingRequiredColumn(t *testing.T) {
	csv := "org_unit_name,position_name,item_name\nEngineering,Backend,Delivery\n"
	rows, rowErrs, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(rowErrs) != 1 {
		t.Fatalf("expected 1 row error for the missing weight column, got %v", rowErrs)
	}
	if rowErrs[0].Field != "weight" || rowErrs[0].Line != 2 {
		t.Fatalf("unexpected row error: %+v", rowErrs[0])
	}
}

func TestParseCSVEmptyInput(t *testing.T) {
	rows, rowErrs, err := ParseCSV(strings.NewReader(""))
	if err != nil || rows != nil || rowErrs != nil {
		t.Fatalf("empty input must parse to nothing, got %v %v %v", rows, rowErrs, err)
	}
}

func TestValidateRowsCollectsEveryError(t *testing.T) {
	rows := []Row{
		{Line: 2, OrgUnitName: "", PositionName: "Backend", ItemName: "Delivery", Weight: "abc"},
		{Line: 3, OrgUnitName: "Engineering", PositionName: "Backend", ItemName: "Quality", Weight: "-1"},
		{Line: 4, OrgUnitName: "Engineering", PositionName: "Backend", ItemName: "Teamwork", Weight: ""},
	}

	errs := ValidateRows(rows)
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors (empty org, bad weight, negative weight, empty weight), got %d: %v", len(errs), errs)
	}
}

func TestBuildVersionsRejectsInvalidBatch(t *testing.T) {
	rows := []Row{
		{Line: 2, OrgUnitName: "Engineering", PositionName: "Backend", ItemName: "Delivery", Weight: "abc"},
	}
	specs, errs := BuildVersions(rows)
	if specs != nil {
		t.Fatal("an invalid batch must build nothing")
	}
	if len(errs) != 1 || errs[0].Field != "weight" {
		t.Fatalf("expected one weight error, got %v", errs)
	}
}

func TestBuildVersionsGrouping(t *testing.T) {
	rows, _, err := ParseCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	specs, errs := BuildVersions(rows)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(specs) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(specs))
	}

	eng := specs[0]
	if eng.OrgUnitName != "Engineering" || eng.PositionName != "Backend" {
		t.Fatalf("groups must keep first-appearance order, got %+v", eng)
	}
	if len(eng.Items) != 3 {
		t.Fatalf("expected 3 items in the Engineering group, got %d", len(eng.Items))
	}
	for i, name := range []string{"Delivery", "Quality", "Teamwork"} {
		if eng.Items[i].Name != name || eng.Items[i].SortOrder != i+1 {
			t.Fatalf("item order broken at %d: %+v", i, eng.Items[i])
		}
	}
	if eng.Items[0].Weight != 5 {
		t.Fatalf("expected parsed weight 5, got %v", eng.Items[0].Weight)
	}
}

func TestBuildVersionsMergesDuplicateItems(t *testing.T) {
	rows := []Row{
		{Line: 2, OrgUnitName: "Engineering", PositionName: "Backend", ItemName: "Delivery", Weight: "5",
			ScoreLevels: map[int]string{0: "none", 50: "some"}},
		{Line: 3, OrgUnitName: "Engineering", PositionName: "Backend", ItemName: "Delivery", Weight: "9",
			ScoreLevels: map[int]string{50: "overridden", 100: "all"}},
	}

	specs, errs := BuildVersions(rows)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(specs) != 1 || len(specs[0].Items) != 1 {
		t.Fatalf("duplicates must merge into one item, got %+v", specs)
	}

	item := specs[0].Items[0]
	if item.Weight != 5 {
		t.Fatalf("the first occurrence wins the weight, got %v", item.Weight)
	}
	if item.Levels[50] != "some" {
		t.Fatalf("existing levels must not be overridden, got %q", item.Levels[50])
	}
	if item.Levels[100] != "all" {
		t.Fatalf("later rows contribute missing levels, got %q", item.Levels[100])
	}
}

func TestParseWeight(t *testing.T) {
	if _, err := parseWeight("abc"); err == nil {
		t.Fatal("non-numeric weight must fail")
	}
	if _, err := parseWeight(""); err == nil {
		t.Fatal("empty weight must fail")
	}
	if _, err := parseWeight("-3"); err == nil {
		t.Fatal("negative weight must fail")
	}
	weight, err := parseWeight(" 2.5 ")
	if err != nil || weight != 2.5 {
		t.Fatalf("expected 2.5, got %v %v", weight, err)
	}
}
