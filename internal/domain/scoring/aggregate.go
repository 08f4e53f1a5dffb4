package scoring

import (
	"math"
	"time"
)

const (
	FlagMissingItems = "missing-items"
	FlagLowEvidence  = "low-evidence"
	FlagHighVariance = "high-variance"

	// DefaultEvidenceThreshold is the low-evidence cutoff when no explicit
	// threshold is configured.
	DefaultEvidenceThreshold = 30.0

	// highVarianceSpread flags sheets whose scored items disagree by this
	// many points or more.
	highVarianceSpread = 40
)

type ScoredItem struct {
	ItemID       string
	Weight       float64
	ManagerPoint *int
	FinalPoint   *int
}

type EvidenceEntry struct {
	WeekStart time.Time
	Points    float64
}

// Window is a cycle's date range; nil bounds are open ends.
type Window struct {
	Start *time.Time
	End   *time.Time
}

func (w Window) contains(t time.Time) bool {
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

type Result struct {
	TotalScore    *float64 `json:"totalScore"`
	MissingCount  int      `json:"missingCount"`
	EvidenceTotal float64  `json:"evidenceTotal"`
	Flags         []string `json:"flags"`
}

// effectivePoint prefers the final score over the manager score; a row with
// neither counts as missing.
func effectivePoint(item ScoredItem) (int, bool) {
	if item.FinalPoint != nil {
		return *item.FinalPoint, true
	}
	if item.ManagerPoint != nil {
		return *item.ManagerPoint, true
	}
	return 0, false
}

// Aggregate derives the weighted total and data-quality flags for one sheet.
// It is pure and re-derivable at any time; nothing here is persisted.
func Aggregate(rows []ScoredItem, evidence []EvidenceEntry, window Window, threshold float64) Result {
	var result Result

	var weightedSum, weightTotal float64
	minScore, maxScore := 0, 0
	scored := 0
	for _, row := range rows {
		point, ok := effectivePoint(row)
		if !ok {
			result.MissingCount++
			continue
		}
		weightedSum += float64(point) * row.Weight
		weightTotal += row.Weight
		if scored == 0 || point < minScore {
			minScore = point
		}
		if scored == 0 || point > maxScore {
			maxScore = point
		}
		scored++
	}

	if scored > 0 && weightTotal > 0 {
		total := roundHalfUp1(weightedSum / weightTotal)
		result.TotalScore = &total
	}

	for _, entry := range evidence {
		if window.contains(entry.WeekStart) {
			result.EvidenceTotal += entry.Points
		}
	}

	if result.MissingCount > 0 {
		result.Flags = append(result.Flags, FlagMissingItems)
	}
	if result.EvidenceTotal < threshold {
		result.Flags = append(result.Flags, FlagLowEvidence)
	}
	if scored > 0 && maxScore-minScore >= highVarianceSpread {
		result.Flags = append(result.Flags, FlagHighVariance)
	}
	return result
}

// roundHalfUp1 rounds to one decimal place, halves away from zero upward.
func roundHalfUp1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
