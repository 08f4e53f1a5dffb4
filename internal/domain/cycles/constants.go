package cycles

const (
	CycleStatusActive = "active"
	CycleStatusClosed = "closed"

	SkipReasonNoActiveTemplate = "no-active-template"
	SkipReasonGenerationFailed = "generation-failed"
)
