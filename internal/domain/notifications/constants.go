package notifications

const (
	TypeSheetSubmitted = "sheet_submitted"
	TypeSheetApproved  = "sheet_approved"
	TypeSheetReturned  = "sheet_returned"
	TypeSheetFinalized = "sheet_finalized"
)
