package handlers

// Common error message constants shared across handlers
const (
	ErrMsgInvalidRequestBody  = "Invalid request body"
	ErrMsgInvalidChecklistID  = "Invalid checklist ID"
	ErrMsgInvalidInspectionID = "Invalid inspection ID"
	ErrMsgInvalidItemID       = "Invalid item ID"
	ErrMsgInvalidActionID     = "Invalid action ID"
	ErrMsgUserIDNotFound      = "User ID not found"
)
