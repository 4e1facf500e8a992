package dto

// SubmitFlagRequest is the body of a flag submission.
type SubmitFlagRequest struct {
	UserID int64  `json:"user_id" binding:"required"` // Temporary - will be from auth token
	Flag   string `json:"flag" binding:"required"`
}
