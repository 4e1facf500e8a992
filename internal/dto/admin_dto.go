package dto

import "time"

// SetModulePointsRequest sets the points awarded for one solve rank of a module.
// Rank 0 is the first solve.
type SetModulePointsRequest struct {
	Rank   *int  `json:"rank" binding:"required,min=0"`
	Points int64 `json:"points"`
}

// CreateCorrectionRequest is a manual score adjustment. Amount may be negative.
type CreateCorrectionRequest struct {
	UserID      int64  `json:"user_id" binding:"required"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// CreateModuleRequest registers a module. FlagMode may be left empty and set later.
type CreateModuleRequest struct {
	Name       string `json:"name" binding:"required"`
	FlagMode   string `json:"flag_mode" binding:"omitempty,oneof=static dynamic"`
	StaticFlag string `json:"static_flag"`
}

// SetFlagModeRequest configures a module registered without a flag mode.
type SetFlagModeRequest struct {
	FlagMode   string `json:"flag_mode" binding:"required,oneof=static dynamic"`
	StaticFlag string `json:"static_flag"`
}

type ModulePointResponse struct {
	ModuleID uint  `json:"module_id"`
	Rank     int   `json:"rank"`
	Points   int64 `json:"points"`
}

type CorrectionResponse struct {
	ID          uint      `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      int64     `json:"amount"`
	Time        time.Time `json:"time"`
	Description string    `json:"description"`
}

type ServerKeyRefreshResponse struct {
	Message string `json:"message"`
}
