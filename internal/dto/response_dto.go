package dto

import "time"

type SubmissionResponse struct {
	ID         uint      `json:"id"`
	UserID     int64     `json:"user_id"`
	ModuleName string    `json:"module_name"`
	Time       time.Time `json:"time"`
	IsValid    bool      `json:"is_valid"`
}

type ModuleResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FlagMode    string `json:"flag_mode"`
	Solved      bool   `json:"solved"`
}

type ScoreboardEntryResponse struct {
	Rank         int   `json:"rank"`
	UserID       int64 `json:"user_id"`
	Score        int64 `json:"score"`
	GoldMedals   int   `json:"gold_medals"`
	SilverMedals int   `json:"silver_medals"`
	BronzeMedals int   `json:"bronze_medals"`
}

type RankedSubmissionResponse struct {
	ModuleName string    `json:"module_name"`
	Rank       int       `json:"rank"`
	Time       time.Time `json:"time"`
	Score      int64     `json:"score"`
}

// UserScoreResponse is a single user's scoreboard view.
type UserScoreResponse struct {
	UserID      int64                      `json:"user_id"`
	TotalScore  int64                      `json:"total_score"`
	Gold        int                        `json:"gold_medals"`
	Silver      int                        `json:"silver_medals"`
	Bronze      int                        `json:"bronze_medals"`
	Submissions []RankedSubmissionResponse `json:"submissions"`
}

type FlagResponse struct {
	Module string `json:"module"`
	Flag   string `json:"flag"`
}

type CsrfTutorialResponse struct {
	Pseudonym string `json:"pseudonym,omitempty"`
	Flag      string `json:"flag,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
