package model

import (
	"time"
)

// Submission is one flag attempt. Rows are never updated; the partial unique
// index keeps at most one valid row per user and module.
type Submission struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_submission_solved,where:is_valid = true"`
	ModuleName string    `json:"module_name" gorm:"not null;index;uniqueIndex:idx_submission_solved,where:is_valid = true"`
	Time       time.Time `json:"time" gorm:"column:submitted_at;not null;index"`
	IsValid    bool      `json:"is_valid" gorm:"not null;default:false"`
	Flag       string    `json:"flag" gorm:"type:text"`
}

// RankedSubmission is a valid submission placed among all solves of its module.
type RankedSubmission struct {
	SubmissionID uint      `json:"submission_id"`
	UserID       int64     `json:"user_id"`
	ModuleName   string    `json:"module_name"`
	Rank         int       `json:"rank"` // 0 = first solve
	Time         time.Time `json:"time"`
	Score        int64     `json:"score"`
}
