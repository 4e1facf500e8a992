package model

import (
	"time"
)

type Correction struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      int64     `json:"user_id" gorm:"not null;index"`
	Amount      int64     `json:"amount" gorm:"not null"` // may be negative
	Time        time.Time `json:"time" gorm:"column:issued_at;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
}
