package model

import (
	"time"
)

// FlagMode tells the flag service how a module's flag is produced.
type FlagMode string

const (
	FlagModeUnset   FlagMode = ""
	FlagModeStatic  FlagMode = "static"
	FlagModeDynamic FlagMode = "dynamic"
)

func (m FlagMode) Valid() bool {
	return m == FlagModeStatic || m == FlagModeDynamic
}

type Module struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex"` // "csrf-tutorial", also the flag derivation key
	Description string    `json:"description,omitempty"`
	FlagMode    FlagMode  `json:"flag_mode" gorm:"not null;default:''"`
	StaticFlag  *string   `json:"-"` // only for FlagModeStatic
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (m *Module) IsStatic() bool {
	return m.FlagMode == FlagModeStatic
}
