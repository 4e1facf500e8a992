package model

import (
	"time"
)

type CsrfAttack struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	Pseudonym  string     `json:"pseudonym" gorm:"not null;uniqueIndex:idx_csrf_attack_target"`
	ModuleName string     `json:"module_name" gorm:"not null;uniqueIndex:idx_csrf_attack_target"`
	Started    time.Time  `json:"started" gorm:"not null"`
	Finished   *time.Time `json:"finished,omitempty"` // set once by another user's attack
}
