package model

type ModulePoint struct {
	ID       uint  `gorm:"primarykey" json:"id"`
	ModuleID uint  `json:"module_id" gorm:"not null;uniqueIndex:idx_module_point_rank"`
	Rank     int   `json:"rank" gorm:"not null;uniqueIndex:idx_module_point_rank"`
	Points   int64 `json:"points" gorm:"not null"`
}
