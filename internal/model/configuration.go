package model

type Configuration struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Key   string `json:"key" gorm:"column:config_key;not null;uniqueIndex"`
	Value string `json:"value" gorm:"type:text;not null"`
}
