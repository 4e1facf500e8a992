package repository

import (
	"github.com/lshigami/Bastion/internal/model"
	"gorm.io/gorm"
)

type ConfigurationRepository interface {
	FindByKey(key string) (*model.Configuration, error)
	Create(configuration *model.Configuration) error
	SetValue(key, value string) error
}

type configurationRepository struct {
	db *gorm.DB
}

func NewConfigurationRepository(db *gorm.DB) ConfigurationRepository {
	return &configurationRepository{db: db}
}

func (r *configurationRepository) FindByKey(key string) (*model.Configuration, error) {
	var configuration model.Configuration
	if err := r.db.Where("config_key = ?", key).First(&configuration).Error; err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (r *configurationRepository) Create(configuration *model.Configuration) error {
	return translateError(r.db.Create(configuration).Error)
}

func (r *configurationRepository) SetValue(key, value string) error {
	return r.db.Model(&model.Configuration{}).Where("config_key = ?", key).Update("value", value).Error
}
