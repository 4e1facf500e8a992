package repository

import (
	"github.com/lshigami/Bastion/internal/model"
	"gorm.io/gorm"
)

type ModuleRepository interface {
	Create(module *model.Module) error
	FindByID(id uint) (*model.Module, error)
	FindByName(name string) (*model.Module, error)
	FindAll() ([]model.Module, error)
	// SetFlagMode only touches modules whose mode is still unset and reports how many rows changed.
	SetFlagMode(name string, mode model.FlagMode, staticFlag *string) (int64, error)
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(module *model.Module) error {
	return translateError(r.db.Create(module).Error)
}

func (r *moduleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) FindByName(name string) (*model.Module, error) {
	var module model.Module
	if err := r.db.Where("name = ?", name).First(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) FindAll() ([]model.Module, error) {
	var modules []model.Module
	if err := r.db.Order("id ASC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepository) SetFlagMode(name string, mode model.FlagMode, staticFlag *string) (int64, error) {
	result := r.db.Model(&model.Module{}).
		Where("name = ? AND flag_mode = ?", name, string(model.FlagModeUnset)).
		Updates(map[string]interface{}{"flag_mode": string(mode), "static_flag": staticFlag})
	return result.RowsAffected, result.Error
}
