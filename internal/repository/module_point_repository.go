package repository

import (
	"github.com/lshigami/Bastion/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ModulePointRepository interface {
	Upsert(point *model.ModulePoint) error
	FindByModuleIDAndRank(moduleID uint, rank int) (*model.ModulePoint, error)
	FindAllByModuleID(moduleID uint) ([]model.ModulePoint, error)
	FindAll() ([]model.ModulePoint, error)
}

type modulePointRepository struct {
	db *gorm.DB
}

func NewModulePointRepository(db *gorm.DB) ModulePointRepository {
	return &modulePointRepository{db: db}
}

func (r *modulePointRepository) Upsert(point *model.ModulePoint) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "module_id"}, {Name: "rank"}},
		DoUpdates: clause.AssignmentColumns([]string{"points"}),
	}).Create(point).Error
}

func (r *modulePointRepository) FindByModuleIDAndRank(moduleID uint, rank int) (*model.ModulePoint, error) {
	var point model.ModulePoint
	if err := r.db.Where("module_id = ? AND rank = ?", moduleID, rank).First(&point).Error; err != nil {
		return nil, err
	}
	return &point, nil
}

func (r *modulePointRepository) FindAllByModuleID(moduleID uint) ([]model.ModulePoint, error) {
	var points []model.ModulePoint
	err := r.db.Where("module_id = ?", moduleID).Order("rank ASC").Find(&points).Error
	return points, err
}

func (r *modulePointRepository) FindAll() ([]model.ModulePoint, error) {
	var points []model.ModulePoint
	err := r.db.Order("module_id ASC, rank ASC").Find(&points).Error
	return points, err
}
