package repository

import (
	"time"

	"github.com/lshigami/Bastion/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CsrfAttackRepository interface {
	// CreateIfAbsent leaves an existing row for the same pseudonym and module untouched.
	CreateIfAbsent(attack *model.CsrfAttack) error
	FindByPseudonymAndModuleName(pseudonym, moduleName string) (*model.CsrfAttack, error)
	CountByPseudonymAndModuleName(pseudonym, moduleName string) (int64, error)
	// MarkFinished sets finished only on rows that are still pending.
	MarkFinished(pseudonym, moduleName string, finished time.Time) (int64, error)
}

type csrfAttackRepository struct {
	db *gorm.DB
}

func NewCsrfAttackRepository(db *gorm.DB) CsrfAttackRepository {
	return &csrfAttackRepository{db: db}
}

func (r *csrfAttackRepository) CreateIfAbsent(attack *model.CsrfAttack) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "pseudonym"}, {Name: "module_name"}},
		DoNothing: true,
	}).Create(attack).Error
}

func (r *csrfAttackRepository) FindByPseudonymAndModuleName(pseudonym, moduleName string) (*model.CsrfAttack, error) {
	var attack model.CsrfAttack
	err := r.db.Where("pseudonym = ? AND module_name = ?", pseudonym, moduleName).First(&attack).Error
	if err != nil {
		return nil, err
	}
	return &attack, nil
}

func (r *csrfAttackRepository) CountByPseudonymAndModuleName(pseudonym, moduleName string) (int64, error) {
	var count int64
	err := r.db.Model(&model.CsrfAttack{}).
		Where("pseudonym = ? AND module_name = ?", pseudonym, moduleName).
		Count(&count).Error
	return count, err
}

func (r *csrfAttackRepository) MarkFinished(pseudonym, moduleName string, finished time.Time) (int64, error) {
	result := r.db.Model(&model.CsrfAttack{}).
		Where("pseudonym = ? AND module_name = ? AND finished IS NULL", pseudonym, moduleName).
		Update("finished", finished)
	return result.RowsAffected, result.Error
}
