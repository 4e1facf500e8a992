package repository

import (
	"github.com/lshigami/Bastion/internal/model"
	"gorm.io/gorm"
)

type CorrectionRepository interface {
	Create(correction *model.Correction) error
	FindAllByUserID(userID int64) ([]model.Correction, error)
	SumByUserID(userID int64) (int64, error)
	SumGroupedByUserID() (map[int64]int64, error)
}

type correctionRepository struct {
	db *gorm.DB
}

func NewCorrectionRepository(db *gorm.DB) CorrectionRepository {
	return &correctionRepository{db: db}
}

func (r *correctionRepository) Create(correction *model.Correction) error {
	return r.db.Create(correction).Error
}

func (r *correctionRepository) FindAllByUserID(userID int64) ([]model.Correction, error) {
	var corrections []model.Correction
	err := r.db.Where("user_id = ?", userID).Order("issued_at ASC, id ASC").Find(&corrections).Error
	return corrections, err
}

func (r *correctionRepository) SumByUserID(userID int64) (int64, error) {
	var sum int64
	err := r.db.Model(&model.Correction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	return sum, err
}

func (r *correctionRepository) SumGroupedByUserID() (map[int64]int64, error) {
	var rows []struct {
		UserID int64
		Total  int64
	}
	err := r.db.Model(&model.Correction{}).
		Select("user_id, SUM(amount) as total").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[int64]int64, len(rows))
	for _, row := range rows {
		sums[row.UserID] = row.Total
	}
	return sums, nil
}
