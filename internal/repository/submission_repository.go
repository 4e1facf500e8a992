package repository

import (
	"github.com/lshigami/Bastion/internal/model"
	"gorm.io/gorm"
)

type SubmissionRepository interface {
	// Create returns ErrDuplicate when a second valid row for the same user and module is inserted.
	Create(submission *model.Submission) error
	ExistsValidByUserIDAndModuleName(userID int64, moduleName string) (bool, error)
	FindAllByModuleName(moduleName string) ([]model.Submission, error)
	FindAllValidByModuleName(moduleName string) ([]model.Submission, error)
	FindAllValidByUserID(userID int64) ([]model.Submission, error)
	FindAllValid() ([]model.Submission, error)
	FindAllUserIDs() ([]int64, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(submission *model.Submission) error {
	return translateError(r.db.Create(submission).Error)
}

func (r *submissionRepository) ExistsValidByUserIDAndModuleName(userID int64, moduleName string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Submission{}).
		Where("user_id = ? AND module_name = ? AND is_valid = ?", userID, moduleName, true).
		Count(&count).Error
	return count > 0, err
}

func (r *submissionRepository) FindAllByModuleName(moduleName string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("module_name = ?", moduleName).Order("submitted_at ASC, id ASC").Find(&submissions).Error
	return submissions, err
}

// FindAllValidByModuleName returns solves in rank order: earliest first, insertion order on ties.
func (r *submissionRepository) FindAllValidByModuleName(moduleName string) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("module_name = ? AND is_valid = ?", moduleName, true).
		Order("submitted_at ASC, id ASC").
		Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindAllValidByUserID(userID int64) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("user_id = ? AND is_valid = ?", userID, true).Order("submitted_at ASC, id ASC").Find(&submissions).Error
	return submissions, err
}

// FindAllValid returns every solve grouped by module and in rank order within a module.
func (r *submissionRepository) FindAllValid() ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.db.Where("is_valid = ?", true).Order("module_name ASC, submitted_at ASC, id ASC").Find(&submissions).Error
	return submissions, err
}

func (r *submissionRepository) FindAllUserIDs() ([]int64, error) {
	var userIDs []int64
	err := r.db.Model(&model.Submission{}).Distinct("user_id").Order("user_id ASC").Pluck("user_id", &userIDs).Error
	return userIDs, err
}
