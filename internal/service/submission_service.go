package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SubmissionService is the append-only ledger of flag attempts. A user solves
// a module at most once; the database enforces it, not this service.
type SubmissionService interface {
	Submit(userID int64, moduleName, flag string) (*model.Submission, error)
	SubmitValid(userID int64, moduleName string) (*model.Submission, error)
	RankOf(moduleName string) ([]model.RankedSubmission, error)
	FindAllByModuleName(moduleName string) ([]model.Submission, error)
	FindAllValidByUserID(userID int64) ([]model.Submission, error)
	FindAllValidModuleNamesByUserID(userID int64) ([]string, error)
}

type submissionService struct {
	submissionRepo repository.SubmissionRepository
	moduleRepo     repository.ModuleRepository
	flagService    FlagService
	clock          Clock
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	moduleRepo repository.ModuleRepository,
	flagService FlagService,
	clock Clock,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		moduleRepo:     moduleRepo,
		flagService:    flagService,
		clock:          clock,
	}
}

// Submit records an attempt. On success the returned submission says whether
// the flag was correct; an incorrect flag is not an error.
func (s *submissionService) Submit(userID int64, moduleName, flag string) (*model.Submission, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(moduleName) == "" {
		return nil, ErrEmptyModuleName
	}

	solved, err := s.submissionRepo.ExistsValidByUserIDAndModuleName(userID, moduleName)
	if err != nil {
		log.Error().Err(err).Int64("userID", userID).Str("module", moduleName).Msg("Failed to check solved state")
		return nil, fmt.Errorf("error checking solved state: %w", err)
	}
	if solved {
		s.recordRejected(userID, moduleName, flag)
		return nil, fmt.Errorf("user %d, module %s: %w", userID, moduleName, ErrAlreadySolved)
	}

	valid, err := s.flagService.Verify(userID, moduleName, flag)
	if err != nil {
		return nil, err
	}

	submission := model.Submission{
		UserID:     userID,
		ModuleName: moduleName,
		Time:       s.clock.Now(),
		IsValid:    valid,
		Flag:       flag,
	}
	if err := s.submissionRepo.Create(&submission); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Warn().Int64("userID", userID).Str("module", moduleName).Msg("Concurrent solve lost the race")
			s.recordRejected(userID, moduleName, flag)
			return nil, fmt.Errorf("user %d, module %s: %w", userID, moduleName, ErrAlreadySolved)
		}
		log.Error().Err(err).Int64("userID", userID).Str("module", moduleName).Msg("Failed to save submission")
		return nil, fmt.Errorf("database error saving submission: %w", err)
	}

	log.Info().Int64("userID", userID).Str("module", moduleName).Bool("valid", valid).Uint("submissionID", submission.ID).Msg("Submission recorded")
	return &submission, nil
}

// SubmitValid records a solve for exercises that check the answer themselves.
func (s *submissionService) SubmitValid(userID int64, moduleName string) (*model.Submission, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(moduleName) == "" {
		return nil, ErrEmptyModuleName
	}
	if _, err := s.moduleRepo.FindByName(moduleName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("module %s: %w", moduleName, ErrModuleNotFound)
		}
		return nil, fmt.Errorf("error loading module %s: %w", moduleName, err)
	}

	submission := model.Submission{
		UserID:     userID,
		ModuleName: moduleName,
		Time:       s.clock.Now(),
		IsValid:    true,
	}
	if err := s.submissionRepo.Create(&submission); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("user %d, module %s: %w", userID, moduleName, ErrAlreadySolved)
		}
		log.Error().Err(err).Int64("userID", userID).Str("module", moduleName).Msg("Failed to save valid submission")
		return nil, fmt.Errorf("database error saving submission: %w", err)
	}
	return &submission, nil
}

// recordRejected appends an invalid audit row. Failure here is logged and swallowed
// so the caller still sees ErrAlreadySolved.
func (s *submissionService) recordRejected(userID int64, moduleName, flag string) {
	audit := model.Submission{
		UserID:     userID,
		ModuleName: moduleName,
		Time:       s.clock.Now(),
		IsValid:    false,
		Flag:       flag,
	}
	if err := s.submissionRepo.Create(&audit); err != nil {
		log.Error().Err(err).Int64("userID", userID).Str("module", moduleName).Msg("Failed to record rejected submission")
	}
}

// RankOf orders the valid submissions of a module by time and then id. Rank 0 is the first solve.
func (s *submissionService) RankOf(moduleName string) ([]model.RankedSubmission, error) {
	if strings.TrimSpace(moduleName) == "" {
		return nil, ErrEmptyModuleName
	}
	submissions, err := s.submissionRepo.FindAllValidByModuleName(moduleName)
	if err != nil {
		return nil, fmt.Errorf("error fetching solves of module %s: %w", moduleName, err)
	}
	return assignRanks(submissions), nil
}

func (s *submissionService) FindAllByModuleName(moduleName string) ([]model.Submission, error) {
	submissions, err := s.submissionRepo.FindAllByModuleName(moduleName)
	if err != nil {
		return nil, fmt.Errorf("error fetching submissions of module %s: %w", moduleName, err)
	}
	return submissions, nil
}

func (s *submissionService) FindAllValidByUserID(userID int64) ([]model.Submission, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	submissions, err := s.submissionRepo.FindAllValidByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching solves of user %d: %w", userID, err)
	}
	return submissions, nil
}

func (s *submissionService) FindAllValidModuleNamesByUserID(userID int64) ([]string, error) {
	submissions, err := s.FindAllValidByUserID(userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(submissions))
	for _, submission := range submissions {
		names = append(names, submission.ModuleName)
	}
	return names, nil
}

// assignRanks expects submissions of one module already sorted by time and id.
func assignRanks(submissions []model.Submission) []model.RankedSubmission {
	ranked := make([]model.RankedSubmission, 0, len(submissions))
	for i, submission := range submissions {
		ranked = append(ranked, model.RankedSubmission{
			SubmissionID: submission.ID,
			UserID:       submission.UserID,
			ModuleName:   submission.ModuleName,
			Rank:         i,
			Time:         submission.Time,
		})
	}
	return ranked
}
