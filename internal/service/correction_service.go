package service

import (
	"fmt"

	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/repository"
	"github.com/rs/zerolog/log"
)

type CorrectionService interface {
	Submit(userID int64, amount int64, description string) (*model.Correction, error)
	FindAllByUserID(userID int64) ([]model.Correction, error)
}

type correctionService struct {
	correctionRepo repository.CorrectionRepository
	clock          Clock
}

func NewCorrectionService(correctionRepo repository.CorrectionRepository, clock Clock) CorrectionService {
	return &correctionService{correctionRepo: correctionRepo, clock: clock}
}

// Submit appends a manual score adjustment. Any amount is accepted, including zero and negatives.
func (s *correctionService) Submit(userID int64, amount int64, description string) (*model.Correction, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	correction := model.Correction{
		UserID:      userID,
		Amount:      amount,
		Time:        s.clock.Now(),
		Description: description,
	}
	if err := s.correctionRepo.Create(&correction); err != nil {
		log.Error().Err(err).Int64("userID", userID).Int64("amount", amount).Msg("Failed to save correction")
		return nil, fmt.Errorf("database error saving correction: %w", err)
	}
	log.Info().Int64("userID", userID).Int64("amount", amount).Msg("Score correction recorded")
	return &correction, nil
}

func (s *correctionService) FindAllByUserID(userID int64) ([]model.Correction, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	corrections, err := s.correctionRepo.FindAllByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching corrections of user %d: %w", userID, err)
	}
	return corrections, nil
}
