package service

import (
	"fmt"
	"strings"

	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/repository"
	"github.com/rs/zerolog/log"
)

const csrfPseudonymPurpose = "csrfPseudonym"

type AttackOutcome int

const (
	AttackCompleted AttackOutcome = iota
	AttackSelfRejected
	AttackTargetNotFound
)

func (o AttackOutcome) String() string {
	switch o {
	case AttackCompleted:
		return "completed"
	case AttackSelfRejected:
		return "self_rejected"
	case AttackTargetNotFound:
		return "target_not_found"
	default:
		return fmt.Sprintf("AttackOutcome(%d)", int(o))
	}
}

// CsrfService tracks cross-user attacks by pseudonym so the acting user never
// learns the victim's numeric id.
type CsrfService interface {
	PseudonymFor(userID int64, moduleName string) (string, error)
	RegisterIfAbsent(pseudonym, moduleName string) error
	Attack(targetPseudonym, moduleName string, actingUserID int64) (AttackOutcome, error)
	IsCompleted(pseudonym, moduleName string) (bool, error)
	Validate(pseudonym, moduleName string) (bool, error)
}

type csrfService struct {
	csrfRepo    repository.CsrfAttackRepository
	flagService FlagService
	clock       Clock
}

func NewCsrfService(csrfRepo repository.CsrfAttackRepository, flagService FlagService, clock Clock) CsrfService {
	return &csrfService{csrfRepo: csrfRepo, flagService: flagService, clock: clock}
}

func (s *csrfService) PseudonymFor(userID int64, moduleName string) (string, error) {
	return s.flagService.SaltedTag(userID, moduleName, csrfPseudonymPurpose)
}

func (s *csrfService) RegisterIfAbsent(pseudonym, moduleName string) error {
	if pseudonym == "" || strings.TrimSpace(moduleName) == "" {
		return fmt.Errorf("%w: pseudonym and module name are required", ErrEmptyModuleName)
	}
	attack := model.CsrfAttack{
		Pseudonym:  pseudonym,
		ModuleName: moduleName,
		Started:    s.clock.Now(),
	}
	if err := s.csrfRepo.CreateIfAbsent(&attack); err != nil {
		log.Error().Err(err).Str("module", moduleName).Msg("Failed to register csrf target")
		return fmt.Errorf("database error registering csrf target: %w", err)
	}
	return nil
}

// Attack completes the target's attack. Repeating a completed attack is a no-op
// that still reports AttackCompleted.
func (s *csrfService) Attack(targetPseudonym, moduleName string, actingUserID int64) (AttackOutcome, error) {
	own, err := s.PseudonymFor(actingUserID, moduleName)
	if err != nil {
		return 0, err
	}
	if own == targetPseudonym {
		return AttackSelfRejected, nil
	}

	count, err := s.csrfRepo.CountByPseudonymAndModuleName(targetPseudonym, moduleName)
	if err != nil {
		return 0, fmt.Errorf("error looking up csrf target: %w", err)
	}
	if count == 0 {
		return AttackTargetNotFound, nil
	}

	updated, err := s.csrfRepo.MarkFinished(targetPseudonym, moduleName, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("module", moduleName).Msg("Failed to mark csrf attack finished")
		return 0, fmt.Errorf("database error finishing csrf attack: %w", err)
	}
	if updated > 0 {
		log.Info().Int64("actingUserID", actingUserID).Str("module", moduleName).Msg("CSRF attack completed")
	}
	return AttackCompleted, nil
}

func (s *csrfService) IsCompleted(pseudonym, moduleName string) (bool, error) {
	count, err := s.csrfRepo.CountByPseudonymAndModuleName(pseudonym, moduleName)
	if err != nil {
		return false, fmt.Errorf("error looking up csrf attack: %w", err)
	}
	if count == 0 {
		return false, nil
	}
	attack, err := s.csrfRepo.FindByPseudonymAndModuleName(pseudonym, moduleName)
	if err != nil {
		return false, fmt.Errorf("error loading csrf attack: %w", err)
	}
	return attack.Finished != nil, nil
}

func (s *csrfService) Validate(pseudonym, moduleName string) (bool, error) {
	if err := s.RegisterIfAbsent(pseudonym, moduleName); err != nil {
		return false, err
	}
	return s.IsCompleted(pseudonym, moduleName)
}
