package exercise

import (
	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/service"
	"github.com/rs/zerolog/log"
)

const CsrfTutorialName = "csrf-tutorial"

const (
	csrfMessageCompleted = "Thank you for voting"
	csrfMessageSelf      = "You cannot activate yourself"
	csrfMessageNotFound  = "Unknown target ID"
)

type CsrfTutorialResult struct {
	Pseudonym string `json:"pseudonym,omitempty"`
	Flag      string `json:"flag,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CsrfTutorial gives each user a pseudonym. The flag is released once some
// other user has activated that pseudonym.
type CsrfTutorial struct {
	base
	csrfService service.CsrfService
}

func NewCsrfTutorial(registrar Registrar, flagService service.FlagService, csrfService service.CsrfService) *CsrfTutorial {
	return &CsrfTutorial{
		base: base{
			name:        CsrfTutorialName,
			mode:        model.FlagModeDynamic,
			registrar:   registrar,
			flagService: flagService,
		},
		csrfService: csrfService,
	}
}

func (t *CsrfTutorial) Tutorial(userID int64) (*CsrfTutorialResult, error) {
	pseudonym, err := t.csrfService.PseudonymFor(userID, t.name)
	if err != nil {
		return nil, err
	}
	completed, err := t.csrfService.Validate(pseudonym, t.name)
	if err != nil {
		return nil, err
	}

	result := &CsrfTutorialResult{Pseudonym: pseudonym}
	if completed {
		flag, err := t.Flag(userID)
		if err != nil {
			return nil, err
		}
		result.Flag = flag
	}
	return result, nil
}

func (t *CsrfTutorial) Attack(userID int64, target string) (*CsrfTutorialResult, error) {
	outcome, err := t.csrfService.Attack(target, t.name, userID)
	if err != nil {
		return nil, err
	}
	log.Debug().Int64("userID", userID).Str("outcome", outcome.String()).Msg("CSRF tutorial activation")

	switch outcome {
	case service.AttackSelfRejected:
		return &CsrfTutorialResult{Error: csrfMessageSelf}, nil
	case service.AttackTargetNotFound:
		return &CsrfTutorialResult{Error: csrfMessageNotFound}, nil
	default:
		return &CsrfTutorialResult{Message: csrfMessageCompleted}, nil
	}
}
