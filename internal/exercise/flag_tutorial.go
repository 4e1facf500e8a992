package exercise

import (
	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/service"
)

const FlagTutorialName = "flag-tutorial"

// FlagTutorial hands each user their own flag so they can practise submitting one.
type FlagTutorial struct {
	base
}

func NewFlagTutorial(registrar Registrar, flagService service.FlagService) *FlagTutorial {
	return &FlagTutorial{base{
		name:        FlagTutorialName,
		mode:        model.FlagModeDynamic,
		registrar:   registrar,
		flagService: flagService,
	}}
}
