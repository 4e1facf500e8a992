// Package exercise holds the built-in training exercises. Each one registers
// itself in the module registry at startup and derives its flags through the
// shared flag service.
package exercise

import (
	"errors"
	"fmt"

	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/service"
	"github.com/rs/zerolog/log"
)

// Registrar is the part of the module registry an exercise may use.
type Registrar interface {
	Register(name string, mode model.FlagMode, staticFlag string) (*model.Module, error)
	FindByName(name string) (*model.Module, error)
}

// Exercise is implemented by everything started through InitAll.
type Exercise interface {
	Name() string
	Init() error
}

type base struct {
	name        string
	mode        model.FlagMode
	staticFlag  string
	registrar   Registrar
	flagService service.FlagService
}

func (b *base) Name() string {
	return b.name
}

// Init registers the module, or reuses the row left by a previous start.
func (b *base) Init() error {
	module, err := b.registrar.Register(b.name, b.mode, b.staticFlag)
	if errors.Is(err, service.ErrDuplicateModuleName) {
		module, err = b.registrar.FindByName(b.name)
	}
	if err != nil {
		return fmt.Errorf("error initialising exercise %s: %w", b.name, err)
	}
	if module.FlagMode != b.mode {
		log.Warn().Str("module", b.name).Str("stored", string(module.FlagMode)).Str("expected", string(b.mode)).Msg("Stored flag mode differs from exercise definition")
	}
	return nil
}

func (b *base) Flag(userID int64) (string, error) {
	return b.flagService.FlagFor(userID, b.name)
}

func InitAll(exercises ...Exercise) error {
	for _, e := range exercises {
		if err := e.Init(); err != nil {
			return err
		}
		log.Info().Str("module", e.Name()).Msg("Exercise ready")
	}
	return nil
}
