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

// ModuleService is the module registry. Exercises register themselves here at startup.
type ModuleService interface {
	Register(name string, mode model.FlagMode, staticFlag string) (*model.Module, error)
	SetFlagMode(name string, mode model.FlagMode, staticFlag string) (*model.Module, error)
	FindByName(name string) (*model.Module, error)
	FindByID(id uint) (*model.Module, error)
	FindAll() ([]model.Module, error)
}

type moduleService struct {
	moduleRepo repository.ModuleRepository
}

func NewModuleService(moduleRepo repository.ModuleRepository) ModuleService {
	return &moduleService{moduleRepo: moduleRepo}
}

// Register creates a module. mode may be FlagModeUnset and configured later with SetFlagMode.
func (s *moduleService) Register(name string, mode model.FlagMode, staticFlag string) (*model.Module, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyModuleName
	}
	if mode != model.FlagModeUnset && !mode.Valid() {
		return nil, ErrInvalidFlagMode
	}
	flag, err := staticFlagFor(mode, staticFlag)
	if err != nil {
		return nil, err
	}

	if _, err := s.moduleRepo.FindByName(name); err == nil {
		return nil, fmt.Errorf("module %s: %w", name, ErrDuplicateModuleName)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking module name %s: %w", name, err)
	}

	log.Info().Str("module", name).Str("flagMode", string(mode)).Msg("Registering module")
	module := model.Module{Name: name, FlagMode: mode, StaticFlag: flag}
	if err := s.moduleRepo.Create(&module); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("module %s: %w", name, ErrDuplicateModuleName)
		}
		log.Error().Err(err).Str("module", name).Msg("Failed to create module in database")
		return nil, fmt.Errorf("database error creating module: %w", err)
	}
	return &module, nil
}

// SetFlagMode configures a module registered without a flag mode. It succeeds at most once per module.
func (s *moduleService) SetFlagMode(name string, mode model.FlagMode, staticFlag string) (*model.Module, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyModuleName
	}
	if !mode.Valid() {
		return nil, ErrInvalidFlagMode
	}
	flag, err := staticFlagFor(mode, staticFlag)
	if err != nil {
		return nil, err
	}

	updated, err := s.moduleRepo.SetFlagMode(name, mode, flag)
	if err != nil {
		log.Error().Err(err).Str("module", name).Msg("Failed to set flag mode")
		return nil, fmt.Errorf("database error setting flag mode: %w", err)
	}

	module, err := s.FindByName(name)
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, fmt.Errorf("module %s is %s: %w", name, module.FlagMode, ErrFlagModeAlreadySet)
	}
	return module, nil
}

func (s *moduleService) FindByName(name string) (*model.Module, error) {
	module, err := s.moduleRepo.FindByName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("module %s: %w", name, ErrModuleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading module %s: %w", name, err)
	}
	return module, nil
}

func (s *moduleService) FindByID(id uint) (*model.Module, error) {
	if id == 0 {
		return nil, ErrInvalidModuleID
	}
	module, err := s.moduleRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("module id %d: %w", id, ErrModuleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("error loading module id %d: %w", id, err)
	}
	return module, nil
}

func (s *moduleService) FindAll() ([]model.Module, error) {
	modules, err := s.moduleRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list modules")
		return nil, fmt.Errorf("error fetching modules: %w", err)
	}
	return modules, nil
}

func staticFlagFor(mode model.FlagMode, staticFlag string) (*string, error) {
	if mode != model.FlagModeStatic {
		if staticFlag != "" {
			return nil, fmt.Errorf("%w: only static modules carry a fixed flag", ErrInvalidFlag)
		}
		return nil, nil
	}
	if staticFlag == "" {
		return nil, fmt.Errorf("%w: static flag cannot be empty", ErrInvalidFlag)
	}
	return &staticFlag, nil
}
