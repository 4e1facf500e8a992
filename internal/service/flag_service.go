package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	flagPrefix  = "flag"
	flagPurpose = "flag"
)

// FlagService derives and checks flags. Dynamic flags are a pure function of
// the server key, the user id and the module name; nothing per flag is stored.
type FlagService interface {
	DynamicFlag(userID int64, moduleName string) (string, error)
	SaltedTag(userID int64, moduleName, purpose string) (string, error)
	Verify(userID int64, moduleName, submittedFlag string) (bool, error)
	FlagFor(userID int64, moduleName string) (string, error)
}

type flagService struct {
	keyService KeyService
	moduleRepo repository.ModuleRepository
}

func NewFlagService(keyService KeyService, moduleRepo repository.ModuleRepository) FlagService {
	return &flagService{keyService: keyService, moduleRepo: moduleRepo}
}

// SaltedTag is hex(HMAC-SHA256(serverKey, moduleName || uint64be(userID) || purpose)).
func (s *flagService) SaltedTag(userID int64, moduleName, purpose string) (string, error) {
	if userID <= 0 {
		return "", ErrInvalidUserID
	}
	if strings.TrimSpace(moduleName) == "" {
		return "", ErrEmptyModuleName
	}

	key, err := s.keyService.ServerKey()
	if err != nil {
		return "", fmt.Errorf("cannot derive tag without server key: %w", err)
	}

	var uid [8]byte
	binary.BigEndian.PutUint64(uid[:], uint64(userID))

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(moduleName))
	mac.Write(uid[:])
	mac.Write([]byte(purpose))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (s *flagService) DynamicFlag(userID int64, moduleName string) (string, error) {
	tag, err := s.SaltedTag(userID, moduleName, flagPurpose)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s{%s}", flagPrefix, tag), nil
}

func (s *flagService) FlagFor(userID int64, moduleName string) (string, error) {
	module, err := s.findModule(moduleName)
	if err != nil {
		return "", err
	}
	switch module.FlagMode {
	case model.FlagModeStatic:
		if module.StaticFlag == nil {
			return "", fmt.Errorf("module %s: %w", moduleName, ErrFlagNotConfigured)
		}
		return *module.StaticFlag, nil
	case model.FlagModeDynamic:
		return s.DynamicFlag(userID, moduleName)
	default:
		return "", fmt.Errorf("module %s: %w", moduleName, ErrFlagNotConfigured)
	}
}

// Verify compares in constant time for both flag modes.
func (s *flagService) Verify(userID int64, moduleName, submittedFlag string) (bool, error) {
	if userID <= 0 {
		return false, ErrInvalidUserID
	}
	module, err := s.findModule(moduleName)
	if err != nil {
		return false, err
	}

	var expected string
	switch module.FlagMode {
	case model.FlagModeStatic:
		if module.StaticFlag == nil {
			return false, fmt.Errorf("module %s: %w", moduleName, ErrFlagNotConfigured)
		}
		expected = *module.StaticFlag
	case model.FlagModeDynamic:
		expected, err = s.DynamicFlag(userID, moduleName)
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("module %s: %w", moduleName, ErrFlagNotConfigured)
	}

	valid := subtle.ConstantTimeCompare([]byte(expected), []byte(submittedFlag)) == 1
	log.Debug().Int64("userID", userID).Str("module", moduleName).Bool("valid", valid).Msg("Verified submitted flag")
	return valid, nil
}

func (s *flagService) findModule(moduleName string) (*model.Module, error) {
	if strings.TrimSpace(moduleName) == "" {
		return nil, ErrEmptyModuleName
	}
	module, err := s.moduleRepo.FindByName(moduleName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("module %s: %w", moduleName, ErrModuleNotFound)
	}
	if err != nil {
		log.Error().Err(err).Str("module", moduleName).Msg("Failed to load module")
		return nil, fmt.Errorf("error loading module %s: %w", moduleName, err)
	}
	return module, nil
}
