package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/lshigami/Bastion/config"
	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	serverKeyConfigurationKey = "serverKey"
	serverKeyLength           = 32
	minServerKeyLength        = 16
)

// KeyService supplies random bytes and the server-wide secret behind every dynamic flag.
type KeyService interface {
	RandomBytes(n int) []byte
	ServerKey() ([]byte, error)
	RefreshServerKey() ([]byte, error)
}

type keyService struct {
	configRepo    repository.ConfigurationRepository
	configuredKey string
	random        io.Reader

	mu        sync.Mutex
	serverKey []byte
}

func NewKeyService(cfg *config.Config, configRepo repository.ConfigurationRepository) KeyService {
	if cfg.ServerKey == "" {
		log.Info().Msg("SERVER_KEY is not set. The server key will be loaded from or generated into the database.")
	}
	return newKeyService(configRepo, cfg.ServerKey, rand.Reader)
}

func newKeyService(configRepo repository.ConfigurationRepository, configuredKey string, random io.Reader) *keyService {
	return &keyService{
		configRepo:    configRepo,
		configuredKey: configuredKey,
		random:        random,
	}
}

// RandomBytes panics when the system RNG cannot deliver. There is no weaker fallback.
func (s *keyService) RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(s.random, b); err != nil {
		log.Panic().Err(err).Int("bytes", n).Msg("Secure random number generator is unavailable")
	}
	return b
}

func (s *keyService) ServerKey() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.serverKey != nil {
		return s.serverKey, nil
	}
	key, err := s.loadServerKey()
	if err != nil {
		return nil, err
	}
	s.serverKey = key
	return key, nil
}

func (s *keyService) loadServerKey() ([]byte, error) {
	if s.configuredKey != "" {
		return decodeServerKey(s.configuredKey)
	}

	stored, err := s.configRepo.FindByKey(serverKeyConfigurationKey)
	if err == nil {
		return decodeServerKey(stored.Value)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Msg("Failed to read server key from configuration table")
		return nil, fmt.Errorf("error reading server key: %w", err)
	}

	log.Info().Msg("No server key stored, generating a new one")
	encoded := base64.StdEncoding.EncodeToString(s.RandomBytes(serverKeyLength))
	err = s.configRepo.Create(&model.Configuration{Key: serverKeyConfigurationKey, Value: encoded})
	if errors.Is(err, repository.ErrDuplicate) {
		// Another instance stored its key first; everyone must use that one.
		stored, err = s.configRepo.FindByKey(serverKeyConfigurationKey)
		if err != nil {
			return nil, fmt.Errorf("error reading server key after concurrent creation: %w", err)
		}
		return decodeServerKey(stored.Value)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to store generated server key")
		return nil, fmt.Errorf("error storing server key: %w", err)
	}
	return decodeServerKey(encoded)
}

// RefreshServerKey replaces the stored key. Every dynamic flag issued so far stops verifying.
func (s *keyService) RefreshServerKey() ([]byte, error) {
	if s.configuredKey != "" {
		return nil, ErrServerKeyPinned
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info().Msg("Refreshing server key")
	raw := s.RandomBytes(serverKeyLength)
	encoded := base64.StdEncoding.EncodeToString(raw)

	_, err := s.configRepo.FindByKey(serverKeyConfigurationKey)
	switch {
	case err == nil:
		err = s.configRepo.SetValue(serverKeyConfigurationKey, encoded)
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = s.configRepo.Create(&model.Configuration{Key: serverKeyConfigurationKey, Value: encoded})
	}
	if err != nil {
		return nil, fmt.Errorf("error storing refreshed server key: %w", err)
	}
	s.serverKey = raw
	return raw, nil
}

func decodeServerKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServerKeyMalformed, err)
	}
	if len(key) < minServerKeyLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrServerKeyMalformed, minServerKeyLength, len(key))
	}
	return key, nil
}
