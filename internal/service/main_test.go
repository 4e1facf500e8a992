package service

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/Bastion/database"
	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/repository"
	"gorm.io/gorm"
)

// testServerKey is 32 bytes of fixed key material, base64 encoded.
var testServerKey = base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

// tickingClock advances one second per call so every row gets a distinct time.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTickingClock() *tickingClock {
	return &tickingClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testEnv struct {
	db          *gorm.DB
	configRepo  repository.ConfigurationRepository
	keys        KeyService
	flags       FlagService
	modules     ModuleService
	submissions SubmissionService
	scores      ScoreService
	corrections CorrectionService
	csrf        CsrfService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open("file::memory:"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&model.Module{},
		&model.Submission{},
		&model.ModulePoint{},
		&model.Correction{},
		&model.CsrfAttack{},
		&model.Configuration{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestEnv wires every service over one in-memory database and a pinned server key.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithKey(t, newTestDB(t), testServerKey)
}

func newTestEnvWithKey(t *testing.T, db *gorm.DB, serverKey string) *testEnv {
	t.Helper()

	clock := newTickingClock()
	moduleRepo := repository.NewModuleRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	correctionRepo := repository.NewCorrectionRepository(db)
	configRepo := repository.NewConfigurationRepository(db)

	keys := newKeyService(configRepo, serverKey, rand.Reader)
	flags := NewFlagService(keys, moduleRepo)
	return &testEnv{
		db:          db,
		configRepo:  configRepo,
		keys:        keys,
		flags:       flags,
		modules:     NewModuleService(moduleRepo),
		submissions: NewSubmissionService(submissionRepo, moduleRepo, flags, clock),
		scores:      NewScoreService(moduleRepo, repository.NewModulePointRepository(db), submissionRepo, correctionRepo),
		corrections: NewCorrectionService(correctionRepo, clock),
		csrf:        NewCsrfService(repository.NewCsrfAttackRepository(db), flags, clock),
	}
}

func (e *testEnv) mustRegister(t *testing.T, name string, mode model.FlagMode, staticFlag string) *model.Module {
	t.Helper()
	module, err := e.modules.Register(name, mode, staticFlag)
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return module
}

func (e *testEnv) mustSolve(t *testing.T, userID int64, moduleName string) {
	t.Helper()
	flag, err := e.flags.FlagFor(userID, moduleName)
	if err != nil {
		t.Fatalf("flag for user %d: %v", userID, err)
	}
	submission, err := e.submissions.Submit(userID, moduleName, flag)
	if err != nil {
		t.Fatalf("submit user %d: %v", userID, err)
	}
	if !submission.IsValid {
		t.Fatalf("expected valid submission for user %d", userID)
	}
}

func (e *testEnv) countValid(t *testing.T, userID int64, moduleName string) int64 {
	t.Helper()
	var count int64
	err := e.db.Model(&model.Submission{}).
		Where("user_id = ? AND module_name = ? AND is_valid = ?", userID, moduleName, true).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	return count
}
