package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/Bastion/database"
	"github.com/lshigami/Bastion/internal/model"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the production schema.
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
	// One connection keeps every query on the same in-memory database.
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
