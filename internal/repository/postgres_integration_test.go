//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lshigami/Bastion/database"
	"github.com/lshigami/Bastion/internal/model"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("bastion"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}
	db, err := database.Open(gormpostgres.Open(dsn))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
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

func TestPostgresPartialUniqueIndexUnderConcurrency(t *testing.T) {
	repo := NewSubmissionRepository(newPostgresDB(t))
	now := time.Now().UTC()

	const writers = 20
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Create(&model.Submission{UserID: 1, ModuleName: "race", Time: now, IsValid: true})
		}()
	}
	wg.Wait()
	close(results)

	var created, duplicates int
	for err := range results {
		switch {
		case err == nil:
			created++
		case errors.Is(err, ErrDuplicate):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 || duplicates != writers-1 {
		t.Fatalf("expected 1 insert and %d duplicates, got %d and %d", writers-1, created, duplicates)
	}

	if err := repo.Create(&model.Submission{UserID: 1, ModuleName: "race", Time: now, IsValid: false}); err != nil {
		t.Fatalf("invalid rows must stay unconstrained: %v", err)
	}
}

func TestPostgresUpsertAndConditionalUpdates(t *testing.T) {
	db := newPostgresDB(t)

	points := NewModulePointRepository(db)
	if err := points.Upsert(&model.ModulePoint{ModuleID: 1, Rank: 0, Points: 10}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := points.Upsert(&model.ModulePoint{ModuleID: 1, Rank: 0, Points: 20}); err != nil {
		t.Fatalf("upsert again: %v", err)
	}
	point, err := points.FindByModuleIDAndRank(1, 0)
	if err != nil || point.Points != 20 {
		t.Fatalf("expected 20, got %+v (%v)", point, err)
	}

	attacks := NewCsrfAttackRepository(db)
	if err := attacks.CreateIfAbsent(&model.CsrfAttack{Pseudonym: "p", ModuleName: "m", Started: time.Now().UTC()}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := attacks.CreateIfAbsent(&model.CsrfAttack{Pseudonym: "p", ModuleName: "m", Started: time.Now().UTC()}); err != nil {
		t.Fatalf("create again: %v", err)
	}
	updated, err := attacks.MarkFinished("p", "m", time.Now().UTC())
	if err != nil || updated != 1 {
		t.Fatalf("MarkFinished: %d %v", updated, err)
	}
}
