package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/lshigami/Bastion/internal/model"
	"gorm.io/gorm"
)

func TestModuleRepositorySetFlagModeOnlyOnce(t *testing.T) {
	repo := NewModuleRepository(newTestDB(t))

	if err := repo.Create(&model.Module{Name: "m"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(&model.Module{Name: "m"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for duplicate name, got %v", err)
	}

	flag := "flag{static}"
	updated, err := repo.SetFlagMode("m", model.FlagModeStatic, &flag)
	if err != nil || updated != 1 {
		t.Fatalf("first SetFlagMode: updated=%d err=%v", updated, err)
	}
	updated, err = repo.SetFlagMode("m", model.FlagModeDynamic, nil)
	if err != nil || updated != 0 {
		t.Fatalf("second SetFlagMode must not apply: updated=%d err=%v", updated, err)
	}

	module, err := repo.FindByName("m")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if module.FlagMode != model.FlagModeStatic || module.StaticFlag == nil || *module.StaticFlag != flag {
		t.Fatalf("unexpected module %+v", module)
	}

	if _, err := repo.FindByID(module.ID + 100); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestModulePointRepositoryUpsert(t *testing.T) {
	repo := NewModulePointRepository(newTestDB(t))

	if err := repo.Upsert(&model.ModulePoint{ModuleID: 1, Rank: 0, Points: 100}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.Upsert(&model.ModulePoint{ModuleID: 1, Rank: 0, Points: 150}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if err := repo.Upsert(&model.ModulePoint{ModuleID: 1, Rank: 1, Points: 50}); err != nil {
		t.Fatalf("upsert rank 1: %v", err)
	}

	point, err := repo.FindByModuleIDAndRank(1, 0)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if point.Points != 150 {
		t.Fatalf("expected 150 after upsert, got %d", point.Points)
	}

	points, err := repo.FindAllByModuleID(1)
	if err != nil || len(points) != 2 {
		t.Fatalf("expected 2 rows, got %d (%v)", len(points), err)
	}
	if _, err := repo.FindByModuleIDAndRank(1, 5); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for missing rank, got %v", err)
	}
}

func TestCorrectionRepositorySums(t *testing.T) {
	repo := NewCorrectionRepository(newTestDB(t))
	now := time.Now().UTC()

	sum, err := repo.SumByUserID(7)
	if err != nil || sum != 0 {
		t.Fatalf("expected 0 for user without corrections, got %d (%v)", sum, err)
	}

	for _, c := range []model.Correction{
		{UserID: 7, Amount: 10, Time: now, Description: "bonus"},
		{UserID: 7, Amount: -25, Time: now.Add(time.Second), Description: "penalty"},
		{UserID: 8, Amount: 5, Time: now},
	} {
		c := c
		if err := repo.Create(&c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	sum, err = repo.SumByUserID(7)
	if err != nil || sum != -15 {
		t.Fatalf("expected -15, got %d (%v)", sum, err)
	}

	sums, err := repo.SumGroupedByUserID()
	if err != nil {
		t.Fatalf("SumGroupedByUserID: %v", err)
	}
	if sums[7] != -15 || sums[8] != 5 || len(sums) != 2 {
		t.Fatalf("unexpected sums %v", sums)
	}

	corrections, err := repo.FindAllByUserID(7)
	if err != nil || len(corrections) != 2 || corrections[0].Description != "bonus" {
		t.Fatalf("unexpected corrections %+v (%v)", corrections, err)
	}
}

func TestCsrfAttackRepositoryLifecycle(t *testing.T) {
	repo := NewCsrfAttackRepository(newTestDB(t))
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.CreateIfAbsent(&model.CsrfAttack{Pseudonym: "p", ModuleName: "m", Started: started}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateIfAbsent(&model.CsrfAttack{Pseudonym: "p", ModuleName: "m", Started: started.Add(time.Hour)}); err != nil {
		t.Fatalf("second create must be a no-op: %v", err)
	}
	count, err := repo.CountByPseudonymAndModuleName("p", "m")
	if err != nil || count != 1 {
		t.Fatalf("expected one row, got %d (%v)", count, err)
	}

	updated, err := repo.MarkFinished("p", "m", started.Add(time.Minute))
	if err != nil || updated != 1 {
		t.Fatalf("first MarkFinished: %d %v", updated, err)
	}
	updated, err = repo.MarkFinished("p", "m", started.Add(time.Hour))
	if err != nil || updated != 0 {
		t.Fatalf("second MarkFinished must not overwrite: %d %v", updated, err)
	}

	attack, err := repo.FindByPseudonymAndModuleName("p", "m")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if attack.Finished == nil || !attack.Finished.Equal(started.Add(time.Minute)) {
		t.Fatalf("unexpected finished time %v", attack.Finished)
	}
	if !attack.Started.Equal(started) {
		t.Fatalf("started must keep its first value, got %v", attack.Started)
	}
}

func TestConfigurationRepository(t *testing.T) {
	repo := NewConfigurationRepository(newTestDB(t))

	if _, err := repo.FindByKey("serverKey"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
	if err := repo.Create(&model.Configuration{Key: "serverKey", Value: "a"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(&model.Configuration{Key: "serverKey", Value: "b"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if err := repo.SetValue("serverKey", "c"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	stored, err := repo.FindByKey("serverKey")
	if err != nil || stored.Value != "c" {
		t.Fatalf("expected value c, got %+v (%v)", stored, err)
	}
}
