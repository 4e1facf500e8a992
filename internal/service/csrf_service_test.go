package service

import (
	"testing"

	"github.com/lshigami/Bastion/internal/model"
)

// Scenario: self-activation is rejected, another user's activation completes the attack.
func TestCsrfAttackFlow(t *testing.T) {
	env := newTestEnv(t)
	env.mustRegister(t, "csrf-tutorial", model.FlagModeDynamic, "")

	p1, err := env.csrf.PseudonymFor(1, "csrf-tutorial")
	if err != nil {
		t.Fatalf("PseudonymFor: %v", err)
	}
	flag, _ := env.flags.DynamicFlag(1, "csrf-tutorial")
	if "flag{"+p1+"}" == flag {
		t.Fatal("pseudonym must not reveal the flag")
	}

	completed, err := env.csrf.Validate(p1, "csrf-tutorial")
	if err != nil || completed {
		t.Fatalf("fresh target must be pending: %v %v", completed, err)
	}

	outcome, err := env.csrf.Attack(p1, "csrf-tutorial", 1)
	if err != nil || outcome != AttackSelfRejected {
		t.Fatalf("expected AttackSelfRejected, got %v %v", outcome, err)
	}
	if done, _ := env.csrf.IsCompleted(p1, "csrf-tutorial"); done {
		t.Fatal("self-attack must not complete")
	}

	outcome, err = env.csrf.Attack(p1, "csrf-tutorial", 2)
	if err != nil || outcome != AttackCompleted {
		t.Fatalf("expected AttackCompleted, got %v %v", outcome, err)
	}
	done, err := env.csrf.IsCompleted(p1, "csrf-tutorial")
	if err != nil || !done {
		t.Fatalf("expected completed, got %v %v", done, err)
	}

	// Repeating is idempotent and keeps the first finish time.
	var before model.CsrfAttack
	env.db.Where("pseudonym = ?", p1).First(&before)
	outcome, err = env.csrf.Attack(p1, "csrf-tutorial", 3)
	if err != nil || outcome != AttackCompleted {
		t.Fatalf("repeat attack: %v %v", outcome, err)
	}
	var after model.CsrfAttack
	env.db.Where("pseudonym = ?", p1).First(&after)
	if !after.Finished.Equal(*before.Finished) {
		t.Fatal("finished time must be set once")
	}
}

func TestCsrfAttackUnknownTarget(t *testing.T) {
	env := newTestEnv(t)

	outcome, err := env.csrf.Attack("no-such-pseudonym", "csrf-tutorial", 2)
	if err != nil || outcome != AttackTargetNotFound {
		t.Fatalf("expected AttackTargetNotFound, got %v %v", outcome, err)
	}
	done, err := env.csrf.IsCompleted("no-such-pseudonym", "csrf-tutorial")
	if err != nil || done {
		t.Fatalf("missing row is not completed: %v %v", done, err)
	}
}

func TestRegisterIfAbsentIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 3; i++ {
		if err := env.csrf.RegisterIfAbsent("p", "csrf-tutorial"); err != nil {
			t.Fatalf("RegisterIfAbsent: %v", err)
		}
	}
	var count int64
	env.db.Model(&model.CsrfAttack{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one row, got %d", count)
	}
}

func TestAttackOutcomeString(t *testing.T) {
	if AttackCompleted.String() != "completed" || AttackOutcome(9).String() != "AttackOutcome(9)" {
		t.Fatal("unexpected outcome names")
	}
}
