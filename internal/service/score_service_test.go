package service

import (
	"errors"
	"testing"

	"github.com/lshigami/Bastion/internal/model"
)

// Scenario: only rank 0 carries points; the second solver gets nothing.
func TestScoreBeyondPointsTableIsZero(t *testing.T) {
	env := newTestEnv(t)
	var target *model.Module
	for _, name := range []string{"m1", "m2", "m3", "m4", "m5"} {
		target = env.mustRegister(t, name, model.FlagModeDynamic, "")
	}

	if _, err := env.scores.SetModulePoints(target.ID, 0, 100); err != nil {
		t.Fatalf("SetModulePoints: %v", err)
	}
	const userA, userB = 10, 11
	env.mustSolve(t, userA, target.Name)
	env.mustSolve(t, userB, target.Name)

	totalA, err := env.scores.TotalScore(userA)
	if err != nil || totalA != 100 {
		t.Fatalf("expected 100 for A, got %d (%v)", totalA, err)
	}
	totalB, err := env.scores.TotalScore(userB)
	if err != nil || totalB != 0 {
		t.Fatalf("expected 0 for B, got %d (%v)", totalB, err)
	}
}

// Scenario: corrections add to solve points, negative ones included.
func TestCorrectionsAreAddedToTotal(t *testing.T) {
	env := newTestEnv(t)
	module := env.mustRegister(t, "m", model.FlagModeDynamic, "")
	if _, err := env.scores.SetModulePoints(module.ID, 0, 100); err != nil {
		t.Fatalf("SetModulePoints: %v", err)
	}

	if _, err := env.corrections.Submit(7, -50, "penalty"); err != nil {
		t.Fatalf("correction: %v", err)
	}
	env.mustSolve(t, 7, "m")

	total, err := env.scores.TotalScore(7)
	if err != nil || total != 50 {
		t.Fatalf("expected 50, got %d (%v)", total, err)
	}
}

func TestSetModulePointsValidationAndUpsert(t *testing.T) {
	env := newTestEnv(t)
	module := env.mustRegister(t, "m", model.FlagModeDynamic, "")

	if _, err := env.scores.SetModulePoints(0, 0, 1); !errors.Is(err, ErrInvalidModuleID) {
		t.Fatalf("expected ErrInvalidModuleID, got %v", err)
	}
	if _, err := env.scores.SetModulePoints(module.ID, -1, 1); !errors.Is(err, ErrInvalidRank) {
		t.Fatalf("expected ErrInvalidRank, got %v", err)
	}
	if _, err := env.scores.SetModulePoints(module.ID+10, 0, 1); !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}

	if _, err := env.scores.SetModulePoints(module.ID, 1, 40); err != nil {
		t.Fatalf("SetModulePoints: %v", err)
	}
	if _, err := env.scores.SetModulePoints(module.ID, 1, 60); err != nil {
		t.Fatalf("SetModulePoints overwrite: %v", err)
	}
	points, err := env.scores.ScoreFor(1, "m", 1)
	if err != nil || points != 60 {
		t.Fatalf("expected 60 after overwrite, got %d (%v)", points, err)
	}
	points, err = env.scores.ScoreFor(1, "m", 7)
	if err != nil || points != 0 {
		t.Fatalf("expected 0 beyond the table, got %d (%v)", points, err)
	}
	if _, err := env.scores.ScoreFor(1, "unregistered", 0); !errors.Is(err, ErrModuleNotFound) {
		t.Fatalf("expected ErrModuleNotFound, got %v", err)
	}
	if _, err := env.scores.ScoreFor(0, "m", 0); !errors.Is(err, ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestMedalCounts(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		env.mustRegister(t, name, model.FlagModeDynamic, "")
	}

	// User 1 places 0 on a, 1 on b, 2 on c and 3 on d.
	for i, name := range []string{"a", "b", "c", "d"} {
		for u := int64(0); u < int64(i); u++ {
			env.mustSolve(t, 100+u, name)
		}
		env.mustSolve(t, 1, name)
	}

	medals, err := env.scores.MedalCounts(1)
	if err != nil {
		t.Fatalf("MedalCounts: %v", err)
	}
	if medals != (Medals{Gold: 1, Silver: 1, Bronze: 1}) {
		t.Fatalf("unexpected medals %+v", medals)
	}

	ranked, err := env.scores.RankedSubmissionsByUserID(1)
	if err != nil || len(ranked) != 4 {
		t.Fatalf("expected 4 ranked solves, got %d (%v)", len(ranked), err)
	}
}

func TestScoreboardOrdering(t *testing.T) {
	env := newTestEnv(t)
	module := env.mustRegister(t, "m", model.FlagModeDynamic, "")
	for rank, points := range []int64{100, 50, 50} {
		if _, err := env.scores.SetModulePoints(module.ID, rank, points); err != nil {
			t.Fatalf("SetModulePoints: %v", err)
		}
	}

	// Solve order 4, 3, 2 gives 4:100, 3:50, 2:50. User 8 only has a correction.
	env.mustSolve(t, 4, "m")
	env.mustSolve(t, 3, "m")
	env.mustSolve(t, 2, "m")
	if _, err := env.corrections.Submit(8, 75, "bug report"); err != nil {
		t.Fatalf("correction: %v", err)
	}
	// User 6 tried and failed.
	if _, err := env.submissions.Submit(6, "m", "flag{nope}"); err != nil {
		t.Fatalf("wrong attempt: %v", err)
	}

	board, err := env.scores.Scoreboard()
	if err != nil {
		t.Fatalf("Scoreboard: %v", err)
	}
	want := []model.ScoreboardEntry{
		{Rank: 1, UserID: 4, Score: 100, GoldMedals: 1},
		{Rank: 2, UserID: 8, Score: 75},
		{Rank: 3, UserID: 2, Score: 50, BronzeMedals: 1},
		{Rank: 3, UserID: 3, Score: 50, SilverMedals: 1},
		{Rank: 5, UserID: 6, Score: 0},
	}
	if len(board) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), board)
	}
	for i := range want {
		if board[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], board[i])
		}
	}
	for i := 1; i < len(board); i++ {
		if board[i].Score > board[i-1].Score ||
			(board[i].Score == board[i-1].Score && board[i].UserID < board[i-1].UserID) {
			t.Fatalf("scoreboard out of order at %d", i)
		}
	}
}

func TestScoreboardEmpty(t *testing.T) {
	env := newTestEnv(t)
	board, err := env.scores.Scoreboard()
	if err != nil || len(board) != 0 {
		t.Fatalf("expected empty scoreboard, got %+v (%v)", board, err)
	}
}
