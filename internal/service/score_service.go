package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Medals struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// ScoreService turns solve ranks into points. Everything is recomputed from
// committed rows on each call; there is no cached scoreboard.
type ScoreService interface {
	SetModulePoints(moduleID uint, rank int, points int64) (*model.ModulePoint, error)
	ScoreFor(userID int64, moduleName string, rank int) (int64, error)
	TotalScore(userID int64) (int64, error)
	MedalCounts(userID int64) (Medals, error)
	RankedSubmissionsByUserID(userID int64) ([]model.RankedSubmission, error)
	Scoreboard() ([]model.ScoreboardEntry, error)
}

type scoreService struct {
	moduleRepo      repository.ModuleRepository
	modulePointRepo repository.ModulePointRepository
	submissionRepo  repository.SubmissionRepository
	correctionRepo  repository.CorrectionRepository
}

func NewScoreService(
	moduleRepo repository.ModuleRepository,
	modulePointRepo repository.ModulePointRepository,
	submissionRepo repository.SubmissionRepository,
	correctionRepo repository.CorrectionRepository,
) ScoreService {
	return &scoreService{
		moduleRepo:      moduleRepo,
		modulePointRepo: modulePointRepo,
		submissionRepo:  submissionRepo,
		correctionRepo:  correctionRepo,
	}
}

type pointKey struct {
	moduleID uint
	rank     int
}

func (s *scoreService) SetModulePoints(moduleID uint, rank int, points int64) (*model.ModulePoint, error) {
	if moduleID == 0 {
		return nil, ErrInvalidModuleID
	}
	if rank < 0 {
		return nil, ErrInvalidRank
	}
	if _, err := s.moduleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("module id %d: %w", moduleID, ErrModuleNotFound)
		}
		return nil, fmt.Errorf("error loading module id %d: %w", moduleID, err)
	}

	point := model.ModulePoint{ModuleID: moduleID, Rank: rank, Points: points}
	if err := s.modulePointRepo.Upsert(&point); err != nil {
		log.Error().Err(err).Uint("moduleID", moduleID).Int("rank", rank).Msg("Failed to save module points")
		return nil, fmt.Errorf("database error saving module points: %w", err)
	}
	log.Info().Uint("moduleID", moduleID).Int("rank", rank).Int64("points", points).Msg("Module points set")
	return &point, nil
}

// ScoreFor is an exact table lookup. A rank with no entry is worth 0.
func (s *scoreService) ScoreFor(userID int64, moduleName string, rank int) (int64, error) {
	if userID <= 0 {
		return 0, ErrInvalidUserID
	}
	if strings.TrimSpace(moduleName) == "" {
		return 0, ErrEmptyModuleName
	}
	if rank < 0 {
		return 0, ErrInvalidRank
	}
	module, err := s.moduleRepo.FindByName(moduleName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("module %s: %w", moduleName, ErrModuleNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("error loading module %s: %w", moduleName, err)
	}

	point, err := s.modulePointRepo.FindByModuleIDAndRank(module.ID, rank)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("error loading points of module %s: %w", moduleName, err)
	}
	return point.Points, nil
}

func (s *scoreService) TotalScore(userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrInvalidUserID
	}
	ranked, err := s.RankedSubmissionsByUserID(userID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, r := range ranked {
		total += r.Score
	}

	corrections, err := s.correctionRepo.SumByUserID(userID)
	if err != nil {
		return 0, fmt.Errorf("error summing corrections of user %d: %w", userID, err)
	}
	return total + corrections, nil
}

func (s *scoreService) MedalCounts(userID int64) (Medals, error) {
	if userID <= 0 {
		return Medals{}, ErrInvalidUserID
	}
	ranked, err := s.RankedSubmissionsByUserID(userID)
	if err != nil {
		return Medals{}, err
	}
	var medals Medals
	for _, r := range ranked {
		medals.add(r.Rank)
	}
	return medals, nil
}

// RankedSubmissionsByUserID lists the user's solves with the rank and points each earned.
func (s *scoreService) RankedSubmissionsByUserID(userID int64) ([]model.RankedSubmission, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	all, err := s.rankAll()
	if err != nil {
		return nil, err
	}
	result := make([]model.RankedSubmission, 0)
	for _, r := range all {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

// Scoreboard covers every user with a submission or a correction. Equal
// scores share a rank and are listed by ascending user id.
func (s *scoreService) Scoreboard() ([]model.ScoreboardEntry, error) {
	ranked, err := s.rankAll()
	if err != nil {
		return nil, err
	}
	userIDs, err := s.submissionRepo.FindAllUserIDs()
	if err != nil {
		return nil, fmt.Errorf("error fetching submitting users: %w", err)
	}
	corrections, err := s.correctionRepo.SumGroupedByUserID()
	if err != nil {
		return nil, fmt.Errorf("error summing corrections: %w", err)
	}

	entries := make(map[int64]*model.ScoreboardEntry)
	entryFor := func(userID int64) *model.ScoreboardEntry {
		e, ok := entries[userID]
		if !ok {
			e = &model.ScoreboardEntry{UserID: userID}
			entries[userID] = e
		}
		return e
	}
	for _, id := range userIDs {
		entryFor(id)
	}
	for id, amount := range corrections {
		entryFor(id).Score += amount
	}
	for _, r := range ranked {
		e := entryFor(r.UserID)
		e.Score += r.Score
		var m Medals
		m.add(r.Rank)
		e.GoldMedals += m.Gold
		e.SilverMedals += m.Silver
		e.BronzeMedals += m.Bronze
	}

	board := make([]model.ScoreboardEntry, 0, len(entries))
	for _, e := range entries {
		board = append(board, *e)
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Score != board[j].Score {
			return board[i].Score > board[j].Score
		}
		return board[i].UserID < board[j].UserID
	})
	for i := range board {
		if i > 0 && board[i].Score == board[i-1].Score {
			board[i].Rank = board[i-1].Rank
		} else {
			board[i].Rank = i + 1
		}
	}
	return board, nil
}

// rankAll ranks every valid submission of every module and attaches its points.
func (s *scoreService) rankAll() ([]model.RankedSubmission, error) {
	submissions, err := s.submissionRepo.FindAllValid()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch valid submissions")
		return nil, fmt.Errorf("error fetching valid submissions: %w", err)
	}
	modules, err := s.moduleRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching modules: %w", err)
	}
	points, err := s.modulePointRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching module points: %w", err)
	}

	moduleIDs := make(map[string]uint, len(modules))
	for _, m := range modules {
		moduleIDs[m.Name] = m.ID
	}
	table := make(map[pointKey]int64, len(points))
	for _, p := range points {
		table[pointKey{moduleID: p.ModuleID, rank: p.Rank}] = p.Points
	}

	// Submissions arrive sorted by module, then time and id.
	byModule := make(map[string][]model.Submission)
	order := make([]string, 0)
	for _, sub := range submissions {
		if _, ok := byModule[sub.ModuleName]; !ok {
			order = append(order, sub.ModuleName)
		}
		byModule[sub.ModuleName] = append(byModule[sub.ModuleName], sub)
	}

	ranked := make([]model.RankedSubmission, 0, len(submissions))
	for _, name := range order {
		moduleID, known := moduleIDs[name]
		for _, r := range assignRanks(byModule[name]) {
			if known {
				r.Score = table[pointKey{moduleID: moduleID, rank: r.Rank}]
			}
			ranked = append(ranked, r)
		}
	}
	return ranked, nil
}

func (m *Medals) add(rank int) {
	switch rank {
	case 0:
		m.Gold++
	case 1:
		m.Silver++
	case 2:
		m.Bronze++
	}
}
