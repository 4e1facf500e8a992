package model

type ScoreboardEntry struct {
	Rank         int   `json:"rank"`
	UserID       int64 `json:"user_id"`
	Score        int64 `json:"score"`
	GoldMedals   int   `json:"gold_medals"`
	SilverMedals int   `json:"silver_medals"`
	BronzeMedals int   `json:"bronze_medals"`
}
