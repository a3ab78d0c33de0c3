package testutil

import (
	"coinpurse/models"
)

// Common IDs reused across repository tests
const (
	TestGuildID = int64(900100)
	TestUserID  = int64(700001)
)

// GuildSettingsWithDiceWin builds settings with a configured win threshold
func GuildSettingsWithDiceWin(guildID, threshold int64) *models.GuildSettings {
	return &models.GuildSettings{
		GuildID: guildID,
		DiceWin: &threshold,
		MinBet:  models.DefaultMinBet,
		MaxBet:  models.DefaultMaxBet,
	}
}

// Int64Ptr returns a pointer to v, for optional columns
func Int64Ptr(v int64) *int64 {
	return &v
}
