package models

// Default bet bounds applied when a guild's settings row is first created.
const (
	DefaultMinBet int64 = 10000
	DefaultMaxBet int64 = 50000
)

// GuildSettings holds per-guild dice game configuration.
// DiceWin is nil until an admin configures the win threshold.
type GuildSettings struct {
	GuildID int64  `db:"guild_id"`
	DiceWin *int64 `db:"dice_win"`
	MinBet  int64  `db:"min_bet"`
	MaxBet  int64  `db:"max_bet"`
}
