package models

import (
	"time"
)

// Balance is one user's holding of one currency within one guild.
// At most one row exists per (user, guild, currency) and the amount
// is never negative.
type Balance struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	GuildID    int64     `db:"guild_id"`
	CurrencyID int64     `db:"currency_id"`
	Amount     int64     `db:"amount"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// TransactionType classifies a balance change for event consumers
type TransactionType string

const (
	TransactionTypeMint        TransactionType = "mint"
	TransactionTypeBurn        TransactionType = "burn"
	TransactionTypeTransferIn  TransactionType = "transfer_in"
	TransactionTypeTransferOut TransactionType = "transfer_out"
	TransactionTypeDiceWin     TransactionType = "dice_win"
	TransactionTypeDiceLoss    TransactionType = "dice_loss"
)

// BalanceEntry is one line of a user's balance listing
type BalanceEntry struct {
	CurrencyName string
	Amount       int64
}

// LeaderboardEntry is one line of a currency leaderboard
type LeaderboardEntry struct {
	UserID int64
	Amount int64
}
