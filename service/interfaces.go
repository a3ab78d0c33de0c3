package service

import (
	"context"

	"coinpurse/events"
	"coinpurse/models"
)

// CurrencyRepository defines the interface for currency data access
type CurrencyRepository interface {
	// Create inserts a new currency and returns the stored row
	Create(ctx context.Context, guildID int64, name string) (*models.Currency, error)

	// GetByName retrieves a currency by exact name within a guild,
	// returning nil when no row exists
	GetByName(ctx context.Context, guildID int64, name string) (*models.Currency, error)

	// GetByNameFold retrieves a currency by case-insensitive name within a
	// guild, returning nil when no row exists
	GetByNameFold(ctx context.Context, guildID int64, name string) (*models.Currency, error)

	// SearchNames returns up to limit currency names in a guild. An empty
	// substr returns all names in ascending order; otherwise names are
	// matched by case-insensitive substring.
	SearchNames(ctx context.Context, guildID int64, substr string, limit int) ([]string, error)

	// Delete removes a currency row by id
	Delete(ctx context.Context, id int64) error
}

// BalanceRepository defines the interface for balance data access
type BalanceRepository interface {
	// Get retrieves the balance row for (user, guild, currency), returning
	// nil when no row exists
	Get(ctx context.Context, userID, guildID, currencyID int64) (*models.Balance, error)

	// Add credits amount to the balance, creating the row if absent, and
	// returns the resulting amount
	Add(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, error)

	// Deduct debits amount from the balance only if sufficient funds exist
	// and returns the resulting amount. Fails with ErrNoBalance when no row
	// exists and ErrInsufficientFunds when the balance is too small.
	Deduct(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, error)

	// DeductClamped debits amount from the balance, flooring at zero, and
	// returns the amounts before and after the debit. Fails with
	// ErrNoBalance when no row exists.
	DeductClamped(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, int64, error)

	// ListByUser returns the user's holdings in a guild, largest first
	ListByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceEntry, error)

	// Top returns the largest holders of a currency, largest first
	Top(ctx context.Context, guildID, currencyID int64, limit int) ([]*models.LeaderboardEntry, error)

	// DeleteByCurrency removes every balance row for a currency and
	// returns the number of rows removed
	DeleteByCurrency(ctx context.Context, currencyID int64) (int64, error)
}

// GuildSettingsRepository defines the interface for guild settings data access
type GuildSettingsRepository interface {
	// GetOrCreate retrieves guild settings, creating a row with default
	// bet bounds and no dice threshold when none exists
	GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// Update updates guild settings in place
	Update(ctx context.Context, settings *models.GuildSettings) error
}

// CurrencyService defines the interface for currency registry operations
type CurrencyService interface {
	// CreateCurrency creates a named currency in a guild. The name is
	// NFKD-folded to ASCII before storage and compared case-insensitively.
	CreateCurrency(ctx context.Context, guildID int64, name string) (*models.Currency, error)

	// DestroyCurrency deletes a currency and every balance of it, atomically
	DestroyCurrency(ctx context.Context, guildID int64, name string) error

	// ListCurrencyNames returns currency names for lookup and autocomplete
	ListCurrencyNames(ctx context.Context, guildID int64, prefix string, limit int) ([]string, error)
}

// BankService defines the interface for balance operations
type BankService interface {
	// Mint credits newly created currency to a user
	Mint(ctx context.Context, guildID int64, currencyName string, userID, amount int64) (*models.MintResult, error)

	// Burn debits currency from a user, clamping at zero
	Burn(ctx context.Context, guildID int64, currencyName string, userID, amount int64) (*models.BurnResult, error)

	// Transfer moves currency between two users atomically
	Transfer(ctx context.Context, guildID int64, currencyName string, fromUserID, toUserID, amount int64) (*models.TransferResult, error)

	// GetBalance returns a user's holding of a currency, zero if none
	GetBalance(ctx context.Context, guildID int64, currencyName string, userID int64) (int64, error)

	// ListBalances returns a user's holdings, largest first
	ListBalances(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceEntry, error)

	// Leaderboard returns the top holders of a currency, largest first
	Leaderboard(ctx context.Context, guildID int64, currencyName string, limit int) ([]*models.LeaderboardEntry, error)
}

// SettingsService defines the interface for guild dice configuration
type SettingsService interface {
	// GetSettings retrieves guild settings, creating defaults if absent
	GetSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error)

	// SetDiceWin sets the dice win threshold for a guild
	SetDiceWin(ctx context.Context, guildID, threshold int64) error

	// SetBetLimits updates the bet bounds. Either bound may be nil to leave
	// it untouched; at least one must be set.
	SetBetLimits(ctx context.Context, guildID int64, minBet, maxBet *int64) error
}

// DiceService defines the interface for the dice game
type DiceService interface {
	// PlayDice resolves a single wager against the guild's configured odds
	PlayDice(ctx context.Context, guildID int64, currencyName string, userID, betAmount int64) (*models.DiceResult, error)

	// RollD100 draws a random number in [0,100) with no economic effect
	RollD100() int64
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	CurrencyRepository() CurrencyRepository
	BalanceRepository() BalanceRepository
	GuildSettingsRepository() GuildSettingsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
