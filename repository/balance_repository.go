package repository

import (
	"context"
	"fmt"

	"coinpurse/database"
	"coinpurse/models"
	"coinpurse/service"
	"github.com/jackc/pgx/v5"
)

// BalanceRepository implements the BalanceRepository interface
type BalanceRepository struct {
	q queryable
}

// NewBalanceRepository creates a new balance repository
func NewBalanceRepository(db *database.DB) *BalanceRepository {
	return &BalanceRepository{q: db.Pool}
}

// newBalanceRepositoryWithTx creates a new balance repository with a transaction
func newBalanceRepositoryWithTx(tx queryable) *BalanceRepository {
	return &BalanceRepository{q: tx}
}

// Get retrieves the balance row for (user, guild, currency)
func (r *BalanceRepository) Get(ctx context.Context, userID, guildID, currencyID int64) (*models.Balance, error) {
	query := `
		SELECT id, user_id, guild_id, currency_id, amount, created_at, updated_at
		FROM bank
		WHERE user_id = $1 AND guild_id = $2 AND currency_id = $3
	`

	var balance models.Balance
	err := r.q.QueryRow(ctx, query, userID, guildID, currencyID).Scan(
		&balance.ID,
		&balance.UserID,
		&balance.GuildID,
		&balance.CurrencyID,
		&balance.Amount,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %d: %w", userID, err)
	}

	return &balance, nil
}

// Add credits amount to the balance, creating the row if absent. The upsert
// is a single statement so concurrent credits to the same key serialize on
// the row.
func (r *BalanceRepository) Add(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		INSERT INTO bank (user_id, guild_id, currency_id, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, currency_id)
		DO UPDATE SET amount = bank.amount + EXCLUDED.amount, updated_at = NOW()
		RETURNING amount
	`

	var newAmount int64
	err := r.q.QueryRow(ctx, query, userID, guildID, currencyID, amount).Scan(&newAmount)
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", userID, err)
	}

	return newAmount, nil
}

// Deduct debits amount from the balance only when sufficient funds exist.
// The conditional update keeps the read-modify-write atomic without an
// explicit row lock.
func (r *BalanceRepository) Deduct(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE bank
		SET amount = amount - $4, updated_at = NOW()
		WHERE user_id = $1 AND guild_id = $2 AND currency_id = $3 AND amount >= $4
		RETURNING amount
	`

	var newAmount int64
	err := r.q.QueryRow(ctx, query, userID, guildID, currencyID, amount).Scan(&newAmount)
	if err == nil {
		return newAmount, nil
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to deduct balance for user %d: %w", userID, err)
	}

	// Distinguish a missing row from insufficient funds
	balance, err := r.Get(ctx, userID, guildID, currencyID)
	if err != nil {
		return 0, err
	}
	if balance == nil {
		return 0, service.ErrNoBalance
	}
	return 0, fmt.Errorf("have %d, need %d: %w", balance.Amount, amount, service.ErrInsufficientFunds)
}

// DeductClamped debits amount from the balance, flooring at zero, and
// returns the amounts before and after. The CTE locks the row, so the
// debit applies to the current amount even when credits land concurrently.
func (r *BalanceRepository) DeductClamped(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, int64, error) {
	if amount <= 0 {
		return 0, 0, fmt.Errorf("amount must be positive")
	}

	query := `
		WITH held AS (
			SELECT id, amount
			FROM bank
			WHERE user_id = $1 AND guild_id = $2 AND currency_id = $3
			FOR UPDATE
		)
		UPDATE bank
		SET amount = GREATEST(bank.amount - $4, 0), updated_at = NOW()
		FROM held
		WHERE bank.id = held.id
		RETURNING held.amount, bank.amount
	`

	var oldAmount, newAmount int64
	err := r.q.QueryRow(ctx, query, userID, guildID, currencyID, amount).Scan(&oldAmount, &newAmount)
	if err == pgx.ErrNoRows {
		return 0, 0, service.ErrNoBalance
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to deduct balance for user %d: %w", userID, err)
	}

	return oldAmount, newAmount, nil
}

// ListByUser returns the user's holdings in a guild, largest first
func (r *BalanceRepository) ListByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceEntry, error) {
	query := `
		SELECT c.name, b.amount
		FROM bank b
		JOIN currencies c ON c.id = b.currency_id
		WHERE b.guild_id = $1 AND b.user_id = $2
		ORDER BY b.amount DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.BalanceEntry
	for rows.Next() {
		var entry models.BalanceEntry
		if err := rows.Scan(&entry.CurrencyName, &entry.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan balance entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance entries: %w", err)
	}

	return entries, nil
}

// Top returns the largest holders of a currency, largest first
func (r *BalanceRepository) Top(ctx context.Context, guildID, currencyID int64, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, amount
		FROM bank
		WHERE guild_id = $1 AND currency_id = $2
		ORDER BY amount DESC
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, guildID, currencyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard for currency %d: %w", currencyID, err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard entries: %w", err)
	}

	return entries, nil
}

// DeleteByCurrency removes every balance row for a currency
func (r *BalanceRepository) DeleteByCurrency(ctx context.Context, currencyID int64) (int64, error) {
	query := `
		DELETE FROM bank
		WHERE currency_id = $1
	`

	result, err := r.q.Exec(ctx, query, currencyID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete balances for currency %d: %w", currencyID, err)
	}

	return result.RowsAffected(), nil
}
