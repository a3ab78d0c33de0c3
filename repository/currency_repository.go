package repository

import (
	"context"
	"fmt"

	"coinpurse/database"
	"coinpurse/models"
	"github.com/jackc/pgx/v5"
)

// CurrencyRepository implements the CurrencyRepository interface
type CurrencyRepository struct {
	q queryable
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *database.DB) *CurrencyRepository {
	return &CurrencyRepository{q: db.Pool}
}

// newCurrencyRepositoryWithTx creates a new currency repository with a transaction
func newCurrencyRepositoryWithTx(tx queryable) *CurrencyRepository {
	return &CurrencyRepository{q: tx}
}

// Create inserts a new currency and returns the stored row
func (r *CurrencyRepository) Create(ctx context.Context, guildID int64, name string) (*models.Currency, error) {
	query := `
		INSERT INTO currencies (guild_id, name)
		VALUES ($1, $2)
		RETURNING id, guild_id, name, created_at
	`

	var currency models.Currency
	err := r.q.QueryRow(ctx, query, guildID, name).Scan(
		&currency.ID,
		&currency.GuildID,
		&currency.Name,
		&currency.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create currency %q in guild %d: %w", name, guildID, err)
	}

	return &currency, nil
}

// GetByName retrieves a currency by exact name within a guild
func (r *CurrencyRepository) GetByName(ctx context.Context, guildID int64, name string) (*models.Currency, error) {
	query := `
		SELECT id, guild_id, name, created_at
		FROM currencies
		WHERE guild_id = $1 AND name = $2
	`

	return r.scanOne(ctx, query, guildID, name)
}

// GetByNameFold retrieves a currency by case-insensitive name within a guild
func (r *CurrencyRepository) GetByNameFold(ctx context.Context, guildID int64, name string) (*models.Currency, error) {
	query := `
		SELECT id, guild_id, name, created_at
		FROM currencies
		WHERE guild_id = $1 AND LOWER(name) = LOWER($2)
	`

	return r.scanOne(ctx, query, guildID, name)
}

func (r *CurrencyRepository) scanOne(ctx context.Context, query string, args ...any) (*models.Currency, error) {
	var currency models.Currency
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&currency.ID,
		&currency.GuildID,
		&currency.Name,
		&currency.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}

	return &currency, nil
}

// SearchNames returns up to limit currency names in a guild. An empty substr
// returns all names ascending; otherwise names match by case-insensitive
// substring, preserving stored casing in the result.
func (r *CurrencyRepository) SearchNames(ctx context.Context, guildID int64, substr string, limit int) ([]string, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if substr == "" {
		query := `
			SELECT name
			FROM currencies
			WHERE guild_id = $1
			ORDER BY name ASC
			LIMIT $2
		`
		rows, err = r.q.Query(ctx, query, guildID, limit)
	} else {
		query := `
			SELECT name
			FROM currencies
			WHERE guild_id = $1 AND name ILIKE '%' || $2 || '%'
			ORDER BY name ASC
			LIMIT $3
		`
		rows, err = r.q.Query(ctx, query, guildID, substr, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to search currency names in guild %d: %w", guildID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan currency name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate currency names: %w", err)
	}

	return names, nil
}

// Delete removes a currency row by id
func (r *CurrencyRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM currencies
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete currency %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("currency %d not found", id)
	}

	return nil
}
