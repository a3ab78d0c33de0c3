package repository

import (
	"context"
	"fmt"

	"coinpurse/database"
	"coinpurse/models"
	"github.com/jackc/pgx/v5"
)

// GuildSettingsRepository implements the GuildSettingsRepository interface
type GuildSettingsRepository struct {
	q queryable
}

// NewGuildSettingsRepository creates a new guild settings repository
func NewGuildSettingsRepository(db *database.DB) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: db.Pool}
}

// newGuildSettingsRepositoryWithTx creates a new guild settings repository with a transaction
func newGuildSettingsRepositoryWithTx(tx queryable) *GuildSettingsRepository {
	return &GuildSettingsRepository{q: tx}
}

// GetOrCreate retrieves guild settings or creates a row with default bet
// bounds and no dice threshold
func (r *GuildSettingsRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	query := `
		SELECT guild_id, dice_win, min_bet, max_bet
		FROM guild_settings
		WHERE guild_id = $1
	`

	var settings models.GuildSettings
	err := r.q.QueryRow(ctx, query, guildID).Scan(
		&settings.GuildID,
		&settings.DiceWin,
		&settings.MinBet,
		&settings.MaxBet,
	)

	if err == nil {
		return &settings, nil
	}

	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get guild settings for guild %d: %w", guildID, err)
	}

	insertQuery := `
		INSERT INTO guild_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO UPDATE SET guild_id = EXCLUDED.guild_id
		RETURNING guild_id, dice_win, min_bet, max_bet
	`

	err = r.q.QueryRow(ctx, insertQuery, guildID).Scan(
		&settings.GuildID,
		&settings.DiceWin,
		&settings.MinBet,
		&settings.MaxBet,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create guild settings for guild %d: %w", guildID, err)
	}

	return &settings, nil
}

// Update updates guild settings in place
func (r *GuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	query := `
		UPDATE guild_settings
		SET dice_win = $2,
		    min_bet = $3,
		    max_bet = $4,
		    updated_at = NOW()
		WHERE guild_id = $1
	`

	result, err := r.q.Exec(ctx, query,
		settings.GuildID,
		settings.DiceWin,
		settings.MinBet,
		settings.MaxBet,
	)

	if err != nil {
		return fmt.Errorf("failed to update guild settings for guild %d: %w", settings.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("guild settings for guild %d not found", settings.GuildID)
	}

	return nil
}
