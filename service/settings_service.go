package service

import (
	"context"
	"fmt"

	"coinpurse/models"
)

// settingsService implements the SettingsService interface
type settingsService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettingsService creates a new settings service
func NewSettingsService(uowFactory UnitOfWorkFactory) SettingsService {
	return &settingsService{
		uowFactory: uowFactory,
	}
}

// GetSettings retrieves guild settings, creating defaults if absent
func (s *settingsService) GetSettings(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create guild settings: %w", err)
	}

	// Commit in case a new row was created
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return settings, nil
}

// SetDiceWin sets the dice win threshold for a guild
func (s *settingsService) SetDiceWin(ctx context.Context, guildID, threshold int64) error {
	if threshold <= 0 {
		return ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	settings.DiceWin = &threshold

	if err := uow.GuildSettingsRepository().Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetBetLimits updates the bet bounds. Each present bound updates
// independently; InvalidRange applies only when both arrive together.
func (s *settingsService) SetBetLimits(ctx context.Context, guildID int64, minBet, maxBet *int64) error {
	if minBet == nil && maxBet == nil {
		return ErrNothingToUpdate
	}
	if minBet != nil && maxBet != nil && *minBet > *maxBet {
		return ErrInvalidRange
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to get guild settings: %w", err)
	}

	if minBet != nil {
		settings.MinBet = *minBet
	}
	if maxBet != nil {
		settings.MaxBet = *maxBet
	}

	if err := uow.GuildSettingsRepository().Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
