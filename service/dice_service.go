package service

import (
	"context"
	"fmt"
	"math/rand"

	"coinpurse/events"
	"coinpurse/models"
)

type diceService struct {
	uowFactory UnitOfWorkFactory

	// roll draws the wager roll; injectable so tests can force outcomes
	roll func() int64
}

// NewDiceService creates a new dice service
func NewDiceService(uowFactory UnitOfWorkFactory) DiceService {
	return &diceService{
		uowFactory: uowFactory,
		// 101 outcomes: 0 through 100 inclusive
		roll: func() int64 { return rand.Int63n(101) },
	}
}

func (s *diceService) PlayDice(ctx context.Context, guildID int64, currencyName string, userID, betAmount int64) (*models.DiceResult, error) {
	if betAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	settings, err := uow.GuildSettingsRepository().GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}
	if settings.DiceWin == nil {
		return nil, ErrNotConfigured
	}

	if betAmount < settings.MinBet || betAmount > settings.MaxBet {
		return nil, fmt.Errorf("bet must be between %d and %d: %w", settings.MinBet, settings.MaxBet, ErrBetOutOfBounds)
	}

	currency, err := resolveCurrency(ctx, uow, guildID, currencyName)
	if err != nil {
		return nil, err
	}

	balance, err := uow.BalanceRepository().Get(ctx, userID, guildID, currency.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return nil, ErrNoBalance
	}
	if balance.Amount < betAmount {
		return nil, fmt.Errorf("have %d, need %d: %w", balance.Amount, betAmount, ErrInsufficientFunds)
	}

	roll := s.roll()
	won := roll <= *settings.DiceWin

	// Net payout: a win adds the bet amount, a loss removes it. The stake
	// is never pre-deducted, only the delta is applied.
	var (
		newBalance      int64
		transactionType models.TransactionType
	)
	if won {
		transactionType = models.TransactionTypeDiceWin
		newBalance, err = uow.BalanceRepository().Add(ctx, userID, guildID, currency.ID, betAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to credit winnings: %w", err)
		}
	} else {
		transactionType = models.TransactionTypeDiceLoss
		newBalance, err = uow.BalanceRepository().Deduct(ctx, userID, guildID, currency.ID, betAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to deduct bet: %w", err)
		}
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         guildID,
		CurrencyID:      currency.ID,
		OldBalance:      balance.Amount,
		NewBalance:      newBalance,
		ChangeAmount:    newBalance - balance.Amount,
		TransactionType: transactionType,
	})
	uow.EventBus().Publish(events.DiceRolledEvent{
		UserID:     userID,
		GuildID:    guildID,
		CurrencyID: currency.ID,
		Roll:       roll,
		Won:        won,
		BetAmount:  betAmount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.DiceResult{
		Currency:     currency,
		Won:          won,
		Roll:         roll,
		WinThreshold: *settings.DiceWin,
		BetAmount:    betAmount,
		NewBalance:   newBalance,
	}, nil
}

// RollD100 draws a random number in [0,100) with no economic effect
func (s *diceService) RollD100() int64 {
	return rand.Int63n(100)
}
