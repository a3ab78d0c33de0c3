package service

import (
	"context"
	"errors"
	"fmt"

	"coinpurse/events"
	"coinpurse/models"
)

type bankService struct {
	uowFactory UnitOfWorkFactory
}

// NewBankService creates a new bank service
func NewBankService(uowFactory UnitOfWorkFactory) BankService {
	return &bankService{
		uowFactory: uowFactory,
	}
}

// resolveCurrency looks up a currency by exact name within the unit of work
func resolveCurrency(ctx context.Context, uow UnitOfWork, guildID int64, name string) (*models.Currency, error) {
	currency, err := uow.CurrencyRepository().GetByName(ctx, guildID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up currency: %w", err)
	}
	if currency == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCurrency)
	}
	return currency, nil
}

func (s *bankService) Mint(ctx context.Context, guildID int64, currencyName string, userID, amount int64) (*models.MintResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	currency, err := resolveCurrency(ctx, uow, guildID, currencyName)
	if err != nil {
		return nil, err
	}

	newBalance, err := uow.BalanceRepository().Add(ctx, userID, guildID, currency.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to mint: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         guildID,
		CurrencyID:      currency.ID,
		OldBalance:      newBalance - amount,
		NewBalance:      newBalance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeMint,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.MintResult{
		Currency:   currency,
		Amount:     amount,
		NewBalance: newBalance,
	}, nil
}

func (s *bankService) Burn(ctx context.Context, guildID int64, currencyName string, userID, amount int64) (*models.BurnResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	currency, err := resolveCurrency(ctx, uow, guildID, currencyName)
	if err != nil {
		return nil, err
	}

	// The clamped debit is a single statement, so a concurrent credit can
	// never be overwritten by a stale read
	oldAmount, newAmount, err := uow.BalanceRepository().DeductClamped(ctx, userID, guildID, currency.ID, amount)
	if err != nil {
		if errors.Is(err, ErrNoBalance) {
			return nil, ErrNoBalance
		}
		return nil, fmt.Errorf("failed to burn: %w", err)
	}
	clamped := oldAmount < amount

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          userID,
		GuildID:         guildID,
		CurrencyID:      currency.ID,
		OldBalance:      oldAmount,
		NewBalance:      newAmount,
		ChangeAmount:    newAmount - oldAmount,
		TransactionType: models.TransactionTypeBurn,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.BurnResult{
		Currency:   currency,
		Amount:     amount,
		NewBalance: newAmount,
		Clamped:    clamped,
	}, nil
}

func (s *bankService) Transfer(ctx context.Context, guildID int64, currencyName string, fromUserID, toUserID, amount int64) (*models.TransferResult, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfTransfer
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	currency, err := resolveCurrency(ctx, uow, guildID, currencyName)
	if err != nil {
		return nil, err
	}

	fromBalance, err := uow.BalanceRepository().Get(ctx, fromUserID, guildID, currency.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender balance: %w", err)
	}
	if fromBalance == nil {
		return nil, ErrNoBalance
	}
	if fromBalance.Amount < amount {
		return nil, fmt.Errorf("have %d, need %d: %w", fromBalance.Amount, amount, ErrInsufficientFunds)
	}

	// Debit and credit commit as one unit; no partial transfer is observable
	newFromBalance, err := uow.BalanceRepository().Deduct(ctx, fromUserID, guildID, currency.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to debit sender: %w", err)
	}

	newToBalance, err := uow.BalanceRepository().Add(ctx, toUserID, guildID, currency.ID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to credit recipient: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          fromUserID,
		GuildID:         guildID,
		CurrencyID:      currency.ID,
		OldBalance:      fromBalance.Amount,
		NewBalance:      newFromBalance,
		ChangeAmount:    -amount,
		TransactionType: models.TransactionTypeTransferOut,
	})
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          toUserID,
		GuildID:         guildID,
		CurrencyID:      currency.ID,
		OldBalance:      newToBalance - amount,
		NewBalance:      newToBalance,
		ChangeAmount:    amount,
		TransactionType: models.TransactionTypeTransferIn,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Currency:       currency,
		Amount:         amount,
		NewFromBalance: newFromBalance,
		NewToBalance:   newToBalance,
	}, nil
}

func (s *bankService) GetBalance(ctx context.Context, guildID int64, currencyName string, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only

	currency, err := resolveCurrency(ctx, uow, guildID, currencyName)
	if err != nil {
		return 0, err
	}

	balance, err := uow.BalanceRepository().Get(ctx, userID, guildID, currency.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return 0, nil
	}

	return balance.Amount, nil
}

func (s *bankService) ListBalances(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only

	entries, err := uow.BalanceRepository().ListByUser(ctx, guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	return entries, nil
}

func (s *bankService) Leaderboard(ctx context.Context, guildID int64, currencyName string, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only

	currency, err := resolveCurrency(ctx, uow, guildID, currencyName)
	if err != nil {
		return nil, err
	}

	entries, err := uow.BalanceRepository().Top(ctx, guildID, currency.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	return entries, nil
}
