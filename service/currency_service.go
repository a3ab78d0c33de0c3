package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"coinpurse/events"

	"coinpurse/models"
	"golang.org/x/text/unicode/norm"
)

// defaultListLimit caps list queries at the Discord choice/embed field limit
const defaultListLimit = 25

type currencyService struct {
	uowFactory UnitOfWorkFactory
}

// NewCurrencyService creates a new currency service
func NewCurrencyService(uowFactory UnitOfWorkFactory) CurrencyService {
	return &currencyService{
		uowFactory: uowFactory,
	}
}

// foldCurrencyName decomposes the name (NFKD) and keeps only the ASCII
// bytes, so visually-decorated variants collapse to one canonical form
func foldCurrencyName(name string) string {
	decomposed := norm.NFKD.String(name)
	out := make([]byte, 0, len(decomposed))
	for i := 0; i < len(decomposed); i++ {
		if decomposed[i] < utf8.RuneSelf {
			out = append(out, decomposed[i])
		}
	}
	return string(out)
}

func (s *currencyService) CreateCurrency(ctx context.Context, guildID int64, name string) (*models.Currency, error) {
	name = foldCurrencyName(name)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	existing, err := uow.CurrencyRepository().GetByNameFold(ctx, guildID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing currency: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%q: %w", existing.Name, ErrCurrencyExists)
	}

	currency, err := uow.CurrencyRepository().Create(ctx, guildID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}

	uow.EventBus().Publish(events.CurrencyCreatedEvent{
		CurrencyID: currency.ID,
		GuildID:    guildID,
		Name:       currency.Name,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return currency, nil
}

func (s *currencyService) DestroyCurrency(ctx context.Context, guildID int64, name string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	currency, err := uow.CurrencyRepository().GetByName(ctx, guildID, name)
	if err != nil {
		return fmt.Errorf("failed to look up currency: %w", err)
	}
	if currency == nil {
		return fmt.Errorf("%q: %w", name, ErrUnknownCurrency)
	}

	// Balances go first; both deletions commit as one unit
	removed, err := uow.BalanceRepository().DeleteByCurrency(ctx, currency.ID)
	if err != nil {
		return fmt.Errorf("failed to delete balances: %w", err)
	}

	if err := uow.CurrencyRepository().Delete(ctx, currency.ID); err != nil {
		return fmt.Errorf("failed to delete currency: %w", err)
	}

	uow.EventBus().Publish(events.CurrencyDestroyedEvent{
		CurrencyID:      currency.ID,
		GuildID:         guildID,
		Name:            currency.Name,
		BalancesRemoved: removed,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *currencyService) ListCurrencyNames(ctx context.Context, guildID int64, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Read-only

	names, err := uow.CurrencyRepository().SearchNames(ctx, guildID, prefix, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list currency names: %w", err)
	}

	return names, nil
}
