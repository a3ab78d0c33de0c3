package service

import (
	"context"

	"coinpurse/events"
	"coinpurse/models"

	"github.com/stretchr/testify/mock"
)

// MockCurrencyRepository is a mock implementation of CurrencyRepository
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) Create(ctx context.Context, guildID int64, name string) (*models.Currency, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) GetByName(ctx context.Context, guildID int64, name string) (*models.Currency, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) GetByNameFold(ctx context.Context, guildID int64, name string) (*models.Currency, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SearchNames(ctx context.Context, guildID int64, substr string, limit int) ([]string, error) {
	args := m.Called(ctx, guildID, substr, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCurrencyRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) Get(ctx context.Context, userID, guildID, currencyID int64) (*models.Balance, error) {
	args := m.Called(ctx, userID, guildID, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Balance), args.Error(1)
}

func (m *MockBalanceRepository) Add(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, error) {
	args := m.Called(ctx, userID, guildID, currencyID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceRepository) Deduct(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, error) {
	args := m.Called(ctx, userID, guildID, currencyID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceRepository) DeductClamped(ctx context.Context, userID, guildID, currencyID, amount int64) (int64, int64, error) {
	args := m.Called(ctx, userID, guildID, currencyID, amount)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockBalanceRepository) ListByUser(ctx context.Context, guildID, userID int64, limit int) ([]*models.BalanceEntry, error) {
	args := m.Called(ctx, guildID, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceEntry), args.Error(1)
}

func (m *MockBalanceRepository) Top(ctx context.Context, guildID, currencyID int64, limit int) ([]*models.LeaderboardEntry, error) {
	args := m.Called(ctx, guildID, currencyID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LeaderboardEntry), args.Error(1)
}

func (m *MockBalanceRepository) DeleteByCurrency(ctx context.Context, currencyID int64) (int64, error) {
	args := m.Called(ctx, currencyID)
	return args.Get(0).(int64), args.Error(1)
}

// MockGuildSettingsRepository is a mock implementation of GuildSettingsRepository
type MockGuildSettingsRepository struct {
	mock.Mock
}

func (m *MockGuildSettingsRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildSettings), args.Error(1)
}

func (m *MockGuildSettingsRepository) Update(ctx context.Context, settings *models.GuildSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// assigned with SetRepositories rather than mocked so getters stay cheap.
type MockUnitOfWork struct {
	mock.Mock
	currencyRepo CurrencyRepository
	balanceRepo  BalanceRepository
	settingsRepo GuildSettingsRepository
	eventBus     EventPublisher
}

func (m *MockUnitOfWork) SetRepositories(
	currencyRepo CurrencyRepository,
	balanceRepo BalanceRepository,
	settingsRepo GuildSettingsRepository,
	eventBus EventPublisher,
) {
	m.currencyRepo = currencyRepo
	m.balanceRepo = balanceRepo
	m.settingsRepo = settingsRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) CurrencyRepository() CurrencyRepository {
	return m.currencyRepo
}

func (m *MockUnitOfWork) BalanceRepository() BalanceRepository {
	return m.balanceRepo
}

func (m *MockUnitOfWork) GuildSettingsRepository() GuildSettingsRepository {
	return m.settingsRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
