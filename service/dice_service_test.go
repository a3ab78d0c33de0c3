package service

import (
	"context"
	"testing"

	"coinpurse/events"
	"coinpurse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newDiceTestMocks() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockCurrencyRepository, *MockBalanceRepository, *MockGuildSettingsRepository, *MockEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockCurrencyRepo := new(MockCurrencyRepository)
	mockBalanceRepo := new(MockBalanceRepository)
	mockSettingsRepo := new(MockGuildSettingsRepository)
	mockBus := new(MockEventPublisher)

	mockUoW.SetRepositories(mockCurrencyRepo, mockBalanceRepo, mockSettingsRepo, mockBus)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockCurrencyRepo, mockBalanceRepo, mockSettingsRepo, mockBus
}

func configuredSettings(threshold int64) *models.GuildSettings {
	return &models.GuildSettings{
		GuildID: 42,
		DiceWin: &threshold,
		MinBet:  100,
		MaxBet:  100000,
	}
}

func TestDiceService_PlayDice_Win(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockCurrencyRepo, mockBalanceRepo, mockSettingsRepo, mockBus := newDiceTestMocks()

	service := NewDiceService(mockFactory)
	// Threshold 50, roll 50: a roll equal to the threshold wins
	service.(*diceService).roll = func() int64 { return 50 }

	currency := &models.Currency{ID: 1, GuildID: 42, Name: "doubloons"}
	balance := &models.Balance{UserID: 7, GuildID: 42, CurrencyID: 1, Amount: 5000}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("GetOrCreate", ctx, int64(42)).Return(configuredSettings(50), nil)
	mockCurrencyRepo.On("GetByName", ctx, int64(42), "doubloons").Return(currency, nil)
	mockBalanceRepo.On("Get", ctx, int64(7), int64(42), int64(1)).Return(balance, nil)
	// A win credits the bet amount on top of the untouched stake
	mockBalanceRepo.On("Add", ctx, int64(7), int64(42), int64(1), int64(1000)).Return(int64(6000), nil)

	mockBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.BalanceChangeEvent)
		return ok && ev.TransactionType == models.TransactionTypeDiceWin && ev.ChangeAmount == 1000
	})).Return()
	mockBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.DiceRolledEvent)
		return ok && ev.Won && ev.Roll == 50 && ev.BetAmount == 1000
	})).Return()

	result, err := service.PlayDice(ctx, 42, "doubloons", 7, 1000)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.Won)
	assert.Equal(t, int64(50), result.Roll)
	assert.Equal(t, int64(50), result.WinThreshold)
	assert.Equal(t, int64(6000), result.NewBalance)

	mockBalanceRepo.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestDiceService_PlayDice_Loss(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockCurrencyRepo, mockBalanceRepo, mockSettingsRepo, mockBus := newDiceTestMocks()

	service := NewDiceService(mockFactory)
	service.(*diceService).roll = func() int64 { return 51 }

	currency := &models.Currency{ID: 1, GuildID: 42, Name: "doubloons"}
	balance := &models.Balance{UserID: 7, GuildID: 42, CurrencyID: 1, Amount: 5000}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("GetOrCreate", ctx, int64(42)).Return(configuredSettings(50), nil)
	mockCurrencyRepo.On("GetByName", ctx, int64(42), "doubloons").Return(currency, nil)
	mockBalanceRepo.On("Get", ctx, int64(7), int64(42), int64(1)).Return(balance, nil)
	mockBalanceRepo.On("Deduct", ctx, int64(7), int64(42), int64(1), int64(1000)).Return(int64(4000), nil)

	mockBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.BalanceChangeEvent)
		return ok && ev.TransactionType == models.TransactionTypeDiceLoss && ev.ChangeAmount == -1000
	})).Return()
	mockBus.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		ev, ok := e.(events.DiceRolledEvent)
		return ok && !ev.Won && ev.Roll == 51
	})).Return()

	result, err := service.PlayDice(ctx, 42, "doubloons", 7, 1000)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.False(t, result.Won)
	assert.Equal(t, int64(4000), result.NewBalance)

	mockBalanceRepo.AssertExpectations(t)
	mockBus.AssertExpectations(t)
}

func TestDiceService_PlayDice_ZeroRollAlwaysWins(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockCurrencyRepo, mockBalanceRepo, mockSettingsRepo, mockBus := newDiceTestMocks()

	service := NewDiceService(mockFactory)
	service.(*diceService).roll = func() int64 { return 0 }

	currency := &models.Currency{ID: 1, GuildID: 42, Name: "doubloons"}
	balance := &models.Balance{UserID: 7, GuildID: 42, CurrencyID: 1, Amount: 5000}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("GetOrCreate", ctx, int64(42)).Return(configuredSettings(1), nil)
	mockCurrencyRepo.On("GetByName", ctx, int64(42), "doubloons").Return(currency, nil)
	mockBalanceRepo.On("Get", ctx, int64(7), int64(42), int64(1)).Return(balance, nil)
	mockBalanceRepo.On("Add", ctx, int64(7), int64(42), int64(1), int64(1000)).Return(int64(6000), nil)

	mockBus.On("Publish", mock.Anything).Return()

	result, err := service.PlayDice(ctx, 42, "doubloons", 7, 1000)

	assert.NoError(t, err)
	assert.True(t, result.Won)
}

func TestDiceService_PlayDice_NotConfigured(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockCurrencyRepo, _, mockSettingsRepo, _ := newDiceTestMocks()

	service := NewDiceService(mockFactory)

	unconfigured := &models.GuildSettings{
		GuildID: 42,
		MinBet:  models.DefaultMinBet,
		MaxBet:  models.DefaultMaxBet,
	}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("GetOrCreate", ctx, int64(42)).Return(unconfigured, nil)

	result, err := service.PlayDice(ctx, 42, "doubloons", 7, models.DefaultMinBet)

	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, result)

	mockCurrencyRepo.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestDiceService_PlayDice_BetOutOfBounds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockCurrencyRepo, _, mockSettingsRepo, _ := newDiceTestMocks()

	service := NewDiceService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("GetOrCreate", ctx, int64(42)).Return(configuredSettings(50), nil)

	tests := []struct {
		name string
		bet  int64
	}{
		{"below minimum", 99},
		{"above maximum", 100001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.PlayDice(ctx, 42, "doubloons", 7, tt.bet)
			assert.ErrorIs(t, err, ErrBetOutOfBounds)
			assert.Nil(t, result)
		})
	}

	mockCurrencyRepo.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything, mock.Anything)
}

func TestDiceService_PlayDice_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockCurrencyRepo, mockBalanceRepo, mockSettingsRepo, _ := newDiceTestMocks()

	service := NewDiceService(mockFactory)

	currency := &models.Currency{ID: 1, GuildID: 42, Name: "doubloons"}
	balance := &models.Balance{UserID: 7, GuildID: 42, CurrencyID: 1, Amount: 500}

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockSettingsRepo.On("GetOrCreate", ctx, int64(42)).Return(configuredSettings(50), nil)
	mockCurrencyRepo.On("GetByName", ctx, int64(42), "doubloons").Return(currency, nil)
	mockBalanceRepo.On("Get", ctx, int64(7), int64(42), int64(1)).Return(balance, nil)

	result, err := service.PlayDice(ctx, 42, "doubloons", 7, 1000)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Nil(t, result)

	mockBalanceRepo.AssertNotCalled(t, "Deduct", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestDiceService_DefaultRollRange(t *testing.T) {
	service := NewDiceService(new(MockUnitOfWorkFactory))
	roll := service.(*diceService).roll

	for i := 0; i < 1000; i++ {
		r := roll()
		assert.GreaterOrEqual(t, r, int64(0))
		assert.LessOrEqual(t, r, int64(100))
	}
}

func TestDiceService_RollD100Range(t *testing.T) {
	service := NewDiceService(new(MockUnitOfWorkFactory))

	for i := 0; i < 1000; i++ {
		r := service.RollD100()
		assert.GreaterOrEqual(t, r, int64(0))
		assert.Less(t, r, int64(100))
	}
}
