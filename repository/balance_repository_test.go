package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"coinpurse/models"
	"coinpurse/repository/testutil"
	"coinpurse/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCurrency(t *testing.T, repo *CurrencyRepository, guildID int64, name string) *models.Currency {
	t.Helper()
	currency, err := repo.Create(context.Background(), guildID, name)
	require.NoError(t, err)
	return currency
}

func TestBalanceRepository_AddUpserts(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	currencyRepo := NewCurrencyRepository(testDB.DB)
	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	currency := seedCurrency(t, currencyRepo, testutil.TestGuildID, "doubloons")

	t.Run("first credit creates the row", func(t *testing.T) {
		amount, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 500)
		require.NoError(t, err)
		assert.Equal(t, int64(500), amount)
	})

	t.Run("second credit accumulates", func(t *testing.T) {
		amount, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 250)
		require.NoError(t, err)
		assert.Equal(t, int64(750), amount)
	})

	t.Run("get reflects the accumulated amount", func(t *testing.T) {
		balance, err := repo.Get(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID)
		require.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, int64(750), balance.Amount)
	})

	t.Run("missing row reads as nil", func(t *testing.T) {
		balance, err := repo.Get(ctx, testutil.TestUserID+1, testutil.TestGuildID, currency.ID)
		require.NoError(t, err)
		assert.Nil(t, balance)
	})
}

func TestBalanceRepository_Deduct(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	currencyRepo := NewCurrencyRepository(testDB.DB)
	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	currency := seedCurrency(t, currencyRepo, testutil.TestGuildID, "doubloons")

	_, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 1000)
	require.NoError(t, err)

	t.Run("deduct within funds", func(t *testing.T) {
		amount, err := repo.Deduct(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 400)
		require.NoError(t, err)
		assert.Equal(t, int64(600), amount)
	})

	t.Run("deduct to exactly zero", func(t *testing.T) {
		amount, err := repo.Deduct(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 600)
		require.NoError(t, err)
		assert.Equal(t, int64(0), amount)
	})

	t.Run("overdraft is rejected", func(t *testing.T) {
		_, err := repo.Deduct(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 1)
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	})

	t.Run("missing row is distinguished from overdraft", func(t *testing.T) {
		_, err := repo.Deduct(ctx, testutil.TestUserID+1, testutil.TestGuildID, currency.ID, 1)
		assert.ErrorIs(t, err, service.ErrNoBalance)
	})
}

func TestBalanceRepository_DeductClamped(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	currencyRepo := NewCurrencyRepository(testDB.DB)
	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	currency := seedCurrency(t, currencyRepo, testutil.TestGuildID, "doubloons")

	_, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 1000)
	require.NoError(t, err)

	t.Run("debit within funds", func(t *testing.T) {
		oldAmount, newAmount, err := repo.DeductClamped(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 400)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), oldAmount)
		assert.Equal(t, int64(600), newAmount)
	})

	t.Run("debit beyond funds floors at zero", func(t *testing.T) {
		oldAmount, newAmount, err := repo.DeductClamped(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 700)
		require.NoError(t, err)
		assert.Equal(t, int64(600), oldAmount)
		assert.Equal(t, int64(0), newAmount)
	})

	t.Run("missing row is reported", func(t *testing.T) {
		_, _, err := repo.DeductClamped(ctx, testutil.TestUserID+1, testutil.TestGuildID, currency.ID, 100)
		assert.ErrorIs(t, err, service.ErrNoBalance)
	})
}

// TestBalanceRepository_ConcurrentSameKeyMutations interleaves credits and
// clamped debits against one balance row. Every mutation is a single
// statement that serializes on the row, so the final amount must equal the
// serial result no matter which order the statements won the lock in.
func TestBalanceRepository_ConcurrentSameKeyMutations(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	currencyRepo := NewCurrencyRepository(testDB.DB)
	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	currency := seedCurrency(t, currencyRepo, testutil.TestGuildID, "doubloons")

	_, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 1000)
	require.NoError(t, err)

	// 10 credits of 50 racing 10 debits of 30; the balance never approaches
	// zero so no debit clamps and the serial total is 1000 + 500 - 300
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 50)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, _, err := repo.DeductClamped(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 30)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := repo.Get(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, int64(1200), balance.Amount)
}

// TestBalanceRepository_ConcurrentDeductsNeverOverdraw races conditional
// debits for a balance that only covers some of them.
func TestBalanceRepository_ConcurrentDeductsNeverOverdraw(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	currencyRepo := NewCurrencyRepository(testDB.DB)
	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	currency := seedCurrency(t, currencyRepo, testutil.TestGuildID, "doubloons")

	_, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 100)
	require.NoError(t, err)

	// 10 debits of 30 race for 100; exactly three can go through
	var wg sync.WaitGroup
	var successes int64
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Deduct(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID, 30)
			if err != nil {
				errs <- err
				return
			}
			atomic.AddInt64(&successes, 1)
		}()
	}
	wg.Wait()
	close(errs)

	assert.Equal(t, int64(3), successes)
	for err := range errs {
		assert.ErrorIs(t, err, service.ErrInsufficientFunds)
	}

	balance, err := repo.Get(ctx, testutil.TestUserID, testutil.TestGuildID, currency.ID)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, int64(10), balance.Amount)
}

func TestBalanceRepository_ListByUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	currencyRepo := NewCurrencyRepository(testDB.DB)
	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	gold := seedCurrency(t, currencyRepo, testutil.TestGuildID, "gold")
	silver := seedCurrency(t, currencyRepo, testutil.TestGuildID, "silver")

	_, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, gold.ID, 100)
	require.NoError(t, err)
	_, err = repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, silver.ID, 900)
	require.NoError(t, err)

	entries, err := repo.ListByUser(ctx, testutil.TestGuildID, testutil.TestUserID, 25)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Largest holding first
	assert.Equal(t, "silver", entries[0].CurrencyName)
	assert.Equal(t, int64(900), entries[0].Amount)
	assert.Equal(t, "gold", entries[1].CurrencyName)
}

func TestBalanceRepository_Top(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	currencyRepo := NewCurrencyRepository(testDB.DB)
	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	currency := seedCurrency(t, currencyRepo, testutil.TestGuildID, "doubloons")

	holders := map[int64]int64{
		testutil.TestUserID:     300,
		testutil.TestUserID + 1: 900,
		testutil.TestUserID + 2: 600,
	}
	for userID, amount := range holders {
		_, err := repo.Add(ctx, userID, testutil.TestGuildID, currency.ID, amount)
		require.NoError(t, err)
	}

	t.Run("ordered by amount descending", func(t *testing.T) {
		entries, err := repo.Top(ctx, testutil.TestGuildID, currency.ID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, testutil.TestUserID+1, entries[0].UserID)
		assert.Equal(t, int64(900), entries[0].Amount)
		assert.Equal(t, testutil.TestUserID+2, entries[1].UserID)
		assert.Equal(t, testutil.TestUserID, entries[2].UserID)
	})

	t.Run("limit truncates", func(t *testing.T) {
		entries, err := repo.Top(ctx, testutil.TestGuildID, currency.ID, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(900), entries[0].Amount)
	})
}

func TestBalanceRepository_DeleteByCurrency(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	currencyRepo := NewCurrencyRepository(testDB.DB)
	repo := NewBalanceRepository(testDB.DB)
	ctx := context.Background()

	doomed := seedCurrency(t, currencyRepo, testutil.TestGuildID, "doomed")
	kept := seedCurrency(t, currencyRepo, testutil.TestGuildID, "kept")

	for i := int64(0); i < 3; i++ {
		_, err := repo.Add(ctx, testutil.TestUserID+i, testutil.TestGuildID, doomed.ID, 100)
		require.NoError(t, err)
	}
	_, err := repo.Add(ctx, testutil.TestUserID, testutil.TestGuildID, kept.ID, 100)
	require.NoError(t, err)

	removed, err := repo.DeleteByCurrency(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	// Unrelated holdings survive
	balance, err := repo.Get(ctx, testutil.TestUserID, testutil.TestGuildID, kept.ID)
	require.NoError(t, err)
	require.NotNil(t, balance)
	assert.Equal(t, int64(100), balance.Amount)
}
