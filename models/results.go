package models

// MintResult is the outcome of a successful mint
type MintResult struct {
	Currency   *Currency
	Amount     int64
	NewBalance int64
}

// BurnResult is the outcome of a successful burn.
// Clamped reports that the debit would have gone negative and the
// balance was set to zero instead.
type BurnResult struct {
	Currency   *Currency
	Amount     int64
	NewBalance int64
	Clamped    bool
}

// TransferResult is the outcome of a successful transfer between two users
type TransferResult struct {
	Currency       *Currency
	Amount         int64
	NewFromBalance int64
	NewToBalance   int64
}

// DiceResult is the outcome of a resolved dice wager
type DiceResult struct {
	Currency     *Currency
	Won          bool
	Roll         int64
	WinThreshold int64
	BetAmount    int64
	NewBalance   int64
}
