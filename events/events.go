package events

import (
	"context"
	"sync"

	"coinpurse/models"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeCurrencyCreated   EventType = "currency_created"
	EventTypeCurrencyDestroyed EventType = "currency_destroyed"
	EventTypeBalanceChange     EventType = "balance_change"
	EventTypeDiceRolled        EventType = "dice_rolled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// CurrencyCreatedEvent represents a new currency creation
type CurrencyCreatedEvent struct {
	CurrencyID int64
	GuildID    int64
	Name       string
}

func (e CurrencyCreatedEvent) Type() EventType {
	return EventTypeCurrencyCreated
}

// CurrencyDestroyedEvent represents a currency deletion, including the
// number of balance rows removed with it
type CurrencyDestroyedEvent struct {
	CurrencyID      int64
	GuildID         int64
	Name            string
	BalancesRemoved int64
}

func (e CurrencyDestroyedEvent) Type() EventType {
	return EventTypeCurrencyDestroyed
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          int64
	GuildID         int64
	CurrencyID      int64
	OldBalance      int64
	NewBalance      int64
	ChangeAmount    int64
	TransactionType models.TransactionType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// DiceRolledEvent represents a resolved dice wager
type DiceRolledEvent struct {
	UserID     int64
	GuildID    int64
	CurrencyID int64
	Roll       int64
	Won        bool
	BetAmount  int64
}

func (e DiceRolledEvent) Type() EventType {
	return EventTypeDiceRolled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the emitter
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a unit of work and
// forwards them to the real bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
// Events are emitted on a background context so they outlive the
// transaction context they were raised under.
func (b *TransactionalBus) Flush(ctx context.Context) {
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops all pending events. Called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
