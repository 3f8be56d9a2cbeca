package service

import (
	"context"

	"willbank-ledger/internal/core/domain"

	"github.com/rs/zerolog"
)

// LogEventPublisher implements ports.EventPublisher by emitting a
// structured log line per completed transaction. Delivery to an external
// consumer is deliberately absent; a broker-backed implementation would
// replace this at wiring time.
type LogEventPublisher struct {
	log zerolog.Logger
}

func NewLogEventPublisher(log zerolog.Logger) *LogEventPublisher {
	return &LogEventPublisher{log: log}
}

func (p *LogEventPublisher) TransactionCompleted(ctx context.Context, txn *domain.Transaction) {
	p.log.Info().
		Str("event", "transaction.completed").
		Str("reference", txn.TransactionReference).
		Str("type", string(txn.TransactionType)).
		Str("from_account", txn.FromAccount).
		Str("amount", txn.Amount.String()).
		Str("status", string(txn.Status)).
		Msg("transaction event")
}
