package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"willbank-ledger/internal/core/domain"
	"willbank-ledger/internal/core/ports"
	"willbank-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

const idempotencyTTL = 24 * time.Hour

// TransactionServiceImpl implements ports.TransactionService. It drives
// the deposit/withdrawal saga against the account ledger through the
// AccountGateway port: write PENDING, apply the balance mutation remotely,
// finalize COMPLETED or FAILED. The two sides share no transaction, so a
// crash between steps leaves a discoverable PENDING record rather than a
// silent inconsistency.
type TransactionServiceImpl struct {
	txRepo     ports.TransactionRepository
	idempRepo  ports.IdempotencyRepository
	idempCache ports.IdempotencyCache
	gateway    ports.AccountGateway
	events     ports.EventPublisher
	log        zerolog.Logger
}

// NewTransactionService creates a new TransactionServiceImpl.
func NewTransactionService(
	txRepo ports.TransactionRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	gateway ports.AccountGateway,
	events ports.EventPublisher,
	log zerolog.Logger,
) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		txRepo:     txRepo,
		idempRepo:  idempRepo,
		idempCache: idempCache,
		gateway:    gateway,
		events:     events,
		log:        log,
	}
}

// ProcessDeposit credits the account. No transaction record is written
// until the account is known to be reachable.
func (s *TransactionServiceImpl) ProcessDeposit(ctx context.Context, req ports.MovementRequest) (*domain.Transaction, error) {
	return s.processMovement(ctx, domain.TransactionTypeDeposit, req)
}

// ProcessWithdrawal debits the account. A balance pre-check rejects
// obviously insufficient withdrawals before any record exists; the remote
// DEBIT guard remains authoritative under concurrency.
func (s *TransactionServiceImpl) ProcessWithdrawal(ctx context.Context, req ports.MovementRequest) (*domain.Transaction, error) {
	return s.processMovement(ctx, domain.TransactionTypeWithdrawal, req)
}

func (s *TransactionServiceImpl) processMovement(ctx context.Context, txType domain.TransactionType, req ports.MovementRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("amount must be positive")
	}
	if req.AccountNumber == "" {
		return nil, apperror.Validation("account_number is required")
	}

	// Idempotent resubmission: an already-processed client token returns
	// the prior transaction without touching the ledger.
	var idempKey string
	if req.IdempotencyKey != "" {
		idempKey = domain.BuildIdempotencyKey(req.AccountNumber, req.IdempotencyKey)

		// Layer 1: Redis
		cached, err := s.idempCache.Get(ctx, idempKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", idempKey).Msg("redis idempotency check failed, falling through to DB")
		}
		if cached != nil {
			return s.unmarshalCachedTransaction(cached)
		}

		// Layer 2: DB
		record, err := s.idempRepo.Get(ctx, idempKey)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
		}
		if record != nil {
			return s.unmarshalCachedTransaction(record.ResponseJSON)
		}
	}

	// Reachability probe. Any failure here, a missing account included,
	// surfaces as AccountUnavailable and no record is written.
	balance, err := s.gateway.ReadBalance(ctx, req.AccountNumber)
	if err != nil {
		return nil, apperror.ErrAccountUnavailable(err)
	}

	op := domain.OperationCredit
	if txType == domain.TransactionTypeWithdrawal {
		op = domain.OperationDebit
		if balance.LessThan(req.Amount) {
			return nil, apperror.ErrInsufficientFunds()
		}
	}

	txn := domain.NewPendingTransaction(txType, req.AccountNumber, nil, req.Amount, req.Description)
	if err := s.txRepo.Create(ctx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	// The PENDING record exists now. From here on a caller disconnect must
	// not strand it, so the remaining steps ignore cancellation.
	ctx = context.WithoutCancel(ctx)

	adjustErr := s.gateway.AdjustBalance(ctx, req.AccountNumber, req.Amount, op)
	if adjustErr != nil {
		// The gateway error takes precedence; a lost FAILED transition is
		// logged inside finalize.
		_ = s.finalize(ctx, txn, domain.TransactionStatusFailed)
		s.log.Warn().
			Str("reference", txn.TransactionReference).
			Str("account_number", req.AccountNumber).
			Err(adjustErr).
			Msg("balance adjustment failed, transaction marked FAILED")
		return nil, adjustErr
	}

	if err := s.finalize(ctx, txn, domain.TransactionStatusCompleted); err != nil {
		return nil, err
	}

	if idempKey != "" {
		s.storeIdempotency(ctx, idempKey, txn)
	}

	s.events.TransactionCompleted(ctx, txn)

	s.log.Info().
		Str("reference", txn.TransactionReference).
		Str("account_number", req.AccountNumber).
		Str("type", string(txType)).
		Str("amount", req.Amount.String()).
		Msg("transaction completed")

	return txn, nil
}

// finalize drives the single PENDING -> terminal transition. The stored
// status is authoritative: a storage failure or an already-terminal record
// comes back as an error instead of flipping the in-memory status.
func (s *TransactionServiceImpl) finalize(ctx context.Context, txn *domain.Transaction, status domain.TransactionStatus) error {
	now := time.Now().UTC()
	moved, err := s.txRepo.Finalize(ctx, txn.ID, status, now)
	if err != nil {
		s.log.Error().Err(err).
			Str("reference", txn.TransactionReference).
			Str("status", string(status)).
			Msg("finalize failed, record remains PENDING")
		return apperror.InternalError(fmt.Errorf("finalize transaction: %w", err))
	}
	if !moved {
		s.log.Error().
			Str("reference", txn.TransactionReference).
			Str("status", string(status)).
			Msg("finalize skipped, record no longer PENDING")
		return apperror.ErrInvalidState("transaction is not PENDING")
	}
	txn.Status = status
	txn.ProcessedAt = &now
	return nil
}

func (s *TransactionServiceImpl) storeIdempotency(ctx context.Context, idempKey string, txn *domain.Transaction) {
	respJSON, err := json.Marshal(txn)
	if err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to marshal idempotency response")
		return
	}

	record := &domain.IdempotencyRecord{
		Key:           idempKey,
		TransactionID: txn.ID,
		ResponseJSON:  respJSON,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.idempRepo.Create(ctx, record); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to persist idempotency record")
		return
	}

	// Best-effort cache layer
	if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}
}

// GetByReference returns the transaction or NotFound. Pure read.
func (s *TransactionServiceImpl) GetByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("Transaction")
	}
	return txn, nil
}

// ListByAccount returns the account's transactions, newest first.
func (s *TransactionServiceImpl) ListByAccount(ctx context.Context, accountNumber string) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByAccount(ctx, accountNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

func (s *TransactionServiceImpl) unmarshalCachedTransaction(data []byte) (*domain.Transaction, error) {
	txn := &domain.Transaction{}
	if err := json.Unmarshal(data, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached tx: %w", err))
	}
	return txn, nil
}
