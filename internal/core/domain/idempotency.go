package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyRecord caches the outcome of a deposit/withdrawal submission so
// that resubmitting the same client token returns the prior transaction
// instead of creating a duplicate record.
type IdempotencyRecord struct {
	Key           string    `json:"key"` // Format: "account_number:client_token"
	TransactionID uuid.UUID `json:"transaction_id"`
	ResponseJSON  []byte    `json:"response_json"` // Cached transaction to return
	CreatedAt     time.Time `json:"created_at"`
}

// BuildIdempotencyKey scopes a client-supplied token to an account.
func BuildIdempotencyKey(accountNumber, clientToken string) string {
	return accountNumber + ":" + clientToken
}
