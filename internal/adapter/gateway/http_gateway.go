package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"willbank-ledger/config"
	"willbank-ledger/internal/core/domain"
	"willbank-ledger/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HTTPGateway reaches the account ledger over its REST API. Transport
// failures and timeouts surface as SYS_002 Unavailable; application errors
// are rebuilt from the error envelope so the orchestrator sees the same
// taxonomy it would see in-process.
type HTTPGateway struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

// NewHTTPGateway creates a gateway targeting cfg.BaseURL with cfg.Timeout
// as the per-request deadline.
func NewHTTPGateway(cfg config.GatewayConfig, log zerolog.Logger) *HTTPGateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPGateway{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
		log:     log.With().Str("component", "http_gateway").Logger(),
	}
}

type balanceEnvelope struct {
	Data struct {
		AccountNumber string          `json:"account_number"`
		Balance       decimal.Decimal `json:"balance"`
	} `json:"data"`
}

type errorEnvelope struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// ReadBalance fetches the current balance of the account.
func (g *HTTPGateway) ReadBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	url := fmt.Sprintf("%s/api/v1/accounts/%s/balance", g.baseURL, accountNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, apperror.InternalError(err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return decimal.Zero, g.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, g.decodeError(resp)
	}

	var envelope balanceEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return decimal.Zero, apperror.ErrUnavailable(fmt.Errorf("decoding balance response: %w", err))
	}
	return envelope.Data.Balance, nil
}

type adjustRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Operation string          `json:"operation"`
}

// AdjustBalance applies a CREDIT or DEBIT to the account.
func (g *HTTPGateway) AdjustBalance(ctx context.Context, accountNumber string, amount decimal.Decimal, op domain.BalanceOperation) error {
	url := fmt.Sprintf("%s/api/v1/accounts/%s/balance", g.baseURL, accountNumber)

	body, err := json.Marshal(adjustRequest{Amount: amount, Operation: string(op)})
	if err != nil {
		return apperror.InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return apperror.InternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return g.transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return g.decodeError(resp)
	}
	return nil
}

// transportError maps client-side failures (refused connection, DNS,
// timeout) onto Unavailable. A timeout counts as an explicit failure.
func (g *HTTPGateway) transportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		g.log.Warn().Err(err).Msg("Account ledger request timed out")
		return apperror.ErrUnavailable(err)
	}
	g.log.Warn().Err(err).Msg("Account ledger unreachable")
	return apperror.ErrUnavailable(err)
}

// decodeError rebuilds an AppError from the ledger's error envelope,
// falling back to the HTTP status when the body is not parseable.
func (g *HTTPGateway) decodeError(resp *http.Response) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.ErrorCode != "" {
		return apperror.New(envelope.ErrorCode, envelope.Message, resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperror.ErrNotFound("Account")
	case http.StatusConflict:
		return apperror.ErrInvalidState("account not active")
	case http.StatusPaymentRequired:
		return apperror.ErrInsufficientFunds()
	default:
		return apperror.ErrUnavailable(fmt.Errorf("account ledger returned status %d", resp.StatusCode))
	}
}
