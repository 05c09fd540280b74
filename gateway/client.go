package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blockrockettech/stellar-playground/log"
	"github.com/blockrockettech/stellar-playground/txn"
)

const defaultCallTimeout = 10 * time.Second

// HTTPClient talks to a ledger gateway server over its REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPClient creates a gateway client to the given base URL, every
// call is bounded by the supplied timeout, a stalled gateway surfaces
// ErrTimeout instead of hanging the workflow.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

type submitRequest struct {
	Envelope string `json:"envelope"`
}

type rejectionResponse struct {
	Reason string `json:"reason"`
}

// LoadAccount loads the current on-ledger state of the account.
func (c *HTTPClient) LoadAccount(ctx context.Context, accountID string) (*AccountState, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/accounts/%s", c.baseURL, accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create load account request failed: %v", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrAccountNotFound
	default:
		return nil, fmt.Errorf("load account failed with status %d", resp.StatusCode)
	}

	state := &AccountState{}
	if err := json.NewDecoder(resp.Body).Decode(state); err != nil {
		return nil, fmt.Errorf("decode account state failed: %v", err)
	}

	return state, nil
}

// SubmitTx submits a signed envelope for inclusion in the ledger.
func (c *HTTPClient) SubmitTx(ctx context.Context, envelope *txn.Envelope) error {
	encoded, err := envelope.Encode()
	if err != nil {
		return fmt.Errorf("encode envelope failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(&submitRequest{Envelope: encoded})
	if err != nil {
		return fmt.Errorf("marshal submit request failed: %v", err)
	}

	url := fmt.Sprintf("%s/transactions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create submit request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		rejection := &rejectionResponse{}
		b, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(b, rejection); err != nil || rejection.Reason == "" {
			rejection.Reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		log.Infow("tx submission rejected", "reason", rejection.Reason)
		return &SubmissionError{Reason: rejection.Reason}
	}

	return fmt.Errorf("submit tx failed with status %d", resp.StatusCode)
}

func mapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrUnavailable
}
