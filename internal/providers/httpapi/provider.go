// internal/providers/httpapi/provider.go

// Package httpapi provides a CryptoProvider backed by the crypto server's JSON HTTP API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/appconfig"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers"
)

const (
	dirOut = "BENCH->API"
	dirIn  = "API->BENCH"
)

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpapi: %s returned %s: %s", e.Endpoint, e.Status, e.Body)
}

// Provider implements providers.CryptoProvider over HTTP.
type Provider struct {
	name      string
	algorithm string
	baseURL   string
	client    *http.Client
	timeout   time.Duration
	attempts  uint
	backoff   time.Duration
}

// New constructs a Provider for one configured provider entry.
func New(cfg appconfig.Config, p appconfig.Provider) *Provider {
	timeout := cfg.RequestTimeout()
	base := strings.TrimRight(strings.TrimSpace(p.URL), "/") + "/crypto/" + p.APIPath()
	return &Provider{
		name:      p.Name,
		algorithm: p.Algorithm,
		baseURL:   base,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout:  timeout,
		attempts: uint(cfg.RetryCount) + 1,
		backoff:  100 * time.Millisecond,
	}
}

// Name returns the configured provider name.
func (p *Provider) Name() string { return p.name }

// Algorithm returns the algorithm label.
func (p *Provider) Algorithm() string { return p.algorithm }

// BaseURL returns the endpoint prefix used for this provider's operations.
func (p *Provider) BaseURL() string { return p.baseURL }

// GenerateKeyPair calls POST <base>/generateKeys.
func (p *Provider) GenerateKeyPair(ctx context.Context, keySize int) (providers.KeyPair, error) {
	var out providers.KeyPair
	err := p.post(ctx, "generateKeys", map[string]any{"keySize": keySize}, &out)
	return out, err
}

// Encrypt calls POST <base>/encrypt.
func (p *Provider) Encrypt(ctx context.Context, sessionID, plaintext string) (providers.EncryptResponse, error) {
	var out providers.EncryptResponse
	err := p.post(ctx, "encrypt", map[string]any{"sessionId": sessionID, "data": plaintext}, &out)
	return out, err
}

// Decrypt calls POST <base>/decrypt.
func (p *Provider) Decrypt(ctx context.Context, sessionID, encryptedData string) (providers.DecryptResponse, error) {
	var out providers.DecryptResponse
	err := p.post(ctx, "decrypt", map[string]any{"sessionId": sessionID, "encryptedData": encryptedData}, &out)
	return out, err
}

// Close releases idle connections.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func (p *Provider) post(ctx context.Context, op string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	endpoint := p.baseURL + "/" + op

	var raw []byte
	err = retry.Do(
		func() error {
			logging.LogRequest(dirOut, p.name, p.algorithm, op, body)
			var callErr error
			raw, callErr = p.do(ctx, endpoint, body)
			return callErr
		},
		retry.Attempts(p.attempts),
		retry.Delay(p.backoff),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			logging.LogWarn("httpapi: %s %s attempt %d failed: %v", p.name, op, n+1, err)
		}),
	)
	if err != nil {
		return err
	}
	logging.LogRequest(dirIn, p.name, p.algorithm, op, raw)

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpapi: decode %s response: %w", op, err)
	}
	return nil
}

func (p *Provider) do(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	return raw, nil
}

// retryable reports whether a failed attempt may be repeated. Client errors are final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500
	}
	return true
}
