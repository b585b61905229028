// internal/metrics/provider.go
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers"
)

// Operation names recorded by the decorator.
const (
	OpGenerateKeys = "generateKeys"
	OpEncrypt      = "encrypt"
	OpDecrypt      = "decrypt"
)

// errFailed marks calls the provider answered with success=false.
var errFailed = errors.New("provider reported failure")

// Provider is a decorator that wraps a CryptoProvider to record call metrics.
type Provider struct {
	wrapped    providers.CryptoProvider
	aggregator *Aggregator
	now        func() time.Time
}

// NewProvider creates a new metrics-enabled provider that wraps an existing CryptoProvider.
func NewProvider(wrapped providers.CryptoProvider, aggregator *Aggregator) *Provider {
	logging.LogEvent("[METRICS] Wrapping provider %s with metrics provider", wrapped.Name())
	return &Provider{wrapped: wrapped, aggregator: aggregator, now: time.Now}
}

// Wrapped returns the decorated provider.
func (p *Provider) Wrapped() providers.CryptoProvider { return p.wrapped }

// Name passes the call through to the wrapped provider.
func (p *Provider) Name() string { return p.wrapped.Name() }

// Algorithm passes the call through to the wrapped provider.
func (p *Provider) Algorithm() string { return p.wrapped.Algorithm() }

// GenerateKeyPair times the wrapped call.
func (p *Provider) GenerateKeyPair(ctx context.Context, keySize int) (providers.KeyPair, error) {
	start := p.now()
	out, err := p.wrapped.GenerateKeyPair(ctx, keySize)
	if err == nil && out.Failed() {
		p.record(OpGenerateKeys, start, errFailed)
	} else {
		p.record(OpGenerateKeys, start, err)
	}
	return out, err
}

// Encrypt times the wrapped call.
func (p *Provider) Encrypt(ctx context.Context, sessionID, plaintext string) (providers.EncryptResponse, error) {
	start := p.now()
	out, err := p.wrapped.Encrypt(ctx, sessionID, plaintext)
	if err == nil && out.Failed() {
		p.record(OpEncrypt, start, errFailed)
	} else {
		p.record(OpEncrypt, start, err)
	}
	return out, err
}

// Decrypt times the wrapped call.
func (p *Provider) Decrypt(ctx context.Context, sessionID, encryptedData string) (providers.DecryptResponse, error) {
	start := p.now()
	out, err := p.wrapped.Decrypt(ctx, sessionID, encryptedData)
	if err == nil && out.Failed() {
		p.record(OpDecrypt, start, errFailed)
	} else {
		p.record(OpDecrypt, start, err)
	}
	return out, err
}

// Close passes the call through to the wrapped provider.
func (p *Provider) Close() error {
	return p.wrapped.Close()
}

func (p *Provider) record(op string, start time.Time, err error) {
	if p.aggregator == nil {
		return
	}
	p.aggregator.Record(p.wrapped.Name(), p.wrapped.Algorithm(), op, p.now().Sub(start), err)
}
