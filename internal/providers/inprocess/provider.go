// Package inprocess provides a CryptoProvider that runs the reference crypto
// engine inside the benchmark process, with no network in between.
package inprocess

import (
	"context"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/appconfig"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/cryptoserver"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers"
)

// Provider adapts a cryptoserver.Service scheme to providers.CryptoProvider.
type Provider struct {
	name      string
	algorithm string
	scheme    string
	svc       *cryptoserver.Service
}

// New builds a provider for p on top of svc. Providers that share svc share its session store.
func New(svc *cryptoserver.Service, p appconfig.Provider) *Provider {
	return &Provider{name: p.Name, algorithm: p.Algorithm, scheme: p.APIPath(), svc: svc}
}

// Name returns the configured provider name.
func (p *Provider) Name() string { return p.name }

// Algorithm returns the algorithm label.
func (p *Provider) Algorithm() string { return p.algorithm }

// GenerateKeyPair generates keys in-process.
func (p *Provider) GenerateKeyPair(ctx context.Context, keySize int) (providers.KeyPair, error) {
	if err := ctx.Err(); err != nil {
		return providers.KeyPair{}, err
	}
	out := p.svc.GenerateKeys(p.scheme, keySize)
	logging.LogRequest("ENGINE", p.name, p.algorithm, "generateKeys", out)
	return out, nil
}

// Encrypt encrypts in-process. A round trip ends here when encryption
// yields no ciphertext, so the session is dropped in that case.
func (p *Provider) Encrypt(ctx context.Context, sessionID, plaintext string) (providers.EncryptResponse, error) {
	if err := ctx.Err(); err != nil {
		p.svc.Sessions().Delete(sessionID)
		return providers.EncryptResponse{}, err
	}
	out := p.svc.Encrypt(p.scheme, sessionID, plaintext)
	logging.LogRequest("ENGINE", p.name, p.algorithm, "encrypt", out)
	if out.Failed() || out.EncryptedData == nil {
		p.svc.Sessions().Delete(sessionID)
	}
	return out, nil
}

// Decrypt decrypts in-process and drops the session afterwards.
func (p *Provider) Decrypt(ctx context.Context, sessionID, encryptedData string) (providers.DecryptResponse, error) {
	defer p.svc.Sessions().Delete(sessionID)
	if err := ctx.Err(); err != nil {
		return providers.DecryptResponse{}, err
	}
	out := p.svc.Decrypt(p.scheme, sessionID, encryptedData)
	logging.LogRequest("ENGINE", p.name, p.algorithm, "decrypt", out)
	return out, nil
}

// Close is a no-op.
func (p *Provider) Close() error { return nil }
