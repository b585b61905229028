// internal/providers/provider.go

// Package providers defines the capability every crypto back-end exposes to the
// benchmark: key generation, encryption and decryption, addressed by a session
// handle returned from key generation. RSA, RSA+AES and ECC are all just
// implementations of CryptoProvider.
package providers

import "context"

// KeyPair is the response to a key generation request. Only SessionID is
// required by the benchmark; the rest is informational.
type KeyPair struct {
	Success        *bool   `json:"success,omitempty"`
	SessionID      string  `json:"sessionId,omitempty"`
	ID             string  `json:"id,omitempty"`
	KeySize        int     `json:"keySize,omitempty"`
	Algorithm      string  `json:"algorithm,omitempty"`
	PublicKey      string  `json:"publicKey,omitempty"`
	GenerationTime float64 `json:"generationTime,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// Handle returns the session handle, accepting either field name used by servers.
func (k KeyPair) Handle() string {
	if k.SessionID != "" {
		return k.SessionID
	}
	return k.ID
}

// Failed reports whether the provider explicitly flagged key generation as failed.
func (k KeyPair) Failed() bool { return k.Success != nil && !*k.Success }

// EncryptResponse is the response to an encrypt request. EncryptedData is nil
// when the server omitted it.
type EncryptResponse struct {
	Success        *bool   `json:"success,omitempty"`
	EncryptedData  *string `json:"encryptedData,omitempty"`
	EncryptionTime float64 `json:"encryptionTime,omitempty"`
	Error          string  `json:"error,omitempty"`
	Message        string  `json:"message,omitempty"`
}

// Failed reports whether the provider explicitly flagged the call as failed.
func (r EncryptResponse) Failed() bool { return r.Success != nil && !*r.Success }

// Reason returns the provider's failure message, if any.
func (r EncryptResponse) Reason() string { return firstNonEmpty(r.Error, r.Message) }

// DecryptResponse is the response to a decrypt request. DecryptedData is nil
// when the server omitted it.
type DecryptResponse struct {
	Success        *bool   `json:"success,omitempty"`
	DecryptedData  *string `json:"decryptedData,omitempty"`
	DecryptionTime float64 `json:"decryptionTime,omitempty"`
	Error          string  `json:"error,omitempty"`
	Message        string  `json:"message,omitempty"`
}

// Failed reports whether the provider explicitly flagged the call as failed.
func (r DecryptResponse) Failed() bool { return r.Success != nil && !*r.Success }

// Reason returns the provider's failure message, if any.
func (r DecryptResponse) Reason() string { return firstNonEmpty(r.Error, r.Message) }

// CryptoProvider is the interface that all crypto back-ends must implement.
type CryptoProvider interface {
	// Name is the configured provider name, e.g. "rsa-aes".
	Name() string
	// Algorithm is the display label recorded on test results, e.g. "RSA+AES".
	Algorithm() string
	// GenerateKeyPair creates key material of the requested size and returns a session handle.
	GenerateKeyPair(ctx context.Context, keySize int) (KeyPair, error)
	// Encrypt encrypts plaintext with the session's key.
	Encrypt(ctx context.Context, sessionID, plaintext string) (EncryptResponse, error)
	// Decrypt decrypts data previously returned by Encrypt for the same session.
	Decrypt(ctx context.Context, sessionID, encryptedData string) (DecryptResponse, error)
	// Close cleans up any resources used by the provider.
	Close() error
}

// Bool returns a pointer to b, for building responses.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for building responses.
func String(s string) *string { return &s }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
