package cryptoserver

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers"
)

// DefaultTextLength is used when a text generation request omits the length.
const DefaultTextLength = 100

// ErrUnknownScheme is returned for a route name with no registered scheme.
var ErrUnknownScheme = errors.New("unknown scheme")

// Service performs the crypto operations behind the HTTP API. Failures are
// reported inside the response (success=false, error) rather than as Go
// errors, matching the wire contract.
type Service struct {
	schemes  map[string]Scheme
	sessions *SessionStore
}

// NewService builds a Service over the given schemes and session store.
func NewService(schemes map[string]Scheme, sessions *SessionStore) *Service {
	if schemes == nil {
		schemes = DefaultSchemes()
	}
	if sessions == nil {
		sessions = NewSessionStore(0)
	}
	return &Service{schemes: schemes, sessions: sessions}
}

// Sessions exposes the underlying session store.
func (s *Service) Sessions() *SessionStore { return s.sessions }

// Scheme looks up a scheme by route name.
func (s *Service) Scheme(name string) (Scheme, error) {
	scheme, ok := s.schemes[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return scheme, nil
}

// GenerateKeys creates a key pair for the scheme and registers a session for it.
func (s *Service) GenerateKeys(schemeName string, keySize int) providers.KeyPair {
	scheme, err := s.Scheme(schemeName)
	if err != nil {
		return providers.KeyPair{Success: providers.Bool(false), Error: err.Error()}
	}
	start := time.Now()
	keys, err := scheme.Generate(keySize)
	if err != nil {
		return providers.KeyPair{Success: providers.Bool(false), Error: err.Error()}
	}
	id := s.sessions.Add(scheme.Name(), keySize, keys)
	return providers.KeyPair{
		Success:        providers.Bool(true),
		SessionID:      id,
		KeySize:        keySize,
		Algorithm:      scheme.Algorithm(),
		GenerationTime: millis(time.Since(start)),
	}
}

// Encrypt encrypts data with the session's key and returns base64 ciphertext.
func (s *Service) Encrypt(schemeName, sessionID, data string) providers.EncryptResponse {
	_, keys, errMsg := s.lookup(schemeName, sessionID)
	if errMsg != "" {
		return providers.EncryptResponse{Success: providers.Bool(false), Error: errMsg}
	}
	start := time.Now()
	sealed, err := keys.Encrypt([]byte(data))
	if err != nil {
		return providers.EncryptResponse{Success: providers.Bool(false), Error: err.Error()}
	}
	return providers.EncryptResponse{
		Success:        providers.Bool(true),
		EncryptedData:  providers.String(base64.StdEncoding.EncodeToString(sealed)),
		EncryptionTime: millis(time.Since(start)),
	}
}

// Decrypt decodes base64 ciphertext and decrypts it with the session's key.
func (s *Service) Decrypt(schemeName, sessionID, encryptedData string) providers.DecryptResponse {
	_, keys, errMsg := s.lookup(schemeName, sessionID)
	if errMsg != "" {
		return providers.DecryptResponse{Success: providers.Bool(false), Error: errMsg}
	}
	start := time.Now()
	raw, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return providers.DecryptResponse{Success: providers.Bool(false), Error: fmt.Sprintf("invalid base64 ciphertext: %v", err)}
	}
	plain, err := keys.Decrypt(raw)
	if err != nil {
		return providers.DecryptResponse{Success: providers.Bool(false), Error: err.Error()}
	}
	return providers.DecryptResponse{
		Success:        providers.Bool(true),
		DecryptedData:  providers.String(string(plain)),
		DecryptionTime: millis(time.Since(start)),
	}
}

func (s *Service) lookup(schemeName, sessionID string) (Scheme, Keys, string) {
	scheme, err := s.Scheme(schemeName)
	if err != nil {
		return nil, nil, err.Error()
	}
	keys, ok := s.sessions.Get(scheme.Name(), sessionID)
	if !ok {
		return nil, nil, fmt.Sprintf("No %s key pair found for session ID", scheme.Algorithm())
	}
	return scheme, keys, ""
}

// GenerateText returns length characters of random base64 text.
func (s *Service) GenerateText(length int) (string, error) {
	if length <= 0 {
		length = DefaultTextLength
	}
	raw := make([]byte, base64.StdEncoding.DecodedLen(length)+3)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw)[:length], nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
