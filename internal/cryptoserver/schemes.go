// Package cryptoserver implements the reference crypto provider: RSA, RSA+AES
// hybrid and ECC (ECIES) schemes, a session key store and the JSON HTTP API
// the benchmark talks to.
package cryptoserver

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Scheme route names.
const (
	SchemeRSA    = "rsa"
	SchemeHybrid = "rsa-aes"
	SchemeECC    = "ecc"
)

// ErrCiphertextTooShort is returned when a ciphertext cannot hold its own framing.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Keys is the key material generated for one session.
type Keys interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Scheme generates key material for one algorithm family.
type Scheme interface {
	Name() string
	Algorithm() string
	KeySizes() []int
	Generate(keySize int) (Keys, error)
}

// UnsupportedKeySizeError reports a key size the scheme does not offer.
type UnsupportedKeySizeError struct {
	Scheme  string
	KeySize int
}

func (e *UnsupportedKeySizeError) Error() string {
	return fmt.Sprintf("Unsupported key size: %d", e.KeySize)
}

// DefaultSchemes returns the schemes served by the reference server, keyed by route name.
func DefaultSchemes() map[string]Scheme {
	return map[string]Scheme{
		SchemeRSA:    rsaScheme{},
		SchemeHybrid: hybridScheme{},
		SchemeECC:    eccScheme{},
	}
}

var rsaKeySizes = []int{1024, 2048, 3072, 4096}

func generateRSA(scheme string, keySize int) (*rsa.PrivateKey, error) {
	if !slices.Contains(rsaKeySizes, keySize) {
		return nil, &UnsupportedKeySizeError{Scheme: scheme, KeySize: keySize}
	}
	return rsa.GenerateKey(rand.Reader, keySize)
}

type rsaScheme struct{}

func (rsaScheme) Name() string      { return SchemeRSA }
func (rsaScheme) Algorithm() string { return "RSA" }
func (rsaScheme) KeySizes() []int   { return slices.Clone(rsaKeySizes) }

func (s rsaScheme) Generate(keySize int) (Keys, error) {
	priv, err := generateRSA(s.Name(), keySize)
	if err != nil {
		return nil, err
	}
	return rsaKeys{priv: priv}, nil
}

type rsaKeys struct {
	priv *rsa.PrivateKey
}

// Encrypt uses PKCS#1 v1.5 padding, which caps the plaintext at k/8-11 bytes.
func (k rsaKeys) Encrypt(plaintext []byte) ([]byte, error) {
	maxSize := k.priv.Size() - 11
	if len(plaintext) > maxSize {
		return nil, fmt.Errorf("Data too large for RSA encryption. Max size: %d bytes, got: %d bytes", maxSize, len(plaintext))
	}
	return rsa.EncryptPKCS1v15(rand.Reader, &k.priv.PublicKey, plaintext)
}

func (k rsaKeys) Decrypt(ciphertext []byte) ([]byte, error) {
	return rsa.DecryptPKCS1v15(rand.Reader, k.priv, ciphertext)
}

type hybridScheme struct{}

func (hybridScheme) Name() string      { return SchemeHybrid }
func (hybridScheme) Algorithm() string { return "RSA+AES" }
func (hybridScheme) KeySizes() []int   { return slices.Clone(rsaKeySizes) }

func (s hybridScheme) Generate(keySize int) (Keys, error) {
	priv, err := generateRSA(s.Name(), keySize)
	if err != nil {
		return nil, err
	}
	return hybridKeys{rsa: rsaKeys{priv: priv}}, nil
}

// hybridKeys wraps a fresh AES-256 key per message with RSA.
// Frame: [4-byte big-endian wrapped key length][wrapped key][nonce][AES-GCM ciphertext].
type hybridKeys struct {
	rsa rsaKeys
}

func (k hybridKeys) Encrypt(plaintext []byte) ([]byte, error) {
	aesKey := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, aesKey); err != nil {
		return nil, err
	}
	gcm, err := newGCM(aesKey)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	wrapped, err := k.rsa.Encrypt(aesKey)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 4, 4+len(wrapped)+len(nonce)+len(plaintext)+gcm.Overhead())
	binary.BigEndian.PutUint32(out, uint32(len(wrapped)))
	out = append(out, wrapped...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

func (k hybridKeys) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < 4 {
		return nil, ErrCiphertextTooShort
	}
	keyLen := int(binary.BigEndian.Uint32(ciphertext))
	rest := ciphertext[4:]
	if keyLen <= 0 || keyLen > len(rest) {
		return nil, ErrCiphertextTooShort
	}
	aesKey, err := k.rsa.Decrypt(rest[:keyLen])
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(aesKey)
	if err != nil {
		return nil, err
	}
	body := rest[keyLen:]
	if len(body) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, sealed := body[:gcm.NonceSize()], body[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

var eccCurves = map[int]ecdh.Curve{
	256: ecdh.P256(),
	384: ecdh.P384(),
	521: ecdh.P521(),
}

type eccScheme struct{}

func (eccScheme) Name() string      { return SchemeECC }
func (eccScheme) Algorithm() string { return "ECC" }
func (eccScheme) KeySizes() []int   { return []int{256, 384, 521} }

func (s eccScheme) Generate(keySize int) (Keys, error) {
	curve, ok := eccCurves[keySize]
	if !ok {
		return nil, &UnsupportedKeySizeError{Scheme: s.Name(), KeySize: keySize}
	}
	priv, err := curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return eccKeys{curve: curve, priv: priv}, nil
}

// eccKeys implements ECIES: an ephemeral ECDH agreement, HKDF-SHA256 key
// derivation and ChaCha20-Poly1305 sealing.
// Frame: [ephemeral public key][nonce][ciphertext].
type eccKeys struct {
	curve ecdh.Curve
	priv  *ecdh.PrivateKey
}

const eciesInfo = "cryptobench ecies v1"

func (k eccKeys) Encrypt(plaintext []byte) ([]byte, error) {
	eph, err := k.curve.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	shared, err := eph.ECDH(k.priv.PublicKey())
	if err != nil {
		return nil, err
	}
	ephPub := eph.PublicKey().Bytes()
	aead, err := deriveAEAD(shared, ephPub, k.priv.PublicKey().Bytes())
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(ephPub)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, ephPub...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, ephPub), nil
}

func (k eccKeys) Decrypt(ciphertext []byte) ([]byte, error) {
	pubLen := len(k.priv.PublicKey().Bytes())
	if len(ciphertext) < pubLen+chacha20poly1305.NonceSize {
		return nil, ErrCiphertextTooShort
	}
	ephPub := ciphertext[:pubLen]
	eph, err := k.curve.NewPublicKey(ephPub)
	if err != nil {
		return nil, fmt.Errorf("parse ephemeral key: %w", err)
	}
	shared, err := k.priv.ECDH(eph)
	if err != nil {
		return nil, err
	}
	aead, err := deriveAEAD(shared, ephPub, k.priv.PublicKey().Bytes())
	if err != nil {
		return nil, err
	}
	rest := ciphertext[pubLen:]
	nonce, sealed := rest[:aead.NonceSize()], rest[aead.NonceSize():]
	return aead.Open(nil, nonce, sealed, ephPub)
}

func deriveAEAD(shared, ephPub, recipientPub []byte) (cipher.AEAD, error) {
	salt := make([]byte, 0, len(ephPub)+len(recipientPub))
	salt = append(salt, ephPub...)
	salt = append(salt, recipientPub...)
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, salt, []byte(eciesInfo)), key); err != nil {
		return nil, err
	}
	return chacha20poly1305.New(key)
}
