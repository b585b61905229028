package benchmark

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeProvider reverses the plaintext as "ciphertext" and advances the
// clock by fixed amounts per phase.
type fakeProvider struct {
	mu        sync.Mutex
	algorithm string
	clock     *fakeClock
	keyGen    time.Duration
	encrypt   time.Duration
	decrypt   time.Duration

	keyGenErr   error
	keyGenFail  string
	noSession   bool
	encryptFail string
	noCipher    bool
	decryptErr  error
	corrupt     bool
	panicOn     string
	onKeyGen    func()

	calls int
}

func newFakeProvider(algorithm string, clock *fakeClock, keyGen, encrypt, decrypt time.Duration) *fakeProvider {
	return &fakeProvider{algorithm: algorithm, clock: clock, keyGen: keyGen, encrypt: encrypt, decrypt: decrypt}
}

func (p *fakeProvider) Name() string      { return strings.ToLower(p.algorithm) }
func (p *fakeProvider) Algorithm() string { return p.algorithm }
func (p *fakeProvider) Close() error      { return nil }

func (p *fakeProvider) called() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *fakeProvider) tick(d time.Duration) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.clock != nil {
		p.clock.Advance(d)
	}
}

func (p *fakeProvider) GenerateKeyPair(ctx context.Context, keySize int) (providers.KeyPair, error) {
	p.tick(p.keyGen)
	if p.onKeyGen != nil {
		p.onKeyGen()
	}
	if p.panicOn == opGenerateKeys {
		panic("boom")
	}
	if p.keyGenErr != nil {
		return providers.KeyPair{}, p.keyGenErr
	}
	if p.keyGenFail != "" {
		return providers.KeyPair{Success: providers.Bool(false), Error: p.keyGenFail}, nil
	}
	if p.noSession {
		return providers.KeyPair{Success: providers.Bool(true)}, nil
	}
	return providers.KeyPair{Success: providers.Bool(true), SessionID: "s-1", KeySize: keySize}, nil
}

func (p *fakeProvider) Encrypt(ctx context.Context, sessionID, plaintext string) (providers.EncryptResponse, error) {
	p.tick(p.encrypt)
	if p.encryptFail != "" {
		return providers.EncryptResponse{Success: providers.Bool(false), Error: p.encryptFail}, nil
	}
	if p.noCipher {
		return providers.EncryptResponse{Success: providers.Bool(true)}, nil
	}
	return providers.EncryptResponse{Success: providers.Bool(true), EncryptedData: providers.String(reverse(plaintext))}, nil
}

func (p *fakeProvider) Decrypt(ctx context.Context, sessionID, encryptedData string) (providers.DecryptResponse, error) {
	p.tick(p.decrypt)
	if p.panicOn == opDecrypt {
		panic("decrypt exploded")
	}
	if p.decryptErr != nil {
		return providers.DecryptResponse{}, p.decryptErr
	}
	plain := reverse(encryptedData)
	if p.corrupt {
		plain += "x"
	}
	return providers.DecryptResponse{Success: providers.Bool(true), DecryptedData: providers.String(plain)}, nil
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

type fixedText struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fixedText) Generate(ctx context.Context, length int) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return strings.Repeat("a", length), nil
}

var errUnreachable = errors.New("connection refused")
