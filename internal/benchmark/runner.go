// internal/benchmark/runner.go
package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers"
)

// Operation names used in error messages.
const (
	opGenerateKeys = "key generation"
	opEncrypt      = "encryption"
	opDecrypt      = "decryption"
)

// Runner executes single round-trip tests. It never returns an error: every
// failure is folded into the TestResult.
type Runner struct {
	clock Clock
}

// NewRunner returns a Runner timing phases with clock (SystemClock when nil).
func NewRunner(clock Clock) *Runner {
	if clock == nil {
		clock = SystemClock
	}
	return &Runner{clock: clock}
}

// Run performs key generation, encryption, decryption and verification
// against p. The total-time marker starts right before key generation; with
// policy.ExcludeKeyGen it moves to right after key generation returns, on the
// success path and the failure path alike.
func (r *Runner) Run(ctx context.Context, p providers.CryptoProvider, input string, keySize int, policy TimingPolicy) (result TestResult) {
	result = TestResult{
		KeySize:        keySize,
		DataLength:     len(input),
		ExcludedKeyGen: policy.ExcludeKeyGen,
	}

	start := r.clock.Now()
	marker := start
	phase := opGenerateKeys
	defer func() {
		if rec := recover(); rec != nil {
			fail(&result, &TransportError{Operation: phase, Err: fmt.Errorf("panic: %v", rec)})
		}
		result.TotalTime = nonNegative(r.clock.Now().Sub(marker))
	}()
	result.Algorithm = p.Algorithm()

	kp, err := p.GenerateKeyPair(ctx, keySize)
	keyGenEnd := r.clock.Now()
	result.KeyGenTime = nonNegative(keyGenEnd.Sub(start))
	if policy.ExcludeKeyGen {
		marker = keyGenEnd
	}
	switch {
	case err != nil:
		fail(&result, &TransportError{Operation: phase, Err: err})
		return result
	case kp.Failed():
		fail(&result, &ProviderError{Operation: phase, Message: kp.Error})
		return result
	case kp.Handle() == "":
		fail(&result, ErrMissingSession)
		return result
	}
	result.SessionID = kp.Handle()

	phase = opEncrypt
	encStart := r.clock.Now()
	enc, err := p.Encrypt(ctx, result.SessionID, input)
	result.EncryptTime = nonNegative(r.clock.Now().Sub(encStart))
	switch {
	case err != nil:
		fail(&result, &TransportError{Operation: phase, Err: err})
		return result
	case enc.Failed():
		fail(&result, &ProviderError{Operation: phase, Message: enc.Reason()})
		return result
	case enc.EncryptedData == nil:
		fail(&result, ErrMissingCiphertext)
		return result
	}

	phase = opDecrypt
	decStart := r.clock.Now()
	dec, err := p.Decrypt(ctx, result.SessionID, *enc.EncryptedData)
	result.DecryptTime = nonNegative(r.clock.Now().Sub(decStart))
	switch {
	case err != nil:
		fail(&result, &TransportError{Operation: phase, Err: err})
		return result
	case dec.Failed():
		fail(&result, &ProviderError{Operation: phase, Message: dec.Reason()})
		return result
	case dec.DecryptedData == nil:
		fail(&result, ErrMissingPlaintext)
		return result
	}

	if *dec.DecryptedData != input {
		result.Failure = FailureVerification
		return result
	}
	result.Success = true
	return result
}

func fail(r *TestResult, err error) {
	r.Success = false
	r.Err = err
	r.Error = err.Error()
	r.Failure = classify(err)
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
