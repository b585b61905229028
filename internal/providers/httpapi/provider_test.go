// internal/providers/httpapi/provider_test.go
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/appconfig"
)

func newTestProvider(url string, retries int) *Provider {
	cfg := appconfig.Config{TimeoutSeconds: 5, RetryCount: retries}
	p := New(cfg, appconfig.Provider{Name: "rsa", Algorithm: "RSA", URL: url + "/api", KeySize: 2048})
	p.backoff = 0
	return p
}

func TestProviderRoundTrip(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	bodies := map[string]map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		var payload map[string]any
		_ = json.Unmarshal(raw, &payload)
		mu.Lock()
		bodies[r.URL.Path] = payload
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/crypto/rsa/generateKeys":
			_, _ = w.Write([]byte(`{"success":true,"sessionId":"s-1","keySize":2048,"algorithm":"RSA"}`))
		case "/api/crypto/rsa/encrypt":
			_, _ = w.Write([]byte(`{"success":true,"encryptedData":"Y2lwaGVy"}`))
		case "/api/crypto/rsa/decrypt":
			_, _ = w.Write([]byte(`{"success":true,"decryptedData":"hello"}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	p := newTestProvider(server.URL, 0)
	ctx := context.Background()

	kp, err := p.GenerateKeyPair(ctx, 2048)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if kp.Handle() != "s-1" {
		t.Fatalf("expected session s-1, got %q", kp.Handle())
	}

	enc, err := p.Encrypt(ctx, kp.Handle(), "hello")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if enc.Failed() || enc.EncryptedData == nil || *enc.EncryptedData != "Y2lwaGVy" {
		t.Fatalf("unexpected encrypt response: %+v", enc)
	}

	dec, err := p.Decrypt(ctx, kp.Handle(), *enc.EncryptedData)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if dec.DecryptedData == nil || *dec.DecryptedData != "hello" {
		t.Fatalf("unexpected decrypt response: %+v", dec)
	}

	mu.Lock()
	defer mu.Unlock()
	if got := bodies["/api/crypto/rsa/generateKeys"]["keySize"]; got != float64(2048) {
		t.Fatalf("expected keySize 2048 in request, got %v", got)
	}
	if got := bodies["/api/crypto/rsa/encrypt"]["data"]; got != "hello" {
		t.Fatalf("expected data field in encrypt request, got %v", got)
	}
	if got := bodies["/api/crypto/rsa/decrypt"]["encryptedData"]; got != "Y2lwaGVy" {
		t.Fatalf("expected encryptedData field in decrypt request, got %v", got)
	}
}

func TestProviderAcceptsIDField(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"legacy"}`))
	}))
	defer server.Close()

	kp, err := newTestProvider(server.URL, 0).GenerateKeyPair(context.Background(), 1024)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if kp.Handle() != "legacy" {
		t.Fatalf("expected legacy id, got %q", kp.Handle())
	}
}

func TestProviderExplicitFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"Data too long for RSA key size"}`))
	}))
	defer server.Close()

	enc, err := newTestProvider(server.URL, 0).Encrypt(context.Background(), "s", "x")
	if err != nil {
		t.Fatalf("explicit failure should not be a transport error: %v", err)
	}
	if !enc.Failed() || enc.Reason() != "Data too long for RSA key size" {
		t.Fatalf("unexpected response: %+v", enc)
	}
}

func TestProviderRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"sessionId":"ok"}`))
	}))
	defer server.Close()

	kp, err := newTestProvider(server.URL, 2).GenerateKeyPair(context.Background(), 256)
	if err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if kp.Handle() != "ok" || calls.Load() != 3 {
		t.Fatalf("expected 3 calls and session ok, got %d calls and %q", calls.Load(), kp.Handle())
	}
}

func TestProviderDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestProvider(server.URL, 3).Decrypt(context.Background(), "s", "x")
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected StatusError 400, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}
