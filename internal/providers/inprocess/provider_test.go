package inprocess

import (
	"context"
	"strings"
	"testing"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/appconfig"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/cryptoserver"
)

func TestProviderRoundTrip(t *testing.T) {
	svc := cryptoserver.NewService(nil, nil)
	ctx := context.Background()

	for _, cfg := range []appconfig.Provider{
		{Name: "rsa", Algorithm: "RSA", KeySize: 1024},
		{Name: "hybrid", Algorithm: "RSA+AES", KeySize: 1024},
		{Name: "ecc", Algorithm: "ECC", KeySize: 256},
	} {
		p := New(svc, cfg)
		kp, err := p.GenerateKeyPair(ctx, cfg.KeySize)
		if err != nil || kp.Handle() == "" {
			t.Fatalf("%s: GenerateKeyPair = %+v, %v", cfg.Name, kp, err)
		}
		enc, err := p.Encrypt(ctx, kp.Handle(), "in process")
		if err != nil || enc.Failed() || enc.EncryptedData == nil {
			t.Fatalf("%s: Encrypt = %+v, %v", cfg.Name, enc, err)
		}
		dec, err := p.Decrypt(ctx, kp.Handle(), *enc.EncryptedData)
		if err != nil || dec.DecryptedData == nil || *dec.DecryptedData != "in process" {
			t.Fatalf("%s: Decrypt = %+v, %v", cfg.Name, dec, err)
		}
	}
	if n := svc.Sessions().Len(); n != 0 {
		t.Fatalf("expected sessions to be released after decrypt, %d left", n)
	}
}

func TestProviderHonorsCanceledContext(t *testing.T) {
	p := New(cryptoserver.NewService(nil, nil), appconfig.Provider{Name: "ecc", Algorithm: "ECC"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.GenerateKeyPair(ctx, 256); err == nil {
		t.Fatal("expected canceled context error")
	}
}

func TestProviderReleasesSessionWhenEncryptFails(t *testing.T) {
	svc := cryptoserver.NewService(nil, nil)
	p := New(svc, appconfig.Provider{Name: "rsa", Algorithm: "RSA", KeySize: 1024})
	ctx := context.Background()
	oversized := strings.Repeat("x", 500)

	for i := 0; i < 5; i++ {
		kp, err := p.GenerateKeyPair(ctx, 1024)
		if err != nil || kp.Handle() == "" {
			t.Fatalf("GenerateKeyPair = %+v, %v", kp, err)
		}
		enc, err := p.Encrypt(ctx, kp.Handle(), oversized)
		if err != nil {
			t.Fatalf("Encrypt error: %v", err)
		}
		if !enc.Failed() {
			t.Fatalf("expected a 500 byte payload to fail under RSA-1024, got %+v", enc)
		}
	}
	if n := svc.Sessions().Len(); n != 0 {
		t.Fatalf("expected failed round trips to release their sessions, %d left", n)
	}
}

func TestProviderReleasesSessionOnCanceledDecrypt(t *testing.T) {
	svc := cryptoserver.NewService(nil, nil)
	p := New(svc, appconfig.Provider{Name: "ecc", Algorithm: "ECC", KeySize: 256})

	kp, err := p.GenerateKeyPair(context.Background(), 256)
	if err != nil {
		t.Fatalf("GenerateKeyPair error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Decrypt(ctx, kp.Handle(), "ignored"); err == nil {
		t.Fatal("expected canceled context error")
	}
	if n := svc.Sessions().Len(); n != 0 {
		t.Fatalf("expected canceled decrypt to release the session, %d left", n)
	}
}
