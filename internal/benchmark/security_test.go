package benchmark

import "testing"

func TestEstimateSecurity(t *testing.T) {
	tests := []struct {
		algorithm string
		keySize   int
		bits      int
		breakTime string
	}{
		{"RSA", 1024, 80, "Days to weeks on specialized hardware"},
		{"RSA", 2048, 112, "Years with current technology"},
		{"RSA+AES", 3072, 128, "Decades with current technology"},
		{"RSA", 4096, 152, "Beyond foreseeable future"},
		{"ECC", 256, 128, "Decades with current technology"},
		{"ECC", 384, 192, "Beyond foreseeable future"},
		{"ecc", 521, 256, "Beyond foreseeable quantum computing threats"},
	}
	for _, tt := range tests {
		got := EstimateSecurity(tt.algorithm, tt.keySize)
		if got == nil {
			t.Fatalf("%s-%d: expected an estimate", tt.algorithm, tt.keySize)
		}
		if got.SecurityBits != tt.bits || got.EstimatedBreakTime != tt.breakTime {
			t.Fatalf("%s-%d: got %+v", tt.algorithm, tt.keySize, got)
		}
	}

	if EstimateSecurity("RSA", 512) != nil || EstimateSecurity("DSA", 2048) != nil {
		t.Fatalf("unknown algorithms and sizes must not be estimated")
	}
}

func TestMaxPlaintextSize(t *testing.T) {
	tests := []struct {
		algorithm string
		keySize   int
		want      int
	}{
		{"RSA", 1024, 100},
		{"RSA", 2048, 200},
		{"RSA", 3072, 300},
		{"RSA", 4096, 400},
		{"RSA", 1536, 200},
		{"ECC", 384, 100},
		{"RSA+AES", 2048, Unlimited},
		{"other", 0, Unlimited},
	}
	for _, tt := range tests {
		if got := MaxPlaintextSize(tt.algorithm, tt.keySize); got != tt.want {
			t.Fatalf("MaxPlaintextSize(%q, %d) = %d, want %d", tt.algorithm, tt.keySize, got, tt.want)
		}
	}
	if !ExceedsLimit("RSA", 2048, 245) || ExceedsLimit("RSA+AES", 2048, 5000) {
		t.Fatalf("unexpected ExceedsLimit result")
	}
}
