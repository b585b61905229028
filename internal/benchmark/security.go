// internal/benchmark/security.go
package benchmark

import (
	"math"
	"strings"
)

// SecurityEstimate is the nominal strength of an algorithm at a key size.
type SecurityEstimate struct {
	Algorithm          string `json:"algorithm"`
	KeySize            int    `json:"keySize"`
	SecurityBits       int    `json:"securityBits"`
	EstimatedBreakTime string `json:"estimatedBreakTime"`
}

type strength struct {
	bits      int
	breakTime string
}

var rsaStrength = map[int]strength{
	1024: {80, "Days to weeks on specialized hardware"},
	2048: {112, "Years with current technology"},
	3072: {128, "Decades with current technology"},
	4096: {152, "Beyond foreseeable future"},
}

var eccStrength = map[int]strength{
	256: {128, "Decades with current technology"},
	384: {192, "Beyond foreseeable future"},
	521: {256, "Beyond foreseeable quantum computing threats"},
}

// Family is the key family behind an algorithm label.
type Family string

const (
	FamilyRSA     Family = "rsa"
	FamilyHybrid  Family = "hybrid"
	FamilyECC     Family = "ecc"
	FamilyUnknown Family = ""
)

// FamilyOf maps labels such as "RSA", "RSA+AES" or "ECC" to their family.
func FamilyOf(algorithm string) Family {
	a := strings.ToUpper(strings.TrimSpace(algorithm))
	switch {
	case strings.HasPrefix(a, "RSA") && (strings.Contains(a, "AES") || strings.Contains(a, "HYBRID")):
		return FamilyHybrid
	case strings.HasPrefix(a, "RSA"):
		return FamilyRSA
	case strings.HasPrefix(a, "EC"):
		return FamilyECC
	default:
		return FamilyUnknown
	}
}

// EstimateSecurity returns the strength table entry for the algorithm, or nil
// when the key size is not tabulated. Hybrid RSA is rated by its RSA key.
func EstimateSecurity(algorithm string, keySize int) *SecurityEstimate {
	var table map[int]strength
	switch FamilyOf(algorithm) {
	case FamilyRSA, FamilyHybrid:
		table = rsaStrength
	case FamilyECC:
		table = eccStrength
	default:
		return nil
	}
	s, ok := table[keySize]
	if !ok {
		return nil
	}
	return &SecurityEstimate{Algorithm: algorithm, KeySize: keySize, SecurityBits: s.bits, EstimatedBreakTime: s.breakTime}
}

var rsaLimits = map[int]int{1024: 100, 2048: 200, 3072: 300, 4096: 400}

// Unlimited is returned by MaxPlaintextSize for schemes without a payload cap.
const Unlimited = math.MaxInt

// MaxPlaintextSize is a conservative payload advisory in bytes: RSA is capped
// by its padding, pure ECC is kept small, hybrid schemes are unlimited.
func MaxPlaintextSize(algorithm string, keySize int) int {
	switch FamilyOf(algorithm) {
	case FamilyRSA:
		if limit, ok := rsaLimits[keySize]; ok {
			return limit
		}
		return rsaLimits[2048]
	case FamilyECC:
		return 100
	default:
		return Unlimited
	}
}

// ExceedsLimit reports whether dataSize is above the advisory limit.
func ExceedsLimit(algorithm string, keySize, dataSize int) bool {
	return dataSize > MaxPlaintextSize(algorithm, keySize)
}

// DataSizePreset is a named plaintext length.
type DataSizePreset struct {
	Name string
	Size int
}

// DataSizePresets are the standard lengths offered by the interactive views.
var DataSizePresets = []DataSizePreset{
	{"Tiny", 50},
	{"Small", 100},
	{"Medium", 150},
	{"Large (RSA safe)", 175},
	{"XL (RSA limit)", 245},
	{"XXL (needs hybrid)", 500},
}
