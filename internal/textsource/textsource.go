// Package textsource produces the random plaintext fed to each round-trip test.
package textsource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

// Alphabet is the character set sampled by Local.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 .,!?;:"

// Source generates text of a given length.
type Source interface {
	Generate(ctx context.Context, length int) (string, error)
}

// Local samples Alphabet uniformly. It never fails.
type Local struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLocal returns a Local seeded with the current time.
func NewLocal() *Local {
	return NewLocalSeeded(time.Now().UnixNano())
}

// NewLocalSeeded returns a Local with a fixed seed, for reproducible runs.
func NewLocalSeeded(seed int64) *Local {
	return &Local{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns length characters drawn from Alphabet.
func (l *Local) Generate(_ context.Context, length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(Alphabet[l.rnd.Intn(len(Alphabet))])
	}
	return b.String(), nil
}

// HTTP asks a crypto server's text endpoint for random text.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP targets endpoint, e.g. http://localhost:8080/api/crypto/generate/text.
func NewHTTP(endpoint string, timeout time.Duration) *HTTP {
	return &HTTP{url: endpoint, client: &http.Client{Timeout: timeout}}
}

// Generate posts {"length": n} and returns the "text" field of the reply. A
// reply of any other byte length is an error.
func (h *HTTP) Generate(ctx context.Context, length int) (string, error) {
	body, err := json.Marshal(map[string]int{"length": length})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("textsource: %s returned %s: %s", h.url, resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("textsource: decode response: %w", err)
	}
	if parsed.Text == "" {
		return "", errors.New("textsource: response carried no text")
	}
	if len(parsed.Text) != length {
		return "", fmt.Errorf("textsource: asked for %d bytes, got %d", length, len(parsed.Text))
	}
	return parsed.Text, nil
}

// Fallback tries Primary and falls back to Local on any error.
type Fallback struct {
	Primary Source
	Local   *Local
}

// Generate never fails as long as Local is set.
func (f Fallback) Generate(ctx context.Context, length int) (string, error) {
	if f.Primary != nil {
		text, err := f.Primary.Generate(ctx, length)
		if err == nil {
			return text, nil
		}
		logging.LogWarn("text generation failed, using local generation: %v", err)
	}
	if f.Local == nil {
		return "", errors.New("textsource: no local fallback configured")
	}
	return f.Local.Generate(ctx, length)
}

// New returns Local alone when url is empty, otherwise HTTP with a Local fallback.
func New(url string, timeout time.Duration) Source {
	local := NewLocal()
	if strings.TrimSpace(url) == "" {
		return local
	}
	return Fallback{Primary: NewHTTP(url, timeout), Local: local}
}
