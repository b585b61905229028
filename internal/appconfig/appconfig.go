// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultBaseURL is where the reference crypto server listens by default.
	DefaultBaseURL = "http://localhost:8080/api"
	// DefaultNATSSubject is used for progress events when natsSubject is unset.
	DefaultNATSSubject = "cryptobench.progress"

	// ProviderTypeHTTP talks to a remote provider over HTTP.
	ProviderTypeHTTP = "http"
	// ProviderTypeInProcess runs the reference engine inside the benchmark process.
	ProviderTypeInProcess = "inprocess"

	defaultRequestTimeout = 30 * time.Second
	defaultBatchCount     = 20
	defaultDataSize       = 150
	defaultLegDelay       = 500 * time.Millisecond
	defaultIterationDelay = 200 * time.Millisecond
	defaultPairDelay      = 1000 * time.Millisecond
	defaultHistorySize    = 5
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config represents the top-level application configuration.
type Config struct {
	Providers        []Provider `json:"providers" mapstructure:"providers" validate:"dive"`
	First            string     `json:"first" mapstructure:"first"`
	Second           string     `json:"second" mapstructure:"second"`
	BatchCount       int        `json:"batchCount" mapstructure:"batchCount" validate:"gte=1,lte=200"`
	DataSize         int        `json:"dataSize" mapstructure:"dataSize" validate:"gte=1,lte=1048576"`
	ExcludeKeyGen    bool       `json:"excludeKeyGen" mapstructure:"excludeKeyGen"`
	LegDelayMs       *int       `json:"legDelayMs,omitempty" mapstructure:"legDelayMs" validate:"omitempty,gte=0"`
	IterationDelayMs *int       `json:"iterationDelayMs,omitempty" mapstructure:"iterationDelayMs" validate:"omitempty,gte=0"`
	PairDelayMs      *int       `json:"pairDelayMs,omitempty" mapstructure:"pairDelayMs" validate:"omitempty,gte=0"`
	HistorySize      int        `json:"historySize,omitempty" mapstructure:"historySize" validate:"gte=0,lte=100"`
	TimeoutSeconds   int        `json:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
	RetryCount       int        `json:"retryCount,omitempty" mapstructure:"retryCount" validate:"gte=0,lte=10"`
	TextSourceURL    string     `json:"textSourceUrl,omitempty" mapstructure:"textSourceUrl" validate:"omitempty,url"`
	LogFile          string     `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug            bool       `json:"debug" mapstructure:"debug"`
	Metrics          bool       `json:"metrics" mapstructure:"metrics"`
	ExportPath       string     `json:"export,omitempty" mapstructure:"export"`
	NATSURL          string     `json:"natsUrl,omitempty" mapstructure:"natsUrl"`
	NATSSubject      string     `json:"natsSubject,omitempty" mapstructure:"natsSubject"`
	ConfigPath       string     `json:"-" mapstructure:"-"`
}

// Provider describes one crypto back-end the benchmark can drive.
type Provider struct {
	Name      string `json:"name" mapstructure:"name" validate:"required"`
	Algorithm string `json:"algorithm" mapstructure:"algorithm" validate:"required"`
	Type      string `json:"type,omitempty" mapstructure:"type" validate:"omitempty,oneof=http inprocess"`
	URL       string `json:"url,omitempty" mapstructure:"url" validate:"omitempty,url"`
	Path      string `json:"path,omitempty" mapstructure:"path"`
	KeySize   int    `json:"keySize" mapstructure:"keySize" validate:"gt=0"`
	Hybrid    bool   `json:"hybrid,omitempty" mapstructure:"hybrid"`
}

// TypeOrDefault returns the provider type, treating an empty value as HTTP.
func (p Provider) TypeOrDefault() string {
	if t := strings.ToLower(strings.TrimSpace(p.Type)); t != "" {
		return t
	}
	return ProviderTypeHTTP
}

// APIPath returns the route segment used by the remote API, e.g. "rsa" or "rsa-aes".
func (p Provider) APIPath() string {
	if path := strings.Trim(strings.TrimSpace(p.Path), "/"); path != "" {
		return path
	}
	name := strings.ToLower(strings.TrimSpace(p.Algorithm))
	name = strings.ReplaceAll(name, "+", "-")
	return strings.ReplaceAll(name, " ", "-")
}

// DefaultProviders returns the RSA, RSA+AES and ECC providers of the reference server.
func DefaultProviders() []Provider {
	return []Provider{
		{Name: "rsa", Algorithm: "RSA", Type: ProviderTypeHTTP, URL: DefaultBaseURL, Path: "rsa", KeySize: 2048},
		{Name: "rsa-aes", Algorithm: "RSA+AES", Type: ProviderTypeHTTP, URL: DefaultBaseURL, Path: "rsa-aes", KeySize: 2048, Hybrid: true},
		{Name: "ecc", Algorithm: "ECC", Type: ProviderTypeHTTP, URL: DefaultBaseURL, Path: "ecc", KeySize: 256},
	}
}

// Default returns a configuration populated entirely from defaults.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field with its default value.
func (c *Config) ApplyDefaults() {
	if len(c.Providers) == 0 {
		c.Providers = DefaultProviders()
	}
	if strings.TrimSpace(c.First) == "" {
		c.First = c.Providers[0].Name
	}
	if strings.TrimSpace(c.Second) == "" {
		c.Second = c.Providers[len(c.Providers)-1].Name
	}
	if c.BatchCount == 0 {
		c.BatchCount = defaultBatchCount
	}
	if c.DataSize == 0 {
		c.DataSize = defaultDataSize
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	if c.HistorySize == 0 {
		c.HistorySize = defaultHistorySize
	}
}

// Validate checks struct constraints and cross-field rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seen := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, ok := seen[key]; ok {
			return fmt.Errorf("invalid configuration: duplicate provider name %q", p.Name)
		}
		seen[key] = struct{}{}
		if p.TypeOrDefault() == ProviderTypeHTTP && strings.TrimSpace(p.URL) == "" {
			return fmt.Errorf("invalid configuration: provider %q needs a url", p.Name)
		}
	}
	if _, _, err := c.Pair(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ProviderByName looks up a configured provider.
func (c Config) ProviderByName(name string) (Provider, error) {
	name = strings.TrimSpace(name)
	for _, p := range c.Providers {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("unknown provider %q", name)
}

// Pair returns the first and second providers of a comparison.
func (c Config) Pair() (Provider, Provider, error) {
	first, err := c.ProviderByName(c.First)
	if err != nil {
		return Provider{}, Provider{}, err
	}
	second, err := c.ProviderByName(c.Second)
	if err != nil {
		return Provider{}, Provider{}, err
	}
	if strings.EqualFold(first.Name, second.Name) {
		return Provider{}, Provider{}, fmt.Errorf("first and second provider must differ (both %q)", first.Name)
	}
	return first, second, nil
}

// RequestTimeout returns the timeout for one remote call.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LegDelay is the pause between the two legs of a batch iteration.
func (c Config) LegDelay() time.Duration { return millisOrDefault(c.LegDelayMs, defaultLegDelay) }

// IterationDelay is the pause before the next batch iteration.
func (c Config) IterationDelay() time.Duration {
	return millisOrDefault(c.IterationDelayMs, defaultIterationDelay)
}

// PairDelay is the pause between the two legs of a single session.
func (c Config) PairDelay() time.Duration { return millisOrDefault(c.PairDelayMs, defaultPairDelay) }

// HistoryCapacity returns how many single-run sessions are retained.
func (c Config) HistoryCapacity() int {
	if c.HistorySize <= 0 {
		return defaultHistorySize
	}
	return c.HistorySize
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "cryptobench.log"
}

// ProgressSubject returns the NATS subject for progress events.
func (c Config) ProgressSubject() string {
	if s := strings.TrimSpace(c.NATSSubject); s != "" {
		return s
	}
	return DefaultNATSSubject
}

func millisOrDefault(v *int, def time.Duration) time.Duration {
	if v == nil {
		return def
	}
	if *v <= 0 {
		return 0
	}
	return time.Duration(*v) * time.Millisecond
}

// Load reads, schema-checks and validates the configuration at path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}

	if err := ValidateSchema(raw); err != nil {
		return Config{}, fmt.Errorf("config file %q: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(raw, &config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	config.ConfigPath = path
	return config, nil
}
