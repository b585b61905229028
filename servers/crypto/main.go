// servers/crypto/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/cryptoserver"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

const (
	defaultPort            = 8080
	defaultSessionTTL      = 3600
	defaultCleanupInterval = 60
)

// Config is the YAML configuration of the reference provider.
type Config struct {
	Host                   string `yaml:"host"`
	Port                   int    `yaml:"port"`
	SessionTTLSeconds      int    `yaml:"session_ttl"`
	CleanupIntervalSeconds int    `yaml:"cleanup_interval"`
	LogFile                string `yaml:"log_file"`
	Debug                  bool   `yaml:"debug"`
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := logging.Init(cfg.LogFile, cfg.Debug); err != nil {
		log.Fatalf("logging error: %v", err)
	}
	defer logging.Close()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := cryptoserver.NewSessionStore(time.Duration(cfg.SessionTTLSeconds) * time.Second)
	go sessions.StartCleanup(time.Duration(cfg.CleanupIntervalSeconds) * time.Second)
	defer sessions.Stop()

	srv := &http.Server{
		Addr:              cfg.addr(),
		Handler:           newHandler(sessions),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("crypto config: host=%s port=%d session_ttl=%ds cleanup_interval=%ds", cfg.Host, cfg.Port, cfg.SessionTTLSeconds, cfg.CleanupIntervalSeconds)
	log.Printf("listening on %s (GOOS=%s)", srv.Addr, runtime.GOOS)
	logging.LogEvent("crypto server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newHandler(sessions *cryptoserver.SessionStore) http.Handler {
	return cryptoserver.NewRouter(cryptoserver.NewService(nil, sessions))
}

var (
	configOnce sync.Once
	configVal  *Config
	configErr  error
)

func loadConfig() (*Config, error) {
	configOnce.Do(func() {
		path := os.Getenv("CRYPTO_SERVER_CONFIG")
		if path == "" {
			path = filepath.Join("servers", "crypto", "crypto.yml")
		}
		configVal, configErr = readConfig(path)
		if configErr == nil {
			configErr = applyEnv(configVal, os.Getenv)
		}
	})

	return configVal, configErr
}

func readConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d (expected 1..65535)", cfg.Port)
	}
	if cfg.SessionTTLSeconds == 0 {
		cfg.SessionTTLSeconds = defaultSessionTTL
	}
	if cfg.SessionTTLSeconds < 0 {
		cfg.SessionTTLSeconds = 0
	}
	if cfg.CleanupIntervalSeconds <= 0 {
		cfg.CleanupIntervalSeconds = defaultCleanupInterval
	}

	return &cfg, nil
}

// applyEnv lets HOST and PORT from the environment (or a .env file) override the YAML values.
func applyEnv(cfg *Config, getenv func(string) string) error {
	if host := strings.TrimSpace(getenv("HOST")); host != "" {
		cfg.Host = host
	}
	if raw := strings.TrimSpace(getenv("PORT")); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT %q", raw)
		}
		cfg.Port = port
	}
	return nil
}
