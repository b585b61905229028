// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/appconfig"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/cryptoserver"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/metrics"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers/httpapi"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers/inprocess"
)

// Factory builds crypto providers from configuration. In-process providers
// built by the same Factory share one engine and session store.
type Factory struct {
	cfg        appconfig.Config
	aggregator *metrics.Aggregator
	engine     *cryptoserver.Service
}

// New returns a Factory for cfg. When cfg.Metrics is set every provider is
// wrapped so its calls feed aggregator; a nil aggregator gets a fresh one.
func New(cfg appconfig.Config, aggregator *metrics.Aggregator) *Factory {
	if cfg.Metrics && aggregator == nil {
		aggregator = metrics.NewAggregator()
	}
	return &Factory{cfg: cfg, aggregator: aggregator}
}

// Aggregator returns the metrics sink, or nil when metrics are disabled.
func (f *Factory) Aggregator() *metrics.Aggregator {
	if !f.cfg.Metrics {
		return nil
	}
	return f.aggregator
}

// NewCryptoProvider selects and configures the provider implementation for p.
func (f *Factory) NewCryptoProvider(p appconfig.Provider) (providers.CryptoProvider, error) {
	var provider providers.CryptoProvider
	switch p.TypeOrDefault() {
	case appconfig.ProviderTypeHTTP:
		if p.URL == "" {
			return nil, fmt.Errorf("provider %q: url is required for http providers", p.Name)
		}
		provider = httpapi.New(f.cfg, p)
	case appconfig.ProviderTypeInProcess:
		if f.engine == nil {
			f.engine = cryptoserver.NewService(nil, nil)
		}
		if _, err := f.engine.Scheme(p.APIPath()); err != nil {
			return nil, fmt.Errorf("provider %q: %w", p.Name, err)
		}
		provider = inprocess.New(f.engine, p)
	default:
		return nil, fmt.Errorf("provider %q: unsupported type %q", p.Name, p.Type)
	}
	logging.LogEvent("provider %s ready: type=%s algorithm=%s keySize=%d", p.Name, p.TypeOrDefault(), p.Algorithm, p.KeySize)

	if f.cfg.Metrics {
		provider = metrics.NewProvider(provider, f.aggregator)
	}
	return provider, nil
}

// NewPair builds the configured first and second providers.
func (f *Factory) NewPair() (first, second providers.CryptoProvider, err error) {
	a, b, err := f.cfg.Pair()
	if err != nil {
		return nil, nil, err
	}
	if first, err = f.NewCryptoProvider(a); err != nil {
		return nil, nil, err
	}
	if second, err = f.NewCryptoProvider(b); err != nil {
		_ = first.Close()
		return nil, nil, err
	}
	return first, second, nil
}
