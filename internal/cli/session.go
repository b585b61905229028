// internal/cli/session.go
package cryptobench

import (
	"errors"
	"fmt"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/appconfig"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/metrics"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providerfactory"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/textsource"
)

// session bundles everything one command needs to drive a comparison.
type session struct {
	cfg     appconfig.Config
	first   benchmark.Leg
	second  benchmark.Leg
	orch    *benchmark.Orchestrator
	metrics *metrics.Aggregator
}

// newSession is swapped in tests.
var newSession = buildSession

func buildSession(cfg appconfig.Config) (*session, error) {
	a, b, err := cfg.Pair()
	if err != nil {
		return nil, err
	}
	factory := providerfactory.New(cfg, nil)
	first, second, err := factory.NewPair()
	if err != nil {
		return nil, err
	}

	orch := benchmark.NewOrchestrator(textsource.New(cfg.TextSourceURL, cfg.RequestTimeout()), benchmark.Options{
		LegDelay:       cfg.LegDelay(),
		IterationDelay: cfg.IterationDelay(),
		PairDelay:      cfg.PairDelay(),
		History:        benchmark.NewResultHistory(cfg.HistoryCapacity()),
	})
	return &session{
		cfg:     cfg,
		first:   benchmark.Leg{Provider: first, KeySize: a.KeySize},
		second:  benchmark.Leg{Provider: second, KeySize: b.KeySize},
		orch:    orch,
		metrics: factory.Aggregator(),
	}, nil
}

func (s *session) policy() benchmark.TimingPolicy {
	return benchmark.TimingPolicy{ExcludeKeyGen: s.cfg.ExcludeKeyGen}
}

// leg resolves "first" or "second".
func (s *session) leg(which string) (benchmark.Leg, error) {
	switch which {
	case "first", "a":
		return s.first, nil
	case "second", "b":
		return s.second, nil
	default:
		return benchmark.Leg{}, fmt.Errorf("unknown side %q: use first or second", which)
	}
}

func (s *session) Close() error {
	return errors.Join(s.first.Provider.Close(), s.second.Provider.Close())
}

// requireConfig returns the merged configuration or an error when the root
// pre-run did not execute.
func requireConfig() (appconfig.Config, error) {
	if currentConfig == nil {
		return appconfig.Config{}, errors.New("configuration is not initialized")
	}
	return *currentConfig, nil
}
