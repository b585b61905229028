// internal/benchmark/orchestrator.go
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

// Default pacing between remote calls.
const (
	DefaultLegDelay       = 500 * time.Millisecond
	DefaultIterationDelay = 200 * time.Millisecond
	DefaultPairDelay      = 1000 * time.Millisecond
)

var (
	ErrNoTextSource = errors.New("no text source configured")
	ErrNoProvider   = errors.New("both legs need a provider")
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures an Orchestrator. Zero delays disable pacing; use
// DefaultOptions for the standard values.
type Options struct {
	LegDelay       time.Duration
	IterationDelay time.Duration
	PairDelay      time.Duration
	Clock          Clock
	Sleep          SleepFunc
	History        *ResultHistory
}

// DefaultOptions returns the standard pacing with the wall clock.
func DefaultOptions() Options {
	return Options{
		LegDelay:       DefaultLegDelay,
		IterationDelay: DefaultIterationDelay,
		PairDelay:      DefaultPairDelay,
	}
}

// Orchestrator drives single-run sessions and batches of paired tests.
// Calls are sequential: provider A always resolves before provider B starts.
type Orchestrator struct {
	runner  *Runner
	text    TextSource
	clock   Clock
	sleep   SleepFunc
	opts    Options
	history *ResultHistory
}

// NewOrchestrator returns an Orchestrator drawing plaintext from text.
func NewOrchestrator(text TextSource, opts Options) *Orchestrator {
	clock := opts.Clock
	if clock == nil {
		clock = SystemClock
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	history := opts.History
	if history == nil {
		history = NewResultHistory(DefaultHistorySize)
	}
	return &Orchestrator{
		runner:  NewRunner(clock),
		text:    text,
		clock:   clock,
		sleep:   sleep,
		opts:    opts,
		history: history,
	}
}

// History returns the single-run history.
func (o *Orchestrator) History() *ResultHistory { return o.history }

// BatchRequest describes one batch run.
type BatchRequest struct {
	Count      int
	DataSize   int
	First      Leg
	Second     Leg
	Policy     TimingPolicy
	OnProgress ProgressFunc
	Cancel     *CancelToken
}

// RunBatch executes up to req.Count paired iterations. Only configuration
// problems are returned as errors, and only before any provider call.
// Cancellation through req.Cancel or ctx stops the loop at the next
// checkpoint and the partial results are returned with WasStoppedEarly set.
func (o *Orchestrator) RunBatch(ctx context.Context, req BatchRequest) (BatchResults, error) {
	if err := ValidateBatchSize(req.Count); err != nil {
		return BatchResults{}, err
	}
	if req.DataSize < 1 {
		return BatchResults{}, fmt.Errorf("data size must be positive, got %d", req.DataSize)
	}
	if req.First.Provider == nil || req.Second.Provider == nil {
		return BatchResults{}, ErrNoProvider
	}
	if o.text == nil {
		return BatchResults{}, ErrNoTextSource
	}
	o.warnOnLimits(req)

	session := &BatchSession{
		RequestedTests: req.Count,
		DataSize:       req.DataSize,
		ExcludeKeyGen:  req.Policy.ExcludeKeyGen,
		Pairs:          make([]PairedResult, 0, req.Count),
		StartedAt:      o.clock.Now(),
	}
	var pairsA, pairsB []TestResult
	stopped := func() bool { return req.Cancel.Cancelled() || ctx.Err() != nil }

	for i := 1; i <= req.Count; i++ {
		if stopped() {
			session.WasStoppedEarly = true
			break
		}
		session.AttemptedTests++

		input, err := o.text.Generate(ctx, req.DataSize)
		var pair PairedResult
		if err != nil {
			if ctx.Err() != nil {
				session.WasStoppedEarly = true
				o.emit(req, session, nil, nil)
				break
			}
			pair = textFailure(i, req, err)
		} else {
			pair = PairedResult{TestNumber: i, DataLength: len(input)}
			pair.A = o.runner.Run(ctx, req.First.Provider, input, req.First.KeySize, req.Policy)

			if stopped() || o.sleep(ctx, o.opts.LegDelay) != nil {
				session.WasStoppedEarly = true
				o.emit(req, session, nil, nil)
				break
			}
			pair.B = o.runner.Run(ctx, req.Second.Provider, input, req.Second.KeySize, req.Policy)
		}

		session.Pairs = append(session.Pairs, pair)
		session.CompletedTests++

		var cmp *RealTimeComparison
		if pair.Succeeded() {
			pairsA = append(pairsA, pair.A)
			pairsB = append(pairsB, pair.B)
			running := UpdateRunning(pairsA, pairsB)
			cmp = &running
		}
		latest := pair
		o.emit(req, session, &latest, cmp)

		if i < req.Count {
			// An interrupted pause is caught by the check at the top of the loop.
			_ = o.sleep(ctx, o.opts.IterationDelay)
		}
	}

	results := Finalize(pairsA, pairsB, FinalizeOptions{
		AlgorithmA:      req.First.Algorithm(),
		AlgorithmB:      req.Second.Algorithm(),
		KeySizeA:        req.First.KeySize,
		KeySizeB:        req.Second.KeySize,
		RequestedTests:  session.RequestedTests,
		AttemptedTests:  session.AttemptedTests,
		CompletedTests:  session.CompletedTests,
		DataSize:        session.DataSize,
		WasStoppedEarly: session.WasStoppedEarly,
		ExcludeKeyGen:   session.ExcludeKeyGen,
	})
	results.Session = session
	results.FinishedAt = o.clock.Now()
	return results, nil
}

// RunPair runs one input through both legs, first then second, separated by
// the pair delay, and records the session in the history.
func (o *Orchestrator) RunPair(ctx context.Context, input string, first, second Leg, policy TimingPolicy) (SingleSession, error) {
	if first.Provider == nil || second.Provider == nil {
		return SingleSession{}, ErrNoProvider
	}
	session := SingleSession{Timestamp: o.clock.Now(), DataLength: len(input)}
	session.Results = append(session.Results, o.runner.Run(ctx, first.Provider, input, first.KeySize, policy))
	if err := o.sleep(ctx, o.opts.PairDelay); err != nil {
		return session, err
	}
	session.Results = append(session.Results, o.runner.Run(ctx, second.Provider, input, second.KeySize, policy))
	o.history.Add(session)
	return session, nil
}

// RunOne runs one input through a single leg and records the session.
func (o *Orchestrator) RunOne(ctx context.Context, input string, leg Leg, policy TimingPolicy) (SingleSession, error) {
	if leg.Provider == nil {
		return SingleSession{}, ErrNoProvider
	}
	session := SingleSession{Timestamp: o.clock.Now(), DataLength: len(input)}
	session.Results = []TestResult{o.runner.Run(ctx, leg.Provider, input, leg.KeySize, policy)}
	o.history.Add(session)
	return session, nil
}

// GenerateInput draws a plaintext of length n from the text source.
func (o *Orchestrator) GenerateInput(ctx context.Context, n int) (string, error) {
	if o.text == nil {
		return "", ErrNoTextSource
	}
	return o.text.Generate(ctx, n)
}

func (o *Orchestrator) emit(req BatchRequest, s *BatchSession, latest *PairedResult, cmp *RealTimeComparison) {
	if req.OnProgress == nil {
		return
	}
	req.OnProgress(Progress{
		Completed:  s.CompletedTests,
		Requested:  s.RequestedTests,
		Latest:     latest,
		Comparison: cmp,
	})
}

func (o *Orchestrator) warnOnLimits(req BatchRequest) {
	for _, leg := range []Leg{req.First, req.Second} {
		limit := MaxPlaintextSize(leg.Algorithm(), leg.KeySize)
		if req.DataSize > limit {
			logging.LogWarn("data size %d exceeds the %d byte advisory limit for %s-%d", req.DataSize, limit, leg.Algorithm(), leg.KeySize)
		}
	}
}

// textFailure records an iteration whose plaintext could not be produced as
// a pair with both legs failed.
func textFailure(n int, req BatchRequest, err error) PairedResult {
	failed := func(leg Leg) TestResult {
		r := TestResult{
			Algorithm:      leg.Algorithm(),
			KeySize:        leg.KeySize,
			ExcludedKeyGen: req.Policy.ExcludeKeyGen,
		}
		fail(&r, &TransportError{Operation: "text generation", Err: err})
		return r
	}
	return PairedResult{TestNumber: n, A: failed(req.First), B: failed(req.Second)}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
