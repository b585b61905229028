package benchmark

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestOrchestrator(clock *fakeClock, text TextSource) *Orchestrator {
	return NewOrchestrator(text, Options{
		LegDelay:       DefaultLegDelay,
		IterationDelay: DefaultIterationDelay,
		PairDelay:      DefaultPairDelay,
		Clock:          clock,
		Sleep: func(ctx context.Context, d time.Duration) error {
			clock.Advance(d)
			return ctx.Err()
		},
	})
}

func TestRunBatchCompletes(t *testing.T) {
	clock := newFakeClock()
	rsa := newFakeProvider("RSA", clock, 100*time.Millisecond, 20*time.Millisecond, 30*time.Millisecond)
	ecc := newFakeProvider("ECC", clock, 10*time.Millisecond, 20*time.Millisecond, 20*time.Millisecond)
	text := &fixedText{}

	var progress []Progress
	got, err := newTestOrchestrator(clock, text).RunBatch(context.Background(), BatchRequest{
		Count:      5,
		DataSize:   50,
		First:      Leg{Provider: rsa, KeySize: 2048},
		Second:     Leg{Provider: ecc, KeySize: 256},
		OnProgress: func(p Progress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}

	if got.CompletedTests != 5 || got.AttemptedTests != 5 || got.SuccessfulTests != 5 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.WasStoppedEarly {
		t.Fatalf("batch should not be stopped early")
	}
	if got.Trend != TrendSecond || got.WinsB != 5 {
		t.Fatalf("expected ECC to win every pair, got %+v", got)
	}
	if len(progress) != 5 {
		t.Fatalf("expected one progress event per iteration, got %d", len(progress))
	}
	for i, p := range progress {
		if p.Completed != i+1 || p.Requested != 5 {
			t.Fatalf("unexpected progress %d: %+v", i, p)
		}
		if p.Latest == nil || p.Comparison == nil {
			t.Fatalf("expected latest pair and comparison on progress %d", i)
		}
		if p.Comparison.CompletedTests != i+1 {
			t.Fatalf("running comparison lags at %d: %+v", i, p.Comparison)
		}
	}
	if text.calls != 5 {
		t.Fatalf("expected one text generation per iteration, got %d", text.calls)
	}
	if got.Session == nil || len(got.Session.Pairs) != 5 || got.Session.Pairs[4].TestNumber != 5 {
		t.Fatalf("expected session with 5 numbered pairs, got %+v", got.Session)
	}
	if got.A.KeySize != 2048 || got.B.KeySize != 256 {
		t.Fatalf("expected key sizes from the legs, got %d/%d", got.A.KeySize, got.B.KeySize)
	}
}

func TestRunBatchPacing(t *testing.T) {
	clock := newFakeClock()
	rsa := newFakeProvider("RSA", clock, 0, 0, 0)
	ecc := newFakeProvider("ECC", clock, 0, 0, 0)
	start := clock.Now()

	_, err := newTestOrchestrator(clock, &fixedText{}).RunBatch(context.Background(), BatchRequest{
		Count:    3,
		DataSize: 10,
		First:    Leg{Provider: rsa, KeySize: 2048},
		Second:   Leg{Provider: ecc, KeySize: 256},
	})
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}

	// three leg delays, two iteration delays: none after the last pair
	want := 3*DefaultLegDelay + 2*DefaultIterationDelay
	if elapsed := clock.Now().Sub(start); elapsed != want {
		t.Fatalf("expected %v of pacing, got %v", want, elapsed)
	}
}

func TestRunBatchCancellation(t *testing.T) {
	clock := newFakeClock()
	rsa := newFakeProvider("RSA", clock, time.Millisecond, time.Millisecond, time.Millisecond)
	ecc := newFakeProvider("ECC", clock, time.Millisecond, time.Millisecond, time.Millisecond)
	token := NewCancelToken()

	got, err := newTestOrchestrator(clock, &fixedText{}).RunBatch(context.Background(), BatchRequest{
		Count:    10,
		DataSize: 20,
		First:    Leg{Provider: rsa, KeySize: 2048},
		Second:   Leg{Provider: ecc, KeySize: 256},
		Cancel:   token,
		OnProgress: func(p Progress) {
			if p.Completed == 3 {
				token.Cancel()
			}
		},
	})
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}

	if !got.WasStoppedEarly {
		t.Fatalf("expected WasStoppedEarly")
	}
	if got.CompletedTests > 4 || got.CompletedTests < 3 {
		t.Fatalf("expected 3 or 4 completed tests, got %d", got.CompletedTests)
	}
	if got.CompletedTests > got.RequestedTests || got.AttemptedTests > got.RequestedTests {
		t.Fatalf("counters exceed request: %+v", got)
	}
	if !got.HasData || got.SuccessfulTests != got.CompletedTests {
		t.Fatalf("completed pairs should still be summarized: %+v", got)
	}
}

func TestRunBatchCancelBetweenLegs(t *testing.T) {
	clock := newFakeClock()
	token := NewCancelToken()
	rsa := newFakeProvider("RSA", clock, time.Millisecond, time.Millisecond, time.Millisecond)
	ecc := newFakeProvider("ECC", clock, time.Millisecond, time.Millisecond, time.Millisecond)
	rsa.onKeyGen = token.Cancel

	var progress []Progress
	got, err := newTestOrchestrator(clock, &fixedText{}).RunBatch(context.Background(), BatchRequest{
		Count:      10,
		DataSize:   20,
		First:      Leg{Provider: rsa, KeySize: 2048},
		Second:     Leg{Provider: ecc, KeySize: 256},
		Cancel:     token,
		OnProgress: func(p Progress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}

	if ecc.called() != 0 {
		t.Fatalf("second leg must not start after cancellation, got %d calls", ecc.called())
	}
	if got.AttemptedTests != 1 || got.CompletedTests != 0 || !got.WasStoppedEarly {
		t.Fatalf("expected one attempted, zero completed, stopped early: %+v", got)
	}
	if got.HasData {
		t.Fatalf("incomplete pair must not feed statistics")
	}
	if len(progress) != 1 || progress[0].Latest != nil {
		t.Fatalf("expected a single progress event without a pair, got %+v", progress)
	}
}

func TestRunBatchContextCancellation(t *testing.T) {
	clock := newFakeClock()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rsa := newFakeProvider("RSA", clock, time.Millisecond, time.Millisecond, time.Millisecond)
	ecc := newFakeProvider("ECC", clock, time.Millisecond, time.Millisecond, time.Millisecond)

	got, err := newTestOrchestrator(clock, &fixedText{}).RunBatch(ctx, BatchRequest{
		Count:    10,
		DataSize: 20,
		First:    Leg{Provider: rsa, KeySize: 2048},
		Second:   Leg{Provider: ecc, KeySize: 256},
		OnProgress: func(p Progress) {
			if p.Completed == 2 {
				cancel()
			}
		},
	})
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}
	if !got.WasStoppedEarly || got.CompletedTests != 2 {
		t.Fatalf("expected stop after 2 pairs, got %+v", got)
	}
}

func TestRunBatchRejectsInvalidSize(t *testing.T) {
	for _, n := range []int{0, -1, 201} {
		clock := newFakeClock()
		rsa := newFakeProvider("RSA", clock, 0, 0, 0)
		ecc := newFakeProvider("ECC", clock, 0, 0, 0)
		text := &fixedText{}

		_, err := newTestOrchestrator(clock, text).RunBatch(context.Background(), BatchRequest{
			Count:    n,
			DataSize: 10,
			First:    Leg{Provider: rsa},
			Second:   Leg{Provider: ecc},
		})

		var sizeErr *InvalidBatchSizeError
		if !errors.As(err, &sizeErr) {
			t.Fatalf("count %d: expected InvalidBatchSizeError, got %v", n, err)
		}
		if sizeErr.Requested != n || sizeErr.Min != MinBatchSize || sizeErr.Max != MaxBatchSize {
			t.Fatalf("count %d: unexpected error fields %+v", n, sizeErr)
		}
		if rsa.called()+ecc.called() != 0 || text.calls != 0 {
			t.Fatalf("count %d: no calls expected before validation passes", n)
		}
	}
}

func TestRunBatchBoundarySizes(t *testing.T) {
	for _, n := range []int{MinBatchSize, MaxBatchSize} {
		clock := newFakeClock()
		got, err := newTestOrchestrator(clock, &fixedText{}).RunBatch(context.Background(), BatchRequest{
			Count:    n,
			DataSize: 4,
			First:    Leg{Provider: newFakeProvider("RSA", clock, 0, 0, 0), KeySize: 2048},
			Second:   Leg{Provider: newFakeProvider("ECC", clock, 0, 0, 0), KeySize: 256},
		})
		if err != nil {
			t.Fatalf("count %d: unexpected error %v", n, err)
		}
		if got.CompletedTests != n {
			t.Fatalf("count %d: expected all iterations, got %d", n, got.CompletedTests)
		}
	}
}

func TestRunBatchExcludesPartialFailures(t *testing.T) {
	clock := newFakeClock()
	rsa := newFakeProvider("RSA", clock, time.Millisecond, time.Millisecond, time.Millisecond)
	ecc := newFakeProvider("ECC", clock, time.Millisecond, time.Millisecond, time.Millisecond)
	ecc.keyGenFail = "boom"

	var progress []Progress
	got, err := newTestOrchestrator(clock, &fixedText{}).RunBatch(context.Background(), BatchRequest{
		Count:      3,
		DataSize:   10,
		First:      Leg{Provider: rsa, KeySize: 2048},
		Second:     Leg{Provider: ecc, KeySize: 256},
		OnProgress: func(p Progress) { progress = append(progress, p) },
	})
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}

	if got.CompletedTests != 3 || got.SuccessfulTests != 0 {
		t.Fatalf("expected 3 completed, 0 successful: %+v", got)
	}
	if got.HasData || got.A != nil || got.Differences != nil {
		t.Fatalf("expected explicit no-data result: %+v", got)
	}
	if len(got.Session.Pairs) != 3 || !got.Session.Pairs[0].A.Success || got.Session.Pairs[0].B.Success {
		t.Fatalf("pairs should be recorded for inspection: %+v", got.Session.Pairs)
	}
	for _, p := range progress {
		if p.Comparison != nil {
			t.Fatalf("no running comparison expected without successful pairs")
		}
	}
}

func TestRunBatchTextFailure(t *testing.T) {
	clock := newFakeClock()
	rsa := newFakeProvider("RSA", clock, 0, 0, 0)
	ecc := newFakeProvider("ECC", clock, 0, 0, 0)

	got, err := newTestOrchestrator(clock, &fixedText{err: errUnreachable}).RunBatch(context.Background(), BatchRequest{
		Count:    2,
		DataSize: 10,
		First:    Leg{Provider: rsa, KeySize: 2048},
		Second:   Leg{Provider: ecc, KeySize: 256},
	})
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}
	if got.CompletedTests != 2 || got.HasData {
		t.Fatalf("expected two failed iterations, got %+v", got)
	}
	if rsa.called()+ecc.called() != 0 {
		t.Fatalf("providers must not be called without plaintext")
	}
	if got.Session.Pairs[0].A.Failure != FailureTransport {
		t.Fatalf("expected transport failure, got %q", got.Session.Pairs[0].A.Failure)
	}
}

func TestRunPairRecordsHistory(t *testing.T) {
	clock := newFakeClock()
	o := newTestOrchestrator(clock, &fixedText{})
	rsa := newFakeProvider("RSA", clock, time.Millisecond, time.Millisecond, time.Millisecond)
	ecc := newFakeProvider("ECC", clock, time.Millisecond, time.Millisecond, time.Millisecond)

	session, err := o.RunPair(context.Background(), "hello", Leg{Provider: rsa, KeySize: 2048}, Leg{Provider: ecc, KeySize: 256}, TimingPolicy{})
	if err != nil {
		t.Fatalf("RunPair returned error: %v", err)
	}

	if len(session.Results) != 2 || session.Results[0].Algorithm != "RSA" || session.Results[1].Algorithm != "ECC" {
		t.Fatalf("unexpected results: %+v", session.Results)
	}
	if session.DataLength != 5 {
		t.Fatalf("expected data length 5, got %d", session.DataLength)
	}
	latest, ok := o.History().Latest()
	if !ok || latest.Timestamp != session.Timestamp {
		t.Fatalf("session not recorded in history")
	}
	if _, ok := latest.Result("ECC"); !ok {
		t.Fatalf("expected ECC result in the session")
	}
}

func TestRunOne(t *testing.T) {
	clock := newFakeClock()
	o := newTestOrchestrator(clock, &fixedText{})
	ecc := newFakeProvider("ECC", clock, time.Millisecond, time.Millisecond, time.Millisecond)

	session, err := o.RunOne(context.Background(), "hi", Leg{Provider: ecc, KeySize: 256}, TimingPolicy{})
	if err != nil {
		t.Fatalf("RunOne returned error: %v", err)
	}
	if len(session.Results) != 1 || !session.Results[0].Success {
		t.Fatalf("unexpected session: %+v", session)
	}
	if o.History().Len() != 1 {
		t.Fatalf("expected one history entry")
	}
}
