package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingRunner struct {
	mu    sync.Mutex
	calls []string
	fail  string
	ran   chan struct{}
}

func (r *recordingRunner) RunPriceJob(_ context.Context, job string) error {
	r.mu.Lock()
	r.calls = append(r.calls, job)
	r.mu.Unlock()
	if r.ran != nil {
		select {
		case r.ran <- struct{}{}:
		default:
		}
	}
	if job == r.fail {
		return errors.New("boom")
	}
	return nil
}

func (r *recordingRunner) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestRunOnceRunsJobsInOrderAndStopsOnFailure(t *testing.T) {
	runner := &recordingRunner{fail: "calculateprices"}
	s := New(runner, time.UTC, "calculateprices", "updatePrices")

	s.RunOnce()

	calls := runner.snapshot()
	if len(calls) != 1 || calls[0] != "calculateprices" {
		t.Fatalf("expected to stop after the failing job, got %v", calls)
	}

	runner.fail = ""
	s.RunOnce()
	calls = runner.snapshot()
	if len(calls) != 3 || calls[2] != "updatePrices" {
		t.Fatalf("expected both jobs to run, got %v", calls)
	}
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	s := New(&recordingRunner{}, nil, "updatePrices")
	if err := s.Schedule("every tuesday-ish"); err == nil {
		t.Fatalf("expected invalid cron spec to be rejected")
	}
}

func TestStartedSchedulerTicksAndStopsCleanly(t *testing.T) {
	runner := &recordingRunner{ran: make(chan struct{}, 1)}
	s := New(runner, time.UTC, "updatePrices")
	if err := s.Schedule("* * * * * *"); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	s.Start()

	select {
	case <-runner.ran:
	case <-time.After(3 * time.Second):
		t.Fatalf("scheduled job did not run")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
