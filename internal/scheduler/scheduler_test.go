package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"BreakoutScanner/internal/model"
)

type fakeRunner struct {
	report *model.Report
	err    error
	calls  int
}

func (f *fakeRunner) Run(context.Context) (*model.Report, error) {
	f.calls++
	return f.report, f.err
}

func statusFormat(r *model.Report) ([]byte, error) {
	return []byte(string(r.Status) + "\n"), nil
}

func TestRunNow_WritesReport(t *testing.T) {
	runner := &fakeRunner{report: &model.Report{Status: model.StatusNoMatches}}
	var out bytes.Buffer
	s := NewScheduler(context.Background(), runner, statusFormat, &out, time.UTC)

	s.RunNow()

	if runner.calls != 1 {
		t.Fatalf("expected 1 run, got %d", runner.calls)
	}
	if out.String() != "ok-no-matches\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRunNow_ScanError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("universe down")}
	var out bytes.Buffer
	s := NewScheduler(context.Background(), runner, statusFormat, &out, time.UTC)

	s.RunNow()

	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingRunner) Run(context.Context) (*model.Report, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	<-b.release
	return &model.Report{Status: model.StatusNoMatches}, nil
}

func TestRunNow_SkipsWhileRunning(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 2), release: make(chan struct{})}
	var out bytes.Buffer
	s := NewScheduler(context.Background(), runner, statusFormat, &out, time.UTC)

	done := make(chan struct{})
	go func() {
		s.RunNow()
		close(done)
	}()
	<-runner.started

	// A second trigger while the first scan is in flight is dropped.
	s.RunNow()
	if n := runner.calls.Load(); n != 1 {
		t.Fatalf("expected 1 run in flight, got %d", n)
	}

	close(runner.release)
	<-done
	if out.String() != "ok-no-matches\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), &fakeRunner{}, statusFormat, &bytes.Buffer{}, time.UTC)
	if err := s.Register("0 */15 8-15 * * 1-5"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(s.Cron.Entries()) != 1 {
		t.Errorf("expected 1 entry, got %d", len(s.Cron.Entries()))
	}
	if err := s.Register("not a cron"); err == nil {
		t.Error("expected error for invalid cron expression")
	}
}
