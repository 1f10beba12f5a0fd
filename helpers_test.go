package foldbench

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock replaces nowFunc for the duration of a test so timings are exact.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func useFakeClock(t *testing.T) *fakeClock {
	t.Helper()
	fc := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	prev := nowFunc
	nowFunc = fc.Now
	t.Cleanup(func() { nowFunc = prev })
	return fc
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// exitStatus is a synthetic non-zero exit.
type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitStatus) ExitCode() int { return int(e) }

type fakeResult struct {
	latency   time.Duration
	exit      int
	launchErr error
	hang      bool // block until the context ends
}

// fakeLauncher scripts process results without spawning anything.
type fakeLauncher struct {
	clock  *fakeClock
	script func(inv Invocation) fakeResult

	mu    sync.Mutex
	calls []Invocation
}

func (l *fakeLauncher) Launch(ctx context.Context, inv Invocation) (Process, error) {
	l.mu.Lock()
	l.calls = append(l.calls, inv)
	l.mu.Unlock()

	r := l.script(inv)
	if r.launchErr != nil {
		return nil, r.launchErr
	}
	return &fakeProcess{ctx: ctx, clock: l.clock, r: r}, nil
}

func (l *fakeLauncher) Calls() []Invocation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Invocation(nil), l.calls...)
}

type fakeProcess struct {
	ctx   context.Context
	clock *fakeClock
	r     fakeResult
}

func (p *fakeProcess) Wait() error {
	if p.r.hang {
		<-p.ctx.Done()
		return p.ctx.Err()
	}
	if p.clock != nil {
		p.clock.Advance(p.r.latency)
	}
	if p.r.exit != 0 {
		return exitStatus(p.r.exit)
	}
	return nil
}

// inputOf returns the base name of the input file in an invocation.
func inputOf(inv Invocation) string {
	if len(inv.Args) == 0 {
		return ""
	}
	return filepath.Base(inv.Args[len(inv.Args)-1])
}

// flagsOf returns the configuration flags of an invocation.
func flagsOf(inv Invocation) string {
	if len(inv.Args) == 0 {
		return ""
	}
	return strings.Join(inv.Args[:len(inv.Args)-1], " ")
}

// matrixInputs builds in-memory inputs for lengths; paths are never opened.
func matrixInputs(t *testing.T, lengths ...int) []MatrixInput {
	t.Helper()
	cases, err := GenerateCorpus(lengths, DefaultSeed)
	if err != nil {
		t.Fatalf("GenerateCorpus: %v", err)
	}
	inputs := make([]MatrixInput, 0, len(cases))
	for _, c := range cases {
		inputs = append(inputs, MatrixInput{Case: c, Path: filepath.Join("corpus", c.Label)})
	}
	return inputs
}
