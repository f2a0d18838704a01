package proactive

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/moorebrett0/ziggy/internal/brain"
	"github.com/moorebrett0/ziggy/internal/pet"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeSender) SendMessage(channelID, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, text)
}

func (f *fakeSender) ChannelID() string { return "chan" }

func (f *fakeSender) count(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.msgs {
		if strings.Contains(m, substr) {
			n++
		}
	}
	return n
}

type fakeGenerator struct {
	reqs []brain.Request
	err  error
}

func (g *fakeGenerator) GenerateCatalog(_ context.Context, req brain.Request) (pet.Catalog, error) {
	g.reqs = append(g.reqs, req)
	if g.err != nil {
		return nil, g.err
	}
	return pet.Catalog{
		pet.CategoryNeeds: {string(pet.NeedAffection): {"generated nudge"}},
	}, nil
}

type firstRand struct{}

func (firstRand) Intn(int) int { return 0 }

type harness struct {
	s      *Scheduler
	engine *pet.Engine
	sender *fakeSender
	gen    *fakeGenerator
	now    time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sender: &fakeSender{},
		gen:    &fakeGenerator{},
		now:    time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	h.engine = pet.New(pet.Options{
		Location: time.UTC,
		Now:      func() time.Time { return h.now },
		Rand:     firstRand{},
	})
	t.Cleanup(h.engine.Close)

	h.s = New(h.sender, h.engine, h.gen, Config{
		CheckInterval: time.Second,
		NeedCooldown:  10 * time.Minute,
		PoolInterval:  time.Hour,
		Evolve:        true,
		Personality:   "stoic",
	})
	h.s.now = func() time.Time { return h.now }
	return h
}

func (h *harness) check() { h.s.check(context.Background()) }

func (h *harness) apply(fn func(s *pet.Snapshot)) {
	s := h.engine.Snapshot()
	fn(&s)
	h.engine.ApplySnapshot(s)
}

func TestCheck_FirstRunSyncsStageAndGeneratesPools(t *testing.T) {
	h := newHarness(t)
	h.check()

	if got := h.engine.Snapshot().Stage; got != pet.StageEgg {
		t.Errorf("expected egg at age 0, got %s", got)
	}
	if h.sender.count("grew") != 0 {
		t.Error("initial sync must not be announced")
	}
	if len(h.gen.reqs) != 1 {
		t.Fatalf("expected one generation, got %d", len(h.gen.reqs))
	}
	req := h.gen.reqs[0]
	if req.Personality != "stoic" || req.Stage != pet.StageEgg || req.Bond != 50 {
		t.Errorf("unexpected request: %+v", req)
	}
	// bond 50 is under the need threshold; the nudge comes from the generated pool
	if h.sender.count("generated nudge") != 1 {
		t.Errorf("expected nudge from generated pool, got %v", h.sender.msgs)
	}
}

func TestCheck_EvolvesForwardAndRegenerates(t *testing.T) {
	h := newHarness(t)
	h.check()

	h.apply(func(s *pet.Snapshot) { s.Age = 61 })
	h.check()

	if got := h.engine.Snapshot().Stage; got != pet.StageBaby {
		t.Fatalf("expected baby, got %s", got)
	}
	if h.sender.count("from **egg** to **baby**") != 1 {
		t.Errorf("expected evolution announcement, got %v", h.sender.msgs)
	}
	if len(h.gen.reqs) != 2 || h.gen.reqs[1].Stage != pet.StageBaby {
		t.Errorf("expected regeneration for baby, got %+v", h.gen.reqs)
	}
}

func TestCheck_ResetResyncsSilently(t *testing.T) {
	h := newHarness(t)
	h.apply(func(s *pet.Snapshot) { s.Age = 400 })
	h.check()
	if got := h.engine.Snapshot().Stage; got != pet.StageTeen {
		t.Fatalf("expected teen, got %s", got)
	}

	h.engine.Reset()
	h.check()
	if got := h.engine.Snapshot().Stage; got != pet.StageEgg {
		t.Errorf("expected egg after reset, got %s", got)
	}
	if h.sender.count("grew") != 0 {
		t.Errorf("resync must not be announced: %v", h.sender.msgs)
	}
}

func TestCheck_NoEvolveLeavesStage(t *testing.T) {
	h := newHarness(t)
	h.s.evolve = false
	h.check()
	if got := h.engine.Snapshot().Stage; got != pet.StageAdult {
		t.Errorf("expected adult untouched, got %s", got)
	}
}

func TestCheck_NeedCooldown(t *testing.T) {
	h := newHarness(t)
	h.s.generator = nil

	h.check()
	h.now = h.now.Add(5 * time.Minute)
	h.check()
	if n := len(h.sender.msgs); n != 1 {
		t.Fatalf("expected 1 nudge inside cooldown, got %d", n)
	}

	h.now = h.now.Add(5 * time.Minute)
	h.check()
	if n := len(h.sender.msgs); n != 2 {
		t.Fatalf("expected 2nd nudge after cooldown, got %d", n)
	}
}

func TestCheck_NoNudgeWhenContentOrAsleep(t *testing.T) {
	h := newHarness(t)
	h.s.generator = nil
	h.engine.SetStat(pet.StatBond, 90)
	h.check()

	h.engine.SetStat(pet.StatBond, 10)
	h.engine.SetSleeping(true)
	h.now = h.now.Add(time.Hour)
	h.check()

	if len(h.sender.msgs) != 0 {
		t.Errorf("expected no nudges, got %v", h.sender.msgs)
	}
}

func TestCheck_DormancyAnnouncedOnce(t *testing.T) {
	h := newHarness(t)
	h.s.generator = nil
	h.engine.SetStat(pet.StatHP, 0)

	h.check()
	h.now = h.now.Add(time.Hour)
	h.check()
	if n := h.sender.count("dormant"); n != 1 {
		t.Fatalf("expected one dormancy notice, got %d", n)
	}

	h.engine.SetStat(pet.StatHP, 50)
	h.check()
	revival := pet.DefaultCatalog()[pet.CategoryWake][pet.SubReviving][0]
	if h.sender.count(revival) != 1 {
		t.Errorf("expected revival line, got %v", h.sender.msgs)
	}
}

func TestCheck_GenerationFailureKeepsBuiltins(t *testing.T) {
	h := newHarness(t)
	h.gen.err = errors.New("offline")

	h.check()
	if len(h.gen.reqs) != 1 {
		t.Fatalf("expected one attempt, got %d", len(h.gen.reqs))
	}
	want := pet.DefaultCatalog()[pet.CategoryNeeds][string(pet.NeedAffection)][0]
	if h.sender.count(want) != 1 {
		t.Errorf("expected built-in nudge, got %v", h.sender.msgs)
	}

	// not retried until the interval passes
	h.now = h.now.Add(time.Minute)
	h.check()
	if len(h.gen.reqs) != 1 {
		t.Errorf("expected no retry inside pool interval, got %d", len(h.gen.reqs))
	}
}

func TestCheck_NilSender(t *testing.T) {
	h := newHarness(t)
	h.s.sender = nil
	h.check() // must not panic
}

func TestRun_StopsOnCancel(t *testing.T) {
	h := newHarness(t)
	h.s.generator = nil
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		h.s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) GenerateCatalog(ctx context.Context, _ brain.Request) (pet.Catalog, error) {
	close(g.started)
	select {
	case <-g.release:
	case <-ctx.Done():
	}
	return nil, errors.New("offline")
}

func TestCheck_GenerationDoesNotHoldLock(t *testing.T) {
	h := newHarness(t)
	gen := &blockingGenerator{started: make(chan struct{}), release: make(chan struct{})}
	h.s.generator = gen

	done := make(chan struct{})
	go func() {
		h.check()
		close(done)
	}()

	<-gen.started
	if !h.s.mu.TryLock() {
		close(gen.release)
		<-done
		t.Fatal("scheduler lock held during pool generation")
	}
	h.s.mu.Unlock()

	close(gen.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("check did not finish after generation returned")
	}
	if h.sender.count("grew") != 0 || len(h.sender.msgs) != 1 {
		t.Errorf("expected only the need nudge, got %v", h.sender.msgs)
	}
}
