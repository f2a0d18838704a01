package proactive

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/moorebrett0/ziggy/internal/brain"
	"github.com/moorebrett0/ziggy/internal/discord"
	"github.com/moorebrett0/ziggy/internal/pet"
)

// MessageSender can send messages to the pet's channel.
type MessageSender interface {
	SendMessage(channelID, text string)
	ChannelID() string
}

// CatalogGenerator produces runtime message pools. *brain.Brain satisfies it.
type CatalogGenerator interface {
	GenerateCatalog(ctx context.Context, req brain.Request) (pet.Catalog, error)
}

const generateTimeout = 2 * time.Minute

var stageOrder = map[pet.Stage]int{
	pet.StageEgg:   0,
	pet.StageBaby:  1,
	pet.StageTeen:  2,
	pet.StageAdult: 3,
	pet.StageElder: 4,
}

// Scheduler drives everything that happens to the creature without a user
// asking: growing up, nudging for attention, refreshing its vocabulary and
// announcing dormancy.
type Scheduler struct {
	sender    MessageSender // nil: nothing is posted
	engine    *pet.Engine
	generator CatalogGenerator // nil: built-in pools only

	checkInterval time.Duration
	needCooldown  time.Duration
	poolInterval  time.Duration
	evolve        bool
	personality   string

	now func() time.Time

	mu        sync.Mutex
	seenAge   float64
	seen      bool
	lastNeed  time.Time
	lastPool  time.Time
	poolStage pet.Stage
	dormant   bool
}

// Config for the proactive scheduler.
type Config struct {
	CheckInterval time.Duration
	NeedCooldown  time.Duration
	PoolInterval  time.Duration
	Evolve        bool
	Personality   string // passed to the generator
}

// New creates a proactive scheduler. sender and gen may be nil.
func New(sender MessageSender, engine *pet.Engine, gen CatalogGenerator, cfg Config) *Scheduler {
	s := &Scheduler{
		sender:        sender,
		engine:        engine,
		generator:     gen,
		checkInterval: cfg.CheckInterval,
		needCooldown:  cfg.NeedCooldown,
		poolInterval:  cfg.PoolInterval,
		evolve:        cfg.Evolve,
		personality:   cfg.Personality,
		now:           time.Now,
	}
	if s.checkInterval <= 0 {
		s.checkInterval = 30 * time.Second
	}
	return s
}

// Run checks once immediately, then on every tick. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	if s.evolve {
		s.checkStage()
	}
	req, due := s.poolsDue(now)
	s.mu.Unlock()

	// Generation can take minutes; keep the lock free meanwhile
	if due {
		s.generatePools(ctx, req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.engine.Snapshot()

	// Dormancy is announced once per episode
	if snap.HP == 0 {
		if !s.dormant {
			s.dormant = true
			slog.Info("proactive: creature went dormant")
			s.send(discord.TemplateDormant())
		}
		return
	}
	if s.dormant {
		s.dormant = false
		slog.Info("proactive: creature revived", "hp", snap.HP)
		s.send(discord.TemplateRevived(s.engine.Line(pet.CategoryWake, pet.SubReviving)))
	}

	need := pet.MostUrgentNeed(snap)
	if need != pet.NeedNone && (s.lastNeed.IsZero() || now.Sub(s.lastNeed) >= s.needCooldown) {
		s.lastNeed = now
		slog.Debug("proactive: nudging", "need", need)
		s.send(discord.TemplateNeed(s.engine.NeedLine(need)))
	}
}

// checkStage moves the stage forward as the creature ages. On first sight,
// or when age went backwards (a reset), the stage is synced silently.
func (s *Scheduler) checkStage() {
	snap := s.engine.Snapshot()
	target := pet.StageForAge(snap.Age)

	reborn := !s.seen || snap.Age < s.seenAge
	s.seen = true
	s.seenAge = snap.Age

	if target == snap.Stage {
		return
	}
	if reborn {
		s.engine.SetStage(target)
		slog.Info("proactive: stage synced", "stage", target, "age", snap.Age)
		return
	}
	if stageOrder[target] <= stageOrder[snap.Stage] {
		return
	}

	s.engine.SetStage(target)
	slog.Info("proactive: evolved", "from", snap.Stage, "to", target, "age", snap.Age)
	s.send(discord.TemplateEvolved(s.engine.Snapshot(), snap.Stage))
}

// poolsDue reports whether the runtime catalog should be regenerated: on a
// timer and whenever the stage changes. A due attempt is recorded up front,
// so a failure waits for the next interval or stage change.
func (s *Scheduler) poolsDue(now time.Time) (brain.Request, bool) {
	if s.generator == nil {
		return brain.Request{}, false
	}
	snap := s.engine.Snapshot()
	due := s.lastPool.IsZero() ||
		(s.poolInterval > 0 && now.Sub(s.lastPool) >= s.poolInterval) ||
		snap.Stage != s.poolStage
	if !due {
		return brain.Request{}, false
	}
	s.lastPool = now
	s.poolStage = snap.Stage
	return brain.Request{
		Personality: s.personality,
		Stage:       snap.Stage,
		Bond:        snap.Bond,
	}, true
}

// generatePools installs freshly generated pools. A failed generation keeps
// whatever pools are installed.
func (s *Scheduler) generatePools(ctx context.Context, req brain.Request) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	catalog, err := s.generator.GenerateCatalog(ctx, req)
	if err != nil {
		slog.Warn("proactive: pool generation failed, keeping current pools", "err", err)
		return
	}
	s.engine.SetRuntimeCatalog(catalog)
	slog.Info("proactive: installed generated pools", "stage", req.Stage, "categories", len(catalog))
}

func (s *Scheduler) send(text string) {
	if s.sender == nil || text == "" {
		return
	}
	channelID := s.sender.ChannelID()
	if channelID == "" {
		return
	}
	s.sender.SendMessage(channelID, text)
}
