package pet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Stage is the creature's life stage. The engine never derives it; it is set
// from outside (see StageForAge).
type Stage string

const (
	StageEgg   Stage = "egg"
	StageBaby  Stage = "baby"
	StageTeen  Stage = "teen"
	StageAdult Stage = "adult"
	StageElder Stage = "elder"
)

// TimeOfDay is the wall-clock band that drives the sleep cycle.
type TimeOfDay string

const (
	TimeNight TimeOfDay = "night"
	TimeDawn  TimeOfDay = "dawn"
	TimeDay   TimeOfDay = "day"
	TimeDusk  TimeOfDay = "dusk"
)

// Action is a user-triggered interaction.
type Action string

const (
	ActionFeed Action = "feed"
	ActionPlay Action = "play"
	ActionPet  Action = "pet"
	ActionWake Action = "wake"
)

// Stat names one of the four bounded vital stats.
type Stat string

const (
	StatFullness  Stat = "fullness"
	StatHappiness Stat = "happiness"
	StatBond      Stat = "bond"
	StatHP        Stat = "hp"
)

// Errors returned by action handlers. A non-nil error always means the
// state was left untouched.
var (
	ErrAsleep        = errors.New("creature is asleep")
	ErrAwake         = errors.New("creature is already awake")
	ErrOnCooldown    = errors.New("action is on cooldown")
	ErrUnknownStat   = errors.New("unknown stat")
	ErrUnknownAction = errors.New("unknown action")
)

// errNoChange aborts an update without committing or notifying.
var errNoChange = errors.New("no change")

const (
	defaultFullness   = 70
	defaultHappiness  = 70
	defaultBond       = 50
	defaultHP         = 100
	defaultGeneration = 1

	// DefaultTickInterval is the decay period used when Options leaves it zero.
	DefaultTickInterval = 2 * time.Second

	hatchMessage = "*wiggle*\n*wiggle*"
)

// Snapshot is a read-only copy of the creature, taken at a commit boundary.
type Snapshot struct {
	// Stats (0–100)
	Fullness  float64 `json:"fullness"`
	Happiness float64 `json:"happiness"`
	Bond      float64 `json:"bond"`
	HP        float64 `json:"hp"`

	Stage     Stage     `json:"stage"`
	TimeOfDay TimeOfDay `json:"timeOfDay"`
	Sleeping  bool      `json:"sleeping"`

	Message        string    `json:"message"`
	LastAction     Action    `json:"lastAction,omitempty"`
	LastActionTime time.Time `json:"lastActionTime,omitempty"`

	Age        float64 `json:"age"` // simulated seconds
	Generation int     `json:"generation"`

	// Derived at commit time
	Mood    Mood   `json:"mood"`
	Version uint64 `json:"version"`
}

func (s *Snapshot) clamp() {
	s.Fullness = clamp(s.Fullness)
	s.Happiness = clamp(s.Happiness)
	s.Bond = clamp(s.Bond)
	s.HP = clamp(s.HP)
}

// RandSource picks an index in [0,n). *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

// Options configures a new Engine. The zero value is usable.
type Options struct {
	TickInterval time.Duration
	Location     *time.Location
	Generation   int

	// Now and Rand are injectable for tests.
	Now  func() time.Time
	Rand RandSource

	// Catalog overlays DefaultCatalog (for example a personality's pools).
	Catalog Catalog

	Logger *slog.Logger
}

// Engine owns one creature, its cooldowns and its decay timer.
type Engine struct {
	mu         sync.RWMutex
	state      Snapshot
	cooldowns  *Cooldowns
	manualWake bool
	ticks      uint64
	version    uint64

	interval   time.Duration
	loc        *time.Location
	generation int
	now        func() time.Time
	selector   *Selector
	log        *slog.Logger

	// Decay timer
	runMu sync.Mutex
	stop  chan struct{}

	// Subscribers
	pubMu  sync.Mutex
	subs   map[int]*subscriber
	nextID int
}

type subscriber struct {
	fn   func(Snapshot)
	last uint64
}

// New creates an engine with default stats. The decay timer is not started.
func New(opts Options) *Engine {
	e := &Engine{
		cooldowns:  NewCooldowns(),
		interval:   opts.TickInterval,
		loc:        opts.Location,
		generation: opts.Generation,
		now:        opts.Now,
		log:        opts.Logger,
		subs:       make(map[int]*subscriber),
	}
	if e.interval <= 0 {
		e.interval = DefaultTickInterval
	}
	if e.loc == nil {
		e.loc = time.Local
	}
	if e.generation <= 0 {
		e.generation = defaultGeneration
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.selector = NewSelector(opts.Catalog, rng)

	e.state = e.initialState()
	e.version = 1
	e.state.Version = e.version
	e.state.Mood = DetermineMood(e.state)
	return e
}

func (e *Engine) initialState() Snapshot {
	tod := TimeOfDayAt(e.now(), e.loc)
	return Snapshot{
		Fullness:   defaultFullness,
		Happiness:  defaultHappiness,
		Bond:       defaultBond,
		HP:         defaultHP,
		Stage:      StageAdult,
		TimeOfDay:  tod,
		Sleeping:   tod == TimeNight,
		Message:    hatchMessage,
		Generation: e.generation,
	}
}

// Snapshot returns the last committed state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Mood returns the mood derived from the last committed state.
func (e *Engine) Mood() Mood {
	return e.Snapshot().Mood
}

// update computes the next state from a copy of the current one and commits
// it in one step. fn may return an error to abandon the update. Callers whose
// fn only ever returns nil or errNoChange discard the result.
func (e *Engine) update(fn func(s *Snapshot) error) error {
	_, err := e.commit(fn)
	return err
}

// commit is update returning the snapshot it committed. When fn abandons
// the update with errNoChange the current state is returned.
func (e *Engine) commit(fn func(s *Snapshot) error) (Snapshot, error) {
	e.mu.Lock()
	next := e.state
	if err := fn(&next); err != nil {
		cur := e.state
		e.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return cur, nil
		}
		return cur, err
	}
	next.clamp()
	e.version++
	next.Version = e.version
	next.Mood = DetermineMood(next)
	e.state = next
	e.mu.Unlock()

	e.publish(next)
	return next, nil
}

// Subscribe registers fn to receive every committed snapshot, starting with
// the current one. Deliveries are serialized and never go back in version.
// fn must not mutate the engine.
func (e *Engine) Subscribe(fn func(Snapshot)) (cancel func()) {
	e.pubMu.Lock()
	id := e.nextID
	e.nextID++
	sub := &subscriber{fn: fn}
	e.subs[id] = sub
	e.deliver(sub, e.Snapshot())
	e.pubMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.pubMu.Lock()
			delete(e.subs, id)
			e.pubMu.Unlock()
		})
	}
}

// SubscribeMood calls fn with the current mood and then whenever it changes.
func (e *Engine) SubscribeMood(fn func(Mood)) (cancel func()) {
	var (
		last Mood
		seen bool
	)
	return e.Subscribe(func(s Snapshot) {
		if seen && s.Mood == last {
			return
		}
		seen = true
		last = s.Mood
		fn(s.Mood)
	})
}

func (e *Engine) publish(s Snapshot) {
	e.pubMu.Lock()
	defer e.pubMu.Unlock()
	for _, sub := range e.subs {
		e.deliver(sub, s)
	}
}

func (e *Engine) deliver(sub *subscriber, s Snapshot) {
	if s.Version <= sub.last {
		return
	}
	sub.last = s.Version
	sub.fn(s)
}

// ApplySnapshot overwrites the creature with an externally sourced state,
// as when the engine mirrors a remote authority. Out-of-range stats are
// clamped rather than rejected. Mood and Version are recomputed.
func (e *Engine) ApplySnapshot(in Snapshot) {
	_ = e.update(func(s *Snapshot) error {
		*s = in
		if s.Generation <= 0 {
			s.Generation = e.generation
		}
		e.manualWake = false
		return nil
	})
}

// Reset restores the documented defaults and clears every cooldown.
func (e *Engine) Reset() {
	_ = e.update(func(s *Snapshot) error {
		*s = e.initialState()
		e.cooldowns.Clear()
		e.manualWake = false
		return nil
	})
	e.log.Info("engine: reset")
}

// Close stops the decay timer and drops all subscribers.
func (e *Engine) Close() {
	e.Stop()
	e.pubMu.Lock()
	e.subs = make(map[int]*subscriber)
	e.pubMu.Unlock()
}

// SetStage sets the life stage.
func (e *Engine) SetStage(stage Stage) {
	_ = e.update(func(s *Snapshot) error {
		if s.Stage == stage {
			return errNoChange
		}
		s.Stage = stage
		return nil
	})
}

// SetStat sets one stat, clamped into [0,100], and refreshes the idle
// message for the resulting mood.
func (e *Engine) SetStat(name Stat, value float64) error {
	return e.update(func(s *Snapshot) error {
		v := clamp(value)
		switch name {
		case StatFullness:
			s.Fullness = v
		case StatHappiness:
			s.Happiness = v
		case StatBond:
			s.Bond = v
		case StatHP:
			s.HP = v
		default:
			return fmt.Errorf("set %q: %w", name, ErrUnknownStat)
		}
		s.Message = e.selector.Idle(DetermineMood(*s))
		return nil
	})
}

// CooldownRemaining reports how long until action can fire again.
func (e *Engine) CooldownRemaining(action Action) time.Duration {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cooldowns.Remaining(action, e.now())
}

// SetRuntimeCatalog installs generated pools over the base catalog. A nil
// catalog removes the runtime layer.
func (e *Engine) SetRuntimeCatalog(c Catalog) {
	e.selector.SetRuntime(c)
}

// Line picks a random line for cat/sub from the layered catalog.
func (e *Engine) Line(cat Category, sub string) string {
	return e.selector.Pick(cat, sub)
}

// NeedLine picks a coaxing line for need, or "" for NeedNone.
func (e *Engine) NeedLine(need Need) string {
	if need == NeedNone {
		return ""
	}
	return e.Line(CategoryNeeds, string(need))
}

// clamp bounds v to [0,100]. NaN becomes 0.
func clamp(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
