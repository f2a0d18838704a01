package pet

import (
	"math"
	"time"
)

// Per-tick drift.
const (
	decayFullnessAwake  = 2.0
	decayHappinessAwake = 1.0
	decayBond           = 0.5

	decayFullnessSleep    = decayFullnessAwake / 2
	recoverHappinessSleep = 0.5

	hpDecayRate   = 2.0
	hpRecoverRate = 1.0

	// Idle messages refresh every third tick unless a threshold is crossed.
	idleRefreshEvery = 3
)

// Start recomputes the time of day and arms the decay timer. Calling it
// while running is a no-op.
func (e *Engine) Start() {
	e.runMu.Lock()
	if e.stop != nil {
		e.runMu.Unlock()
		return
	}
	stop := make(chan struct{})
	e.stop = stop
	e.runMu.Unlock()

	_ = e.update(func(s *Snapshot) error {
		if !e.syncClock(s) {
			return errNoChange
		}
		return nil
	})

	go e.run(stop)
	e.log.Info("engine: decay started", "interval", e.interval)
}

// Stop cancels future ticks. A tick already running completes.
func (e *Engine) Stop() {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if e.stop == nil {
		return
	}
	close(e.stop)
	e.stop = nil
	e.log.Info("engine: decay stopped")
}

// Running reports whether the decay timer is armed.
func (e *Engine) Running() bool {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	return e.stop != nil
}

func (e *Engine) run(stop <-chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			select {
			case <-stop:
				return
			default:
			}
			e.Tick()
		}
	}
}

// Tick applies one decay step: time of day, metabolism or sleep recovery,
// HP convergence, aging and the idle message refresh.
func (e *Engine) Tick() {
	_ = e.update(func(s *Snapshot) error {
		e.ticks++
		e.syncClock(s)

		prevHP := s.HP
		if s.Sleeping {
			sleepTick(s)
		} else {
			awakeTick(s)
		}
		s.Age += e.interval.Seconds()
		s.clamp()

		if !s.Sleeping {
			enteredTun := prevHP > 0 && s.HP == 0
			enteredCritical := prevHP >= 20 && s.HP < 20
			if enteredTun || enteredCritical || e.ticks%idleRefreshEvery == 0 {
				s.Message = e.selector.Idle(DetermineMood(*s))
			}
		}

		e.log.Debug("engine: tick", "n", e.ticks, "sleeping", s.Sleeping,
			"fullness", s.Fullness, "happiness", s.Happiness, "bond", s.Bond, "hp", s.HP)
		return nil
	})
}

// syncClock recomputes the time-of-day band and the sleep flag it implies.
// A manual wake holds until the band changes. Reports whether s changed.
func (e *Engine) syncClock(s *Snapshot) bool {
	tod := TimeOfDayAt(e.now(), e.loc)
	if tod != s.TimeOfDay {
		e.manualWake = false
	}
	asleep := tod == TimeNight && !e.manualWake
	if tod == s.TimeOfDay && asleep == s.Sleeping {
		return false
	}
	s.TimeOfDay = tod
	s.Sleeping = asleep
	return true
}

// sleepTick: slow hunger, happiness recovers, bond untouched, and hp only
// ever climbs toward the stat mean.
func sleepTick(s *Snapshot) {
	s.Fullness -= decayFullnessSleep
	s.Happiness = math.Min(100, s.Happiness+recoverHappinessSleep)

	target := (s.Fullness + s.Happiness + s.Bond) / 3
	if s.HP < target {
		s.HP = math.Min(100, s.HP+hpRecoverRate)
	}
}

// awakeTick: bond above 50 dampens fullness and happiness decay; hp drifts
// toward the rounded stat mean, falling faster than it rises.
func awakeTick(s *Snapshot) {
	protection := math.Max(0, s.Bond-50) / 100

	s.Fullness -= decayFullnessAwake * (1 - protection)
	s.Happiness -= decayHappinessAwake * (1 - protection)
	s.Bond -= decayBond
	s.clamp()

	target := math.Round((s.Fullness + s.Happiness + s.Bond) / 3)
	switch {
	case s.HP > target:
		s.HP -= hpDecayRate
	case s.HP < target:
		s.HP += hpRecoverRate
	}
}
