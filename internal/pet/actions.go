package pet

import (
	"errors"
	"fmt"
	"math"
)

// Perform runs action and returns the snapshot it committed, so callers can
// show the action's own message even if a tick lands right after it. On
// failure the current state is returned unchanged.
func (e *Engine) Perform(action Action) (Snapshot, error) {
	switch action {
	case ActionFeed:
		return e.act(ActionFeed, feedStep)
	case ActionPlay:
		return e.act(ActionPlay, playStep)
	case ActionPet:
		return e.act(ActionPet, petStep)
	case ActionWake:
		return e.commit(e.wakeStep)
	default:
		return e.Snapshot(), fmt.Errorf("%s: %w", action, ErrUnknownAction)
	}
}

// act runs the shared handler template: refuse while asleep or on cooldown,
// otherwise apply the deltas, pick a message with the pre-action mood,
// stamp the action and start its cooldown.
func (e *Engine) act(action Action, apply func(s *Snapshot, before Mood) string) (Snapshot, error) {
	return e.commit(func(s *Snapshot) error {
		now := e.now()
		if s.Sleeping {
			return fmt.Errorf("%s: %w", action, ErrAsleep)
		}
		if e.cooldowns.OnCooldown(action, now) {
			return fmt.Errorf("%s: %w (%s left)", action, ErrOnCooldown, e.cooldowns.Remaining(action, now))
		}

		before := DetermineMood(*s)
		sub := apply(s, before)
		s.clamp()

		s.Message = e.selector.Action(action, sub, s.Sleeping)
		s.LastAction = action
		s.LastActionTime = now
		e.cooldowns.Set(action, now)

		e.log.Debug("engine: action", "action", action, "case", sub,
			"fullness", s.Fullness, "happiness", s.Happiness, "bond", s.Bond)
		return nil
	})
}

// feedBondProtection softens the overfeeding penalty for well-bonded creatures.
func feedBondProtection(bond float64) float64 {
	if bond > 50 {
		return (bond - 50) / 20
	}
	return 0
}

// Feed raises fullness. Feeding an already full creature (>90) only adds 5
// and costs happiness.
func (e *Engine) Feed() error {
	_, err := e.Perform(ActionFeed)
	return err
}

func feedStep(s *Snapshot, _ Mood) string {
	if s.Fullness > 90 {
		s.Fullness += 5
		s.Happiness += math.Floor(-15 + feedBondProtection(s.Bond))
		return SubFull
	}

	hungry := s.Fullness < 30
	s.Fullness += 25
	s.Happiness += 5
	if hungry {
		return SubHungry
	}
	return SubSuccess
}

// Play raises happiness and bond at the cost of fullness. A creature that is
// starving or weak only manages a little.
func (e *Engine) Play() error {
	_, err := e.Perform(ActionPlay)
	return err
}

func playStep(s *Snapshot, before Mood) string {
	if s.Fullness < 20 || s.HP < 30 {
		s.Happiness += 5
		s.Fullness -= 5
		return SubTired
	}

	s.Happiness += 20
	s.Fullness -= 10
	s.Bond += 5
	if before == MoodHappy {
		return SubHappy
	}
	return SubSuccess
}

// Pet raises bond and happiness.
func (e *Engine) Pet() error {
	_, err := e.Perform(ActionPet)
	return err
}

func petStep(s *Snapshot, before Mood) string {
	maxed := s.Bond > 90
	s.Bond += 10
	s.Happiness += 5
	switch {
	case maxed:
		return SubMaxBond
	case before == MoodSad || before == MoodHungry:
		return SubLowMood
	default:
		return SubSuccess
	}
}

// Wake rouses a sleeping creature at a small happiness cost. The creature
// then stays awake until the time-of-day band changes.
func (e *Engine) Wake() error {
	_, err := e.Perform(ActionWake)
	return err
}

func (e *Engine) wakeStep(s *Snapshot) error {
	if !s.Sleeping {
		return fmt.Errorf("%s: %w", ActionWake, ErrAwake)
	}
	s.Sleeping = false
	s.Happiness -= 10
	s.Message = WakeMessage
	s.LastAction = ActionWake
	s.LastActionTime = e.now()
	e.manualWake = true
	return nil
}

// SetTimeOfDay forces the time-of-day band; night puts the creature to sleep.
// The next tick recomputes the band from the clock.
func (e *Engine) SetTimeOfDay(tod TimeOfDay) {
	_ = e.update(func(s *Snapshot) error {
		s.TimeOfDay = tod
		setSleeping(s, tod == TimeNight)
		e.manualWake = false
		return nil
	})
}

// SetSleeping forces the sleep flag.
func (e *Engine) SetSleeping(sleeping bool) {
	_ = e.update(func(s *Snapshot) error {
		setSleeping(s, sleeping)
		e.manualWake = false
		return nil
	})
}

func setSleeping(s *Snapshot, sleeping bool) {
	s.Sleeping = sleeping
	if sleeping {
		s.Message = FallAsleepMessage
	} else {
		s.Message = MorningMessage
	}
}

// RejectionLine returns a flavor line explaining why action was refused with
// err. It never changes state.
func (e *Engine) RejectionLine(action Action, err error) string {
	if err == nil {
		return ""
	}
	hp := e.Snapshot().HP
	cat := categoryFor(action)
	switch {
	case hp == 0 && action != ActionWake:
		return e.selector.Pick(cat, SubTun)
	case errors.Is(err, ErrAsleep):
		return e.selector.Pick(cat, SubSleeping)
	case errors.Is(err, ErrOnCooldown):
		return e.selector.Pick(cat, SubCooldown)
	case errors.Is(err, ErrAwake):
		return e.selector.Pick(CategoryWake, SubAwake)
	default:
		return ""
	}
}
