package pet

import "time"

// Mood is the categorical state derived from the stats.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodHungry   Mood = "hungry"
	MoodSad      Mood = "sad"
	MoodLonely   Mood = "lonely"
	MoodSleeping Mood = "sleeping"
	MoodCritical Mood = "critical"
	MoodTun      Mood = "tun" // dormant, hp at zero
)

// DetermineMood returns a mood based on priority-ordered rules.
// Priority: Tun > Sleeping > Critical > Hungry > Sad > Lonely > Happy > Neutral
func DetermineMood(s Snapshot) Mood {
	if s.HP == 0 {
		return MoodTun
	}
	if s.Sleeping {
		return MoodSleeping
	}
	if s.HP < 20 {
		return MoodCritical
	}
	if s.Fullness < 20 {
		return MoodHungry
	}
	if s.Happiness < 20 {
		return MoodSad
	}
	if s.Bond < 20 {
		return MoodLonely
	}
	if s.Happiness > 70 && s.Fullness > 50 {
		return MoodHappy
	}
	return MoodNeutral
}

// Need is what the creature wants most urgently.
type Need string

const (
	NeedNone      Need = ""
	NeedFood      Need = "needsFood"
	NeedPlay      Need = "needsPlay"
	NeedAffection Need = "needsAffection"
	NeedCritical  Need = "needsCritical"
)

const needThreshold = 60

// MostUrgentNeed picks the lowest stat under the need threshold. Nothing is
// needed while sleeping or dormant; low hp trumps everything else.
func MostUrgentNeed(s Snapshot) Need {
	if s.Sleeping || s.HP == 0 {
		return NeedNone
	}
	if s.HP < 40 {
		return NeedCritical
	}
	if s.Fullness < needThreshold && s.Fullness <= s.Happiness && s.Fullness <= s.Bond {
		return NeedFood
	}
	if s.Happiness < needThreshold && s.Happiness <= s.Bond {
		return NeedPlay
	}
	if s.Bond < needThreshold {
		return NeedAffection
	}
	return NeedNone
}

// TimeOfDayAt maps the wall-clock hour in loc to a band:
// [22,5) night, [5,8) dawn, [8,18) day, otherwise dusk.
func TimeOfDayAt(t time.Time, loc *time.Location) TimeOfDay {
	if loc == nil {
		loc = time.UTC
	}
	hour := t.In(loc).Hour()
	switch {
	case hour >= 22 || hour < 5:
		return TimeNight
	case hour < 8:
		return TimeDawn
	case hour < 18:
		return TimeDay
	default:
		return TimeDusk
	}
}

// Age thresholds in simulated seconds.
const (
	ageBaby  = 60
	ageTeen  = 300
	ageAdult = 900
	ageElder = 3600
)

// StageForAge returns the stage a creature of the given age would have
// reached. The engine does not call it; evolution is driven from outside.
func StageForAge(ageSeconds float64) Stage {
	switch {
	case ageSeconds < ageBaby:
		return StageEgg
	case ageSeconds < ageTeen:
		return StageBaby
	case ageSeconds < ageAdult:
		return StageTeen
	case ageSeconds < ageElder:
		return StageAdult
	default:
		return StageElder
	}
}
