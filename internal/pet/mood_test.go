package pet

import (
	"testing"
	"time"
)

func TestDetermineMood_Priority(t *testing.T) {
	tests := []struct {
		name string
		s    Snapshot
		want Mood
	}{
		{"tun beats everything", Snapshot{Fullness: 100, Happiness: 100, Bond: 100, HP: 0}, MoodTun},
		{"tun beats sleeping", Snapshot{Fullness: 50, Happiness: 50, Bond: 50, HP: 0, Sleeping: true}, MoodTun},
		{"sleeping beats critical", Snapshot{Fullness: 5, Happiness: 5, Bond: 5, HP: 10, Sleeping: true}, MoodSleeping},
		{"critical beats hungry", Snapshot{Fullness: 5, Happiness: 50, Bond: 50, HP: 19}, MoodCritical},
		{"hungry beats sad", Snapshot{Fullness: 19, Happiness: 10, Bond: 50, HP: 50}, MoodHungry},
		{"sad beats lonely", Snapshot{Fullness: 50, Happiness: 19, Bond: 10, HP: 50}, MoodSad},
		{"lonely beats happy", Snapshot{Fullness: 80, Happiness: 90, Bond: 19, HP: 50}, MoodLonely},
		{"happy", Snapshot{Fullness: 51, Happiness: 71, Bond: 50, HP: 50}, MoodHappy},
		{"happiness at 70 is neutral", Snapshot{Fullness: 80, Happiness: 70, Bond: 50, HP: 50}, MoodNeutral},
		{"fullness at 50 is neutral", Snapshot{Fullness: 50, Happiness: 90, Bond: 50, HP: 50}, MoodNeutral},
		{"thresholds are exclusive", Snapshot{Fullness: 20, Happiness: 20, Bond: 20, HP: 20}, MoodNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineMood(tt.s); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDetermineMood_IgnoresStoredMood(t *testing.T) {
	s := Snapshot{Fullness: 70, Happiness: 70, Bond: 50, HP: 100, Mood: MoodTun}
	if got := DetermineMood(s); got != MoodNeutral {
		t.Errorf("expected neutral, got %s", got)
	}
}

func TestTimeOfDayAt_Bands(t *testing.T) {
	want := map[int]TimeOfDay{
		0: TimeNight, 4: TimeNight,
		5: TimeDawn, 7: TimeDawn,
		8: TimeDay, 17: TimeDay,
		18: TimeDusk, 21: TimeDusk,
		22: TimeNight, 23: TimeNight,
	}
	for hour, tod := range want {
		at := time.Date(2026, 3, 1, hour, 30, 0, 0, time.UTC)
		if got := TimeOfDayAt(at, time.UTC); got != tod {
			t.Errorf("hour %d: expected %s, got %s", hour, tod, got)
		}
	}
}

func TestTimeOfDayAt_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	at := time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC) // 00:00 at UTC+10

	if got := TimeOfDayAt(at, loc); got != TimeNight {
		t.Errorf("expected night in UTC+10, got %s", got)
	}
}

func TestStageForAge(t *testing.T) {
	tests := []struct {
		age  float64
		want Stage
	}{
		{0, StageEgg},
		{59, StageEgg},
		{60, StageBaby},
		{300, StageTeen},
		{900, StageAdult},
		{3599, StageAdult},
		{3600, StageElder},
	}
	for _, tt := range tests {
		if got := StageForAge(tt.age); got != tt.want {
			t.Errorf("age %v: expected %s, got %s", tt.age, tt.want, got)
		}
	}
}

func TestMostUrgentNeed(t *testing.T) {
	tests := []struct {
		name string
		s    Snapshot
		want Need
	}{
		{"sleeping needs nothing", Snapshot{Fullness: 5, Happiness: 5, Bond: 5, HP: 10, Sleeping: true}, NeedNone},
		{"dormant needs nothing", Snapshot{Fullness: 5, Happiness: 5, Bond: 5, HP: 0}, NeedNone},
		{"low hp is critical", Snapshot{Fullness: 90, Happiness: 90, Bond: 90, HP: 39}, NeedCritical},
		{"lowest is fullness", Snapshot{Fullness: 30, Happiness: 40, Bond: 50, HP: 80}, NeedFood},
		{"lowest is happiness", Snapshot{Fullness: 50, Happiness: 30, Bond: 40, HP: 80}, NeedPlay},
		{"lowest is bond", Snapshot{Fullness: 70, Happiness: 70, Bond: 30, HP: 80}, NeedAffection},
		{"all fine", Snapshot{Fullness: 70, Happiness: 70, Bond: 60, HP: 80}, NeedNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MostUrgentNeed(tt.s); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
