package discord

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/moorebrett0/ziggy/internal/personality"
	"github.com/moorebrett0/ziggy/internal/pet"
)

type firstRand struct{}

func (firstRand) Intn(int) int { return 0 }

func newTestRouter(t *testing.T, owner string, spectatorPet bool) (*Router, *pet.Engine) {
	t.Helper()
	noon := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	e := pet.New(pet.Options{
		Location: time.UTC,
		Now:      func() time.Time { return noon },
		Rand:     firstRand{},
	})
	t.Cleanup(e.Close)

	owners := ownerSet([]string{owner})
	r := &Router{
		engine:            e,
		personality:       personality.Get("shy"),
		isOwner:           func(id string) bool { return owners[id] },
		allowSpectatorPet: spectatorPet,
	}
	return r, e
}

func TestPerform_OwnerFeeds(t *testing.T) {
	r, e := newTestRouter(t, "owner", true)

	reply, private := r.perform(pet.ActionFeed, true)
	if private {
		t.Error("expected public reply")
	}
	snap := e.Snapshot()
	if snap.Fullness != 95 {
		t.Errorf("expected fullness 95, got %v", snap.Fullness)
	}
	if !strings.Contains(reply, snap.Message) || !strings.Contains(reply, "fullness 95%") {
		t.Errorf("reply missing message or stats:\n%s", reply)
	}
}

func TestPerform_SpectatorPermissions(t *testing.T) {
	r, e := newTestRouter(t, "owner", true)

	reply, private := r.perform(pet.ActionFeed, false)
	if !private || reply != TemplateNotOwner() {
		t.Errorf("expected private refusal, got %q private=%v", reply, private)
	}
	if e.Snapshot().Fullness != 70 {
		t.Error("refused spectator must not change state")
	}

	if _, private := r.perform(pet.ActionPet, false); private {
		t.Error("expected spectators to be allowed to pet")
	}

	r.allowSpectatorPet = false
	if _, private := r.perform(pet.ActionPet, false); !private {
		t.Error("expected pet refused when spectator pet is off")
	}
}

func TestPerform_CooldownShowsRemaining(t *testing.T) {
	r, _ := newTestRouter(t, "owner", true)

	r.perform(pet.ActionPlay, true)
	reply, _ := r.perform(pet.ActionPlay, true)

	if !strings.Contains(reply, "ready again in 1m0s") {
		t.Errorf("expected remaining cooldown, got:\n%s", reply)
	}
	if !strings.Contains(reply, pet.DefaultCatalog()[pet.CategoryPlay][pet.SubCooldown][0]) {
		t.Errorf("expected cooldown line, got:\n%s", reply)
	}
}

func TestPerform_WakeWhileAwake(t *testing.T) {
	r, _ := newTestRouter(t, "owner", true)

	reply, _ := r.perform(pet.ActionWake, true)
	if !strings.Contains(reply, "already") {
		t.Errorf("expected already-awake line, got:\n%s", reply)
	}
}

func TestPerform_AsleepHint(t *testing.T) {
	r, e := newTestRouter(t, "owner", true)
	e.SetSleeping(true)

	reply, _ := r.perform(pet.ActionPet, true)
	if !strings.Contains(reply, "/wake") {
		t.Errorf("expected wake hint, got:\n%s", reply)
	}
}

func TestMatchAction(t *testing.T) {
	tests := []struct {
		text   string
		want   pet.Action
		wantOK bool
	}{
		{"Time for a SNACK!", pet.ActionFeed, true},
		{"who's a good ziggy", pet.ActionPet, true},
		{"wake up and eat", pet.ActionWake, true},
		{"let's play", pet.ActionPlay, true},
		{"this is great", "", false}, // "hi" inside "this" is not a word
		{"seating chart", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := matchAction(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("matchAction(%q) = %q,%v want %q,%v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStripMention(t *testing.T) {
	if got := stripMention("<@42> hello <@!42>", "42"); got != "hello" {
		t.Errorf("got %q", got)
	}
}

func TestIsOwner_EmptyListAllowsEveryone(t *testing.T) {
	b := &Bot{ownerIDs: ownerSet(nil)}
	if !b.IsOwner("anyone") {
		t.Error("expected everyone to be a caretaker with no owners configured")
	}
	b.ownerIDs = ownerSet([]string{"1"})
	if b.IsOwner("2") || !b.IsOwner("1") {
		t.Error("owner list not respected")
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "░░░░░░░░░░ 0%"},
		{55, "█████░░░░░ 55%"},
		{100, "██████████ 100%"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.v, 10); got != tt.want {
			t.Errorf("progressBar(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{1500 * time.Millisecond, "2s"},
		{30 * time.Second, "30s"},
		{59*time.Second + time.Millisecond, "1m0s"},
	}
	for _, tt := range tests {
		if got := FormatRemaining(tt.d); got != tt.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestTemplateRejection(t *testing.T) {
	err := fmt.Errorf("play: %w", pet.ErrOnCooldown)
	if got := TemplateRejection("wait", err, 3*time.Second); !strings.Contains(got, "3s") {
		t.Errorf("got %q", got)
	}
	if got := TemplateRejection("hm", pet.ErrAwake, 0); strings.Contains(got, "ready again") {
		t.Errorf("unexpected cooldown note: %q", got)
	}
}

func TestStatusEmbed(t *testing.T) {
	snap := pet.Snapshot{
		Fullness: 50, Happiness: 80, Bond: 20, HP: 100,
		Stage: pet.StageTeen, TimeOfDay: pet.TimeDusk, Mood: pet.MoodNeutral,
		Message: "hello", Age: 125, Generation: 2,
	}
	embed := StatusEmbed(snap, personality.Get("dramatic"))

	if embed.Color != moodColor(pet.MoodNeutral) {
		t.Errorf("color: %x", embed.Color)
	}
	if !strings.Contains(embed.Description, "teen") || !strings.Contains(embed.Description, "awake") {
		t.Errorf("description: %q", embed.Description)
	}
	if len(embed.Fields) != 2 || !strings.Contains(embed.Fields[0].Value, "hp        ██████████ 100%") {
		t.Errorf("fields: %+v", embed.Fields)
	}
	if !strings.Contains(embed.Footer.Text, "Dramatic") || !strings.Contains(embed.Footer.Text, "2m5s") {
		t.Errorf("footer: %q", embed.Footer.Text)
	}
}

func TestMoodToPresence_AllMoods(t *testing.T) {
	for _, m := range []pet.Mood{
		pet.MoodHappy, pet.MoodNeutral, pet.MoodHungry, pet.MoodSad,
		pet.MoodLonely, pet.MoodSleeping, pet.MoodCritical, pet.MoodTun,
	} {
		status, activity := moodToPresence(m)
		if status == "" || activity == "" {
			t.Errorf("%s: empty presence", m)
		}
	}
}

func TestPerform_ReplyUsesActionLineAfterTicks(t *testing.T) {
	r, e := newTestRouter(t, "owner", true)
	// two ticks so the next one refreshes the idle message
	e.Tick()
	e.Tick()

	// a tick lands right after the feed commits
	tickDone := make(chan struct{})
	var ticked bool
	cancel := e.Subscribe(func(s pet.Snapshot) {
		if s.LastAction == pet.ActionFeed && !ticked {
			ticked = true
			go func() {
				e.Tick()
				close(tickDone)
			}()
		}
	})
	defer cancel()

	reply, _ := r.perform(pet.ActionFeed, true)
	<-tickDone
	feedLines := pet.DefaultCatalog().Lines(pet.CategoryFeed, pet.SubSuccess)
	found := false
	for _, l := range feedLines {
		if strings.Contains(reply, screen(l)) {
			found = true
		}
	}
	if !found {
		t.Errorf("reply lost the feed line:\n%s", reply)
	}
}

func TestPerform_UnknownAction(t *testing.T) {
	r, _ := newTestRouter(t, "owner", true)
	reply, private := r.perform(pet.Action("dance"), true)
	if reply != "Unknown command." || !private {
		t.Errorf("got %q private=%v", reply, private)
	}
}
