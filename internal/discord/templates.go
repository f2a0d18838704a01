package discord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/ziggy/internal/personality"
	"github.com/moorebrett0/ziggy/internal/pet"
)

const ziggyEmoji = "\U0001F9A0" // microbe

// progressBar renders a visual bar like ████████░░ 78%
func progressBar(value float64, width int) string {
	filled := int(value / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	empty := width - filled
	return fmt.Sprintf("%s%s %.0f%%", strings.Repeat("█", filled), strings.Repeat("░", empty), value)
}

// screen renders the creature's multi-line display text as a code block.
func screen(msg string) string {
	if msg == "" {
		msg = "..."
	}
	return "```\n" + msg + "\n```"
}

// moodColor returns a Discord embed color for the mood.
func moodColor(mood pet.Mood) int {
	switch mood {
	case pet.MoodHappy:
		return 0x57F287 // green
	case pet.MoodNeutral:
		return 0x5865F2 // blurple
	case pet.MoodLonely:
		return 0xFEE75C // yellow
	case pet.MoodHungry:
		return 0xEB459E // fuchsia
	case pet.MoodSleeping:
		return 0x99AAB5 // grey
	case pet.MoodSad:
		return 0x3498DB // blue
	case pet.MoodCritical:
		return 0xED4245 // red
	case pet.MoodTun:
		return 0x23272A // dark
	default:
		return 0x5865F2
	}
}

func moodEmoji(mood pet.Mood) string {
	switch mood {
	case pet.MoodHappy:
		return "\U0001F60A"
	case pet.MoodNeutral:
		return "\U0001F610"
	case pet.MoodLonely:
		return "\U0001F97A"
	case pet.MoodHungry:
		return "\U0001F60B"
	case pet.MoodSleeping:
		return "\U0001F634"
	case pet.MoodSad:
		return "\U0001F622"
	case pet.MoodCritical:
		return "\U0001F912"
	case pet.MoodTun:
		return "\U0001F4A4"
	default:
		return "\U0001F610"
	}
}

func timeEmoji(tod pet.TimeOfDay) string {
	switch tod {
	case pet.TimeNight:
		return "\U0001F319"
	case pet.TimeDawn:
		return "\U0001F305"
	case pet.TimeDusk:
		return "\U0001F307"
	default:
		return "☀️"
	}
}

// StatusEmbed builds a rich embed for /status.
func StatusEmbed(snap pet.Snapshot, p *personality.Personality) *discordgo.MessageEmbed {
	stats := fmt.Sprintf(
		"fullness  %s\nhappiness %s\nbond      %s\nhp        %s",
		progressBar(snap.Fullness, 10),
		progressBar(snap.Happiness, 10),
		progressBar(snap.Bond, 10),
		progressBar(snap.HP, 10),
	)

	state := "awake"
	if snap.Sleeping {
		state = "asleep"
	}

	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s Ziggy", ziggyEmoji),
		Description: fmt.Sprintf("mood: %s %s | %s %s, %s | stage: %s",
			moodEmoji(snap.Mood), snap.Mood, timeEmoji(snap.TimeOfDay), snap.TimeOfDay, state, snap.Stage),
		Color: moodColor(snap.Mood),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stats", Value: "```\n" + stats + "\n```", Inline: false},
			{Name: "Says", Value: screen(snap.Message), Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s | generation %d | age %s", p.Name, snap.Generation, FormatAge(snap.Age)),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// FormatAge renders simulated seconds as a short duration.
func FormatAge(seconds float64) string {
	return (time.Duration(seconds) * time.Second).String()
}

// FormatRemaining rounds a cooldown up to whole seconds.
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	return (d + time.Second - 1).Truncate(time.Second).String()
}

// TemplateAction shows the creature's reaction after a successful action.
func TemplateAction(snap pet.Snapshot) string {
	return fmt.Sprintf("%s\n%s fullness %.0f%% | happiness %.0f%% | bond %.0f%%",
		screen(snap.Message), moodEmoji(snap.Mood), snap.Fullness, snap.Happiness, snap.Bond)
}

// TemplateRejection explains a refused action with the creature's own line.
func TemplateRejection(line string, err error, remaining time.Duration) string {
	out := screen(line)
	switch {
	case errors.Is(err, pet.ErrOnCooldown):
		out += fmt.Sprintf("\n⏳ ready again in %s", FormatRemaining(remaining))
	case errors.Is(err, pet.ErrAsleep):
		out += "\n\U0001F4A4 Ziggy is asleep. `/wake` if you must."
	}
	return out
}

func TemplateNotOwner() string {
	return ziggyEmoji + " *curls up* ...only my caretaker can do that."
}

func TemplateNeed(line string) string {
	return fmt.Sprintf("%s\n%s", ziggyEmoji, screen(line))
}

func TemplateEvolved(snap pet.Snapshot, from pet.Stage) string {
	return fmt.Sprintf("✨ %s Ziggy grew from **%s** to **%s**! (age %s)",
		ziggyEmoji, from, snap.Stage, FormatAge(snap.Age))
}

func TemplateDormant() string {
	return fmt.Sprintf("\U0001F4A4 %s Ziggy has curled into a tun and gone dormant.\nTardigrades survive almost anything. Feed and pet to help it rehydrate.", ziggyEmoji)
}

func TemplateRevived(line string) string {
	return fmt.Sprintf("\U0001F331 %s\n%s", ziggyEmoji, screen(line))
}

func TemplateIntroduction(snap pet.Snapshot, p *personality.Personality) string {
	return fmt.Sprintf("%s\n%s hi. i'm Ziggy, a %s tardigrade (generation %d).\n   i can survive space. i cannot survive being ignored.",
		screen(snap.Message), ziggyEmoji, strings.ToLower(p.Name), snap.Generation)
}

func TemplateHelp() string {
	return "**Ziggy Commands**\n\n" +
		"`/status` — Stats, mood and what Ziggy is saying\n" +
		"`/mood` — Current mood\n" +
		"`/feed` — Feed Ziggy (30s cooldown)\n" +
		"`/play` — Play with Ziggy (60s cooldown)\n" +
		"`/pet` — Pet Ziggy (10s cooldown)\n" +
		"`/wake` — Wake Ziggy up at night\n" +
		"`/talk` — Say something to Ziggy\n" +
		"`/reset` — Start over with a fresh Ziggy\n" +
		"`/help` — This message\n\n" +
		"Or @mention Ziggy in this channel!"
}
