package onboarding

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/moorebrett0/ziggy/internal/personality"
	"github.com/moorebrett0/ziggy/internal/pet"
)

// Printer writes the terminal banners. Slow enables the typewriter pacing.
type Printer struct {
	W    io.Writer
	Slow bool
}

// Check is one line of the startup checklist.
type Check struct {
	Label string
	OK    bool
}

// Hatch prints the hatching animation and the creature's first words.
func (p Printer) Hatch(snap pet.Snapshot, pers *personality.Personality) {
	fmt.Fprintln(p.W)
	p.slow("  \U0001F95A crk... crk...", 80)
	fmt.Fprintln(p.W)
	p.pause(500 * time.Millisecond)

	for _, line := range strings.Split(snap.Message, "\n") {
		fmt.Fprintf(p.W, "  %s\n", line)
	}
	fmt.Fprintln(p.W)

	p.slow(fmt.Sprintf("  hi. i'm ziggy. generation %d.", snap.Generation), 50)
	p.slow(fmt.Sprintf("  they say i'm %s: %s.", strings.ToLower(pers.Name), strings.ToLower(pers.Description)), 50)
	fmt.Fprintln(p.W)
}

// Startup prints the startup checklist.
func (p Printer) Startup(checks []Check) {
	fmt.Fprintln(p.W, "  starting up...")

	for _, c := range checks {
		p.pause(200 * time.Millisecond)
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		fmt.Fprintf(p.W, "  %s %s\n", mark, c.Label)
	}

	fmt.Fprintln(p.W)
	p.slow("  ziggy is alive. don't forget about me.", 40)
	fmt.Fprintln(p.W)
}

func (p Printer) slow(text string, delayMs int) {
	for _, ch := range text {
		fmt.Fprint(p.W, string(ch))
		p.pause(time.Duration(delayMs) * time.Millisecond)
	}
	fmt.Fprintln(p.W)
}

func (p Printer) pause(d time.Duration) {
	if p.Slow {
		time.Sleep(d)
	}
}
