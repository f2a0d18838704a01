package pet

import "time"

var cooldownDurations = map[Action]time.Duration{
	ActionFeed: 30 * time.Second,
	ActionPlay: 60 * time.Second,
	ActionPet:  10 * time.Second,
}

// CooldownFor returns the fixed cooldown of action. Wake has none.
func CooldownFor(action Action) time.Duration {
	return cooldownDurations[action]
}

// Cooldowns records when each action last fired. It is not safe for
// concurrent use; the Engine guards it with its own lock.
type Cooldowns struct {
	last map[Action]time.Time
}

// NewCooldowns returns a tracker with no recorded firings.
func NewCooldowns() *Cooldowns {
	return &Cooldowns{last: make(map[Action]time.Time)}
}

// OnCooldown reports whether action fired less than its cooldown ago.
func (c *Cooldowns) OnCooldown(action Action, now time.Time) bool {
	last, ok := c.last[action]
	return ok && now.Sub(last) < CooldownFor(action)
}

// Remaining returns max(0, cooldown - elapsed), or 0 if action never fired.
func (c *Cooldowns) Remaining(action Action, now time.Time) time.Duration {
	last, ok := c.last[action]
	if !ok {
		return 0
	}
	left := CooldownFor(action) - now.Sub(last)
	if left < 0 {
		return 0
	}
	return left
}

// Set records now as the last firing of action.
func (c *Cooldowns) Set(action Action, now time.Time) {
	c.last[action] = now
}

// LastFired returns the last firing time of action, if any.
func (c *Cooldowns) LastFired(action Action) (time.Time, bool) {
	t, ok := c.last[action]
	return t, ok
}

// Clear forgets every recorded firing.
func (c *Cooldowns) Clear() {
	clear(c.last)
}
