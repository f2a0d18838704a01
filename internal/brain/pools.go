package brain

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/moorebrett0/ziggy/internal/pet"
)

// Request describes who the generated pools are written for.
type Request struct {
	Personality string
	Stage       pet.Stage
	Bond        float64
}

// poolKey says where a flat JSON key lands in a pet.Catalog.
type poolKey struct {
	cat pet.Category
	sub string
}

// poolKeys maps every key the model is asked for onto the catalog.
var poolKeys = map[string]poolKey{
	"feedSuccess":  {pet.CategoryFeed, pet.SubSuccess},
	"feedFull":     {pet.CategoryFeed, pet.SubFull},
	"feedHungry":   {pet.CategoryFeed, pet.SubHungry},
	"feedSleeping": {pet.CategoryFeed, pet.SubSleeping},
	"feedTun":      {pet.CategoryFeed, pet.SubTun},
	"feedCooldown": {pet.CategoryFeed, pet.SubCooldown},

	"playSuccess":  {pet.CategoryPlay, pet.SubSuccess},
	"playTired":    {pet.CategoryPlay, pet.SubTired},
	"playHappy":    {pet.CategoryPlay, pet.SubHappy},
	"playSleeping": {pet.CategoryPlay, pet.SubSleeping},
	"playTun":      {pet.CategoryPlay, pet.SubTun},
	"playCooldown": {pet.CategoryPlay, pet.SubCooldown},

	"petSuccess":  {pet.CategoryPet, pet.SubSuccess},
	"petMaxBond":  {pet.CategoryPet, pet.SubMaxBond},
	"petLowMood":  {pet.CategoryPet, pet.SubLowMood},
	"petSleeping": {pet.CategoryPet, pet.SubSleeping},
	"petTun":      {pet.CategoryPet, pet.SubTun},
	"petCooldown": {pet.CategoryPet, pet.SubCooldown},

	"reviving": {pet.CategoryWake, pet.SubReviving},

	"idleHappy":    {pet.CategoryIdle, string(pet.MoodHappy)},
	"idleNeutral":  {pet.CategoryIdle, string(pet.MoodNeutral)},
	"idleHungry":   {pet.CategoryIdle, string(pet.MoodHungry)},
	"idleSad":      {pet.CategoryIdle, string(pet.MoodSad)},
	"idleLonely":   {pet.CategoryIdle, string(pet.MoodLonely)},
	"idleCritical": {pet.CategoryIdle, string(pet.MoodCritical)},
	"idleTun":      {pet.CategoryIdle, string(pet.MoodTun)},
	"idleSleeping": {pet.CategoryIdle, string(pet.MoodSleeping)},

	"needsFood":      {pet.CategoryNeeds, string(pet.NeedFood)},
	"needsPlay":      {pet.CategoryNeeds, string(pet.NeedPlay)},
	"needsAffection": {pet.CategoryNeeds, string(pet.NeedAffection)},
	"needsCritical":  {pet.CategoryNeeds, string(pet.NeedCritical)},
}

// GenerateCatalog asks the provider for a full set of message pools. Keys the
// model leaves out or leaves empty are simply missing from the result, so the
// selector falls back to the built-in pools for them.
func (b *Brain) GenerateCatalog(ctx context.Context, req Request) (pet.Catalog, error) {
	if !b.rateAllow() {
		return nil, ErrRateLimited
	}

	slog.Info("brain: generating pools", "personality", req.Personality, "stage", req.Stage, "bond", req.Bond)
	text, err := b.provider.Send(ctx, "", buildPoolPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generating pools: %w", err)
	}

	raw, err := parsePools(text)
	if err != nil {
		return nil, err
	}

	catalog := toCatalog(raw)
	if len(catalog) == 0 {
		return nil, fmt.Errorf("generating pools: %w", ErrEmptyResponse)
	}
	return catalog, nil
}

// parsePools reads the model's JSON, first as-is and then by pulling the
// first balanced object out of surrounding prose.
func parsePools(text string) (map[string][]string, error) {
	text = strings.TrimSpace(text)

	var raw map[string][]string
	if err := json.Unmarshal([]byte(text), &raw); err == nil {
		return raw, nil
	}

	obj := extractJSON(text)
	if obj == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		return nil, fmt.Errorf("parsing pool JSON: %w", err)
	}
	return raw, nil
}

func toCatalog(raw map[string][]string) pet.Catalog {
	c := pet.Catalog{}
	for key, lines := range raw {
		k, ok := poolKeys[key]
		if !ok {
			continue
		}
		var kept []string
		for _, l := range lines {
			if l = strings.TrimSpace(l); l != "" {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			continue
		}
		if c[k.cat] == nil {
			c[k.cat] = map[string][]string{}
		}
		c[k.cat][k.sub] = kept
	}
	return c
}

// extractJSON returns the first balanced {...} in text, or "".
func extractJSON(text string) string {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, c := range text {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func buildPoolPrompt(req Request) string {
	return fmt.Sprintf(`You are generating dialogue for Ziggy, a tardigrade virtual pet.

Personality: %s
Life stage: %s
Bond level: %s

Generate 10 short messages (max 3 lines, ~20 chars each) for each category below.

Categories:
- feedSuccess: Successfully fed when hungry/neutral
- feedFull: Overfed (already full)
- feedHungry: Fed when very hungry
- feedSleeping: Tried to feed while sleeping
- feedTun: Fed while in tun/dormant state
- feedCooldown: Fed too soon after last feeding
- playSuccess: Successfully played
- playTired: Too tired to play properly
- playHappy: Playing while already happy
- playSleeping: Tried to play while sleeping
- playTun: Tried to play while dormant
- playCooldown: Played too soon after last play
- petSuccess: Successfully petted
- petMaxBond: Petted when bond is maxed
- petLowMood: Petted when sad/hungry (comfort)
- petSleeping: Petted while sleeping
- petTun: Petted while dormant
- petCooldown: Petted too soon after last pet
- reviving: Waking up from tun/dormant state
- idleHappy: Idle dialogue when happy
- idleNeutral: Idle dialogue when neutral
- idleHungry: Idle dialogue when hungry
- idleSad: Idle dialogue when sad
- idleLonely: Idle dialogue when bond is low
- idleCritical: Idle dialogue when HP is critical
- idleTun: Idle dialogue when dormant
- idleSleeping: Idle dialogue when sleeping
- needsFood: Coaxing messages when hungry (gently ask for food)
- needsPlay: Coaxing messages when bored (gently ask for play)
- needsAffection: Coaxing messages when lonely (gently ask for pets)
- needsCritical: Urgent messages when HP is low (plead for help)

Rules:
- Never use emoji
- Match the %s personality voice consistently
- Reference tardigrade facts occasionally (survive space, radiation, extreme temps, etc.)
- Each message should be max 3 lines, each line ~20 characters
- Use \n for line breaks within messages

Return ONLY a valid JSON object matching this structure (no markdown, no explanation):
{
  "feedSuccess": ["msg1", "msg2", ...],
  "feedFull": ["msg1", "msg2", ...],
  ... (all categories)
}`, req.Personality, req.Stage, BondDescription(req.Bond), req.Personality)
}
