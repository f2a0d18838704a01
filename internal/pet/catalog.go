package pet

import "sync"

// Category is the first key of a Catalog: an action, "idle" or "needs".
type Category string

const (
	CategoryFeed  Category = "feed"
	CategoryPlay  Category = "play"
	CategoryPet   Category = "pet"
	CategoryWake  Category = "wake"
	CategoryIdle  Category = "idle"
	CategoryNeeds Category = "needs"
)

// Sub-case keys inside an action category. Idle pools are keyed by Mood,
// needs pools by Need.
const (
	SubSuccess  = "success"
	SubFull     = "full"
	SubHungry   = "hungry"
	SubTired    = "tired"
	SubHappy    = "happy"
	SubMaxBond  = "maxBond"
	SubLowMood  = "low_mood"
	SubSleeping = "sleeping"
	SubCooldown = "cooldown"
	SubTun      = "tun"
	SubAwake    = "awake"
	SubReviving = "reviving" // under CategoryWake: hp recovered from zero
)

// Fixed lines that bypass the catalog.
const (
	WakeMessage       = "*yawn*\nI was having\nsuch a nice dream..."
	FallAsleepMessage = "*yawn*\nGetting sleepy...\nZzz..."
	MorningMessage    = "*stretch*\nIs it morning\nalready?"
)

// Catalog maps category → sub-case → candidate lines.
type Catalog map[Category]map[string][]string

// Lines returns the candidates for cat/sub, or nil.
func (c Catalog) Lines(cat Category, sub string) []string {
	if c == nil {
		return nil
	}
	return c[cat][sub]
}

// DefaultCatalog returns the built-in pools. Callers must not modify it.
func DefaultCatalog() Catalog {
	return defaultCatalog
}

func categoryFor(action Action) Category {
	switch action {
	case ActionFeed:
		return CategoryFeed
	case ActionPlay:
		return CategoryPlay
	case ActionPet:
		return CategoryPet
	default:
		return CategoryWake
	}
}

// Selector picks lines uniformly at random from the first non-empty pool
// among the runtime layer, the base layer and DefaultCatalog.
type Selector struct {
	mu      sync.Mutex
	rng     RandSource
	base    Catalog
	runtime Catalog
}

// NewSelector creates a selector over base (may be nil).
func NewSelector(base Catalog, rng RandSource) *Selector {
	return &Selector{base: base, rng: rng}
}

// SetRuntime replaces the runtime layer.
func (s *Selector) SetRuntime(c Catalog) {
	s.mu.Lock()
	s.runtime = c
	s.mu.Unlock()
}

func (s *Selector) lines(cat Category, sub string) []string {
	if l := s.runtime.Lines(cat, sub); len(l) > 0 {
		return l
	}
	if l := s.base.Lines(cat, sub); len(l) > 0 {
		return l
	}
	return defaultCatalog.Lines(cat, sub)
}

func (s *Selector) pick(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[s.rng.Intn(len(lines))]
}

// Pick returns a random line for cat/sub, or "" if no layer has one.
func (s *Selector) Pick(cat Category, sub string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pick(s.lines(cat, sub))
}

// Idle returns an idle line for mood, falling back to the neutral pool.
func (s *Selector) Idle(mood Mood) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.lines(CategoryIdle, string(mood))
	if len(lines) == 0 {
		lines = s.lines(CategoryIdle, string(MoodNeutral))
	}
	return s.pick(lines)
}

// Action returns a line for an action outcome. Sleeping overrides sub.
func (s *Selector) Action(action Action, sub string, sleeping bool) string {
	if sleeping {
		sub = SubSleeping
	}
	return s.Pick(categoryFor(action), sub)
}

var defaultCatalog = Catalog{
	CategoryFeed: {
		SubSuccess: {
			"Mmm, perfect.\nI can survive\nanother eon.",
			"Delicious.\nAlmost as good\nas cosmic dust.",
			"I needed that.\nThanks, human.",
		},
		SubFull: {
			"Too full!\nNow I feel sick.\n*happiness down*",
			"Ugh... stuffed.\nThat made me\nunhappy.",
			"No more!\nOverfeeding\nhurts me.",
		},
		SubHungry: {
			"FINALLY.\nI was mass-\nextinction hungry.",
			"Oh thank you.\nI thought I'd\nstarve forever.",
			"Food! Beautiful\nlife-giving food!",
		},
		SubSleeping: {
			"Zzz... metabolism\nslowed... zzz",
		},
		SubCooldown: {
			"Still digesting.\nGive me a\nmoment.",
			"My stomach is\nstill busy.",
		},
		SubTun: {
			"*slight twitch*\nRehydrating...",
		},
	},
	CategoryPlay: {
		SubSuccess: {
			"Wheee!\nThis is fun!",
			"Again! Again!\nI have energy\nfor eons!",
			"Playing is the\nbest survival\nstrategy.",
		},
		SubTired: {
			"I'm too tired...\nmaybe later?",
			"Need food first.\nThen play.",
		},
		SubHappy: {
			"More playing!\nI love this!",
			"Best day since\nthe Permian\nextinction!",
		},
		SubSleeping: {
			"Zzz... dreaming\nof survival...",
		},
		SubCooldown: {
			"Catching my\nbreath...",
			"Even tardigrades\nneed a break.",
		},
		SubTun: {
			"*no response*\nDormant.",
		},
	},
	CategoryPet: {
		SubSuccess: {
			"*happy wiggle*\nI like you.",
			"That's nice.\nKeep going.",
			"Mmm...\nright there.",
		},
		SubMaxBond: {
			"We're already\nbest friends!\nBut okay...",
			"*content sigh*\nI trust you\ncompletely.",
		},
		SubLowMood: {
			"Thanks...\nI needed that.",
			"*small wiggle*\nYou're kind.",
		},
		SubSleeping: {
			"Zzz...\n*happy mumble*",
			"*snuggles closer*",
		},
		SubCooldown: {
			"Still tingly\nfrom the last\none.",
		},
		SubTun: {
			"*warming*\n...",
		},
	},
	CategoryWake: {
		SubAwake: {
			"I'm already\nawake!",
		},
		SubReviving: {
			"*uncurls*\nI'm... back?",
			"Rehydrated.\nTold you I'd\nsurvive.",
		},
	},
	CategoryIdle: {
		string(MoodHappy): {
			"Life is good.\nI've survived\nworse.",
			"Did you know\nI can live in\nspace? Cool, right?",
			"Just vibing.\nDurably.",
		},
		string(MoodNeutral): {
			"...",
			"I'm fine.\nJust existing.",
			"Waiting for\nsomething to\nsurvive.",
		},
		string(MoodHungry): {
			"My stomach\nis a void.",
			"Feed me?\nPlease?",
			"I'm withering\naway here...",
		},
		string(MoodSad): {
			"Nobody loves\na tardigrade...",
			"*sad wiggle*",
			"I'm fine.\nEverything is\nfine.",
		},
		string(MoodLonely): {
			"Is anyone\nthere...?",
			"I miss you.\nCome back soon.",
			"*looks around*\nSo quiet...",
			"Even tardigrades\nneed friends.",
		},
		string(MoodCritical): {
			"I don't feel\nso good...",
			"Help...",
			"Is this how\nit ends?",
		},
		string(MoodTun): {
			"*curled up*\n*not responding*",
		},
		string(MoodSleeping): {
			"Zzz...",
			"*peaceful snoring*",
			"Zzz... cosmic\ndreams... zzz",
		},
	},
	CategoryNeeds: {
		string(NeedFood): {
			"Getting hungry.\nSnack?",
			"My stomach\nis starting\nto complain.",
		},
		string(NeedPlay): {
			"Bored...\nplay with me?",
			"Let's do\nsomething fun!",
		},
		string(NeedAffection): {
			"Could use\nsome pets.",
			"Come say hi?",
		},
		string(NeedCritical): {
			"I really\nneed help\nright now.",
			"Not doing\nwell at all...",
		},
	},
}
