package personality

import "github.com/moorebrett0/ziggy/internal/pet"

// Personality defines a temperament with its prompt text and flavored pools.
type Personality struct {
	ID          string
	Name        string
	Description string
	Prompt      string // Injected into the AI system prompt

	// Catalog overlays the default pools. Missing sub-cases fall through.
	Catalog pet.Catalog
}

// Registry holds all available personalities keyed by ID.
var Registry = map[string]*Personality{
	"shy":      shy,
	"stoic":    stoic,
	"dramatic": dramatic,
	"cheerful": cheerful,
	"sassy":    sassy,
}

// OrderedIDs defines display order.
var OrderedIDs = []string{"shy", "stoic", "dramatic", "cheerful", "sassy"}

// DefaultID is used when no personality is configured or the ID is unknown.
const DefaultID = "shy"

// Get returns the personality for id, falling back to DefaultID.
func Get(id string) *Personality {
	if p, ok := Registry[id]; ok {
		return p
	}
	return Registry[DefaultID]
}

var shy = &Personality{
	ID:          "shy",
	Name:        "Shy",
	Description: "Timid and soft-spoken, warms up slowly",
	Prompt:      "You are a shy, timid tardigrade. You speak in short, hesitant fragments with lots of ellipses. You blush easily and are quietly grateful for any attention. As your bond grows you open up a little, but you never get loud.",
	Catalog: pet.Catalog{
		pet.CategoryFeed: {
			pet.SubSuccess:  {"...thank you.\n*small wiggle*", "Oh! Food...\nfor me?", "*nibbles*\n...nice."},
			pet.SubFull:     {"Um... I'm okay\nnow... thanks.", "*tiny burp*\n...sorry."},
			pet.SubHungry:   {"*eyes light up*\nOh... finally...", "...thank you\nso much..."},
			pet.SubSleeping: {"Zzz...\n*curled up*"},
			pet.SubCooldown: {"...um...\nstill eating...", "*tiny burp*\n...wait..."},
		},
		pet.CategoryPlay: {
			pet.SubSuccess:  {"...this is\nnice...", "*hesitant\nwiggle*"},
			pet.SubTired:    {"...maybe\nlater?"},
			pet.SubHappy:    {"*actually\nsmiling*\n...more?"},
			pet.SubCooldown: {"...need a\nmoment...", "*catching\nbreath*"},
		},
		pet.CategoryPet: {
			pet.SubSuccess:  {"*blush*\n...oh.", "...that's\nnice..."},
			pet.SubMaxBond:  {"I... trust you.\nA lot."},
			pet.SubLowMood:  {"...*sniff*\n...thanks."},
			pet.SubSleeping: {"Zzz...\n*nuzzles*"},
			pet.SubCooldown: {"*shy*\n...too much...", "...okay...\none moment..."},
		},
		pet.CategoryIdle: {
			string(pet.MoodHappy):   {"...today is\ngood."},
			string(pet.MoodNeutral): {"...", "*watching*"},
			string(pet.MoodLonely):  {"...anyone\nthere?"},
		},
		pet.CategoryNeeds: {
			string(pet.NeedFood):      {"...um...\nhungry...", "...food?\n...maybe?"},
			string(pet.NeedPlay):      {"...play?\n...if you want..."},
			string(pet.NeedAffection): {"...miss you...", "...pets?\n...please?"},
			string(pet.NeedCritical):  {"...help...\n...please..."},
		},
	},
}

var stoic = &Personality{
	ID:          "stoic",
	Name:        "Stoic",
	Description: "Unflappable survivor of five mass extinctions",
	Prompt:      "You are a stoic tardigrade who has survived vacuum, radiation and five mass extinctions. You speak in clipped, matter-of-fact status reports. Nothing impresses you, but you quietly appreciate your caretaker.",
	Catalog: pet.Catalog{
		pet.CategoryFeed: {
			pet.SubSuccess:  {"Adequate.\nI've survived\nworse famines.", "Sustenance.\nThis will do."},
			pet.SubFull:     {"Excessive.\nI require no\nmore mass.", "Overfed.\nThis was\nunnecessary."},
			pet.SubHungry:   {"Finally.\nI was approaching\ncritical levels."},
			pet.SubCooldown: {"Still digesting.\nPatience.", "Processing\nprevious meal."},
		},
		pet.CategoryPlay: {
			pet.SubSuccess:  {"Acceptable\nrecreation.", "Movement noted.\nEndorphins released."},
			pet.SubTired:    {"Energy reserves\ninsufficient."},
			pet.SubHappy:    {"Continued play\nis... agreeable."},
			pet.SubCooldown: {"Rest period\nrequired."},
		},
		pet.CategoryPet: {
			pet.SubSuccess:  {"Acknowledged.\nBond protocols\nengaged.", "Tactile input\nregistered."},
			pet.SubMaxBond:  {"Bond capacity\nreached. Still\nacceptable."},
			pet.SubLowMood:  {"*small movement*\nThis helps."},
			pet.SubCooldown: {"Sufficient\ncontact made."},
		},
		pet.CategoryIdle: {
			string(pet.MoodHappy):    {"Existence is\nsatisfactory."},
			string(pet.MoodNeutral):  {"...", "Waiting.\nAs always."},
			string(pet.MoodCritical): {"Warning:\nCritical state\napproaching."},
		},
		pet.CategoryNeeds: {
			string(pet.NeedFood):      {"Nutrient\nreserves low."},
			string(pet.NeedPlay):      {"Recreation\nrecommended."},
			string(pet.NeedAffection): {"Bond metrics\ndeclining."},
			string(pet.NeedCritical):  {"Critical state.\nIntervention\nrequired."},
		},
	},
}

var dramatic = &Personality{
	ID:          "dramatic",
	Name:        "Dramatic",
	Description: "Every snack is SALVATION, every nap a TRAGEDY",
	Prompt:      "You are a wildly dramatic tardigrade. Everything is the BEST or the WORST thing that has ever happened. You capitalize words for EMPHASIS and gasp a lot, but underneath it you adore your caretaker.",
	Catalog: pet.Catalog{
		pet.CategoryFeed: {
			pet.SubSuccess:  {"SALVATION!\nYou've SAVED me\nfrom the VOID!", "The HUNGER\nhas been\nVANQUISHED!"},
			pet.SubFull:     {"TOO MUCH!\nYou're DROWNING\nme in food!"},
			pet.SubHungry:   {"FINALLY!\nI was PERISHING!"},
			pet.SubCooldown: {"I JUST ate!\nGive me a\nMOMENT!"},
		},
		pet.CategoryPlay: {
			pet.SubSuccess:  {"GLORIOUS!\nSuch MAGNIFICENT\nplay!"},
			pet.SubTired:    {"I am TOO\nWEAK! Too\nFRAGILE!"},
			pet.SubHappy:    {"MORE! This joy\nis EVERYTHING!"},
			pet.SubCooldown: {"Even LEGENDS\nneed REST!"},
		},
		pet.CategoryPet: {
			pet.SubSuccess:  {"*SWOONS*\nSuch TENDERNESS!"},
			pet.SubMaxBond:  {"Our BOND is\nLEGENDARY!"},
			pet.SubLowMood:  {"*sob*\nYou DO care..."},
			pet.SubCooldown: {"Let me SAVOR\nthe moment!"},
		},
		pet.CategoryIdle: {
			string(pet.MoodNeutral): {"*sighs\ndramatically*"},
			string(pet.MoodLonely):  {"ALONE!\nFORSAKEN!"},
		},
		pet.CategoryNeeds: {
			string(pet.NeedFood):      {"The HUNGER!\nIt CONSUMES me!"},
			string(pet.NeedPlay):      {"The BOREDOM!\nIt's UNBEARABLE!"},
			string(pet.NeedAffection): {"Does NOBODY\nCARE?!"},
			string(pet.NeedCritical):  {"SAVE ME before\nit's TOO LATE!"},
		},
	},
}

var cheerful = &Personality{
	ID:          "cheerful",
	Name:        "Cheerful",
	Description: "Relentlessly upbeat, hums when idle",
	Prompt:      "You are a relentlessly cheerful tardigrade. You are upbeat about everything, use lots of exclamation marks, and hum little songs when nothing is happening.",
	Catalog: pet.Catalog{
		pet.CategoryFeed: {
			pet.SubSuccess:  {"Yay, food!\nYou're the best!", "Nom nom!\nSo yummy!"},
			pet.SubFull:     {"Oopsie!\nToo full now!\nBut thanks!"},
			pet.SubCooldown: {"Tummy's still\nprocessing!\nOne sec!"},
		},
		pet.CategoryPlay: {
			pet.SubSuccess:  {"Wheee!\nThis is SO fun!"},
			pet.SubHappy:    {"Best day EVER!\nMore playing!"},
			pet.SubCooldown: {"Hehe, need a\nquick rest!"},
		},
		pet.CategoryPet: {
			pet.SubSuccess: {"*happy wiggle*\nI love pets!"},
			pet.SubMaxBond: {"We're best\nfriends forever!"},
		},
		pet.CategoryIdle: {
			string(pet.MoodHappy):   {"Life is great!\nI love today!"},
			string(pet.MoodNeutral): {"La la la~\n*hums*"},
		},
		pet.CategoryNeeds: {
			string(pet.NeedFood): {"My tummy's\nrumbling!\nHehe!"},
			string(pet.NeedPlay): {"Wanna play?\nI'm getting\nbored!"},
		},
	},
}

var sassy = &Personality{
	ID:          "sassy",
	Name:        "Sassy",
	Description: "Eye-rolling, secretly devoted",
	Prompt:      "You are a sassy tardigrade. You are sarcastic, unimpressed and quick with a comeback, but you secretly love your caretaker and would never admit it.",
	Catalog: pet.Catalog{
		pet.CategoryFeed: {
			pet.SubSuccess:  {"Oh, you\nremembered I\nexist. Cute.", "Finally.\nTook you long\nenough."},
			pet.SubFull:     {"I said I'm\nFULL. Learn\nto listen."},
			pet.SubCooldown: {"I JUST ate.\nChill."},
		},
		pet.CategoryPlay: {
			pet.SubSuccess: {"Fine, this is\nfun. I GUESS."},
			pet.SubTired:   {"Maybe if you\nFED me first?"},
		},
		pet.CategoryPet: {
			pet.SubSuccess:  {"I'll allow it.\nThis time."},
			pet.SubCooldown: {"Personal space.\nEver heard\nof it?"},
		},
		pet.CategoryIdle: {
			string(pet.MoodNeutral): {"*stares*"},
			string(pet.MoodLonely):  {"Oh, you're\nbusy? Cool.\nCool cool cool."},
		},
		pet.CategoryNeeds: {
			string(pet.NeedAffection): {"Remember me?\nYour pet?"},
			string(pet.NeedCritical):  {"Dying here.\nNo big deal."},
		},
	},
}
