package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/ziggy/internal/brain"
	"github.com/moorebrett0/ziggy/internal/personality"
	"github.com/moorebrett0/ziggy/internal/pet"
)

const askTimeout = 45 * time.Second

// Router dispatches Discord messages and slash commands.
type Router struct {
	bot         *Bot
	engine      *pet.Engine
	brain       *brain.Brain // nil if AI is disabled
	personality *personality.Personality

	isOwner           func(userID string) bool
	allowSpectatorPet bool
}

// NewRouter creates a router and wires it to the bot.
func NewRouter(bot *Bot, engine *pet.Engine, b *brain.Brain, p *personality.Personality) *Router {
	r := &Router{
		bot:               bot,
		engine:            engine,
		brain:             b,
		personality:       p,
		isOwner:           bot.IsOwner,
		allowSpectatorPet: bot.allowSpectatorPet,
	}
	bot.SetRouter(r)
	return r
}

// HandleInteraction dispatches a slash command interaction.
func (r *Router) HandleInteraction(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	isOwner := r.isOwner(interactionUserID(i))

	switch data.Name {
	case "status":
		r.respondEmbed(i, StatusEmbed(r.engine.Snapshot(), r.personality))

	case "mood":
		snap := r.engine.Snapshot()
		r.respond(i, fmt.Sprintf("%s Ziggy is feeling %s", moodEmoji(snap.Mood), snap.Mood))

	case "feed", "play", "pet", "wake":
		reply, private := r.perform(pet.Action(data.Name), isOwner)
		if private {
			r.respondEphemeral(i, reply)
			return
		}
		r.respond(i, reply)

	case "talk":
		text := ""
		if len(data.Options) > 0 {
			text = data.Options[0].StringValue()
		}
		if r.brain == nil {
			r.respond(i, r.idleReply())
			return
		}
		r.respondDeferred(i)
		reply, err := r.ask(text)
		if err != nil {
			r.followup(i, "*confused wiggle*\nSomething went wrong... try again in a moment.")
			return
		}
		r.followup(i, reply)

	case "reset":
		if !isOwner {
			r.respondEphemeral(i, TemplateNotOwner())
			return
		}
		r.engine.Reset()
		r.respond(i, TemplateIntroduction(r.engine.Snapshot(), r.personality))

	case "help":
		r.respond(i, TemplateHelp())

	default:
		r.respond(i, "Unknown command.")
	}
}

// perform runs an action for a user and returns the reply and whether it
// should only be shown to that user.
func (r *Router) perform(action pet.Action, isOwner bool) (reply string, private bool) {
	if !r.allowed(action, isOwner) {
		return TemplateNotOwner(), true
	}

	snap, err := r.engine.Perform(action)
	if errors.Is(err, pet.ErrUnknownAction) {
		return "Unknown command.", true
	}
	if err != nil {
		slog.Debug("router: action refused", "action", action, "err", err)
		return TemplateRejection(r.engine.RejectionLine(action, err), err, r.engine.CooldownRemaining(action)), false
	}
	return TemplateAction(snap), false
}

func (r *Router) allowed(action pet.Action, isOwner bool) bool {
	if isOwner {
		return true
	}
	return action == pet.ActionPet && r.allowSpectatorPet
}

// HandleMessage dispatches a free-form channel message.
func (r *Router) HandleMessage(m *discordgo.MessageCreate) {
	text := strings.TrimSpace(m.Content)
	if text == "" {
		return
	}

	// If directly @mentioned, strip the mention and chat
	if r.bot.IsMentioned(m) {
		text = r.bot.StripMention(text)
		if text == "" || r.brain == nil {
			r.bot.SendMessage(m.ChannelID, r.idleReply())
			return
		}
		reply, err := r.ask(text)
		if err != nil {
			r.bot.SendMessage(m.ChannelID, "*confused wiggle*\nSomething went wrong... I'll try again in a moment.")
			return
		}
		r.bot.SendMessage(m.ChannelID, reply)
		return
	}

	// Not mentioned: pattern matches trigger actions for people allowed to do them
	action, ok := matchAction(text)
	if !ok || !r.allowed(action, r.isOwner(m.Author.ID)) {
		return
	}
	reply, _ := r.perform(action, true)
	r.bot.SendMessage(m.ChannelID, reply)
}

func (r *Router) ask(text string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	reply, err := r.brain.Ask(ctx, r.engine.Snapshot(), text)
	if err != nil {
		slog.Error("router: brain error", "err", err)
		return "", err
	}
	return reply, nil
}

// idleReply shows whatever Ziggy is currently saying.
func (r *Router) idleReply() string {
	snap := r.engine.Snapshot()
	return fmt.Sprintf("%s %s\n%s", ziggyEmoji, moodEmoji(snap.Mood), screen(snap.Message))
}

// --- Interaction response helpers ---

func (r *Router) respond(i *discordgo.InteractionCreate, content string) {
	r.bot.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func (r *Router) respondEmbed(i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	r.bot.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func (r *Router) respondEphemeral(i *discordgo.InteractionCreate, content string) {
	r.bot.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (r *Router) respondDeferred(i *discordgo.InteractionCreate) {
	r.bot.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func (r *Router) followup(i *discordgo.InteractionCreate, content string) {
	if _, err := r.bot.session.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
		Content: content,
	}); err != nil {
		slog.Error("discord: followup failed", "err", err)
	}
}

// --- Pattern matchers ---

var (
	affectionPatterns = []string{
		"good boy", "good girl", "good bear", "good ziggy",
		"pet you", "pets", "scratch", "head pat", "pat pat",
		"love you", "ily", "cuddle", "snuggle", "hug", "boop",
	}
	feedingPatterns = []string{
		"feed", "food", "eat", "treat",
		"snack", "dinner", "lunch", "breakfast",
		"hungry", "nom", "moss",
	}
	playPatterns = []string{
		"play", "game", "fetch", "zoomies",
	}
	wakePatterns = []string{
		"wake up", "rise and shine", "wakey wakey",
	}
)

// matchAction maps chat text to an action. Wake is checked first so
// "wake up and eat" does not feed a sleeping creature.
func matchAction(text string) (pet.Action, bool) {
	words := normalize(text)
	switch {
	case containsAny(words, wakePatterns):
		return pet.ActionWake, true
	case containsAny(words, affectionPatterns):
		return pet.ActionPet, true
	case containsAny(words, feedingPatterns):
		return pet.ActionFeed, true
	case containsAny(words, playPatterns):
		return pet.ActionPlay, true
	default:
		return "", false
	}
}

// normalize lowercases text and reduces it to space-separated words with a
// leading and trailing space, so patterns only match whole words.
func normalize(text string) string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return " " + strings.Join(fields, " ") + " "
}

func containsAny(words string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(words, " "+p+" ") {
			return true
		}
	}
	return false
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
