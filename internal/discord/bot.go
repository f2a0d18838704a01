package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/moorebrett0/ziggy/internal/pet"
)

// Bot wraps the Discord session and manages slash commands, messages, and presence.
type Bot struct {
	session   *discordgo.Session
	channelID string
	ownerIDs  map[string]bool

	allowSpectatorPet bool

	router *Router

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewBot creates and configures a Discord bot (does not connect yet).
func NewBot(token, channelID string, ownerIDs []string, allowSpectatorPet bool) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("invalid bot token: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuilds

	return &Bot{
		session:           session,
		channelID:         channelID,
		ownerIDs:          ownerSet(ownerIDs),
		allowSpectatorPet: allowSpectatorPet,
	}, nil
}

func ownerSet(ids []string) map[string]bool {
	owners := make(map[string]bool, len(ids))
	for _, id := range ids {
		owners[id] = true
	}
	return owners
}

// SetRouter wires the router to handle messages and interactions.
func (b *Bot) SetRouter(r *Router) {
	b.router = r
	b.session.AddHandler(b.onMessageCreate)
	b.session.AddHandler(b.onInteractionCreate)
	b.session.AddHandler(b.onReady)
}

// Start opens the Discord connection, registers slash commands and mirrors
// the creature's mood into the bot's presence. Blocks until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	if err := b.session.Open(); err != nil {
		slog.Error("discord: failed to open session", "err", err)
		cancel()
		return
	}

	slog.Info("discord: connected", "user", b.session.State.User.Username)

	// Register slash commands
	b.registerCommands()

	if b.router != nil {
		go b.watchMood(ctx, b.router.engine)
	}

	// Wait for shutdown
	<-ctx.Done()
	slog.Info("discord: shutting down")
	b.session.Close()
}

// Stop cancels a running Start.
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
}

// watchMood forwards mood changes to the presence. Only the newest pending
// mood is kept so a slow gateway never stalls the engine.
func (b *Bot) watchMood(ctx context.Context, engine *pet.Engine) {
	moods := make(chan pet.Mood, 1)
	unsubscribe := engine.SubscribeMood(func(m pet.Mood) {
		select {
		case <-moods:
		default:
		}
		moods <- m
	})
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case m := <-moods:
			b.UpdatePresence(m)
		}
	}
}

// ChannelID returns the configured channel ID.
func (b *Bot) ChannelID() string {
	return b.channelID
}

// SendMessage sends a text message to a channel.
func (b *Bot) SendMessage(channelID, text string) {
	if text == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
		slog.Error("discord: send message failed", "err", err)
	}
}

// SendEmbed sends an embed to a channel.
func (b *Bot) SendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		slog.Error("discord: send embed failed", "err", err)
	}
}

// UpdatePresence sets the bot's Discord status based on mood.
func (b *Bot) UpdatePresence(mood pet.Mood) {
	status, activity := moodToPresence(mood)
	err := b.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: status,
		Activities: []*discordgo.Activity{
			{
				Name:  activity,
				Type:  discordgo.ActivityTypeCustom,
				State: activity,
			},
		},
	})
	if err != nil {
		slog.Debug("discord: update presence failed", "err", err)
	}
}

// IsOwner checks if a user ID is in the owner list. With no owners
// configured everyone is a caretaker.
func (b *Bot) IsOwner(userID string) bool {
	return len(b.ownerIDs) == 0 || b.ownerIDs[userID]
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("discord: ready", "user", r.User.Username, "guilds", len(r.Guilds))
}

// BotUserID returns the bot's own user ID.
func (b *Bot) BotUserID() string {
	if b.session.State != nil && b.session.State.User != nil {
		return b.session.State.User.ID
	}
	return ""
}

// IsMentioned checks if the bot was @mentioned in the message.
func (b *Bot) IsMentioned(m *discordgo.MessageCreate) bool {
	for _, u := range m.Mentions {
		if u.ID == b.BotUserID() {
			return true
		}
	}
	return false
}

// StripMention removes the bot's @mention from message text.
func (b *Bot) StripMention(text string) string {
	return stripMention(text, b.BotUserID())
}

func stripMention(text, botID string) string {
	// Discord mentions look like <@123456> or <@!123456>
	text = strings.ReplaceAll(text, "<@"+botID+">", "")
	text = strings.ReplaceAll(text, "<@!"+botID+">", "")
	return strings.TrimSpace(text)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore bots, including ourselves
	if m.Author == nil || m.Author.Bot {
		return
	}

	// Only respond in the configured channel
	if m.ChannelID != b.channelID {
		return
	}

	if b.router != nil {
		b.router.HandleMessage(m)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	if b.router != nil {
		b.router.HandleInteraction(i)
	}
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "status",
		Description: "Check Ziggy's stats and mood",
	},
	{
		Name:        "mood",
		Description: "Check Ziggy's current mood",
	},
	{
		Name:        "feed",
		Description: "Feed Ziggy",
	},
	{
		Name:        "play",
		Description: "Play with Ziggy",
	},
	{
		Name:        "pet",
		Description: "Give Ziggy some affection",
	},
	{
		Name:        "wake",
		Description: "Wake Ziggy up",
	},
	{
		Name:        "talk",
		Description: "Say something to Ziggy",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "message",
				Description: "What to say",
				Required:    true,
			},
		},
	},
	{
		Name:        "reset",
		Description: "Start over with a fresh Ziggy",
	},
	{
		Name:        "help",
		Description: "Show available commands",
	},
}

func (b *Bot) registerCommands() {
	appID := b.session.State.User.ID
	for _, cmd := range commands {
		if _, err := b.session.ApplicationCommandCreate(appID, "", cmd); err != nil {
			slog.Error("discord: failed to register command", "cmd", cmd.Name, "err", err)
		} else {
			slog.Info("discord: registered command", "cmd", cmd.Name)
		}
	}
}

func moodToPresence(mood pet.Mood) (status, activity string) {
	switch mood {
	case pet.MoodHappy:
		return "online", "just vibing. durably."
	case pet.MoodNeutral:
		return "online", "existing"
	case pet.MoodLonely:
		return "idle", "anyone there?"
	case pet.MoodHungry:
		return "idle", "getting hungry..."
	case pet.MoodSad:
		return "idle", "*sad wiggle*"
	case pet.MoodSleeping:
		return "idle", "zzz"
	case pet.MoodCritical:
		return "dnd", "need help..."
	case pet.MoodTun:
		return "invisible", "dormant"
	default:
		return "online", "existing"
	}
}
