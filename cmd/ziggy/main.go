package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/moorebrett0/ziggy/internal/brain"
	"github.com/moorebrett0/ziggy/internal/config"
	"github.com/moorebrett0/ziggy/internal/discord"
	"github.com/moorebrett0/ziggy/internal/onboarding"
	"github.com/moorebrett0/ziggy/internal/personality"
	"github.com/moorebrett0/ziggy/internal/pet"
	"github.com/moorebrett0/ziggy/internal/proactive"
	"github.com/moorebrett0/ziggy/internal/telemetry"
)

func main() {
	// Flags
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file")
	debug := flag.Bool("debug", false, "Enable debug logging and skip the slow banner")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ziggy: %v\n", err)
		os.Exit(1)
	}

	level := cfg.SlogLevel()
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg, *debug); err != nil {
		slog.Error("ziggy: fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, debug bool) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	pers := personality.Get(cfg.Pet.Personality)

	engine := pet.New(pet.Options{
		TickInterval: cfg.Pet.TickInterval,
		Location:     loc,
		Generation:   cfg.Pet.Generation,
		Catalog:      pers.Catalog,
		Logger:       slog.Default(),
	})
	defer engine.Close()

	rec, err := telemetry.NewRecorder(cfg.Telemetry.Dir)
	if err != nil {
		return err
	}
	defer rec.Close()
	stopRecording := rec.Attach(engine)
	defer stopRecording()

	stopMoodLog := engine.SubscribeMood(func(m pet.Mood) {
		slog.Info("ziggy: mood", "mood", m)
	})
	defer stopMoodLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	br := brain.New(ctx, brain.Config{
		ClaudeAPIKey: cfg.Claude.APIKey,
		ClaudeModel:  cfg.Claude.Model,
		GeminiAPIKey: cfg.Gemini.APIKey,
		GeminiModel:  cfg.Gemini.Model,
		Provider:     cfg.AI.Provider,
		MaxTokens:    cfg.AI.MaxTokens,
		RateLimit:    cfg.AI.RateLimit,
		RateWindow:   cfg.AI.RateWindow,
	}, pers)

	var bot *discord.Bot
	if cfg.DiscordEnabled() {
		bot, err = discord.NewBot(cfg.Discord.BotToken, cfg.Discord.ChannelID, cfg.Discord.OwnerIDs, cfg.Discord.AllowSpectatorPet)
		if err != nil {
			return err
		}
		discord.NewRouter(bot, engine, br, pers)
	} else {
		slog.Info("discord: not configured, running headless")
	}

	printer := onboarding.Printer{W: os.Stdout, Slow: !debug}
	printer.Hatch(engine.Snapshot(), pers)

	engine.Start()

	var wg sync.WaitGroup
	if bot != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bot.Start(ctx)
		}()
	}

	if cfg.Proactive.Enabled {
		// Keep nil interfaces nil
		var sender proactive.MessageSender
		if bot != nil {
			sender = bot
		}
		var gen proactive.CatalogGenerator
		if br != nil {
			gen = br
		}
		sched := proactive.New(sender, engine, gen, proactive.Config{
			CheckInterval: cfg.Proactive.CheckInterval,
			NeedCooldown:  cfg.Proactive.NeedCooldown,
			PoolInterval:  cfg.Proactive.PoolInterval,
			Evolve:        cfg.Proactive.Evolve,
			Personality:   pers.ID,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Run(ctx)
		}()
	}

	printer.Startup([]onboarding.Check{
		{Label: "decay running", OK: engine.Running()},
		{Label: "ai connected", OK: br != nil},
		{Label: "discord configured", OK: bot != nil},
		{Label: "proactive scheduler", OK: cfg.Proactive.Enabled},
		{Label: "telemetry recording", OK: rec != nil},
	})

	<-ctx.Done()
	slog.Info("ziggy: shutting down")
	engine.Stop()
	wg.Wait()
	return nil
}
