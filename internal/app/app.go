// Package app wires voice and bridge inputs to the brain, and the brain's
// replies back out to speech and the bot.
package app

import (
	"context"
	"log"
	"strings"
	"sync"

	"coopbuddy/internal/brain"
	"coopbuddy/internal/bridge"
	"coopbuddy/internal/config"
	"coopbuddy/internal/llm"
	"coopbuddy/internal/voice"
)

// sender is the outbound half of the bridge.
type sender interface {
	SendAction(action string, params map[string]any) bool
	SendChat(text string) bool
}

type App struct {
	cfg      *config.Config
	brain    *brain.Brain
	bridge   *bridge.Server
	out      sender
	speaker  voice.Speaker
	pipeline *voice.Pipeline
}

func New(cfg *config.Config) (*App, error) {
	client, err := llm.NewGeminiClient(context.Background(), cfg.Brain.Model, int32(cfg.Brain.MaxTokens))
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		speaker: voice.NopSpeaker{},
	}
	a.brain = brain.New(brain.Config{
		MaxTurns:        cfg.Brain.MaxTurns,
		Cooldowns:       cfg.Brain.Cooldowns,
		DefaultCooldown: cfg.Brain.DefaultCooldown,
		QueueDepth:      cfg.Brain.QueueDepth,
	}, client.Complete)
	a.bridge = bridge.NewServer(cfg.Addr, cfg.PingInterval, a.OnGameEvent)
	a.out = a.bridge
	return a, nil
}

// UseSpeech attaches real speech engines: a push-to-talk pipeline feeding
// transcripts into the brain, and a speaker for replies. Without it the
// app runs headless and is driven by in-game chat alone.
func (a *App) UseSpeech(capture voice.Capture, stt voice.Transcriber, speaker voice.Speaker) {
	a.speaker = speaker
	a.pipeline = voice.NewPipeline(
		voice.Config{
			MinWords:      a.cfg.Voice.MinTranscriptWords,
			MinConfidence: a.cfg.Voice.MinConfidence,
		},
		capture, stt,
		a.OnTranscript,
		func() { a.brain.SetVoiceActive(true) },
		func() { a.brain.SetVoiceActive(false) },
	)
}

// Pipeline returns the push-to-talk pipeline, nil when running headless.
func (a *App) Pipeline() *voice.Pipeline { return a.pipeline }

func (a *App) Start() error {
	return a.bridge.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.bridge.Shutdown(ctx)
}

// OnTranscript handles one voice transcript from the player.
func (a *App) OnTranscript(text string) {
	log.Printf("Voice: %q", text)
	reply, actions := a.brain.Think(context.Background(), text)
	log.Printf("Brain: %q", reply)
	a.respond(context.Background(), reply, actions)
}

// OnGameEvent routes one inbound game_event envelope.
func (a *App) OnGameEvent(env bridge.Envelope) {
	ctx := context.Background()

	switch env.EventType {
	case "game_state":
		// Silent cache update, no reply.
		a.brain.UpdateGameState(env.Data)

	case "bot_joined":
		log.Printf("Bot event: bot_joined — %v", env.Data)
		if player, _ := env.Data["playerName"].(string); player != "" {
			a.out.SendAction("follow_player", map[string]any{"name": player})
		}

	case "bot_disconnected":
		log.Printf("Bot event: bot_disconnected — %v", env.Data)

	case "player_message":
		username, _ := env.Data["username"].(string)
		message, _ := env.Data["message"].(string)
		if message == "" {
			return
		}
		log.Printf("Chat from %s: %q", username, message)
		reply, actions := a.brain.Think(ctx, username+" says in chat: "+message)
		log.Printf("Brain: %q", reply)
		a.respond(ctx, reply, actions)

	default:
		log.Printf("Game event: %s — %v", env.EventType, env.Data)
		reply, actions, ok := a.brain.HandleEvent(ctx, env.EventType, env.Data)
		if !ok {
			return
		}
		log.Printf("Brain (proactive): %q", reply)
		a.respond(ctx, reply, actions)
	}
}

// respond fans a reply out to speech, in-game chat, and the bot's action
// API. Newlines are collapsed first — multi-line chat gets split by the
// bot into separate messages, which breaks TTS.
func (a *App) respond(ctx context.Context, text string, actions []brain.Action) {
	if text == "" {
		return
	}
	clean := strings.Join(strings.Fields(text), " ")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.speaker.Speak(ctx, clean); err != nil {
			log.Printf("Speech failed: %v", err)
		}
	}()

	a.out.SendChat(clean)

	// send_chat actions are skipped — the reply text was already chatted.
	for _, act := range actions {
		if act.Name == "send_chat" {
			continue
		}
		a.out.SendAction(act.Name, act.Params)
	}

	wg.Wait()
}
