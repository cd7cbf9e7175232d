// Package brain is the response-orchestration engine: it decides whether
// and when each stimulus gets a reply, keeps the conversation window with
// game state injected, and extracts structured commands from model output.
package brain

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// CompleteFunc is the external completion boundary: given the system
// instruction and the full ordered turn window, return one text reply.
// Any failure is treated uniformly by the brain.
type CompleteFunc func(ctx context.Context, system string, turns []Turn) (string, error)

// Config carries the tunables the brain is constructed with. No ambient
// global lookup — the caller owns loading.
type Config struct {
	MaxTurns int
	// Cooldowns holds per-event-type minimums; DefaultCooldown applies to
	// every type not listed.
	Cooldowns       map[string]time.Duration
	DefaultCooldown time.Duration
	// QueueDepth bounds the proactive backlog. Overflow is dropped.
	QueueDepth int
}

type queuedEvent struct {
	eventType string
	data      map[string]any
}

// Brain owns the conversation history and the proactive-event policy.
//
// The reactive path (Think) is never rate limited; the orchestrator is
// expected to call it from a single goroutine at a time. The proactive path
// (HandleEvent) is serialized by an in-flight lock, rate limited per event
// type, and suppressed entirely while the player is speaking.
type Brain struct {
	complete CompleteFunc
	history  *History

	stateMu sync.Mutex
	state   *GameState

	voiceActive atomic.Bool

	cooldowns       map[string]time.Duration
	defaultCooldown time.Duration

	cdMu      sync.Mutex
	lastEvent map[string]time.Time

	inflight sync.Mutex

	// pending bounds the proactive backlog while another event is in
	// flight. Entries are counted and dropped on overflow but never
	// drained — the queue exists to rate-limit, not to replay.
	pending chan queuedEvent

	now func() time.Time
}

func New(cfg Config, complete CompleteFunc) *Brain {
	if cfg.MaxTurns < 1 {
		cfg.MaxTurns = 20
	}
	if cfg.DefaultCooldown <= 0 {
		cfg.DefaultCooldown = 30 * time.Second
	}
	if cfg.QueueDepth < 1 {
		cfg.QueueDepth = 3
	}
	return &Brain{
		complete:        complete,
		history:         NewHistory(cfg.MaxTurns),
		state:           &GameState{},
		cooldowns:       cfg.Cooldowns,
		defaultCooldown: cfg.DefaultCooldown,
		lastEvent:       make(map[string]time.Time),
		pending:         make(chan queuedEvent, cfg.QueueDepth),
		now:             time.Now,
	}
}

// UpdateGameState merges a game_state payload into the live snapshot.
func (b *Brain) UpdateGameState(data map[string]any) {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	b.state.Merge(data)
}

// SetVoiceActive suppresses proactive processing while push-to-talk is
// held. Nothing queued or suppressed is replayed on release.
func (b *Brain) SetVoiceActive(active bool) {
	b.voiceActive.Store(active)
}

// Think processes player input. Always runs — no cooldown, no suppression.
func (b *Brain) Think(ctx context.Context, input string) (string, []Action) {
	b.history.AddUser(input, b.snapshot())

	response := b.callComplete(ctx)

	text, actions := ExtractActions(response)
	b.history.AddAssistant(response)
	return text, actions
}

// HandleEvent processes a proactive game event. Returns ok=false when the
// event is suppressed: voice active, within cooldown, or another proactive
// request in flight (in which case the event may be queued, but its result
// is never delivered to any caller).
func (b *Brain) HandleEvent(ctx context.Context, eventType string, data map[string]any) (string, []Action, bool) {
	if b.voiceActive.Load() {
		log.Printf("Suppressed proactive event %q — voice active", eventType)
		return "", nil, false
	}

	now := b.now()
	if !b.cooldownElapsed(eventType, now) {
		log.Printf("Suppressed %q — cooldown", eventType)
		return "", nil, false
	}

	if !b.inflight.TryLock() {
		select {
		case b.pending <- queuedEvent{eventType: eventType, data: data}:
			log.Printf("Queued proactive event %q", eventType)
		default:
			log.Printf("Dropped proactive event %q — queue full", eventType)
		}
		return "", nil, false
	}
	defer b.inflight.Unlock()

	b.stamp(eventType, now)

	b.history.AddUser(eventPrompt(eventType, data), b.snapshot())

	response := b.callComplete(ctx)

	text, actions := ExtractActions(response)
	b.history.AddAssistant(response)
	return text, actions, true
}

// Messages exposes the current window, mainly for the orchestrator's
// debugging surface.
func (b *Brain) Messages() []Turn {
	return b.history.Messages()
}

func (b *Brain) snapshot() *GameState {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.state.Clone()
}

func (b *Brain) cooldownElapsed(eventType string, now time.Time) bool {
	cd, ok := b.cooldowns[eventType]
	if !ok {
		cd = b.defaultCooldown
	}
	b.cdMu.Lock()
	defer b.cdMu.Unlock()
	return now.Sub(b.lastEvent[eventType]) >= cd
}

func (b *Brain) stamp(eventType string, now time.Time) {
	b.cdMu.Lock()
	defer b.cdMu.Unlock()
	b.lastEvent[eventType] = now
}

func (b *Brain) callComplete(ctx context.Context) string {
	response, err := b.complete(ctx, SystemPrompt, b.history.Messages())
	if err != nil {
		log.Printf("Completion error: %v", err)
		return fallbackUtterance
	}
	return response
}
