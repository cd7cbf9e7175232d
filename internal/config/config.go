// Package config assembles runtime settings from .env, the environment,
// and flags into one struct passed into each component's constructor.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Addr is the bridge listen address.
	Addr string

	Brain BrainConfig
	Voice VoiceConfig

	PingInterval time.Duration
}

type BrainConfig struct {
	Model           string
	MaxTokens       int
	MaxTurns        int
	QueueDepth      int
	DefaultCooldown time.Duration
	// Cooldowns holds per-event-type overrides, parsed from the
	// COOLDOWNS env var ("mob_spawn=120s,player_death=10s").
	Cooldowns map[string]time.Duration
}

type VoiceConfig struct {
	MinTranscriptWords int
	MinConfidence      float64
	TTSCacheSize       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	addr := flag.String("addr", "localhost:8765", "bridge listen address")
	flag.Parse()

	if env := strings.TrimSpace(os.Getenv("BRIDGE_ADDR")); env != "" {
		*addr = env
	}

	cooldowns, err := parseCooldowns(os.Getenv("COOLDOWNS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:         *addr,
		PingInterval: envDuration("PING_INTERVAL", 15*time.Second),
		Brain: BrainConfig{
			Model:           envString("GEMINI_MODEL", "gemini-2.5-flash"),
			MaxTokens:       envInt("BRAIN_MAX_TOKENS", 300),
			MaxTurns:        envInt("BRAIN_HISTORY_LENGTH", 20),
			QueueDepth:      envInt("BRAIN_MAX_QUEUE_DEPTH", 3),
			DefaultCooldown: envDuration("BRAIN_DEFAULT_COOLDOWN", 30*time.Second),
			Cooldowns:       cooldowns,
		},
		Voice: VoiceConfig{
			MinTranscriptWords: envInt("VOICE_MIN_TRANSCRIPT_WORDS", 2),
			MinConfidence:      envFloat("VOICE_MIN_CONFIDENCE", 0.5),
			TTSCacheSize:       envInt("VOICE_TTS_CACHE_SIZE", 64),
		},
	}, nil
}

// parseCooldowns reads "event_type=duration" pairs separated by commas.
func parseCooldowns(raw string) (map[string]time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	out := make(map[string]time.Duration)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid cooldown entry %q", pair)
		}
		d, err := time.ParseDuration(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("invalid cooldown for %q: %w", key, err)
		}
		out[strings.TrimSpace(key)] = d
	}
	return out, nil
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
