package voice

import (
	"context"
	"log"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Synthesizer renders text to playable audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Player plays synthesized audio to the output device.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// CachingSpeaker synthesizes then plays, caching audio by utterance text.
// The buddy repeats short replies constantly ("Bro.", "Nah we're good"),
// so cache hits skip the TTS round trip. A speak lock prevents overlapping
// audio output.
type CachingSpeaker struct {
	synth  Synthesizer
	player Player
	cache  *lru.Cache[string, []byte]

	speakMu sync.Mutex
}

func NewCachingSpeaker(synth Synthesizer, player Player, cacheSize int) (*CachingSpeaker, error) {
	if cacheSize < 1 {
		cacheSize = 64
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, err
	}
	return &CachingSpeaker{synth: synth, player: player, cache: cache}, nil
}

func (s *CachingSpeaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	s.speakMu.Lock()
	defer s.speakMu.Unlock()

	audio, ok := s.cache.Get(text)
	if !ok {
		var err error
		audio, err = s.synth.Synthesize(ctx, text)
		if err != nil {
			log.Printf("TTS synth failed: %v", err)
			return err
		}
		s.cache.Add(text, audio)
	}
	return s.player.Play(ctx, audio)
}
