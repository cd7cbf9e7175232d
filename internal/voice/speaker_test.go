package voice

import (
	"context"
	"testing"
)

type countingSynth struct {
	calls int
}

func (s *countingSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.calls++
	return []byte(text), nil
}

type countingPlayer struct {
	plays int
}

func (p *countingPlayer) Play(context.Context, []byte) error {
	p.plays++
	return nil
}

func TestCachingSpeaker_SynthesizesOncePerUtterance(t *testing.T) {
	synth := &countingSynth{}
	player := &countingPlayer{}
	s, err := NewCachingSpeaker(synth, player, 8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := s.Speak(context.Background(), "Bro."); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Speak(context.Background(), "Nah we're good"); err != nil {
		t.Fatal(err)
	}

	if synth.calls != 2 {
		t.Fatalf("synth calls = %d, want 2", synth.calls)
	}
	if player.plays != 4 {
		t.Fatalf("plays = %d, want 4", player.plays)
	}
}

func TestCachingSpeaker_EmptyTextIsNoop(t *testing.T) {
	synth := &countingSynth{}
	s, err := NewCachingSpeaker(synth, &countingPlayer{}, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Speak(context.Background(), ""); err != nil {
		t.Fatal(err)
	}
	if synth.calls != 0 {
		t.Fatalf("synth called for empty text")
	}
}
