// Package voice is the speech boundary: push-to-talk capture, transcript
// gating, and spoken output. The actual capture, STT, and TTS engines are
// supplied by the caller; this package owns the wiring and the accept/reject
// policy for transcripts.
package voice

import (
	"context"
	"log"
	"strings"
	"sync"
)

// Transcript is the STT result for one recording.
type Transcript struct {
	Text       string
	Confidence float64
}

// Transcriber turns a WAV recording into a transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, wav []byte) (Transcript, error)
}

// Capture records microphone audio between Start and Stop. Stop returns
// nil when the recording was too short to use.
type Capture interface {
	Start() error
	Stop() ([]byte, error)
}

// Speaker renders text audibly.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Config holds the transcript gate: recordings below either floor are
// rejected without reaching the brain.
type Config struct {
	MinWords      int
	MinConfidence float64
}

// Pipeline wires the push-to-talk key to capture and transcription.
// PTTDown/PTTUp are safe to call from the input-device listener goroutine;
// processing is handed off so the listener never blocks.
type Pipeline struct {
	cfg     Config
	capture Capture
	stt     Transcriber

	onTranscript func(text string)
	onPTTStart   func()
	onPTTStop    func()

	mu   sync.Mutex
	held bool
}

func NewPipeline(cfg Config, capture Capture, stt Transcriber, onTranscript func(string), onPTTStart, onPTTStop func()) *Pipeline {
	return &Pipeline{
		cfg:          cfg,
		capture:      capture,
		stt:          stt,
		onTranscript: onTranscript,
		onPTTStart:   onPTTStart,
		onPTTStop:    onPTTStop,
	}
}

func (p *Pipeline) PTTDown() {
	p.mu.Lock()
	if p.held {
		p.mu.Unlock()
		return
	}
	p.held = true
	p.mu.Unlock()

	if p.onPTTStart != nil {
		p.onPTTStart()
	}
	if err := p.capture.Start(); err != nil {
		log.Printf("Audio capture start failed: %v", err)
	}
}

func (p *Pipeline) PTTUp() {
	p.mu.Lock()
	if !p.held {
		p.mu.Unlock()
		return
	}
	p.held = false
	p.mu.Unlock()

	wav, err := p.capture.Stop()

	if p.onPTTStop != nil {
		p.onPTTStop()
	}

	if err != nil {
		log.Printf("Audio capture stop failed: %v", err)
		return
	}
	if len(wav) == 0 {
		return
	}
	go p.process(wav)
}

func (p *Pipeline) process(wav []byte) {
	tr, err := p.stt.Transcribe(context.Background(), wav)
	if err != nil {
		log.Printf("Transcription failed: %v", err)
		return
	}
	if !p.accept(tr) {
		return
	}
	log.Printf("Transcribed: %q", tr.Text)
	if p.onTranscript != nil {
		p.onTranscript(tr.Text)
	}
}

func (p *Pipeline) accept(tr Transcript) bool {
	if tr.Confidence < p.cfg.MinConfidence {
		log.Printf("Transcript rejected — confidence %.2f below %.2f", tr.Confidence, p.cfg.MinConfidence)
		return false
	}
	if len(strings.Fields(tr.Text)) < p.cfg.MinWords {
		log.Printf("Transcript too short: %q", tr.Text)
		return false
	}
	return true
}

// NopSpeaker discards output. Used for headless runs and tests.
type NopSpeaker struct{}

func (NopSpeaker) Speak(context.Context, string) error { return nil }
