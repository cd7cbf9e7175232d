package brain

import "sync"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one role-tagged message in the conversation log. Immutable once
// appended.
type Turn struct {
	Role    string
	Content string
}

// History is a rolling window of conversation turns. It keeps at most
// 2 x maxTurns entries (two messages per exchange), discarding oldest first.
type History struct {
	mu       sync.Mutex
	maxTurns int
	turns    []Turn
}

func NewHistory(maxTurns int) *History {
	if maxTurns < 1 {
		maxTurns = 1
	}
	return &History{maxTurns: maxTurns}
}

// AddUser appends a user turn. When a non-empty game state snapshot is
// given, its rendered block is prefixed to the text separated by a blank
// line; an empty snapshot renders to nothing and is omitted.
func (h *History) AddUser(text string, gs *GameState) {
	content := text
	if gs != nil {
		if block := gs.Render(); block != "" {
			content = block + "\n\n" + text
		}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, Turn{Role: RoleUser, Content: content})
	h.trim()
}

func (h *History) AddAssistant(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = append(h.turns, Turn{Role: RoleAssistant, Content: text})
	h.trim()
}

// Messages returns a copy of the window in append order.
func (h *History) Messages() []Turn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) trim() {
	if max := h.maxTurns * 2; len(h.turns) > max {
		h.turns = h.turns[len(h.turns)-max:]
	}
}
