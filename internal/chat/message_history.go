package chat

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Turn struct {
	Role Role
	Text string
}

// History is an ordered list of turns. Turns are appended and evicted in
// user/model pairs so the sequence always alternates starting with a user turn.
type History struct {
	turns    []Turn
	maxTurns int
}

// NewHistory returns an empty history holding at most maxTurns turns. A
// maxTurns <= 0 means the history is never trimmed.
func NewHistory(maxTurns int) *History {
	if maxTurns > 0 && maxTurns%2 != 0 {
		maxTurns++
	}
	return &History{maxTurns: maxTurns}
}

func (h *History) AppendExchange(userText, modelText string) {
	h.turns = append(h.turns,
		Turn{Role: RoleUser, Text: userText},
		Turn{Role: RoleModel, Text: modelText},
	)

	if h.maxTurns > 0 && len(h.turns) > h.maxTurns {
		drop := len(h.turns) - h.maxTurns
		h.turns = append(h.turns[:0:0], h.turns[drop:]...)
	}
}

func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

func (h *History) Len() int {
	return len(h.turns)
}

func (h *History) Clear() {
	h.turns = nil
}
