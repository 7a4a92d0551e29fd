package core

// Interaction represents one-shot UI sounds, independent of mode
type Interaction int

const (
	InteractionHover Interaction = iota // Pointer over an answer
	InteractionClick                    // Answer selected
	InteractionWrong                    // Wrong answer buzz
	InteractionCount
)

func (i Interaction) String() string {
	names := [...]string{"hover", "click", "wrong"}
	if int(i) >= 0 && int(i) < len(names) {
		return names[i]
	}
	return "unknown"
}
