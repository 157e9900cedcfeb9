package domain

type Strategy string

const (
	StrategyCommand    Strategy = "command"
	StrategyGenerative Strategy = "generative"
)

func ParseStrategy(s string) (Strategy, bool) {
	switch s {
	case "command", "cmd":
		return StrategyCommand, true
	case "generative", "llm":
		return StrategyGenerative, true
	}
	return "", false
}

// StrategyConfig is a stored per-user or per-group configuration record.
type StrategyConfig struct {
	Strategy     Strategy
	Model        string
	CustomPrompt string
}

// EffectiveConfig is the configuration actually applied to one message after
// precedence resolution (group record, then user record, then defaults).
// It is derived, never persisted.
type EffectiveConfig struct {
	Strategy     Strategy
	Model        string
	CustomPrompt string
}

const MaxCustomPromptLength = 2000
