package bot

import (
	"fmt"

	"telefunken/internal/bot/brain"
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelBasic:
		return &BasicBot{}, nil
	case BotLevelGreedy:
		return &GreedyBot{Tuning: DefaultTuning, Memory: brain.NewMemory()}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
