package bot

import (
	"telefunken/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent builds the agent for a bot user. The level comes from the bot's
// identity difficulty when one is loaded.
func NewAgent(userID string) (*Agent, error) {
	level := BotLevelGreedy
	if cfg, ok := GetBotConfig(userID); ok {
		level = ParseLevel(cfg.Difficulty)
	}
	return NewAgentWithLevel(userID, GetBotDisplayName(userID), level)
}

// NewAgentWithLevel builds an agent with an explicit strategy level.
func NewAgentWithLevel(userID, name string, level BotLevel) (*Agent, error) {
	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = userID
	}
	return &Agent{ID: userID, Name: name, Strategy: brain}, nil
}

// Play asks the agent to calculate its move based on the current game state.
// On failure the returned move is still legal to submit.
func (a *Agent) Play(sess *domain.Session) (domain.PlayerMove, error) {
	view, err := sess.View(a.ID)
	if err != nil {
		return domain.PlayerMove{}, err
	}
	move, err := a.Strategy.CalculateMove(view)
	if err != nil {
		return FallbackMove(view), err
	}
	return move, nil
}

// Fallback is the move to submit when the planned one was rejected.
func (a *Agent) Fallback(sess *domain.Session) (domain.PlayerMove, error) {
	view, err := sess.View(a.ID)
	if err != nil {
		return domain.PlayerMove{}, err
	}
	return FallbackMove(view), nil
}

// WantsBuy reports the top discard when the agent wants to buy it.
func (a *Agent) WantsBuy(sess *domain.Session) (domain.Card, bool) {
	view, err := sess.View(a.ID)
	if err != nil {
		return 0, false
	}
	top, ok := view.TopDiscard()
	if !ok || !a.Strategy.WantsDiscard(view) {
		return 0, false
	}
	return top, true
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event interface{}) {
	a.Strategy.OnEvent(event)
}
