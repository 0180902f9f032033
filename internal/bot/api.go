package bot

import (
	"errors"
	"strings"

	"telefunken/internal/domain"
)

// ErrNotMyTurn is returned when a brain is asked to move out of turn.
var ErrNotMyTurn = errors.New("bot: not this bot's turn")

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// CalculateMove plans the whole turn of the viewing player.
	CalculateMove(view domain.ClientView) (domain.PlayerMove, error)
	// WantsDiscard decides whether to buy the top discard right now.
	WantsDiscard(view domain.ClientView) bool
	OnEvent(event interface{})
}

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelBasic BotLevel = iota
	BotLevelGreedy
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelBasic:
		return "basic"
	case BotLevelGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// ParseLevel maps an identity difficulty or a level name to a level.
// Unknown names get the strongest level.
func ParseLevel(name string) BotLevel {
	switch strings.ToLower(name) {
	case "easy", "basic":
		return BotLevelBasic
	default:
		return BotLevelGreedy
	}
}

// Events a brain may observe.
type (
	// CardDiscarded is sent after a player ends a turn with a discard.
	CardDiscarded struct {
		PlayerID string
		Card     domain.Card
	}
	// CardBought is sent after a successful buy.
	CardBought struct {
		PlayerID string
		Card     domain.Card
	}
	// DealStarted is sent when a new deal is dealt.
	DealStarted struct {
		Deal int
	}
)
