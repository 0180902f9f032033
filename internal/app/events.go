package app

import "telefunken/internal/domain"

// EventKind identifies emitted game events for Nakama dispatch.
type EventKind string

const (
	EventGameCreated  EventKind = "game_created"
	EventGameJoined   EventKind = "game_joined"
	EventPlayerJoined EventKind = "player_joined"
	EventGameStarted  EventKind = "game_started"
	EventTurnChanged  EventKind = "turn_changed"
	EventDealChanged  EventKind = "deal_changed"
	EventGameEnded    EventKind = "game_ended"
	EventCardBought   EventKind = "card_bought"
)

// Event is an app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

// SnapshotPayload carries one recipient's view of the session.
type SnapshotPayload struct {
	View domain.ClientView
}

type PlayerJoinedPayload struct {
	UserID      string
	PlayerOrder []string
}

// CardBoughtPayload reveals Drawn only to the buyer.
type CardBoughtPayload struct {
	UserID string
	Card   domain.Card
	Drawn  *domain.Card
	View   domain.ClientView
}

type GameEndedPayload struct {
	View    domain.ClientView
	History []domain.DealSummary
	Totals  map[string]int
}
