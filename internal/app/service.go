package app

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"telefunken/internal/domain"
)

// Service contains Telefunken use-cases operating on sessions and turns
// their results into per-recipient events.
type Service struct {
	mu   sync.Mutex
	rng  *rand.Rand
	opts domain.Options
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand, opts domain.Options) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng, opts: opts}
}

var (
	ErrNotOwner  = errors.New("actor is not session owner")
	ErrNoSession = errors.New("session not found")
)

// CreateSession opens a session owned by ownerID. Each session gets its own
// random source derived from the service's.
func (s *Service) CreateSession(ownerID string) (*domain.Session, []Event) {
	s.mu.Lock()
	seed := s.rng.Int63()
	s.mu.Unlock()

	sess := domain.NewSession(ownerID, s.opts, rand.New(rand.NewSource(seed)))
	ev, err := s.Snapshot(sess, ownerID, EventGameCreated)
	if err != nil {
		panic(fmt.Sprintf("app: owner missing from new session: %v", err))
	}
	return sess, []Event{ev}
}

// Snapshot builds a single-recipient event carrying userID's view.
func (s *Service) Snapshot(sess *domain.Session, userID string, kind EventKind) (Event, error) {
	view, err := sess.View(userID)
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, Payload: SnapshotPayload{View: view}, Recipients: []string{userID}}, nil
}

// JoinSession seats userID and notifies everyone else.
func (s *Service) JoinSession(sess *domain.Session, userID string) ([]Event, error) {
	if err := sess.AddPlayer(userID); err != nil {
		return nil, err
	}
	joined, err := s.Snapshot(sess, userID, EventGameJoined)
	if err != nil {
		return nil, err
	}
	events := []Event{joined}
	others := make([]string, 0, len(sess.Order)-1)
	for _, id := range sess.Order {
		if id != userID {
			others = append(others, id)
		}
	}
	if len(others) > 0 {
		events = append(events, Event{
			Kind:       EventPlayerJoined,
			Payload:    PlayerJoinedPayload{UserID: userID, PlayerOrder: append([]string(nil), sess.Order...)},
			Recipients: others,
		})
	}
	return events, nil
}

// StartGame deals the first hand. Only the owner may start.
func (s *Service) StartGame(sess *domain.Session, actorID string) ([]Event, error) {
	if actorID != sess.Owner {
		return nil, ErrNotOwner
	}
	if err := sess.StartGame(); err != nil {
		return nil, err
	}
	return s.broadcastSnapshots(sess, EventGameStarted), nil
}

// PlayMove executes actorID's move and advances the session.
func (s *Service) PlayMove(sess *domain.Session, actorID string, move domain.PlayerMove) (domain.AdvanceOutcome, []Event, error) {
	if err := sess.ExecutePlayerMove(actorID, move); err != nil {
		return domain.AdvanceInvalid, nil, err
	}
	outcome, err := sess.Advance()
	if err != nil {
		// unreachable: the session was in progress when the move was accepted
		panic(fmt.Sprintf("app: advance after accepted move: %v", err))
	}

	switch outcome {
	case domain.AdvanceTurnChanged:
		return outcome, s.broadcastSnapshots(sess, EventTurnChanged), nil
	case domain.AdvanceDealChanged:
		return outcome, s.broadcastSnapshots(sess, EventDealChanged), nil
	default:
		return outcome, s.gameEnded(sess), nil
	}
}

// BuyCard buys the top discard for actorID. Everyone learns which card was
// taken; only the buyer learns the bonus card.
func (s *Service) BuyCard(sess *domain.Session, actorID string, card domain.Card) ([]Event, error) {
	drawn, err := sess.BuyCard(actorID, card)
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(sess.Order))
	for _, id := range sess.Order {
		view, _ := sess.View(id)
		payload := CardBoughtPayload{UserID: actorID, Card: card, View: view}
		if id == actorID {
			d := drawn
			payload.Drawn = &d
		}
		events = append(events, Event{Kind: EventCardBought, Payload: payload, Recipients: []string{id}})
	}
	return events, nil
}

func (s *Service) broadcastSnapshots(sess *domain.Session, kind EventKind) []Event {
	events := make([]Event, 0, len(sess.Order))
	for _, id := range sess.Order {
		ev, err := s.Snapshot(sess, id, kind)
		if err != nil {
			panic(fmt.Sprintf("app: seated player %s has no view: %v", id, err))
		}
		events = append(events, ev)
	}
	return events
}

func (s *Service) gameEnded(sess *domain.Session) []Event {
	totals := sess.Totals()
	events := make([]Event, 0, len(sess.Order))
	for _, id := range sess.Order {
		view, _ := sess.View(id)
		events = append(events, Event{
			Kind:       EventGameEnded,
			Payload:    GameEndedPayload{View: view, History: sess.History, Totals: totals},
			Recipients: []string{id},
		})
	}
	return events
}
