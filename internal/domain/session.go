package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Phase is the lifecycle state of a Session.
type Phase string

const (
	PhaseWaitingForPlayers Phase = "waiting"
	PhaseInProgress        Phase = "in_progress"
	PhaseFinished          Phase = "finished"
)

// AdvanceOutcome reports what Advance changed.
type AdvanceOutcome int

const (
	AdvanceInvalid AdvanceOutcome = iota
	AdvanceTurnChanged
	AdvanceDealChanged
	AdvanceGameEnded
)

func (o AdvanceOutcome) String() string {
	switch o {
	case AdvanceTurnChanged:
		return "turn_changed"
	case AdvanceDealChanged:
		return "deal_changed"
	case AdvanceGameEnded:
		return "game_ended"
	default:
		return "invalid"
	}
}

const (
	DefaultMaxPlayers    = 4
	DefaultHandSize      = 13
	DefaultStartingChips = 6
	MinPlayers           = 2
)

// Options tune a Session. Zero fields take the defaults above.
type Options struct {
	MaxPlayers    int
	HandSize      int
	StartingChips int
	Deals         []DealConstraint
}

func (o Options) withDefaults() Options {
	if o.MaxPlayers <= 0 {
		o.MaxPlayers = DefaultMaxPlayers
	}
	if o.HandSize <= 0 {
		o.HandSize = DefaultHandSize
	}
	if o.StartingChips <= 0 {
		o.StartingChips = DefaultStartingChips
	}
	if len(o.Deals) == 0 {
		o.Deals = StandardDeals()
	}
	return o
}

// BuyRecord is one purchase: the discard taken and the bonus card drawn.
type BuyRecord struct {
	Card  Card
	Drawn Card
}

// Player is a seat in a Session.
type Player struct {
	ID              string
	Hand            []Card
	Melds           []Meld
	Compliance      []bool // one flag per deal
	Chips           int
	BoughtThisRound bool
	TurnsThisDeal   int
	Bought          []BuyRecord
}

// Session holds the state of one game. It is not safe for concurrent use;
// the host serializes calls per session.
type Session struct {
	Phase       Phase
	Owner       string
	Order       []string // join order, clockwise
	Players     map[string]*Player
	DrawPile    []Card
	DiscardPile []Card // top is the last element
	Dealer      string
	TurnPlayer  string
	Deal        int
	Turn        int // turns completed in the current deal

	ExtraRound     bool
	ExtraTurnsLeft int

	History []DealSummary

	opts   Options
	rng    *rand.Rand
	moved  bool
	dealer int
}

// NewSession creates a session waiting for players with owner seated.
// A nil rng is seeded from the clock.
func NewSession(owner string, opts Options, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &Session{
		Phase:   PhaseWaitingForPlayers,
		Owner:   owner,
		Players: make(map[string]*Player),
		opts:    opts.withDefaults(),
		rng:     rng,
	}
	s.DrawPile = BuildShuffledDeck(rng, TotalCards)
	s.seat(owner)
	return s
}

// Deals returns a copy of the deal table in play.
func (s *Session) Deals() []DealConstraint {
	return append([]DealConstraint(nil), s.opts.Deals...)
}

// MaxPlayers is the seat limit.
func (s *Session) MaxPlayers() int { return s.opts.MaxPlayers }

// IsFull reports whether every seat is taken.
func (s *Session) IsFull() bool { return len(s.Order) >= s.opts.MaxPlayers }

// HasPlayer reports whether id holds a seat.
func (s *Session) HasPlayer(id string) bool {
	_, ok := s.Players[id]
	return ok
}

// CurrentConstraint is the constraint of the deal being played, or of the
// last deal once the game is finished.
func (s *Session) CurrentConstraint() DealConstraint {
	if s.Deal >= len(s.opts.Deals) {
		return s.opts.Deals[len(s.opts.Deals)-1]
	}
	return s.opts.Deals[s.Deal]
}

// AddPlayer seats id at the end of the rotation.
func (s *Session) AddPlayer(id string) error {
	if s.Phase != PhaseWaitingForPlayers {
		return ErrNotWaiting
	}
	if s.IsFull() {
		return ErrSessionFull
	}
	if s.HasPlayer(id) {
		return ErrDuplicatePlayer
	}
	s.seat(id)
	return nil
}

func (s *Session) seat(id string) {
	s.Players[id] = &Player{
		ID:         id,
		Compliance: make([]bool, len(s.opts.Deals)),
		Chips:      s.opts.StartingChips,
	}
	s.Order = append(s.Order, id)
}

// StartGame picks a random dealer and deals the first hand.
func (s *Session) StartGame() error {
	if s.Phase != PhaseWaitingForPlayers {
		return ErrNotWaiting
	}
	if len(s.Order) < MinPlayers {
		return ErrTooFewPlayers
	}
	s.Phase = PhaseInProgress
	s.Deal = 0
	s.startDeal(s.rng.Intn(len(s.Order)))
	return nil
}

func (s *Session) startDeal(dealer int) {
	s.DrawPile = BuildShuffledDeck(s.rng, TotalCards)
	s.DiscardPile = nil
	for _, id := range s.Order {
		p := s.mustPlayer(id)
		p.Hand = s.drawN(s.opts.HandSize)
		p.Melds = nil
		p.BoughtThisRound = false
		p.TurnsThisDeal = 0
		p.Bought = nil
	}
	s.DiscardPile = append(s.DiscardPile, s.popDraw())

	s.dealer = dealer
	s.Dealer = s.Order[dealer]
	first := s.mustPlayer(s.Order[(dealer+1)%len(s.Order)])
	first.Hand = append(first.Hand, s.popDraw())
	s.TurnPlayer = first.ID
	s.Turn = 0
	s.ExtraRound = false
	s.ExtraTurnsLeft = 0
	s.moved = false
}

// Advance closes the current turn and moves play forward.
func (s *Session) Advance() (AdvanceOutcome, error) {
	if s.Phase != PhaseInProgress {
		return AdvanceInvalid, ErrNotInProgress
	}
	current := s.mustPlayer(s.TurnPlayer)
	current.TurnsThisDeal++
	s.Turn++
	s.moved = false

	if s.dealOver(current) {
		return s.closeDeal(), nil
	}
	if s.Turn%len(s.Order) == 0 {
		for _, p := range s.Players {
			p.BoughtThisRound = false
		}
	}

	card, ok := s.draw()
	if !ok {
		// both piles are spent; nobody can continue this deal
		return s.closeDeal(), nil
	}
	next := s.mustPlayer(s.nextPlayer(s.TurnPlayer))
	next.Hand = append(next.Hand, card)
	s.TurnPlayer = next.ID
	return AdvanceTurnChanged, nil
}

func (s *Session) dealOver(current *Player) bool {
	if !s.ExtraRound {
		return len(current.Hand) == 0
	}
	if s.ExtraTurnsLeft == 0 {
		return true
	}
	s.ExtraTurnsLeft--
	return false
}

func (s *Session) closeDeal() AdvanceOutcome {
	s.History = append(s.History, s.summarizeDeal())
	s.Deal++
	if s.Deal >= len(s.opts.Deals) {
		s.Phase = PhaseFinished
		s.TurnPlayer = ""
		return AdvanceGameEnded
	}
	s.startDeal((s.dealer + 1) % len(s.Order))
	return AdvanceDealChanged
}

func (s *Session) nextPlayer(id string) string {
	for i, pid := range s.Order {
		if pid == id {
			return s.Order[(i+1)%len(s.Order)]
		}
	}
	panic(fmt.Sprintf("domain: turn player %q not seated", id))
}

// BuyCard takes the top discard plus a bonus card for one chip. It may be
// called out of turn and returns the bonus card.
func (s *Session) BuyCard(playerID string, card Card) (Card, error) {
	if s.Phase != PhaseInProgress {
		return 0, ErrNotInProgress
	}
	p, ok := s.Players[playerID]
	if !ok {
		return 0, ErrUnknownPlayer
	}
	switch {
	case p.BoughtThisRound:
		return 0, ErrAlreadyBought
	case p.Chips <= 0:
		return 0, ErrNoChips
	case len(s.DiscardPile) == 0:
		return 0, ErrDiscardEmpty
	case s.DiscardPile[len(s.DiscardPile)-1] != card:
		return 0, ErrNotTopDiscard
	}
	// after the top card leaves, a reshuffle needs two discards to keep a seed
	if len(s.DrawPile) == 0 && len(s.DiscardPile) < 3 {
		return 0, ErrNoCardsLeft
	}

	s.DiscardPile = s.DiscardPile[:len(s.DiscardPile)-1]
	drawn, _ := s.draw()
	s.replenish()
	p.Hand = append(p.Hand, card, drawn)
	p.Chips--
	p.BoughtThisRound = true
	p.Bought = append(p.Bought, BuyRecord{Card: card, Drawn: drawn})
	return drawn, nil
}

// draw pops the draw pile, reshuffling the discard pile into it first if
// needed.
func (s *Session) draw() (Card, bool) {
	s.replenish()
	if len(s.DrawPile) == 0 {
		return 0, false
	}
	return s.popDraw(), true
}

// replenish turns all but the top discard into a new draw pile when the
// draw pile is empty.
func (s *Session) replenish() {
	if len(s.DrawPile) > 0 || len(s.DiscardPile) < 2 {
		return
	}
	top := s.DiscardPile[len(s.DiscardPile)-1]
	s.DrawPile = ShuffleDeck(s.rng, cloneCards(s.DiscardPile[:len(s.DiscardPile)-1]))
	s.DiscardPile = []Card{top}
}

func (s *Session) popDraw() Card {
	n := len(s.DrawPile)
	if n == 0 {
		panic("domain: draw from empty pile")
	}
	c := s.DrawPile[n-1]
	s.DrawPile = s.DrawPile[:n-1]
	return c
}

func (s *Session) drawN(n int) []Card {
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.popDraw())
	}
	return out
}

func (s *Session) mustPlayer(id string) *Player {
	p, ok := s.Players[id]
	if !ok {
		panic(fmt.Sprintf("domain: player %q missing from session", id))
	}
	return p
}

// CardCount counts every card the session holds across piles, hands and
// melds. It always equals TotalCards.
func (s *Session) CardCount() int {
	n := len(s.DrawPile) + len(s.DiscardPile)
	for _, p := range s.Players {
		n += len(p.Hand)
		for _, m := range p.Melds {
			n += len(m)
		}
	}
	return n
}
