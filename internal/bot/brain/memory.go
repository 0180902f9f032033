package brain

import (
	"telefunken/internal/domain"
)

// GameMemory stores what a bot has learned about its opponents during the
// current deal. Bought cards are public, so they reveal what a player is
// collecting.
type GameMemory struct {
	// Bought lists the cards each opponent bought this deal.
	Bought map[string][]domain.Card
	// Discarded lists the cards each opponent threw away this deal.
	Discarded map[string][]domain.Card
}

// NewMemory initializes a fresh memory state.
func NewMemory() *GameMemory {
	m := &GameMemory{}
	m.Reset()
	return m
}

// Reset clears the memory for a new deal.
func (m *GameMemory) Reset() {
	m.Bought = make(map[string][]domain.Card)
	m.Discarded = make(map[string][]domain.Card)
}

// RecordBuy notes that playerID bought c.
func (m *GameMemory) RecordBuy(playerID string, c domain.Card) {
	m.Bought[playerID] = append(m.Bought[playerID], c)
}

// RecordDiscard notes that playerID discarded c.
func (m *GameMemory) RecordDiscard(playerID string, c domain.Card) {
	m.Discarded[playerID] = append(m.Discarded[playerID], c)
}

// Wants reports whether playerID looks like it is collecting c: it bought a
// card of the same rank, or one within two ranks in the same suit, and has
// not discarded that rank since.
func (m *GameMemory) Wants(playerID string, c domain.Card) bool {
	if c.IsJoker() {
		return true
	}
	for _, b := range m.Bought[playerID] {
		if b.IsJoker() {
			continue
		}
		if b.Rank() == c.Rank() && !m.discardedRank(playerID, c.Rank()) {
			return true
		}
		if b.Suit() == c.Suit() {
			if d := int(b.Rank()) - int(c.Rank()); d >= -2 && d <= 2 {
				return true
			}
		}
	}
	return false
}

func (m *GameMemory) discardedRank(playerID string, r domain.Rank) bool {
	for _, d := range m.Discarded[playerID] {
		if !d.IsJoker() && d.Rank() == r {
			return true
		}
	}
	return false
}
