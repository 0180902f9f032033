package domain

import (
	"math/rand"
	"sort"
)

// NewDeck returns the ordered cards [0, size).
func NewDeck(size int) []Card {
	deck := make([]Card, size)
	for i := range deck {
		deck[i] = Card(i)
	}
	return deck
}

// ShuffleDeck shuffles cards in place and returns them. It works on any
// sub-list, so a discard pile can be turned back into a draw pile.
func ShuffleDeck(rng *rand.Rand, cards []Card) []Card {
	rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return cards
}

// BuildShuffledDeck returns an independently shuffled deck of the given size.
func BuildShuffledDeck(rng *rand.Rand, size int) []Card {
	return ShuffleDeck(rng, NewDeck(size))
}

// SortCards orders cards by rank, then suit, with jokers last.
func SortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return sortKey(cards[i]) < sortKey(cards[j])
	})
}

func sortKey(c Card) int {
	if c.IsJoker() {
		return 1<<20 + int(c)
	}
	return (int(c.Rank())*4+int(c.Suit()))*TotalCards + int(c)
}

// RemoveCards removes one occurrence of each card in toRemove from hand.
// It returns a new slice and false if any card is missing; hand is never
// modified.
func RemoveCards(hand []Card, toRemove []Card) ([]Card, bool) {
	counts := make(map[Card]int, len(toRemove))
	for _, c := range toRemove {
		counts[c]++
	}
	out := make([]Card, 0, len(hand))
	for _, c := range hand {
		if counts[c] > 0 {
			counts[c]--
			continue
		}
		out = append(out, c)
	}
	for _, n := range counts {
		if n > 0 {
			return nil, false
		}
	}
	return out, true
}

// ContainsAll reports whether hand holds every card in cards.
func ContainsAll(hand []Card, cards []Card) bool {
	_, ok := RemoveCards(hand, cards)
	return ok
}

func cloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	return append([]Card(nil), cards...)
}
