package domain

import "fmt"

// Card identifies one physical card. Two 54-card decks are in play, so
// card % CardsPerDeck gives the position inside a single deck.
type Card int

const (
	CardsPerDeck = 54
	DeckCount    = 2
	TotalCards   = CardsPerDeck * DeckCount

	// positions above this are the jokers of a deck
	lastRankedPosition = 50
)

// Suit of a ranked card.
type Suit int

const (
	Clubs Suit = iota
	Hearts
	Diamonds
	Spades
	NoSuit // jokers
)

// Rank of a ranked card, Ace low.
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

func (c Card) position() int { return int(c) % CardsPerDeck }

// Valid reports whether c belongs to the two-deck universe.
func (c Card) Valid() bool { return c >= 0 && int(c) < TotalCards }

// IsJoker reports whether c sits in one of the joker positions (51..53).
func (c Card) IsJoker() bool { return c.position() > lastRankedPosition }

// Suit returns NoSuit for jokers.
func (c Card) Suit() Suit {
	if c.IsJoker() {
		return NoSuit
	}
	return Suit(c.position() / 13)
}

// Rank panics on a joker; callers check IsJoker first.
func (c Card) Rank() Rank {
	if c.IsJoker() {
		panic(fmt.Sprintf("domain: rank of joker card %d", int(c)))
	}
	return Rank(c.position()%13 + 1)
}

// IsTwo reports whether c is a ranked Two, which may act as a wildcard.
func (c Card) IsTwo() bool { return !c.IsJoker() && c.Rank() == Two }

// Value is the penalty a card scores when left in hand at the end of a deal.
func (c Card) Value() int {
	if c.IsJoker() {
		return 20
	}
	switch r := c.Rank(); {
	case r == Ace:
		return 15
	case r == Two:
		return 20
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

var (
	rankNames = [...]string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	suitNames = [...]string{"C", "H", "D", "S"}
)

func (c Card) String() string {
	if c.IsJoker() {
		return "JK"
	}
	return rankNames[c.Rank()] + suitNames[c.Suit()]
}

// HandValue sums the penalty value of cards.
func HandValue(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Value()
	}
	return total
}
