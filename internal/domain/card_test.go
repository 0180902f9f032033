package domain

import (
	"math/rand"
	"testing"
)

// c builds a first-deck card.
func c(s Suit, r Rank) Card { return Card(int(s)*13 + int(r) - 1) }

// second returns the same card from the second deck.
func second(card Card) Card { return card + CardsPerDeck }

const (
	joker1 = Card(51)
	joker2 = Card(52)
	joker3 = Card(53)
)

func TestCardCodec(t *testing.T) {
	tests := []struct {
		name  string
		card  Card
		joker bool
		suit  Suit
		rank  Rank
		value int
	}{
		{"ace of clubs", 0, false, Clubs, Ace, 15},
		{"two of clubs", 1, false, Clubs, Two, 20},
		{"nine of clubs", 8, false, Clubs, Nine, 9},
		{"ten of clubs", 9, false, Clubs, Ten, 10},
		{"king of clubs", 12, false, Clubs, King, 10},
		{"ace of hearts", 13, false, Hearts, Ace, 15},
		{"seven of diamonds", 32, false, Diamonds, Seven, 7},
		{"queen of spades", 50, false, Spades, Queen, 10},
		{"first joker", 51, true, NoSuit, 0, 20},
		{"last joker of deck one", 53, true, NoSuit, 0, 20},
		{"ace of clubs second deck", 54, false, Clubs, Ace, 15},
		{"last card", 107, true, NoSuit, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.card.IsJoker(); got != tt.joker {
				t.Fatalf("IsJoker() = %v, want %v", got, tt.joker)
			}
			if got := tt.card.Suit(); got != tt.suit {
				t.Fatalf("Suit() = %v, want %v", got, tt.suit)
			}
			if !tt.joker {
				if got := tt.card.Rank(); got != tt.rank {
					t.Fatalf("Rank() = %v, want %v", got, tt.rank)
				}
			}
			if got := tt.card.Value(); got != tt.value {
				t.Fatalf("Value() = %d, want %d", got, tt.value)
			}
		})
	}
}

func TestRankOfJokerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	_ = joker1.Rank()
}

func TestCardString(t *testing.T) {
	if got := c(Hearts, Seven).String(); got != "7H" {
		t.Fatalf("got %q", got)
	}
	if got := c(Diamonds, Ten).String(); got != "10D" {
		t.Fatalf("got %q", got)
	}
	if got := joker2.String(); got != "JK" {
		t.Fatalf("got %q", got)
	}
}

func TestHandValue(t *testing.T) {
	hand := []Card{c(Clubs, Ace), c(Hearts, Two), c(Spades, Five), c(Diamonds, Jack), joker3}
	if got := HandValue(hand); got != 15+20+5+10+20 {
		t.Fatalf("HandValue = %d", got)
	}
}

func TestBuildShuffledDeckIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deck := BuildShuffledDeck(rng, TotalCards)
	if len(deck) != TotalCards {
		t.Fatalf("len = %d", len(deck))
	}
	seen := make(map[Card]bool, TotalCards)
	for _, card := range deck {
		if !card.Valid() || seen[card] {
			t.Fatalf("bad or duplicate card %d", card)
		}
		seen[card] = true
	}

	again := BuildShuffledDeck(rng, TotalCards)
	same := true
	for i := range deck {
		if deck[i] != again[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("two shuffles produced the same order")
	}
}

func TestShuffleSubList(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pile := []Card{4, 9, 17, 60, 61}
	out := ShuffleDeck(rng, pile)
	if len(out) != 5 || !ContainsAll(out, []Card{4, 9, 17, 60, 61}) {
		t.Fatalf("shuffle lost cards: %v", out)
	}
}

func TestRemoveCards(t *testing.T) {
	hand := []Card{1, 2, 3, 2 + CardsPerDeck}

	out, ok := RemoveCards(hand, []Card{2, 3})
	if !ok || len(out) != 2 || out[0] != 1 || out[1] != 2+CardsPerDeck {
		t.Fatalf("RemoveCards = %v, %v", out, ok)
	}
	if len(hand) != 4 {
		t.Fatal("input hand was modified")
	}

	if _, ok := RemoveCards(hand, []Card{3, 3}); ok {
		t.Fatal("removing a card twice should fail")
	}
	if _, ok := RemoveCards(hand, []Card{99}); ok {
		t.Fatal("removing a missing card should fail")
	}
}
