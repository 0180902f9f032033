package brain

import (
	"testing"

	"telefunken/internal/domain"
)

func card(s domain.Suit, r domain.Rank) domain.Card {
	return domain.Card(int(s)*13 + int(r) - 1)
}

func TestMemory_Wants(t *testing.T) {
	m := NewMemory()
	m.RecordBuy("p2", card(domain.Hearts, domain.Nine))

	tests := []struct {
		name string
		c    domain.Card
		want bool
	}{
		{"same rank", card(domain.Clubs, domain.Nine), true},
		{"same suit nearby", card(domain.Hearts, domain.Jack), true},
		{"same suit far", card(domain.Hearts, domain.King), false},
		{"other suit other rank", card(domain.Spades, domain.Four), false},
		{"joker", domain.Card(51), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Wants("p2", tt.c); got != tt.want {
				t.Errorf("Wants(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}

	if m.Wants("p3", card(domain.Clubs, domain.Nine)) {
		t.Error("p3 bought nothing")
	}
}

func TestMemory_DiscardCancelsRank(t *testing.T) {
	m := NewMemory()
	m.RecordBuy("p2", card(domain.Hearts, domain.Nine))
	m.RecordDiscard("p2", card(domain.Diamonds, domain.Nine))

	if m.Wants("p2", card(domain.Clubs, domain.Nine)) {
		t.Error("p2 discarded a nine after buying one")
	}

	m.Reset()
	if m.Wants("p2", card(domain.Hearts, domain.Ten)) {
		t.Error("memory survived a reset")
	}
}
