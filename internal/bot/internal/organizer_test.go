package internal

import (
	"testing"

	"telefunken/internal/domain"
)

func TestPlanOpening_TwoTriples(t *testing.T) {
	hand := []domain.Card{
		card(domain.Clubs, domain.Seven),
		card(domain.Hearts, domain.Seven),
		card(domain.Diamonds, domain.Seven),
		card(domain.Spades, domain.Three),
		card(domain.Spades, domain.Four),
		card(domain.Spades, domain.Five),
		card(domain.Diamonds, domain.King),
	}
	c := domain.StandardDeals()[0]

	melds, ok := PlanOpening(hand, c)
	if !ok {
		t.Fatal("expected an opening")
	}
	if !domain.DoMeldsSatisfyDealConstraint(melds, c) {
		t.Errorf("opening %v does not satisfy %v", melds, c)
	}
	rest := hand
	for _, m := range melds {
		var removed bool
		rest, removed = domain.RemoveCards(rest, m)
		if !removed {
			t.Fatalf("melds overlap or use cards outside the hand: %v", melds)
		}
	}
	if len(rest) != 1 || rest[0] != card(domain.Diamonds, domain.King) {
		t.Errorf("unexpected leftover %v", rest)
	}
}

func TestPlanOpening_PureRejectsJoker(t *testing.T) {
	hand := []domain.Card{
		card(domain.Clubs, domain.Seven),
		card(domain.Hearts, domain.Seven),
		card(domain.Diamonds, domain.Seven),
		joker,
	}
	pure := domain.DealConstraint{RequiredMelds: 1, Shape: domain.CombinationShape{ExactSize: 4, PureOnly: true}}
	if _, ok := PlanOpening(hand, pure); ok {
		t.Error("pure constraint met with a joker")
	}
	loose := domain.DealConstraint{RequiredMelds: 1, Shape: domain.CombinationShape{ExactSize: 4}}
	if _, ok := PlanOpening(hand, loose); !ok {
		t.Error("expected 7 7 7 JK to open 1 x 4")
	}
}

func TestPlanFreeMelds(t *testing.T) {
	hand := []domain.Card{
		card(domain.Hearts, domain.Three),
		card(domain.Hearts, domain.Four),
		card(domain.Hearts, domain.Five),
		card(domain.Hearts, domain.Six),
		card(domain.Clubs, domain.Nine),
	}
	melds, rest := PlanFreeMelds(hand, 0)
	if len(melds) != 1 || len(melds[0]) != 4 {
		t.Fatalf("expected the four card run, got %v", melds)
	}
	if len(rest) != 1 || rest[0] != card(domain.Clubs, domain.Nine) {
		t.Errorf("unexpected leftover %v", rest)
	}
}

func TestPlanLayoffs(t *testing.T) {
	table := map[string][]domain.Meld{
		"p1": {{card(domain.Hearts, domain.Four), card(domain.Hearts, domain.Five), card(domain.Hearts, domain.Six)}},
		"p2": {{card(domain.Clubs, domain.Seven), card(domain.Hearts, domain.Seven), card(domain.Diamonds, domain.Seven)}},
	}
	hand := []domain.Card{
		card(domain.Hearts, domain.Three),
		card(domain.Spades, domain.Seven),
		card(domain.Diamonds, domain.King),
		joker,
	}

	mods, rest := PlanLayoffs(hand, []string{"p1", "p2"}, table, false)
	if len(mods) != 2 {
		t.Fatalf("expected two layoffs, got %+v", mods)
	}
	if len(rest) != 2 {
		t.Errorf("expected KD and the joker to stay, got %v", rest)
	}
	if len(table["p1"][0]) != 3 {
		t.Error("table melds were modified in place")
	}

	mods, _ = PlanLayoffs(hand, []string{"p1", "p2"}, table, true)
	if len(mods) != 3 {
		t.Errorf("expected the joker to be laid off too, got %+v", mods)
	}
}

func TestPlanLayoffs_Chains(t *testing.T) {
	table := map[string][]domain.Meld{
		"p1": {{card(domain.Hearts, domain.Four), card(domain.Hearts, domain.Five), card(domain.Hearts, domain.Six)}},
	}
	hand := []domain.Card{card(domain.Hearts, domain.Eight), card(domain.Hearts, domain.Seven)}

	mods, rest := PlanLayoffs(hand, []string{"p1"}, table, false)
	if len(mods) != 2 || len(rest) != 0 {
		t.Fatalf("expected both cards laid off, got %+v leaving %v", mods, rest)
	}
	for _, m := range mods {
		if m.Owner != "p1" || m.MeldIndex != 0 {
			t.Errorf("unexpected target %+v", m)
		}
	}
}

func TestChooseDiscard(t *testing.T) {
	hand := []domain.Card{
		card(domain.Diamonds, domain.King),
		card(domain.Clubs, domain.Seven),
		card(domain.Hearts, domain.Seven),
		joker,
	}
	tuning := Tuning{PartnerWeight: 5, WantedWeight: 100}

	if got := ChooseDiscard(hand, tuning, nil); got != card(domain.Diamonds, domain.King) {
		t.Errorf("expected KD, got %v", got)
	}

	kingWanted := func(c domain.Card) bool { return c == card(domain.Diamonds, domain.King) }
	if got := ChooseDiscard(hand, tuning, kingWanted); got != card(domain.Clubs, domain.Seven) {
		t.Errorf("expected 7C when KD is wanted, got %v", got)
	}

	if got := ChooseDiscard([]domain.Card{joker, card(domain.Clubs, domain.Two)}, tuning, nil); !IsWild(got) {
		t.Errorf("expected a wildcard, got %v", got)
	}
}
