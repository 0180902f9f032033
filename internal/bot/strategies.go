package bot

import (
	"telefunken/internal/bot/brain"
	botinternal "telefunken/internal/bot/internal"
	"telefunken/internal/domain"
)

// BasicBot opens as soon as it can and otherwise throws its heaviest card.
// It never buys and never touches the table.
type BasicBot struct{}

func (b *BasicBot) CalculateMove(view domain.ClientView) (domain.PlayerMove, error) {
	if err := checkTurn(view); err != nil {
		return domain.PlayerMove{}, err
	}
	hand := append([]domain.Card(nil), view.Hand...)
	var move domain.PlayerMove
	if !view.FirstTurn && !view.Compliant() {
		if melds, ok := botinternal.PlanOpening(hand, view.CurrentConstraint()); ok {
			move.Melds = melds
			hand = withoutMelds(hand, melds)
		}
	}
	if len(hand) == 0 {
		return move, nil
	}
	d := heaviest(hand)
	move.Discard = &d
	return move, nil
}

func (b *BasicBot) WantsDiscard(view domain.ClientView) bool { return false }

func (b *BasicBot) OnEvent(event interface{}) {}

// GreedyBot empties its hand as fast as the rules allow: it opens, melds
// everything it can, lays cards off on any table meld and buys discards that
// complete a combination.
type GreedyBot struct {
	Tuning botinternal.Tuning
	Memory *brain.GameMemory
}

func (b *GreedyBot) CalculateMove(view domain.ClientView) (domain.PlayerMove, error) {
	if err := checkTurn(view); err != nil {
		return domain.PlayerMove{}, err
	}
	hand := append([]domain.Card(nil), view.Hand...)
	var move domain.PlayerMove

	if !view.FirstTurn {
		compliant := view.Compliant()
		if !compliant {
			if melds, ok := botinternal.PlanOpening(hand, view.CurrentConstraint()); ok {
				move.Melds = melds
				hand = withoutMelds(hand, melds)
				compliant = true
			}
		} else {
			move.Melds, hand = botinternal.PlanFreeMelds(hand, b.Tuning.MaxFreeMeldWild)
		}
		if compliant && len(hand) > 0 {
			move.Modifications, hand = botinternal.PlanLayoffs(hand, view.PlayerOrder, view.Melds, b.Tuning.LayOffWildcards)
		}
	}

	if len(hand) == 0 {
		return move, nil
	}
	d := botinternal.ChooseDiscard(hand, b.Tuning, b.wanted(view))
	move.Discard = &d
	return move, nil
}

func (b *GreedyBot) WantsDiscard(view domain.ClientView) bool {
	if view.Phase != domain.PhaseInProgress || view.BoughtThisRound {
		return false
	}
	if view.Chips[view.PlayerID] <= b.Tuning.BuyChipReserve {
		return false
	}
	top, ok := view.TopDiscard()
	if !ok {
		return false
	}
	return top.IsJoker() || botinternal.Completes(view.Hand, top)
}

func (b *GreedyBot) OnEvent(event interface{}) {
	if b.Memory == nil {
		b.Memory = brain.NewMemory()
	}
	switch ev := event.(type) {
	case CardDiscarded:
		b.Memory.RecordDiscard(ev.PlayerID, ev.Card)
	case CardBought:
		b.Memory.RecordBuy(ev.PlayerID, ev.Card)
	case DealStarted:
		b.Memory.Reset()
	}
}

func (b *GreedyBot) wanted(view domain.ClientView) func(domain.Card) bool {
	if b.Memory == nil {
		return nil
	}
	return func(c domain.Card) bool {
		for _, id := range view.PlayerOrder {
			if id != view.PlayerID && b.Memory.Wants(id, c) {
				return true
			}
		}
		return false
	}
}

func checkTurn(view domain.ClientView) error {
	if view.Phase != domain.PhaseInProgress || view.TurnPlayer != view.PlayerID {
		return ErrNotMyTurn
	}
	return nil
}

func withoutMelds(hand []domain.Card, melds []domain.Meld) []domain.Card {
	for _, m := range melds {
		hand, _ = domain.RemoveCards(hand, m)
	}
	return hand
}

func heaviest(hand []domain.Card) domain.Card {
	best := hand[0]
	for _, c := range hand[1:] {
		if c.Value() > best.Value() {
			best = c
		}
	}
	return best
}

// FallbackMove discards the first card of the hand, or goes out when the
// hand is empty. It is what a seat plays when its brain fails.
func FallbackMove(view domain.ClientView) domain.PlayerMove {
	if len(view.Hand) == 0 {
		return domain.PlayerMove{}
	}
	d := view.Hand[0]
	return domain.PlayerMove{Discard: &d}
}
