package domain

import "fmt"

// ModificationKind tags a change to a meld already on the table.
type ModificationKind int

const (
	// ModificationExtension adds hand cards to a meld.
	ModificationExtension ModificationKind = iota
	// ModificationReplacement swaps one hand card for one card of a meld.
	ModificationReplacement
)

// MeldModification changes the meld at MeldIndex owned by Owner.
type MeldModification struct {
	Kind      ModificationKind
	Owner     string
	MeldIndex int
	FromHand  []Card
	ToHand    []Card // replacement only
}

// PlayerMove is everything a player does on their turn after drawing.
type PlayerMove struct {
	Melds         []Meld
	Modifications []MeldModification
	Discard       *Card
}

type meldRef struct {
	owner string
	index int
}

// movePlan is a fully validated move ready to be applied.
type movePlan struct {
	hand        []Card
	tableMelds  map[string][]Meld
	fresh       []Meld
	discard     *Card
	meetsDeal   bool
	wentOutBare bool
}

// ExecutePlayerMove validates move against a copy of the session and applies
// it only when every part is legal. A non-nil error means nothing changed.
func (s *Session) ExecutePlayerMove(playerID string, move PlayerMove) error {
	if s.Phase != PhaseInProgress {
		return ErrNotInProgress
	}
	p, ok := s.Players[playerID]
	if !ok {
		return ErrUnknownPlayer
	}
	if s.TurnPlayer != playerID {
		return ErrNotYourTurn
	}
	if s.moved {
		return ErrAlreadyMoved
	}
	plan, err := s.planMove(p, move)
	if err != nil {
		return err
	}
	s.applyMove(p, plan)
	return nil
}

func (s *Session) planMove(p *Player, move PlayerMove) (*movePlan, error) {
	if err := checkMoveShape(move); err != nil {
		return nil, err
	}
	firstTurn := p.TurnsThisDeal == 0
	compliant := p.Compliance[s.Deal]
	plan := &movePlan{hand: cloneCards(p.Hand), tableMelds: make(map[string][]Meld)}

	touched := make([]meldRef, 0, len(move.Modifications))
	for _, mod := range move.Modifications {
		owner, ok := s.Players[mod.Owner]
		if !ok {
			return nil, ErrUnknownPlayer
		}
		melds, ok := plan.tableMelds[mod.Owner]
		if !ok {
			melds = cloneMelds(owner.Melds)
			plan.tableMelds[mod.Owner] = melds
		}
		if mod.MeldIndex < 0 || mod.MeldIndex >= len(melds) {
			return nil, ErrMeldIndexOutOfRange
		}
		hand, ok := RemoveCards(plan.hand, mod.FromHand)
		if !ok {
			return nil, ErrCardNotInHand
		}
		meld, ok := RemoveCards(melds[mod.MeldIndex], mod.ToHand)
		if !ok {
			return nil, ErrCardNotInMeld
		}
		plan.hand = append(hand, mod.ToHand...)
		melds[mod.MeldIndex] = append(Meld(meld), mod.FromHand...)
		touched = append(touched, meldRef{owner: mod.Owner, index: mod.MeldIndex})
	}
	for _, ref := range touched {
		melds := plan.tableMelds[ref.owner]
		comb, ok := ValidateCombination(melds[ref.index], CombinationShape{})
		if !ok {
			return nil, fmt.Errorf("%w: meld %d of %s", ErrInvalidCombination, ref.index, ref.owner)
		}
		melds[ref.index] = comb.Cards
	}

	if len(move.Melds) > 0 {
		if firstTurn {
			return nil, ErrFirstTurnMeld
		}
		for _, m := range move.Melds {
			hand, ok := RemoveCards(plan.hand, m)
			if !ok {
				return nil, ErrCardNotInHand
			}
			plan.hand = hand
		}
		shape := CombinationShape{}
		if !compliant {
			if !DoMeldsSatisfyDealConstraint(move.Melds, s.CurrentConstraint()) {
				return nil, ErrDealConstraintUnmet
			}
			shape = s.CurrentConstraint().Shape
			plan.meetsDeal = true
		}
		for _, m := range move.Melds {
			comb, ok := ValidateCombination(m, shape)
			if !ok {
				return nil, ErrInvalidCombination
			}
			plan.fresh = append(plan.fresh, comb.Cards)
		}
	}

	if len(move.Modifications) > 0 {
		if firstTurn {
			return nil, ErrFirstTurnMeld
		}
		if !compliant && !plan.meetsDeal {
			return nil, ErrDealConstraintUnmet
		}
	}

	if move.Discard == nil {
		if len(plan.hand) > 0 {
			return nil, ErrDiscardRequired
		}
		plan.wentOutBare = true
		return plan, nil
	}
	hand, ok := RemoveCards(plan.hand, []Card{*move.Discard})
	if !ok {
		return nil, ErrCardNotInHand
	}
	plan.hand = hand
	d := *move.Discard
	plan.discard = &d
	return plan, nil
}

func checkMoveShape(move PlayerMove) error {
	for _, m := range move.Melds {
		if err := checkCards(m); err != nil {
			return err
		}
	}
	for _, mod := range move.Modifications {
		switch mod.Kind {
		case ModificationExtension:
			if len(mod.FromHand) == 0 || len(mod.ToHand) != 0 {
				return ErrMalformedMove
			}
		case ModificationReplacement:
			if len(mod.FromHand) != 1 || len(mod.ToHand) != 1 {
				return ErrMalformedMove
			}
		default:
			return ErrMalformedMove
		}
		if err := checkCards(mod.FromHand); err != nil {
			return err
		}
		if err := checkCards(mod.ToHand); err != nil {
			return err
		}
	}
	if move.Discard != nil && !move.Discard.Valid() {
		return ErrInvalidCard
	}
	return nil
}

func checkCards(cards []Card) error {
	for _, c := range cards {
		if !c.Valid() {
			return ErrInvalidCard
		}
	}
	return nil
}

func (s *Session) applyMove(p *Player, plan *movePlan) {
	for owner, melds := range plan.tableMelds {
		s.mustPlayer(owner).Melds = melds
	}
	p.Hand = plan.hand
	p.Melds = append(p.Melds, plan.fresh...)
	if plan.discard != nil {
		s.DiscardPile = append(s.DiscardPile, *plan.discard)
	}
	if plan.meetsDeal {
		p.Compliance[s.Deal] = true
	}
	if plan.wentOutBare && !s.ExtraRound {
		s.ExtraRound = true
		s.ExtraTurnsLeft = len(s.Order) - 1
	}
	s.moved = true
}

func cloneMelds(melds []Meld) []Meld {
	out := make([]Meld, len(melds))
	for i, m := range melds {
		out[i] = Meld(cloneCards(m))
	}
	return out
}
