package domain

// ClientView is what one player is allowed to see of a session.
type ClientView struct {
	PlayerID        string
	Phase           Phase
	Owner           string
	PlayerOrder     []string
	Dealer          string
	TurnPlayer      string
	Deal            int
	DealConstraints []DealConstraint
	Hand            []Card
	HandCounts      map[string]int // every player, including the viewer
	Melds           map[string][]Meld
	DiscardPile     []Card
	DrawPileCount   int
	Chips           map[string]int
	Compliance      []bool
	SeatCompliance  map[string][]bool // every player, one flag per deal
	BoughtThisRound bool
	FirstTurn       bool
	ExtraRound      bool
}

// TopDiscard returns the card a buyer would take.
func (v ClientView) TopDiscard() (Card, bool) {
	if len(v.DiscardPile) == 0 {
		return 0, false
	}
	return v.DiscardPile[len(v.DiscardPile)-1], true
}

// Compliant reports whether the viewer met the current deal's constraint.
func (v ClientView) Compliant() bool {
	return v.Deal < len(v.Compliance) && v.Compliance[v.Deal]
}

// CurrentConstraint is the constraint of the deal in view.
func (v ClientView) CurrentConstraint() DealConstraint {
	if v.Deal >= len(v.DealConstraints) {
		return v.DealConstraints[len(v.DealConstraints)-1]
	}
	return v.DealConstraints[v.Deal]
}

// View projects the session for playerID. Other players' hands are reduced
// to counts; every slice is a copy.
func (s *Session) View(playerID string) (ClientView, error) {
	p, ok := s.Players[playerID]
	if !ok {
		return ClientView{}, ErrUnknownPlayer
	}
	v := ClientView{
		PlayerID:        playerID,
		Phase:           s.Phase,
		Owner:           s.Owner,
		PlayerOrder:     append([]string(nil), s.Order...),
		Dealer:          s.Dealer,
		TurnPlayer:      s.TurnPlayer,
		Deal:            s.Deal,
		DealConstraints: s.Deals(),
		Hand:            cloneCards(p.Hand),
		HandCounts:      make(map[string]int, len(s.Players)),
		Melds:           make(map[string][]Meld, len(s.Players)),
		DiscardPile:     cloneCards(s.DiscardPile),
		DrawPileCount:   len(s.DrawPile),
		Chips:           make(map[string]int, len(s.Players)),
		Compliance:      append([]bool(nil), p.Compliance...),
		SeatCompliance:  make(map[string][]bool, len(s.Players)),
		BoughtThisRound: p.BoughtThisRound,
		FirstTurn:       p.TurnsThisDeal == 0,
		ExtraRound:      s.ExtraRound,
	}
	for id, other := range s.Players {
		v.HandCounts[id] = len(other.Hand)
		v.Melds[id] = cloneMelds(other.Melds)
		v.Chips[id] = other.Chips
		v.SeatCompliance[id] = append([]bool(nil), other.Compliance...)
	}
	return v, nil
}
