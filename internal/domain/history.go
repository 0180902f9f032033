package domain

// PlayerDealSummary is one player's position when a deal closed.
type PlayerDealSummary struct {
	PlayerID       string
	Remaining      []Card
	Melds          []Meld
	Bought         []BuyRecord
	RemainingValue int
}

// DealSummary is the end-of-deal snapshot kept for scoring.
type DealSummary struct {
	Deal       int
	Constraint DealConstraint
	Players    []PlayerDealSummary // join order
}

func (s *Session) summarizeDeal() DealSummary {
	summary := DealSummary{
		Deal:       s.Deal,
		Constraint: s.CurrentConstraint(),
		Players:    make([]PlayerDealSummary, 0, len(s.Order)),
	}
	for _, id := range s.Order {
		p := s.mustPlayer(id)
		summary.Players = append(summary.Players, PlayerDealSummary{
			PlayerID:       id,
			Remaining:      cloneCards(p.Hand),
			Melds:          cloneMelds(p.Melds),
			Bought:         append([]BuyRecord(nil), p.Bought...),
			RemainingValue: HandValue(p.Hand),
		})
	}
	return summary
}

// Totals sums each player's remaining hand value over every closed deal.
// Lower is better.
func (s *Session) Totals() map[string]int {
	totals := make(map[string]int, len(s.Order))
	for _, id := range s.Order {
		totals[id] = 0
	}
	for _, d := range s.History {
		for _, p := range d.Players {
			totals[p.PlayerID] += p.RemainingValue
		}
	}
	return totals
}
