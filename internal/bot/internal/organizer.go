package internal

import (
	"sort"

	"telefunken/internal/domain"
)

// Tuning holds the knobs of the greedy strategy.
type Tuning struct {
	// MaxFreeMeldWild caps the wildcards spent on one meld after the
	// deal constraint is met.
	MaxFreeMeldWild int
	// LayOffWildcards allows wildcards to be added to table melds.
	LayOffWildcards bool
	// PartnerWeight is subtracted from a discard score when the card is close
	// to another card in hand.
	PartnerWeight int
	// WantedWeight is subtracted when an opponent is known to collect the card.
	WantedWeight int
	// BuyChipReserve is the number of chips never spent on buying.
	BuyChipReserve int
}

// PlanOpening finds c.RequiredMelds disjoint melds of hand that satisfy c.
func PlanOpening(hand []domain.Card, c domain.DealConstraint) ([]domain.Meld, bool) {
	size := c.Shape.ExactSize
	if size == 0 {
		size = domain.MinMeldSize
	}
	return planOpening(hand, size, c.Shape.PureOnly, c.RequiredMelds)
}

func planOpening(hand []domain.Card, size int, pure bool, need int) ([]domain.Meld, bool) {
	if need == 0 {
		return nil, true
	}
	for _, cand := range FindCombinations(hand, size, pure) {
		rest, ok := domain.RemoveCards(hand, cand.Cards)
		if !ok {
			continue
		}
		if more, ok := planOpening(rest, size, pure, need-1); ok {
			return append([]domain.Meld{cand.Cards}, more...), true
		}
	}
	return nil, false
}

// PlanFreeMelds lays down the longest melds it can find, one at a time, and
// returns them with what is left of hand.
func PlanFreeMelds(hand []domain.Card, maxWild int) ([]domain.Meld, []domain.Card) {
	rest := append([]domain.Card(nil), hand...)
	var melds []domain.Meld
	for {
		meld, ok := longestMeld(rest, maxWild)
		if !ok {
			return melds, rest
		}
		rest, _ = domain.RemoveCards(rest, meld)
		melds = append(melds, meld)
	}
}

func longestMeld(hand []domain.Card, maxWild int) (domain.Meld, bool) {
	for size := min(len(hand), domain.MaxMeldSize); size >= domain.MinMeldSize; size-- {
		cands := FindCombinations(hand, size, false)
		if len(cands) > 0 && cands[0].Wild <= maxWild {
			return cands[0].Cards, true
		}
	}
	return nil, false
}

// PlanLayoffs adds hand cards to the melds on the table, heaviest card
// first, until nothing more fits.
func PlanLayoffs(hand []domain.Card, order []string, table map[string][]domain.Meld, wild bool) ([]domain.MeldModification, []domain.Card) {
	work := make(map[string][]domain.Meld, len(table))
	for owner, melds := range table {
		cp := make([]domain.Meld, len(melds))
		for i, m := range melds {
			cp[i] = append(domain.Meld(nil), m...)
		}
		work[owner] = cp
	}

	rest := append([]domain.Card(nil), hand...)
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Value() > rest[j].Value() })

	var mods []domain.MeldModification
	for progress := true; progress; {
		progress = false
		for i, c := range rest {
			if !wild && IsWild(c) {
				continue
			}
			owner, idx, meld, ok := findHome(c, order, work)
			if !ok {
				continue
			}
			work[owner][idx] = meld
			mods = append(mods, domain.MeldModification{
				Kind:      domain.ModificationExtension,
				Owner:     owner,
				MeldIndex: idx,
				FromHand:  []domain.Card{c},
			})
			rest = append(rest[:i:i], rest[i+1:]...)
			progress = true
			break
		}
	}
	return mods, rest
}

func findHome(c domain.Card, order []string, table map[string][]domain.Meld) (string, int, domain.Meld, bool) {
	for _, owner := range order {
		for idx, meld := range table[owner] {
			if comb, ok := domain.IsValidExtension(meld, []domain.Card{c}); ok {
				return owner, idx, comb.Cards, true
			}
		}
	}
	return "", 0, nil, false
}

// ChooseDiscard picks the card of hand that is worth least to keep.
// wanted may be nil.
func ChooseDiscard(hand []domain.Card, t Tuning, wanted func(domain.Card) bool) domain.Card {
	best, bestScore := hand[0], discardScore(hand, 0, t, wanted)
	for i := 1; i < len(hand); i++ {
		if s := discardScore(hand, i, t, wanted); s > bestScore {
			best, bestScore = hand[i], s
		}
	}
	return best
}

func discardScore(hand []domain.Card, i int, t Tuning, wanted func(domain.Card) bool) int {
	c := hand[i]
	if IsWild(c) {
		return -1000 + c.Value()
	}
	score := c.Value()
	if hasPartner(hand, i) {
		score -= t.PartnerWeight
	}
	if wanted != nil && wanted(c) {
		score -= t.WantedWeight
	}
	return score
}

// hasPartner reports whether hand[i] shares a rank with another card or sits
// within two ranks of one in the same suit.
func hasPartner(hand []domain.Card, i int) bool {
	c := hand[i]
	for j, o := range hand {
		if j == i || IsWild(o) {
			continue
		}
		if o.Rank() == c.Rank() {
			return true
		}
		if o.Suit() == c.Suit() {
			if d := int(o.Rank()) - int(c.Rank()); d >= -2 && d <= 2 {
				return true
			}
		}
	}
	return false
}
