package domain

// MeldKind classifies a validated combination.
type MeldKind int

const (
	MeldInvalid MeldKind = iota
	MeldSet
	MeldRun
)

func (k MeldKind) String() string {
	switch k {
	case MeldSet:
		return "set"
	case MeldRun:
		return "run"
	default:
		return "invalid"
	}
}

// Meld is a sequence of cards placed face up by a player.
type Meld []Card

// Combination is the canonical form of a valid meld. In a run the cards are
// ordered by position with wildcards standing in for the ranks they cover.
type Combination struct {
	Kind  MeldKind
	Cards Meld
}

// ValidateCombination decides whether cards form a set or a run under shape
// and returns the canonical ordering. The zero CombinationShape accepts any
// valid combination.
func ValidateCombination(cards []Card, shape CombinationShape) (Combination, bool) {
	if !sizeAllowed(len(cards), shape) {
		return Combination{}, false
	}

	var jokers, rest []Card
	for _, c := range cards {
		if c.IsJoker() {
			jokers = append(jokers, c)
		} else {
			rest = append(rest, c)
		}
	}
	if len(rest) == 0 || len(jokers) > len(rest) {
		return Combination{}, false
	}
	if shape.PureOnly && len(jokers) > 0 {
		return Combination{}, false
	}
	SortCards(rest)

	if sameRank(rest) {
		return newCombination(MeldSet, rest, jokers), true
	}
	if sameSuit(rest) && consecutive(rest) {
		return placeInRun(rest, jokers)
	}
	if shape.PureOnly {
		return Combination{}, false
	}

	var twos, others []Card
	for _, c := range rest {
		if c.Rank() == Two {
			twos = append(twos, c)
		} else {
			others = append(others, c)
		}
	}
	if len(twos) == 0 && len(jokers) == 0 {
		return Combination{}, false
	}
	if len(twos) > 0 && len(others) > 0 && sameRank(others) && len(twos)+len(jokers) <= len(others) {
		return newCombination(MeldSet, others, append(cloneCards(twos), jokers...)), true
	}
	return runWithWildcards(twos, others, jokers)
}

// DoMeldsSatisfyDealConstraint reports whether melds exactly meet c.
func DoMeldsSatisfyDealConstraint(melds []Meld, c DealConstraint) bool {
	if len(melds) != c.RequiredMelds {
		return false
	}
	for _, m := range melds {
		if _, ok := ValidateCombination(m, c.Shape); !ok {
			return false
		}
	}
	return true
}

// IsValidExtension validates the whole of meld plus newCards as a fresh,
// unconstrained combination.
func IsValidExtension(meld Meld, newCards []Card) (Combination, bool) {
	merged := make([]Card, 0, len(meld)+len(newCards))
	merged = append(merged, meld...)
	merged = append(merged, newCards...)
	return ValidateCombination(merged, CombinationShape{})
}

func sizeAllowed(n int, shape CombinationShape) bool {
	if shape.ExactSize > 0 {
		return n == shape.ExactSize
	}
	return n >= MinMeldSize && n <= MaxMeldSize
}

func newCombination(kind MeldKind, naturals, wild []Card) Combination {
	out := make(Meld, 0, len(naturals)+len(wild))
	out = append(out, naturals...)
	out = append(out, wild...)
	return Combination{Kind: kind, Cards: out}
}

func sameRank(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Rank() != cards[0].Rank() {
			return false
		}
	}
	return true
}

func sameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit() != cards[0].Suit() {
			return false
		}
	}
	return true
}

// consecutive expects cards sorted by rank.
func consecutive(cards []Card) bool {
	for i := 1; i < len(cards); i++ {
		if cards[i].Rank() != cards[i-1].Rank()+1 {
			return false
		}
	}
	return true
}

// runWithWildcards tries a same-suit Two in its natural position first and
// falls back to treating every Two as a wildcard. Either way the wildcards
// may not outnumber the naturals.
func runWithWildcards(twos, others, jokers []Card) (Combination, bool) {
	if len(others) > 0 {
		suit := others[0].Suit()
		for i, t := range twos {
			if t.Suit() != suit {
				continue
			}
			naturals := append([]Card{t}, others...)
			SortCards(naturals)
			wild := make([]Card, 0, len(twos)-1+len(jokers))
			wild = append(wild, twos[:i]...)
			wild = append(wild, twos[i+1:]...)
			wild = append(wild, jokers...)
			if sameSuit(naturals) && len(wild) <= len(naturals) {
				if comb, ok := placeInRun(naturals, wild); ok {
					return comb, true
				}
			}
			break
		}
	}
	wild := append(cloneCards(twos), jokers...)
	if len(others) == 0 || !sameSuit(others) || len(wild) > len(others) {
		return Combination{}, false
	}
	return placeInRun(others, wild)
}

// placeInRun fills the rank gaps between naturals (sorted, one suit) from
// wild in order, then spends leftovers above the top card up to King and
// finally below the bottom card down to Ace.
func placeInRun(naturals, wild []Card) (Combination, bool) {
	needed := 0
	for i := 1; i < len(naturals); i++ {
		gap := int(naturals[i].Rank()-naturals[i-1].Rank()) - 1
		if gap < 0 {
			return Combination{}, false
		}
		needed += gap
	}
	if needed > len(wild) {
		return Combination{}, false
	}

	body := make(Meld, 0, len(naturals)+len(wild))
	body = append(body, naturals[0])
	w := 0
	for i := 1; i < len(naturals); i++ {
		gap := int(naturals[i].Rank()-naturals[i-1].Rank()) - 1
		body = append(body, wild[w:w+gap]...)
		w += gap
		body = append(body, naturals[i])
	}

	for top := naturals[len(naturals)-1].Rank(); w < len(wild) && top < King; top++ {
		body = append(body, wild[w])
		w++
	}
	var prefix Meld
	for bottom := naturals[0].Rank(); w < len(wild) && bottom > Ace; bottom-- {
		prefix = append(prefix, wild[w])
		w++
	}
	if w < len(wild) {
		return Combination{}, false
	}
	return Combination{Kind: MeldRun, Cards: append(prefix, body...)}, true
}
