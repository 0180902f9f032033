package internal

import (
	"sort"
	"strings"

	"telefunken/internal/domain"
)

// Candidate is a combination that can be built from a hand.
type Candidate struct {
	Cards domain.Meld
	Kind  domain.MeldKind
	Wild  int // jokers and Twos spent
}

// IsWild reports whether c is usually played as a wildcard.
func IsWild(c domain.Card) bool { return c.IsJoker() || c.IsTwo() }

// FindCombinations returns every set and run of exactly size cards that can
// be built from hand, fewest wildcards first. Ties keep the heavier meld
// first so high-penalty cards leave the hand early.
func FindCombinations(hand []domain.Card, size int, pure bool) []Candidate {
	if size < domain.MinMeldSize || size > domain.MaxMeldSize || size > len(hand) {
		return nil
	}
	shape := domain.CombinationShape{ExactSize: size, PureOnly: pure}

	var out []Candidate
	seen := make(map[string]bool)
	add := func(cards []domain.Card) {
		comb, ok := domain.ValidateCombination(cards, shape)
		if !ok {
			return
		}
		key := meldKey(comb.Cards)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Candidate{Cards: comb.Cards, Kind: comb.Kind, Wild: countWild(comb.Cards)})
	}

	findSets(hand, size, add)
	findRuns(hand, size, add)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Wild != out[j].Wild {
			return out[i].Wild < out[j].Wild
		}
		return domain.HandValue(out[i].Cards) > domain.HandValue(out[j].Cards)
	})
	return out
}

func findSets(hand []domain.Card, size int, add func([]domain.Card)) {
	byRank := make(map[domain.Rank][]domain.Card)
	for _, c := range hand {
		if !c.IsJoker() {
			byRank[c.Rank()] = append(byRank[c.Rank()], c)
		}
	}
	for r := domain.Ace; r <= domain.King; r++ {
		naturals := byRank[r]
		for m := min(len(naturals), size); m >= 1; m-- {
			pool := wildPool(hand, naturals[:m])
			need := size - m
			if need > len(pool) {
				continue
			}
			cards := append(append([]domain.Card(nil), naturals[:m]...), pool[:need]...)
			add(cards)
		}
	}
}

func findRuns(hand []domain.Card, size int, add func([]domain.Card)) {
	for s := domain.Clubs; s <= domain.Spades; s++ {
		bySuitRank := make(map[domain.Rank]domain.Card)
		for _, c := range hand {
			if c.IsJoker() || c.Suit() != s {
				continue
			}
			if _, ok := bySuitRank[c.Rank()]; !ok {
				bySuitRank[c.Rank()] = c
			}
		}
		if len(bySuitRank) == 0 {
			continue
		}
		for start := domain.Ace; int(start)+size-1 <= int(domain.King); start++ {
			var naturals []domain.Card
			for r := start; r < start+domain.Rank(size); r++ {
				if c, ok := bySuitRank[r]; ok {
					naturals = append(naturals, c)
				}
			}
			if len(naturals) == 0 {
				continue
			}
			pool := wildPool(hand, naturals)
			need := size - len(naturals)
			if need > len(pool) {
				continue
			}
			add(append(naturals, pool[:need]...))
		}
	}
}

// wildPool lists the wildcards of hand not already in used, Twos before
// jokers.
func wildPool(hand, used []domain.Card) []domain.Card {
	var twos, jokers []domain.Card
	rest, _ := domain.RemoveCards(hand, used)
	for _, c := range rest {
		switch {
		case c.IsJoker():
			jokers = append(jokers, c)
		case c.IsTwo():
			twos = append(twos, c)
		}
	}
	return append(twos, jokers...)
}

func countWild(cards []domain.Card) int {
	n := 0
	for _, c := range cards {
		if IsWild(c) {
			n++
		}
	}
	return n
}

func meldKey(cards []domain.Card) string {
	sorted := append([]domain.Card(nil), cards...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var b strings.Builder
	for _, c := range sorted {
		b.WriteString(c.String())
		b.WriteByte('/')
	}
	return b.String()
}

// Completes reports whether card forms a wildcard-free combination of
// three with two cards of hand.
func Completes(hand []domain.Card, card domain.Card) bool {
	if card.IsJoker() {
		return false
	}
	with := append(append([]domain.Card(nil), hand...), card)
	for _, cand := range FindCombinations(with, domain.MinMeldSize, false) {
		if cand.Wild > 0 {
			break
		}
		for _, c := range cand.Cards {
			if c == card {
				return true
			}
		}
	}
	return false
}
