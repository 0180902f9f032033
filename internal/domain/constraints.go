package domain

import "fmt"

// CombinationShape restricts what a combination may look like.
// The zero value places no restriction.
type CombinationShape struct {
	ExactSize int  // 0 means any size in [MinMeldSize, MaxMeldSize]
	PureOnly  bool // no wildcards of any kind
}

// DealConstraint is what a player's first melds in a deal must satisfy.
type DealConstraint struct {
	RequiredMelds int
	Shape         CombinationShape
}

func (c DealConstraint) String() string {
	s := fmt.Sprintf("%d x %d", c.RequiredMelds, c.Shape.ExactSize)
	if c.Shape.PureOnly {
		s += " pure"
	}
	return s
}

const (
	MinMeldSize = 3
	MaxMeldSize = 13
)

// Deal table names accepted by DealTable.
const (
	DealTableStandard = "standard"
	DealTableShort    = "short"
)

// StandardDeals is the full escalating sequence of deals.
func StandardDeals() []DealConstraint {
	return []DealConstraint{
		{RequiredMelds: 2, Shape: CombinationShape{ExactSize: 3}},
		{RequiredMelds: 1, Shape: CombinationShape{ExactSize: 4}},
		{RequiredMelds: 2, Shape: CombinationShape{ExactSize: 4}},
		{RequiredMelds: 1, Shape: CombinationShape{ExactSize: 5}},
		{RequiredMelds: 2, Shape: CombinationShape{ExactSize: 5}},
		{RequiredMelds: 1, Shape: CombinationShape{ExactSize: 6}},
	}
}

// ShortDeals is the two-deal game used for quick matches.
func ShortDeals() []DealConstraint {
	return StandardDeals()[:2]
}

// DealTable resolves a table by name. Each call returns a fresh slice.
func DealTable(name string) ([]DealConstraint, error) {
	switch name {
	case "", DealTableStandard:
		return StandardDeals(), nil
	case DealTableShort:
		return ShortDeals(), nil
	default:
		return nil, fmt.Errorf("unknown deal table %q", name)
	}
}
