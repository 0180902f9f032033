package bot

import botinternal "telefunken/internal/bot/internal"

// DefaultTuning spends at most one wildcard per free meld and never lays a
// wildcard off onto the table.
var DefaultTuning = botinternal.Tuning{
	MaxFreeMeldWild: 1,
	LayOffWildcards: false,
	PartnerWeight:   6,
	WantedWeight:    8,
	BuyChipReserve:  1,
}
