package ports

import "context"

// EconomyPort reads the wallet players carry between games. Chips used to
// buy discards belong to a session and never touch the wallet.
type EconomyPort interface {
	// GetBalance returns the gold balance shown next to a seated player.
	GetBalance(ctx context.Context, userID string) (int64, error)
}
