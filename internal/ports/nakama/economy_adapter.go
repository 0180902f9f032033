package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"telefunken/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// walletCurrency is the wallet key shown next to seated players.
const walletCurrency = "gold"

// NakamaEconomyAdapter reads player wallets for the lobby roster.
type NakamaEconomyAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaEconomyAdapter(nk runtime.NakamaModule) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{nk: nk}
}

// GetBalance returns the gold in the user's wallet. Bots without an account
// report zero.
func (a *NakamaEconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	if isBotUserId(userID) {
		return 0, nil
	}
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account %s: %w", userID, err)
	}
	if account.GetWallet() == "" {
		return 0, nil
	}

	var wallet map[string]int64
	if err := json.Unmarshal([]byte(account.GetWallet()), &wallet); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}
	return wallet[walletCurrency], nil
}

var _ ports.EconomyPort = (*NakamaEconomyAdapter)(nil)
