package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telefunken/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	welcomeBonusCollection = "telefunken_onboarding"
	welcomeBonusKey        = "welcome_bonus"
)

// NakamaWelcomeBonusAdapter writes a storage marker and the wallet credit in
// one MultiUpdate, so a second grant fails on the marker version.
type NakamaWelcomeBonusAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaWelcomeBonusAdapter(nk runtime.NakamaModule) *NakamaWelcomeBonusAdapter {
	return &NakamaWelcomeBonusAdapter{nk: nk}
}

func (a *NakamaWelcomeBonusAdapter) GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	if userID == "" {
		return false, errors.New("userID is required")
	}
	if amount <= 0 {
		return false, fmt.Errorf("invalid welcome bonus amount %d", amount)
	}

	value, err := json.Marshal(map[string]interface{}{
		"amount":     amount,
		"granted_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return false, fmt.Errorf("failed to marshal welcome bonus marker: %w", err)
	}

	writes := []*runtime.StorageWrite{{
		Collection:      welcomeBonusCollection,
		Key:             welcomeBonusKey,
		UserID:          userID,
		Value:           string(value),
		Version:         "*", // only if absent
		PermissionRead:  runtime.STORAGE_PERMISSION_NO_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}}
	wallets := []*runtime.WalletUpdate{{
		UserID:    userID,
		Changeset: map[string]int64{walletCurrency: amount},
		Metadata:  metadata,
	}}

	if _, _, err := a.nk.MultiUpdate(ctx, nil, writes, nil, wallets, true); err != nil {
		if errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return false, nil
		}
		return false, fmt.Errorf("failed to grant welcome bonus: %w", err)
	}
	return true, nil
}

var _ ports.WelcomeBonusPort = (*NakamaWelcomeBonusAdapter)(nil)
