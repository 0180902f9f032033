package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountPort struct {
	updateErr error
	names     []string
}

func (f *fakeAccountPort) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	f.names = append(f.names, displayName)
	return f.updateErr
}

type welcomeBonusCall struct {
	userID   string
	amount   int64
	metadata map[string]interface{}
}

type fakeWelcomeBonusPort struct {
	updateErr error
	granted   bool
	calls     []welcomeBonusCall
}

func (f *fakeWelcomeBonusPort) GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error) {
	f.calls = append(f.calls, welcomeBonusCall{userID: userID, amount: amount, metadata: metadata})
	if f.updateErr != nil {
		return false, f.updateErr
	}
	return f.granted, nil
}

func TestOnboardNewUser(t *testing.T) {
	tests := []struct {
		name        string
		profileErr  error
		bonusErr    error
		granted     bool
		amount      int64
		wantAmount  int64
		wantErr     bool
		wantGranted bool
	}{
		{name: "grants configured bonus", granted: true, amount: 250, wantAmount: 250, wantGranted: true},
		{name: "falls back to default amount", granted: true, wantAmount: DefaultWelcomeBonusGold, wantGranted: true},
		{name: "profile failure still grants", profileErr: errors.New("update failed"), granted: true, wantAmount: DefaultWelcomeBonusGold, wantGranted: true},
		{name: "already granted", granted: false, wantAmount: DefaultWelcomeBonusGold},
		{name: "wallet failure is an error", bonusErr: errors.New("wallet failed"), wantAmount: DefaultWelcomeBonusGold, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &fakeAccountPort{updateErr: tt.profileErr}
			bonuses := &fakeWelcomeBonusPort{updateErr: tt.bonusErr, granted: tt.granted}
			svc := NewService(accounts, bonuses, tt.amount, rand.New(rand.NewSource(1)))

			result, err := svc.OnboardNewUser(context.Background(), "user-1")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantGranted, result.WelcomeBonusGranted)
			assert.Equal(t, tt.profileErr, result.ProfileUpdateErr)

			require.Len(t, bonuses.calls, 1)
			assert.Equal(t, "user-1", bonuses.calls[0].userID)
			assert.Equal(t, tt.wantAmount, bonuses.calls[0].amount)
			assert.Equal(t, "welcome_bonus", bonuses.calls[0].metadata["reason"])

			require.Len(t, accounts.names, 1)
			assert.Equal(t, result.DisplayName, accounts.names[0])
			assert.NotEmpty(t, result.DisplayName)
		})
	}
}

func TestOnboardNewUserRequiresPorts(t *testing.T) {
	svc := NewService(nil, nil, 0, nil)
	_, err := svc.OnboardNewUser(context.Background(), "user-1")
	assert.Error(t, err)
}
