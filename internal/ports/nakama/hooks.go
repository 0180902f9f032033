package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"telefunken/internal/app/onboarding"
	"telefunken/internal/config"

	jwt "github.com/form3tech-oss/jwt-go"
	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// AfterAuthenticateDevice onboards accounts created by device auth: a table
// name and the welcome bonus.
func AfterAuthenticateDevice(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, out *api.Session, in *api.AuthenticateDeviceRequest) error {
	if !out.GetCreated() {
		return nil
	}

	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		resolved, err := userIDFromToken(out.GetToken())
		if err != nil {
			logger.Error("AfterAuthenticateDevice: Failed to extract user ID from token: %v", err)
			return err
		}
		userID = resolved
	}
	if isBotUserId(userID) {
		return nil
	}

	logger.Info("AfterAuthenticateDevice: Onboarding new user %s", userID)
	service := onboarding.NewService(
		NewNakamaAccountAdapter(nk),
		NewNakamaWelcomeBonusAdapter(nk),
		config.GetGameConfig().WelcomeBonusGold,
		nil,
	)
	result, err := service.OnboardNewUser(ctx, userID)
	if result.ProfileUpdateErr != nil {
		logger.Warn("AfterAuthenticateDevice: Failed to update profile for user %s: %v", userID, result.ProfileUpdateErr)
	}
	if err != nil {
		logger.Error("AfterAuthenticateDevice: Onboarding failed for user %s: %v", userID, err)
		return err
	}
	if !result.WelcomeBonusGranted {
		logger.Info("AfterAuthenticateDevice: Welcome bonus already granted for user %s", userID)
	}
	return nil
}

// userIDFromToken reads the uid claim of a session token Nakama just issued.
// The signature is not checked.
func userIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", errors.New("token claims missing uid")
	}
	return uid, nil
}
