package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// FallbackIDPrefix marks seat IDs of bots that have no provisioned account.
const FallbackIDPrefix = "bot-"

type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy" or "hard"
	AvatarIndex int    `json:"avatar_index"`
}

var (
	identitiesMu  sync.RWMutex
	botIdentities []BotIdentity
	botConfigMap  = make(map[string]BotIdentity)
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

var fallbackNames = []string{"Dealer Dan", "Joker Jo", "Rummy Rita", "Deuce Dora", "Meld Max", "Shuffle Sam"}

// LoadIdentities loads the bot profiles from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		setIdentities(identities)
	})
	return loadErr
}

func setIdentities(identities []BotIdentity) {
	identitiesMu.Lock()
	defer identitiesMu.Unlock()
	botIdentities = identities
	botConfigMap = make(map[string]BotIdentity, len(identities))
	for _, identity := range identities {
		if identity.UserID != "" {
			botConfigMap[identity.UserID] = identity
		}
	}
}

// ProvisionBots makes sure every identity with a device ID has a Nakama
// account flagged with is_bot metadata. Failures are logged per bot; the
// returned error counts them.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	var failed int
	provisionOnce.Do(func() {
		identitiesMu.RLock()
		identities := append([]BotIdentity(nil), botIdentities...)
		identitiesMu.RUnlock()

		for i := range identities {
			identity := &identities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, err)
				failed++
				continue
			}
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			if err := nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, err)
			}
			logger.Info("ProvisionBots: bot %s (%s) is ready, difficulty %s", identity.DisplayName, userID, identity.Difficulty)
		}
		setIdentities(identities)
	})
	if failed > 0 {
		return fmt.Errorf("%d bots could not be provisioned", failed)
	}
	return nil
}

// GetBotConfig returns the full identity configuration for a given bot ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotUsername returns the username for a bot ID, or an empty string if not a bot.
func GetBotUsername(userID string) string {
	if config, ok := GetBotConfig(userID); ok {
		return config.Username
	}
	return ""
}

// GetBotDisplayName returns the display name for a bot ID, or an empty string
// if not a bot.
func GetBotDisplayName(userID string) string {
	config, ok := GetBotConfig(userID)
	if !ok {
		if strings.HasPrefix(userID, FallbackIDPrefix) {
			return fallbackName(userID)
		}
		return ""
	}
	if config.DisplayName == "" {
		return config.Username
	}
	return config.DisplayName
}

// GetBotIdentity returns an identity for a bot by index (mod pool size). With
// no provisioned pool it invents one.
func GetBotIdentity(index int) BotIdentity {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()
	for i := 0; i < len(botIdentities); i++ {
		identity := botIdentities[(index+i)%len(botIdentities)]
		if identity.UserID != "" {
			return identity
		}
	}
	id := fmt.Sprintf("%s%d", FallbackIDPrefix, index)
	return BotIdentity{UserID: id, DisplayName: fallbackName(id)}
}

// IsBot reports whether the given user ID belongs to the bot pool.
func IsBot(userID string) bool {
	if strings.HasPrefix(userID, FallbackIDPrefix) {
		return true
	}
	_, ok := GetBotConfig(userID)
	return ok
}

// GetAllBotIDs returns all provisioned bot UserIDs.
func GetAllBotIDs() []string {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()
	ids := make([]string, 0, len(botConfigMap))
	for id := range botConfigMap {
		ids = append(ids, id)
	}
	return ids
}

func fallbackName(id string) string {
	sum := 0
	for _, r := range id {
		sum += int(r)
	}
	return fallbackNames[sum%len(fallbackNames)]
}
