package nakama

import (
	"context"
	"database/sql"

	"telefunken/internal/bot"
	"telefunken/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler into the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Using default game config: %v", err)
	}
	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("InitModule: No bot identities loaded, bots use fallback seats: %v", err)
	} else if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: %v", err)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameTelefunken, NewMatch); err != nil {
		return err
	}

	logger.Info("Telefunken Go module loaded.")
	return nil
}
