package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"telefunken/internal/app"
	"telefunken/internal/config"
	"telefunken/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Nakama runtime error codes (gRPC status codes).
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnauthenticated    = 16
)

// SeatResponse is returned by every RPC that hands out a seat.
type SeatResponse struct {
	MatchID string `json:"match_id"`
	Ticket  string `json:"ticket,omitempty"`
	IsNew   bool   `json:"is_new"`
}

type createGameRequest struct {
	Mode string `json:"mode"`
}

type joinGameRequest struct {
	MatchID string `json:"match_id"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcCreateGame: rpcCreateGame,
		RpcJoinGame:   rpcJoinGame,
		RpcQuickMatch: rpcQuickMatch,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("failed to register rpc %s: %w", id, err)
		}
	}
	return nil
}

// rpcCreateGame opens a new table owned by the caller.
func rpcCreateGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("no user ID in context", codeUnauthenticated)
	}

	req := createGameRequest{}
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid create_game payload", codeInvalidArgument)
		}
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameTelefunken, map[string]interface{}{
		"owner": userID,
		"mode":  req.Mode,
	})
	if err != nil {
		logger.Error("rpcCreateGame [User:%s]: Failed to create match: %v", userID, err)
		return "", runtime.NewError("failed to create match", codeInternal)
	}
	logger.Info("rpcCreateGame [User:%s]: Created match %s (mode=%q)", userID, matchID, req.Mode)
	return seatResponse(ctx, userID, matchID, true)
}

// rpcJoinGame hands out a seat ticket for a match still waiting for players.
func rpcJoinGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("no user ID in context", codeUnauthenticated)
	}

	req := joinGameRequest{}
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", runtime.NewError("match_id is required", codeInvalidArgument)
	}

	match, err := nk.MatchGet(ctx, req.MatchID)
	if err != nil || match == nil {
		return "", runtime.NewError("match not found", codeNotFound)
	}
	label, err := decodeLabel(match.GetLabel().GetValue())
	if err != nil {
		logger.Warn("rpcJoinGame [User:%s]: %v", userID, err)
		return "", runtime.NewError("match not found", codeNotFound)
	}
	if !label.Open {
		return "", runtime.NewError("match is not accepting players", codeFailedPrecondition)
	}
	return seatResponse(ctx, userID, req.MatchID, false)
}

// rpcQuickMatch finds an open table with at least one seated player or
// creates one.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("no user ID in context", codeUnauthenticated)
	}

	query := fmt.Sprintf("+label.%s:T +label.%s:%s", MatchLabelKeyOpen, MatchLabelKeyPhase, domain.PhaseWaitingForPlayers)
	minSize := 1
	maxSize := config.GetGameConfig().MaxPlayers - 1

	matches, err := nk.MatchList(ctx, 10, true, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchList error: %v", userID, err)
		return "", runtime.NewError("failed to list matches", codeInternal)
	}
	if len(matches) > 0 {
		logger.Info("rpcQuickMatch [User:%s]: Found existing match %s", userID, matches[0].GetMatchId())
		return seatResponse(ctx, userID, matches[0].GetMatchId(), false)
	}

	// Seat assignment happens in MatchJoin; the first joiner owns the table.
	matchID, err := nk.MatchCreate(ctx, MatchNameTelefunken, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcQuickMatch [User:%s]: MatchCreate error: %v", userID, err)
		return "", runtime.NewError("failed to create match", codeInternal)
	}
	logger.Info("rpcQuickMatch [User:%s]: Created new match %s", userID, matchID)
	return seatResponse(ctx, userID, matchID, true)
}

func seatResponse(ctx context.Context, userID, matchID string, isNew bool) (string, error) {
	resp := SeatResponse{MatchID: matchID, IsNew: isNew}
	if issuer := ticketIssuerFromEnv(ctx); issuer != nil {
		ticket, err := issuer.Issue(userID, matchID)
		if err != nil {
			return "", runtime.NewError("failed to issue seat ticket", codeInternal)
		}
		resp.Ticket = ticket
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(b), nil
}

// ticketIssuerFromEnv returns nil when no ticket secret is configured.
func ticketIssuerFromEnv(ctx context.Context) *app.TicketIssuer {
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	ttl := time.Duration(config.GetGameConfig().TicketTTLSeconds) * time.Second
	return app.NewTicketIssuer(env[envTicketSecret], ttl)
}
