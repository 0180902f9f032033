package nakama

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"telefunken/internal/app"
	"telefunken/internal/bot"
	"telefunken/internal/config"
	"telefunken/internal/domain"
	"telefunken/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	MatchID              string                      `json:"match_id"`
	Mode                 string                      `json:"mode"`
	RequestedOwner       string                      `json:"requested_owner"` // owner named by create_game, may be empty
	Tick                 int64                       `json:"tick"`
	Presences            map[string]runtime.Presence `json:"-"` // Map UserId -> Presence for targeted messaging
	App                  *app.Service                `json:"-"`
	Session              *domain.Session             `json:"-"` // nil until the first player joins
	Tickets              *app.TicketIssuer           `json:"-"` // nil disables seat tickets
	Economy              ports.EconomyPort           `json:"-"`
	Bots                 map[string]*bot.Agent       `json:"-"`
	BotsEnabled          bool                        `json:"bots_enabled"`
	BotMinDelay          int                         `json:"bot_min_delay"`
	BotMaxDelay          int                         `json:"bot_max_delay"`
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`
	BotWaitUntil         int64                       `json:"bot_wait_until"`
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"`
	BuyMarker            string                      `json:"buy_marker"` // discard state bots last considered buying
	TurnDuration         int                         `json:"turn_duration"`
	TurnKey              string                      `json:"turn_key"`
	TurnDeadline         int64                       `json:"turn_deadline"`
	EndedAtTick          int64                       `json:"ended_at_tick"`

	rng *rand.Rand
}

// seated reports whether userID holds a seat.
func (ms *MatchState) seated(userID string) bool {
	return ms.Session != nil && ms.Session.HasPlayer(userID)
}

func (ms *MatchState) phase() domain.Phase {
	if ms.Session == nil {
		return domain.PhaseWaitingForPlayers
	}
	return ms.Session.Phase
}

func (ms *MatchState) maxPlayers() int {
	if ms.Session != nil {
		return ms.Session.MaxPlayers()
	}
	return config.GetGameConfig().MaxPlayers
}

func (ms *MatchState) seatCount() int {
	if ms.Session == nil {
		return 0
	}
	return len(ms.Session.Order)
}

// isOpen reports whether a new player may still take a seat.
func (ms *MatchState) isOpen() bool {
	return ms.phase() == domain.PhaseWaitingForPlayers && ms.seatCount() < ms.maxPlayers()
}

func (ms *MatchState) humanCount() int {
	count := 0
	if ms.Session == nil {
		return 0
	}
	for _, id := range ms.Session.Order {
		if !isBotUserId(id) {
			count++
		}
	}
	return count
}

// actingOwner is the player allowed to start the game: the session owner, or
// the first connected human when the owner has left.
func (ms *MatchState) actingOwner() string {
	if ms.Session == nil {
		return ""
	}
	if _, ok := ms.Presences[ms.Session.Owner]; ok {
		return ms.Session.Owner
	}
	for _, id := range ms.Session.Order {
		if _, ok := ms.Presences[id]; ok && !isBotUserId(id) {
			return id
		}
	}
	return ""
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// shouldTerminateNoHumans returns true when no human is connected.
func shouldTerminateNoHumans(presences map[string]runtime.Presence) bool {
	for id := range presences {
		if !isBotUserId(id) {
			return false
		}
	}
	return true
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("MatchInit: Could not load game config, using defaults: %v", err)
	}
	cfg := config.GetGameConfig()

	owner, _ := params["owner"].(string)
	mode, _ := params["mode"].(string)
	opts, err := cfg.SessionOptions(mode)
	if err != nil {
		logger.Error("MatchInit: Invalid mode %q: %v", mode, err)
		return nil, 0, ""
	}
	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)

	state := newMatchState(ctx, cfg, opts)
	state.MatchID = matchID
	state.Mode = cfg.Mode(mode).ID
	state.RequestedOwner = owner
	if nk != nil {
		state.Economy = NewNakamaEconomyAdapter(nk)
	}

	label, err := encodeLabel(state.label())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}
	logger.Info("MatchInit: match %s created (mode=%s, owner=%q, bots=%t)", matchID, state.Mode, owner, state.BotsEnabled)
	return state, tickRate, label
}

// newMatchState builds the state from config with runtime env overrides.
func newMatchState(ctx context.Context, cfg *config.GameConfig, opts domain.Options) *MatchState {
	seed := time.Now().UnixNano()
	state := &MatchState{
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(rand.New(rand.NewSource(seed)), opts),
		Bots:             make(map[string]*bot.Agent),
		BotsEnabled:      true,
		BotMinDelay:      cfg.BotMinDelaySeconds,
		BotMaxDelay:      cfg.BotMaxDelaySeconds,
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
		TurnDuration:     cfg.TurnDurationSeconds,
		rng:              rand.New(rand.NewSource(seed + 1)),
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env[envBotsEnabled]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env[envBotMinDelay]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env[envBotMaxDelay]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env[envBotAutoFillDelay]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}
	state.Tickets = app.NewTicketIssuer(env[envTicketSecret], time.Duration(cfg.TicketTTLSeconds)*time.Second)
	return state
}

func (ms *MatchState) label() matchLabel {
	return matchLabel{
		Open:    ms.isOpen(),
		Phase:   string(ms.phase()),
		Players: ms.seatCount(),
		Mode:    ms.Mode,
	}
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}
	userID := presence.GetUserId()

	// Seated players may always reconnect.
	if matchState.seated(userID) {
		return state, true, ""
	}
	if matchState.phase() != domain.PhaseWaitingForPlayers {
		return state, false, "Game already started"
	}
	if !matchState.isOpen() {
		return state, false, "Match full"
	}
	if err := matchState.Tickets.Verify(metadata["ticket"], userID, matchState.MatchID); err != nil {
		logger.Warn("MatchJoinAttempt: Rejected %s: %v", userID, err)
		return state, false, "Invalid seat ticket"
	}
	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		events, err := mh.seatPlayer(matchState, userID)
		if err != nil {
			logger.Warn("MatchJoin: User %s joined but could not be seated: %v", userID, err)
			mh.sendError(matchState, dispatcher, logger, userID, err)
			continue
		}
		logger.Debug("MatchJoin: User %s seated (%d players).", userID, matchState.seatCount())
		for _, ev := range events {
			mh.broadcastEvent(matchState, dispatcher, logger, ev)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(ctx, matchState, dispatcher, logger)
	return matchState
}

// seatPlayer creates the session on first join, seats newcomers and sends a
// fresh view to players who reconnect.
func (mh *matchHandler) seatPlayer(state *MatchState, userID string) ([]app.Event, error) {
	if state.Session == nil {
		owner := state.RequestedOwner
		if owner == "" {
			owner = userID
		}
		sess, events := state.App.CreateSession(owner)
		state.Session = sess
		if owner == userID {
			return events, nil
		}
	}
	if state.Session.HasPlayer(userID) {
		ev, err := state.App.Snapshot(state.Session, userID, app.EventGameJoined)
		if err != nil {
			return nil, err
		}
		return []app.Event{ev}, nil
	}
	return state.App.JoinSession(state.Session, userID)
}

// MatchLeave is called when one or more players leave the match. Seats are
// kept so players can reconnect; their turns time out meanwhile.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		logger.Debug("MatchLeave: User %s left.", p.GetUserId())
	}

	if shouldTerminateNoHumans(matchState.Presences) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(ctx, matchState, dispatcher, logger)
	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlay:
			mh.handlePlay(matchState, dispatcher, logger, msg)
		case OpBuyCard:
			mh.handleBuyCard(matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}
	mh.processTurnTimer(matchState, dispatcher, logger)

	if matchState.phase() == domain.PhaseFinished && tick-matchState.EndedAtTick >= gameEndGraceTicks {
		logger.Info("MatchLoop: Game over, closing match %s.", matchState.MatchID)
		return nil
	}
	return matchState
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Session == nil {
		logger.Warn("StartGame: No session yet.")
		return
	}
	owner := state.actingOwner()
	logger.Info("StartGame: Request received from %s (owner=%s, acting=%s, seated=%d)", senderID, state.Session.Owner, owner, state.seatCount())

	request := startRequest{}
	if err := decodeRequest(msg.GetData(), &request); err != nil {
		logger.Warn("StartGame: Invalid request from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}
	if senderID != owner {
		logger.Warn("StartGame: User %s tried to start game but is not owner", senderID)
		mh.sendError(state, dispatcher, logger, senderID, app.ErrNotOwner)
		return
	}

	fill := state.BotsEnabled
	if request.FillBots != nil {
		fill = fill && *request.FillBots
	}
	if fill && mh.fillWithBots(state, logger) {
		mh.broadcastMatchState(ctx, state, dispatcher, logger)
	}

	events, err := state.App.StartGame(state.Session, state.Session.Owner)
	if err != nil {
		logger.Warn("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	logger.Info("StartGame: Game started with %d players, dealer %s.", state.seatCount(), state.Session.Dealer)
}

func (mh *matchHandler) handlePlay(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Session == nil {
		logger.Warn("handlePlay: Game not started.")
		mh.sendError(state, dispatcher, logger, senderID, domain.ErrNotInProgress)
		return
	}

	move, err := decodePlay(msg.GetData())
	if err != nil {
		logger.Warn("handlePlay: User %s sent a malformed move: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}
	if err := mh.applyMove(state, dispatcher, logger, senderID, move); err != nil {
		var hand []domain.Card
		if p, ok := state.Session.Players[senderID]; ok {
			hand = p.Hand
		}
		logger.Warn("handlePlay: User %s failed to play: %v. Requested: %+v, Hand: %v", senderID, err, move, hand)
		mh.sendError(state, dispatcher, logger, senderID, err)
	}
}

// applyMove runs a move through the app service, broadcasts the result and
// tells the bots what happened.
func (mh *matchHandler) applyMove(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, actor string, move domain.PlayerMove) error {
	outcome, events, err := state.App.PlayMove(state.Session, actor, move)
	if err != nil {
		return err
	}
	if move.Discard != nil {
		mh.notifyBots(state, bot.CardDiscarded{PlayerID: actor, Card: *move.Discard})
	}
	switch outcome {
	case domain.AdvanceDealChanged:
		logger.Info("applyMove: Deal %d begins, dealer %s.", state.Session.Deal, state.Session.Dealer)
		mh.notifyBots(state, bot.DealStarted{Deal: state.Session.Deal})
	case domain.AdvanceGameEnded:
		logger.Info("applyMove: Game ended, totals %v.", state.Session.Totals())
		state.EndedAtTick = state.Tick
		mh.updateLabel(state, dispatcher, logger)
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	return nil
}

func (mh *matchHandler) handleBuyCard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Session == nil {
		mh.sendError(state, dispatcher, logger, senderID, domain.ErrNotInProgress)
		return
	}
	request := buyRequest{}
	if err := decodeRequest(msg.GetData(), &request); err != nil {
		mh.sendError(state, dispatcher, logger, senderID, err)
		return
	}
	if err := mh.buyCard(state, dispatcher, senderID, domain.Card(request.Card)); err != nil {
		logger.Warn("handleBuyCard: User %s failed to buy %d: %v", senderID, request.Card, err)
		mh.sendError(state, dispatcher, logger, senderID, err)
	}
}

func (mh *matchHandler) buyCard(state *MatchState, dispatcher runtime.MatchDispatcher, buyer string, card domain.Card) error {
	events, err := state.App.BuyCard(state.Session, buyer, card)
	if err != nil {
		return err
	}
	mh.notifyBots(state, bot.CardBought{PlayerID: buyer, Card: card})
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, nil, ev)
	}
	return nil
}

func (mh *matchHandler) notifyBots(state *MatchState, event interface{}) {
	for _, agent := range state.Bots {
		agent.OnGameEvent(event)
	}
}

// fillWithBots seats bots until the table is full. It reports whether any
// bot was added.
func (mh *matchHandler) fillWithBots(state *MatchState, logger runtime.Logger) bool {
	if state.Session == nil || state.Session.Phase != domain.PhaseWaitingForPlayers {
		return false
	}
	added := false
	for i := 0; !state.Session.IsFull() && i < 4*state.maxPlayers(); i++ {
		identity := bot.GetBotIdentity(i)
		botID := identity.UserID
		if state.Session.HasPlayer(botID) {
			continue
		}
		agent, err := bot.NewAgent(botID)
		if err != nil {
			logger.Error("fillWithBots: Failed to create bot agent for %s: %v", botID, err)
			continue
		}
		if _, err := state.App.JoinSession(state.Session, botID); err != nil {
			logger.Error("fillWithBots: Failed to seat bot %s: %v", botID, err)
			continue
		}
		state.Bots[botID] = agent
		logger.Info("fillWithBots: Added bot %s (%s)", agent.Name, botID)
		added = true
	}
	return added
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Session == nil {
		return
	}

	// 1. Auto-fill the lobby when a single human has waited long enough.
	if state.Session.Phase == domain.PhaseWaitingForPlayers {
		if state.humanCount() == 1 && !state.Session.IsFull() {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}
			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				if mh.fillWithBots(state, logger) {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(ctx, state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			state.LastSinglePlayerTick = 0
		}
		return
	}

	if state.Session.Phase != domain.PhaseInProgress {
		return
	}

	// 2. Bots may buy whenever the top discard changes.
	mh.processBotBuys(state, dispatcher, logger)

	// 3. Bot turns.
	currentUserID := state.Session.TurnPlayer
	if !isBotUserId(currentUserID) {
		state.BotWaitUntil = 0
		return
	}
	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
			delay += state.rng.Intn(span + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", currentUserID, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	agent, exists := state.Bots[currentUserID]
	if !exists {
		var err error
		agent, err = bot.NewAgent(currentUserID)
		if err != nil {
			logger.Error("processBots: Failed to create fallback agent: %v", err)
			return
		}
		state.Bots[currentUserID] = agent
	}

	move, err := agent.Play(state.Session)
	if err != nil {
		logger.Warn("processBots: Bot %s failed to calculate move: %v", currentUserID, err)
	}
	if err := mh.applyMove(state, dispatcher, logger, currentUserID, move); err != nil {
		logger.Warn("processBots: Bot %s move rejected: %v, falling back", currentUserID, err)
		fallback, ferr := agent.Fallback(state.Session)
		if ferr != nil {
			logger.Error("processBots: Bot %s has no fallback: %v", currentUserID, ferr)
			return
		}
		if err := mh.applyMove(state, dispatcher, logger, currentUserID, fallback); err != nil {
			logger.Error("processBots: Bot %s fallback rejected: %v", currentUserID, err)
		}
	}
}

// processBotBuys lets at most one bot buy the current top discard.
func (mh *matchHandler) processBotBuys(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	sess := state.Session
	marker := fmt.Sprintf("%d/%d/%d", sess.Deal, sess.Turn, len(sess.DiscardPile))
	if marker == state.BuyMarker {
		return
	}
	state.BuyMarker = marker
	for _, id := range sess.Order {
		agent, ok := state.Bots[id]
		if !ok || id == sess.TurnPlayer {
			continue
		}
		card, wants := agent.WantsBuy(sess)
		if !wants {
			continue
		}
		if err := mh.buyCard(state, dispatcher, id, card); err != nil {
			logger.Debug("processBotBuys: Bot %s could not buy %v: %v", id, card, err)
			continue
		}
		logger.Info("processBotBuys: Bot %s bought %v", id, card)
		state.BuyMarker = fmt.Sprintf("%d/%d/%d", sess.Deal, sess.Turn, len(sess.DiscardPile))
		return
	}
}

// processTurnTimer plays the fallback move for a human whose turn ran out.
func (mh *matchHandler) processTurnTimer(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.TurnDuration <= 0 || state.Session == nil || state.Session.Phase != domain.PhaseInProgress {
		return
	}
	actor := state.Session.TurnPlayer
	if isBotUserId(actor) {
		return
	}
	key := fmt.Sprintf("%d/%d", state.Session.Deal, state.Session.Turn)
	if key != state.TurnKey {
		state.TurnKey = key
		state.TurnDeadline = state.Tick + int64(state.TurnDuration)
		return
	}
	if state.Tick < state.TurnDeadline {
		return
	}
	view, err := state.Session.View(actor)
	if err != nil {
		logger.Error("processTurnTimer: No view for %s: %v", actor, err)
		return
	}
	logger.Info("processTurnTimer: Turn of %s timed out, playing for them.", actor)
	if err := mh.applyMove(state, dispatcher, logger, actor, bot.FallbackMove(view)); err != nil {
		logger.Error("processTurnTimer: Fallback for %s rejected: %v", actor, err)
	}
}

// broadcastMatchState sends the seating roster with wallet balances to everyone.
func (mh *matchHandler) broadcastMatchState(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Session == nil {
		return
	}
	players := make([]interface{}, 0, len(state.Session.Order))
	for _, userID := range state.Session.Order {
		displayName := userID
		if p, exists := state.Presences[userID]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userID); name != "" {
			displayName = name
		}

		var balance int64
		if state.Economy != nil {
			b, err := state.Economy.GetBalance(ctx, userID)
			if err != nil {
				logger.Debug("broadcastMatchState: No balance for %s: %v", userID, err)
			}
			balance = b
		}

		_, connected := state.Presences[userID]
		players = append(players, map[string]interface{}{
			"user_id":      userID,
			"display_name": displayName,
			"is_owner":     userID == state.Session.Owner,
			"is_bot":       isBotUserId(userID),
			"connected":    connected || isBotUserId(userID),
			"balance":      balance,
		})
	}

	data, err := encodeMessage(map[string]interface{}{
		"phase":   string(state.Session.Phase),
		"owner":   state.Session.Owner,
		"tick":    state.Tick,
		"players": players,
	})
	if err != nil {
		logger.Error("broadcastMatchState: Failed to marshal roster: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpLobbyState, data, nil, nil, true); err != nil {
		logger.Error("broadcastMatchState: Failed to broadcast: %v", err)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to
// Nakama. logger may be nil.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, data, err := encodeEvent(ev)
	if err != nil {
		if logger != nil {
			logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		}
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Intended recipients who are not connected (bots included) must not
		// turn a private message into a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil && logger != nil {
		logger.Error("Failed to broadcast %v: %v", ev.Kind, err)
	}
}

// errorCode maps a rejection to the code sent in OpGameError.
func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedMove), errors.Is(err, domain.ErrMeldIndexOutOfRange), errors.Is(err, domain.ErrInvalidCard):
		return 400
	case errors.Is(err, app.ErrNotOwner), errors.Is(err, domain.ErrNotYourTurn):
		return 403
	case errors.Is(err, domain.ErrNotWaiting), errors.Is(err, domain.ErrNotInProgress),
		errors.Is(err, domain.ErrSessionFull), errors.Is(err, domain.ErrDuplicatePlayer),
		errors.Is(err, domain.ErrTooFewPlayers), errors.Is(err, domain.ErrUnknownPlayer):
		return 409
	default:
		return 422
	}
}

// sendError sends a GameError message to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, cause error) {
	data, err := encodeMessage(map[string]interface{}{
		"code":    errorCode(cause),
		"message": cause.Error(),
	})
	if err != nil {
		logger.Error("Failed to marshal GameError: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("Failed to send GameError to %s: %v", userID, err)
	}
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := encodeLabel(state.label())
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminating, grace %d seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
