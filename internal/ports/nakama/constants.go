package nakama

const (
	// MatchNameTelefunken is the authoritative match handler name registered with Nakama.
	MatchNameTelefunken = "telefunken_match"

	RpcCreateGame = "create_game"
	RpcJoinGame   = "join_game"
	// RpcQuickMatch finds a waiting match with a free seat or creates one.
	RpcQuickMatch = "quick_match"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpPlay      int64 = 2
	OpBuyCard   int64 = 3

	// Server -> Client events. Views are sent privately.
	OpGameCreated  int64 = 100
	OpGameJoined   int64 = 101
	OpPlayerJoined int64 = 102
	OpGameStarted  int64 = 103
	OpTurnChanged  int64 = 104
	OpDealChanged  int64 = 105
	OpGameEnded    int64 = 106
	OpCardBought   int64 = 107
	OpGameError    int64 = 108
	OpLobbyState   int64 = 109
)

// Match label keys, queried by the matchmaking RPCs.
const (
	MatchLabelKeyOpen  = "open"
	MatchLabelKeyPhase = "phase"
)

// Env keys read from the Nakama runtime environment.
const (
	envBotsEnabled      = "telefunken_bots_enabled"
	envBotMinDelay      = "telefunken_bot_min_delay_sec"
	envBotMaxDelay      = "telefunken_bot_max_delay_sec"
	envBotAutoFillDelay = "telefunken_bot_auto_fill_delay_sec"
	envTicketSecret     = "telefunken_ticket_secret"
)

const (
	// gameEndGraceTicks keeps a finished match open so clients can read the results.
	gameEndGraceTicks = 30
	tickRate          = 1

	gameConfigPath    = "data/game_config.json"
	botIdentitiesPath = "data/bot_identities.json"
)
