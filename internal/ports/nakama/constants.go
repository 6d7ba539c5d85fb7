package nakama

const (
	RpcPlayRound  = "rps_play_round"
	RpcGetState   = "rps_get_state"
	RpcReset      = "rps_reset"
	RpcQuickMatch = "rps_quick_match"

	// MatchNameRPSBomb is the authoritative match handler name registered with Nakama.
	MatchNameRPSBomb = "rpsbomb_match"

	// MatchLabelGame is the "game" value of every match label this module creates.
	MatchLabelGame = "rpsbomb"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpPlayRound    int64 = 1
	OpRequestState int64 = 2
	OpResetMatch   int64 = 3

	// Server -> Client events
	OpRoundPlayed   int64 = 101
	OpGameEnded     int64 = 102
	OpStateSnapshot int64 = 103
	OpMoveRejected  int64 = 104
	OpError         int64 = 105
)

// Runtime env keys read from RUNTIME_CTX_ENV.
const (
	EnvGameConfigPath     = "rpsbomb_game_config"
	EnvBotBombProbability = "rpsbomb_bot_bomb_probability"
)

// gRPC status codes used for runtime errors.
const (
	codeInvalidArgument    = 3
	codeFailedPrecondition = 9
	codeInternal           = 13
)

const (
	phaseWaiting = "waiting"
	phasePlaying = "playing"
	phaseEnded   = "ended"
)
