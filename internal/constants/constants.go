package constants

// Centralized constants for headers, env keys and routes.
const (
	// Environment variable keys
	EnvConfigPath = "FLEET_CLASH_CONFIG"
	EnvDBPath     = "FLEET_CLASH_DB"
	EnvGinMode    = "GIN_MODE"

	DefaultConfigPath = "./fleet-clash.yaml"

	// HTTP headers
	HeaderPlayerID    = "X-Player-ID"
	HeaderContentType = "Content-Type"

	ContentTypeJSON = "application/json"

	// gin context keys
	ContextPlayerID = "playerID"
)

// Routes used by the backend router
const (
	RouteHealth      = "/health"
	RouteAPIPrefix   = "/api"
	RouteVersion     = "/version"
	RouteRooms       = "/rooms"
	RouteRoomJoin    = "/rooms/:roomID/join"
	RouteRoomStart   = "/rooms/:roomID/start"
	RouteRoomRematch = "/rooms/:roomID/rematch"
	RouteRoomMatch   = "/rooms/:roomID/match"
	RouteRoomFleet   = "/rooms/:roomID/fleet"
	RouteRoomReady   = "/rooms/:roomID/ready"
	RouteRoomAck     = "/rooms/:roomID/ack"
	RouteRoomResult  = "/rooms/:roomID/result"
	RouteRoomArchive = "/rooms/:roomID/archive/:playerID"
	RouteRoomSocket  = "/rooms/:roomID/ws"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyReason  = "reason"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest     = "Invalid request"
	ErrPlayerIDRequired   = "Player identity required"
	ErrRoomNotFound       = "Room not found"
	ErrPlayerNotInRoom    = "Player not in this room"
	ErrMatchNotFound      = "Match not started"
	ErrRoomFull           = "Room is full"
	ErrNotEnoughPlayers   = "Not enough players to start the match"
	ErrMatchAlreadyActive = "Match already started"
	ErrMatchNotFinished   = "Match is not finished"
	ErrNotInSetup         = "Fleets and readiness can only change during setup"
	ErrInvalidFleet       = "Invalid fleet snapshot"
	ErrReadyRejected      = "Cannot ready up"
	ErrNoArchive          = "No archived fleet for this player"
	ErrConcurrentUpdate   = "Match changed concurrently, retry"
	ErrInternal           = "Internal error"
	ErrRateLimited        = "Too many requests"
)

// Logging field names
const (
	LogFieldRoomID   = "room_id"
	LogFieldPlayerID = "player_id"
	LogFieldRound    = "round"
	LogFieldPhase    = "phase"
	LogFieldWinner   = "winner"
	LogFieldSeed     = "seed"
	LogFieldReason   = "reason"
	LogFieldAddr     = "addr"
	LogFieldAttempt  = "attempt"
)
