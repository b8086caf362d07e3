package network

// Event names exchanged over the realtime channel.
const (
	EventConnected         = "connected"         // server -> client, session id payload
	EventTimer             = "timer"             // server -> player, "MM:SS" payload
	EventStartTimer        = "startTimer"        // player -> server, no payload
	EventLeaderboardUpdate = "leaderboardUpdate" // server -> admin, ranked entries
)

// Handshake roles. Anything other than RoleAdmin is treated as a player.
const (
	RoleAdmin  = "admin"
	RolePlayer = "player"
)
