package constants

import "time"

const (
	// upstream provider ceiling, applied per call
	UpstreamTimeout   = 15 * time.Second
	RiotVerifyTimeout = 10 * time.Second
	DatabaseTimeout   = 5 * time.Second

	// MaxUpstreamCalls is the worst case for one aggregation: account,
	// six rank regions, name history and puuid history.
	MaxUpstreamCalls = 9
	// RequestTimeout covers verification, a full aggregation with every
	// call timing out, and the writes around it.
	RequestTimeout = RiotVerifyTimeout + MaxUpstreamCalls*UpstreamTimeout + 2*DatabaseTimeout
)

const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	RoomIDLength   = 6
	RoomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	RoomNameMaxLen = 64
)

const (
	DefaultRefreshConcurrency = 4
)

const (
	HDevBaseURL = "https://api.henrikdev.xyz"
	RiotBaseURL = "https://americas.api.riotgames.com"
)
