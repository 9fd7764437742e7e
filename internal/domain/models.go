package domain

import (
	"strings"
	"time"
)

const (
	UnknownRegion   = "unknown"
	UnrankedTier    = "Unranked"
	UnknownPeakTier = "Unknown"
	UnknownAgent    = "Unknown"
)

// PlayerHandle is the self-reported display name and tag, e.g. Ava#123.
type PlayerHandle struct {
	DisplayName string `json:"displayName"`
	Tag         string `json:"tag"`
}

func (h PlayerHandle) String() string {
	return h.DisplayName + "#" + h.Tag
}

// Matches compares case-insensitively against a roster entry's name and tag.
func (h PlayerHandle) Matches(name, tag string) bool {
	return strings.EqualFold(h.DisplayName, name) && strings.EqualFold(h.Tag, tag)
}

type AccountProfile struct {
	ID           string  `json:"id"`
	Region       string  `json:"region"`
	AccountLevel int     `json:"accountLevel"`
	IconRef      *string `json:"iconRef"`
}

func DefaultAccountProfile() AccountProfile {
	return AccountProfile{Region: UnknownRegion}
}

type RankProfile struct {
	TierCode     int    `json:"tierCode"`
	TierName     string `json:"tierName"`
	RankRating   int    `json:"rankRating"` // RR (0-100)
	EloEstimate  int    `json:"eloEstimate"`
	PeakTierName string `json:"peakTierName"`
}

func DefaultRankProfile() RankProfile {
	return RankProfile{TierName: UnrankedTier, PeakTierName: UnknownPeakTier}
}

type StatsSummary struct {
	TotalMatches    int     `json:"totalMatches"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"winRate"`
	AvgScore        int     `json:"avgScore"`
	AvgKills        float64 `json:"avgKills"`
	AvgDeaths       float64 `json:"avgDeaths"`
	AvgAssists      float64 `json:"avgAssists"`
	KDRatio         float64 `json:"kdRatio"`
	HeadshotPercent float64 `json:"headshotPercent"`
	MostPlayedAgent string  `json:"mostPlayedAgent"`
}

func DefaultStatsSummary() StatsSummary {
	return StatsSummary{MostPlayedAgent: UnknownAgent}
}

type AggregateResult struct {
	Account AccountProfile `json:"account"`
	Rank    RankProfile    `json:"rank"`
	Stats   StatsSummary   `json:"stats"`
}

type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Player is a stack member with the aggregate snapshot taken when it joined
// or was last refreshed.
type Player struct {
	ID        int64          `json:"id"`
	RoomID    string         `json:"room_id"`
	GameName  string         `json:"game_name"`
	TagLine   string         `json:"tag_line"`
	Puuid     string         `json:"puuid"`
	Account   AccountProfile `json:"account"`
	Rank      RankProfile    `json:"rank"`
	Stats     StatsSummary   `json:"stats"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (p Player) Handle() PlayerHandle {
	return PlayerHandle{DisplayName: p.GameName, Tag: p.TagLine}
}

type TimeSlot struct {
	ID               int64     `json:"id"`
	RoomID           string    `json:"room_id"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	CreatedAt        time.Time `json:"created_at"`
	AvailableCount   int       `json:"available_count"`
	UnavailableCount int       `json:"unavailable_count"`
}

type Vote struct {
	SlotID     int64     `json:"slot_id"`
	PlayerName string    `json:"player_name"`
	Available  bool      `json:"available"`
	VotedAt    time.Time `json:"voted_at"`
}
