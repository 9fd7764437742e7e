package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"stack-scheduler/internal/config"
	"stack-scheduler/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// HDevClient talks to the henrikdev statistics provider. Every call collapses
// failures into ok == false; callers never see an error.
type HDevClient struct {
	apiKey      string
	baseURL     string
	timeout     time.Duration
	client      *fasthttp.Client
	logger      zerolog.Logger
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Bucket    string `json:"bucket"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewHDevClient(cfg *config.Config, logger zerolog.Logger) *HDevClient {
	return &HDevClient{
		apiKey:  cfg.HDevAPIKey,
		baseURL: cfg.HDevBaseURL,
		timeout: cfg.UpstreamTimeout,
		client:  newFastHTTPClient(cfg.UpstreamTimeout),
		logger:  logger.With().Str("component", "hdev").Logger(),
		rateLimit: RateLimitInfo{
			Limit:     30,
			Remaining: 30,
			Reset:     60,
			UpdatedAt: time.Now(),
		},
	}
}

func newFastHTTPClient(timeout time.Duration) *fasthttp.Client {
	return &fasthttp.Client{
		MaxConnsPerHost:        100,
		ReadTimeout:            timeout,
		WriteTimeout:           timeout,
		MaxIdleConnDuration:    1 * time.Minute,
		DisablePathNormalizing: true,
	}
}

func (c *HDevClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *HDevClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if bucket := string(resp.Header.Peek("X-Ratelimit-Bucket")); bucket != "" {
		c.rateLimit.Bucket = bucket
	}
	if limit := string(resp.Header.Peek("X-Ratelimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Ratelimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-Ratelimit-Reset")); reset != "" {
		if val, err := strconv.Atoi(reset); err == nil {
			c.rateLimit.Reset = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *HDevClient) GetAccount(ctx context.Context, name, tag string) (*AccountResponse, bool) {
	path := fmt.Sprintf("/valorant/v1/account/%s/%s", url.PathEscape(name), url.PathEscape(tag))
	return fetch[AccountResponse](ctx, c, "account", path)
}

func (c *HDevClient) GetMMR(ctx context.Context, region, name, tag string) (*MMRResponse, bool) {
	path := fmt.Sprintf("/valorant/v2/mmr/%s/%s/%s", url.PathEscape(region), url.PathEscape(name), url.PathEscape(tag))
	return fetch[MMRResponse](ctx, c, "mmr", path)
}

func (c *HDevClient) GetMatchesByName(ctx context.Context, region, name, tag string) (*MatchesResponse, bool) {
	path := fmt.Sprintf("/valorant/v3/matches/%s/%s/%s", url.PathEscape(region), url.PathEscape(name), url.PathEscape(tag))
	return fetch[MatchesResponse](ctx, c, "matches", path)
}

func (c *HDevClient) GetMatchesByPuuid(ctx context.Context, region, puuid string) (*MatchesResponse, bool) {
	path := fmt.Sprintf("/valorant/v3/by-puuid/matches/%s/%s", url.PathEscape(region), url.PathEscape(puuid))
	return fetch[MatchesResponse](ctx, c, "matches_by_puuid", path)
}

func fetch[T any](ctx context.Context, client *HDevClient, endpoint, path string) (*T, bool) {
	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if err := ctx.Err(); err != nil {
		client.absent(endpoint, path, metrics.OutcomeTimeout, err)
		return nil, false
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", client.apiKey)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(client.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := client.client.DoDeadline(req, resp, deadline); err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, fasthttp.ErrTimeout) {
			outcome = metrics.OutcomeTimeout
		}
		client.absent(endpoint, path, outcome, err)
		return nil, false
	}

	client.updateRateLimit(resp)

	if code := resp.StatusCode(); code < fasthttp.StatusOK || code >= fasthttp.StatusMultipleChoices {
		client.absent(endpoint, path, metrics.OutcomeStatus, fmt.Errorf("API error: %d", code))
		return nil, false
	}

	// encoding/json keeps decoding past a wrong-typed field and leaves it
	// zero, so a type error still yields a usable, partially filled result.
	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			client.absent(endpoint, path, metrics.OutcomeDecode, err)
			return nil, false
		}
		metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomePartial).Inc()
		client.logger.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Str("path", path).
			Msg("upstream payload partially decoded, mistyped fields defaulted")
		return &result, true
	}

	metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeOK).Inc()
	return &result, true
}

func (c *HDevClient) absent(endpoint, path, outcome string, err error) {
	metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	c.logger.Warn().
		Err(err).
		Str("endpoint", endpoint).
		Str("path", path).
		Str("outcome", outcome).
		Msg("upstream request returned no data")
}

type AccountResponse struct {
	Status int          `json:"status"`
	Data   *AccountData `json:"data"`
}

type AccountData struct {
	Puuid        string       `json:"puuid"`
	Region       string       `json:"region"`
	AccountLevel int          `json:"account_level"`
	Name         string       `json:"name"`
	Tag          string       `json:"tag"`
	Card         *AccountCard `json:"card"`
}

type AccountCard struct {
	ID    string `json:"id"`
	Small string `json:"small"`
	Large string `json:"large"`
	Wide  string `json:"wide"`
}

type MMRResponse struct {
	Status int      `json:"status"`
	Data   *MMRData `json:"data"`
}

type MMRData struct {
	Name        string          `json:"name"`
	Tag         string          `json:"tag"`
	CurrentData *MMRCurrentData `json:"current_data"`
	HighestRank *MMRHighestRank `json:"highest_rank"`
}

type MMRCurrentData struct {
	CurrentTier         int    `json:"currenttier"`
	CurrentTierPatched  string `json:"currenttierpatched"`
	RankingInTier       int    `json:"ranking_in_tier"`
	MMRChangeToLastGame int    `json:"mmr_change_to_last_game"`
	Elo                 int    `json:"elo"`
}

type MMRHighestRank struct {
	Tier        int    `json:"tier"`
	PatchedTier string `json:"patched_tier"`
	Season      string `json:"season"`
}

// MatchesResponse.Data is nil when the provider omitted it or sent null, and
// non-nil (possibly empty) when it answered with an array.
type MatchesResponse struct {
	Status int           `json:"status"`
	Data   []MatchRecord `json:"data"`
}

type MatchRecord struct {
	Metadata MatchMetadata          `json:"metadata"`
	Players  MatchPlayers           `json:"players"`
	Teams    map[string]TeamOutcome `json:"teams"`
}

type MatchMetadata struct {
	MatchID   string `json:"matchid"`
	Map       string `json:"map"`
	Mode      string `json:"mode"`
	Region    string `json:"region"`
	GameStart int64  `json:"game_start"`
}

type MatchPlayers struct {
	AllPlayers []RosterEntry `json:"all_players"`
}

type RosterEntry struct {
	Puuid     string      `json:"puuid"`
	Name      string      `json:"name"`
	Tag       string      `json:"tag"`
	Team      string      `json:"team"`
	Character string      `json:"character"`
	Stats     RosterStats `json:"stats"`
}

type RosterStats struct {
	Score     int `json:"score"`
	Kills     int `json:"kills"`
	Deaths    int `json:"deaths"`
	Assists   int `json:"assists"`
	Bodyshots int `json:"bodyshots"`
	Headshots int `json:"headshots"`
	Legshots  int `json:"legshots"`
}

// TeamOutcome is keyed by lower-case team name ("red", "blue") in MatchRecord.Teams.
type TeamOutcome struct {
	HasWon     bool `json:"has_won"`
	RoundsWon  int  `json:"rounds_won"`
	RoundsLost int  `json:"rounds_lost"`
}
