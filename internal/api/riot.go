package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"stack-scheduler/internal/config"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var ErrRiotIDNotFound = errors.New("riot id not found")

// RiotClient verifies that a Riot ID exists before a player joins a stack.
// Unlike HDevClient it reports errors: a missing account is terminal for the caller.
type RiotClient struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *fasthttp.Client
	logger  zerolog.Logger
}

type RiotAccount struct {
	Puuid    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

func NewRiotClient(cfg *config.Config, logger zerolog.Logger) *RiotClient {
	return &RiotClient{
		apiKey:  cfg.RiotAPIKey,
		baseURL: cfg.RiotBaseURL,
		timeout: cfg.RiotVerifyTimeout,
		client:  newFastHTTPClient(cfg.RiotVerifyTimeout),
		logger:  logger.With().Str("component", "riot").Logger(),
	}
}

// Enabled reports whether a Riot key was configured.
func (c *RiotClient) Enabled() bool {
	return c.apiKey != ""
}

func (c *RiotClient) GetAccountByRiotID(ctx context.Context, name, tag string) (*RiotAccount, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s", c.baseURL, url.PathEscape(name), url.PathEscape(tag)))
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", c.apiKey)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("riot account request failed: %w", err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, ErrRiotIDNotFound
	default:
		return nil, fmt.Errorf("riot API error: %d", resp.StatusCode())
	}

	var account RiotAccount
	if err := json.Unmarshal(resp.Body(), &account); err != nil {
		return nil, fmt.Errorf("failed to decode riot account: %w", err)
	}
	if account.Puuid == "" {
		return nil, ErrRiotIDNotFound
	}

	c.logger.Debug().Str("name", name).Str("tag", tag).Msg("riot id verified")
	return &account, nil
}
