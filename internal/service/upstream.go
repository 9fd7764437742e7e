package service

import (
	"context"

	"stack-scheduler/internal/api"
)

// Upstream is the provider surface the aggregation pipeline consumes.
// A false ok means "no data" and is never accompanied by an error.
type Upstream interface {
	GetAccount(ctx context.Context, name, tag string) (*api.AccountResponse, bool)
	GetMMR(ctx context.Context, region, name, tag string) (*api.MMRResponse, bool)
	GetMatchesByName(ctx context.Context, region, name, tag string) (*api.MatchesResponse, bool)
	GetMatchesByPuuid(ctx context.Context, region, puuid string) (*api.MatchesResponse, bool)
}

var _ Upstream = (*api.HDevClient)(nil)
