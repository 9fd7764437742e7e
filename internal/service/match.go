package service

import (
	"context"

	"stack-scheduler/internal/api"
	"stack-scheduler/internal/domain"
	"stack-scheduler/internal/metrics"
)

// FetchMatchHistory returns the provider's recent matches, most recent first.
// The canonical-id lookup runs only when the name lookup produced no data
// field at all; an empty array is a valid answer.
func (a *Aggregator) FetchMatchHistory(ctx context.Context, handle domain.PlayerHandle, account domain.AccountProfile) []api.MatchRecord {
	resp, ok := a.upstream.GetMatchesByName(ctx, account.Region, handle.DisplayName, handle.Tag)
	if ok && resp.Data != nil {
		a.logger.Debug().Str("handle", handle.String()).Int("match_count", len(resp.Data)).Msg("match history fetched by name")
		return resp.Data
	}

	metrics.HistoryFallbacks.Inc()
	a.logger.Debug().Str("handle", handle.String()).Str("region", account.Region).Msg("name lookup empty, falling back to puuid")

	resp, ok = a.upstream.GetMatchesByPuuid(ctx, account.Region, account.ID)
	if ok && resp.Data != nil {
		a.logger.Debug().Str("handle", handle.String()).Int("match_count", len(resp.Data)).Msg("match history fetched by puuid")
		return resp.Data
	}

	return []api.MatchRecord{}
}
