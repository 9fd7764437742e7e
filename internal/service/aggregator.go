package service

import (
	"context"
	"strconv"
	"time"

	"stack-scheduler/internal/domain"
	"stack-scheduler/internal/metrics"

	"github.com/rs/zerolog"
)

// Aggregator runs the player lookup pipeline: account, rank, match history,
// then statistics. It holds no per-call state and is safe for concurrent use.
type Aggregator struct {
	upstream Upstream
	logger   zerolog.Logger
}

func NewAggregator(upstream Upstream, logger zerolog.Logger) *Aggregator {
	return &Aggregator{upstream: upstream, logger: logger.With().Str("component", "aggregator").Logger()}
}

// Aggregate never fails. Stages that find nothing hand their defaults to the
// next stage, so the result is always fully populated.
func (a *Aggregator) Aggregate(ctx context.Context, handle domain.PlayerHandle) domain.AggregateResult {
	start := time.Now()
	a.logger.Info().Str("handle", handle.String()).Msg("aggregating player")

	account := a.ResolveAccount(ctx, handle)
	rank := a.ResolveRank(ctx, handle, account)
	matches := a.FetchMatchHistory(ctx, handle, account)
	stats := ReduceStats(matches, handle)

	elapsed := time.Since(start)
	metrics.AggregationDuration.Observe(elapsed.Seconds())
	metrics.Aggregations.WithLabelValues(strconv.FormatBool(stats.TotalMatches > 0)).Inc()

	a.logger.Info().
		Str("handle", handle.String()).
		Str("region", account.Region).
		Str("rank", rank.TierName).
		Int("fetched_matches", len(matches)).
		Int("total_matches", stats.TotalMatches).
		Dur("duration", elapsed).
		Msg("player aggregated")

	return domain.AggregateResult{Account: account, Rank: rank, Stats: stats}
}
