package service

import (
	"context"

	"stack-scheduler/internal/domain"
	"stack-scheduler/internal/metrics"
)

// RankRegions is probed in order; the first region with current data wins.
var RankRegions = []string{"na", "eu", "ap", "kr", "latam", "br"}

// ResolveRank probes RankRegions for ranked standing. The account's own
// region is deliberately not used to skip ahead.
func (a *Aggregator) ResolveRank(ctx context.Context, handle domain.PlayerHandle, _ domain.AccountProfile) domain.RankProfile {
	rank := domain.DefaultRankProfile()

	for _, region := range RankRegions {
		metrics.RankProbes.WithLabelValues(region).Inc()

		resp, ok := a.upstream.GetMMR(ctx, region, handle.DisplayName, handle.Tag)
		if !ok || resp.Data == nil || resp.Data.CurrentData == nil {
			continue
		}

		current := resp.Data.CurrentData
		rank.TierCode = current.CurrentTier
		if current.CurrentTierPatched != "" {
			rank.TierName = current.CurrentTierPatched
		}
		rank.RankRating = current.RankingInTier
		rank.EloEstimate = current.Elo
		if resp.Data.HighestRank != nil && resp.Data.HighestRank.PatchedTier != "" {
			rank.PeakTierName = resp.Data.HighestRank.PatchedTier
		}

		a.logger.Debug().
			Str("handle", handle.String()).
			Str("region", region).
			Str("tier", rank.TierName).
			Str("peak", rank.PeakTierName).
			Msg("rank found")
		return rank
	}

	a.logger.Debug().Str("handle", handle.String()).Msg("no ranked data in any region")
	return rank
}
