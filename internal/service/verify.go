package service

import (
	"context"
	"fmt"

	"stack-scheduler/internal/api"
	"stack-scheduler/internal/domain"

	"github.com/rs/zerolog"
)

// IdentityVerifier decides whether a handle exists at all before any stats
// are gathered. It is the only place a lookup can fail terminally.
type IdentityVerifier struct {
	riot     *api.RiotClient
	upstream Upstream
	logger   zerolog.Logger
}

func NewIdentityVerifier(riot *api.RiotClient, upstream Upstream, logger zerolog.Logger) *IdentityVerifier {
	return &IdentityVerifier{riot: riot, upstream: upstream, logger: logger}
}

// Verify returns the Riot-issued puuid for handle, or api.ErrRiotIDNotFound.
// Without a Riot key the statistics provider's account lookup stands in.
func (v *IdentityVerifier) Verify(ctx context.Context, handle domain.PlayerHandle) (string, error) {
	if v.riot != nil && v.riot.Enabled() {
		account, err := v.riot.GetAccountByRiotID(ctx, handle.DisplayName, handle.Tag)
		if err != nil {
			v.logger.Warn().Err(err).Str("handle", handle.String()).Msg("riot verification failed")
			return "", err
		}
		return account.Puuid, nil
	}

	resp, ok := v.upstream.GetAccount(ctx, handle.DisplayName, handle.Tag)
	if !ok || resp.Data == nil || resp.Data.Puuid == "" {
		v.logger.Warn().Str("handle", handle.String()).Msg("account lookup found no such player")
		return "", fmt.Errorf("verify %s: %w", handle, api.ErrRiotIDNotFound)
	}
	return resp.Data.Puuid, nil
}
