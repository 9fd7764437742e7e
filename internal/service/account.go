package service

import (
	"context"

	"stack-scheduler/internal/domain"
)

// ResolveAccount maps a handle to its canonical account. Missing fields keep
// their defaults; an unresolved handle yields an empty id and region "unknown".
func (a *Aggregator) ResolveAccount(ctx context.Context, handle domain.PlayerHandle) domain.AccountProfile {
	account := domain.DefaultAccountProfile()

	resp, ok := a.upstream.GetAccount(ctx, handle.DisplayName, handle.Tag)
	if !ok || resp.Data == nil {
		a.logger.Debug().Str("handle", handle.String()).Msg("account not resolved")
		return account
	}

	account.ID = resp.Data.Puuid
	if resp.Data.Region != "" {
		account.Region = resp.Data.Region
	}
	account.AccountLevel = resp.Data.AccountLevel
	if resp.Data.Card != nil && resp.Data.Card.Small != "" {
		icon := resp.Data.Card.Small
		account.IconRef = &icon
	}

	a.logger.Debug().
		Str("handle", handle.String()).
		Str("region", account.Region).
		Int("account_level", account.AccountLevel).
		Msg("account resolved")
	return account
}
