package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stack-scheduler/internal/config"
	"stack-scheduler/internal/constants"
	"stack-scheduler/internal/domain"
	"stack-scheduler/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type PlayerService struct {
	rooms              *RoomService
	players            *repository.PlayerRepository
	verifier           *IdentityVerifier
	aggregator         *Aggregator
	refreshConcurrency int
	logger             zerolog.Logger
}

func NewPlayerService(
	cfg *config.Config,
	rooms *RoomService,
	players *repository.PlayerRepository,
	verifier *IdentityVerifier,
	aggregator *Aggregator,
	logger zerolog.Logger,
) *PlayerService {
	concurrency := cfg.RefreshConcurrency
	if concurrency < 1 {
		concurrency = constants.DefaultRefreshConcurrency
	}
	return &PlayerService{
		rooms:              rooms,
		players:            players,
		verifier:           verifier,
		aggregator:         aggregator,
		refreshConcurrency: concurrency,
		logger:             logger,
	}
}

// AddPlayer verifies the handle, aggregates its stats and stores it in the
// room. A handle that does not exist fails with api.ErrRiotIDNotFound; a
// handle with no stats is stored with defaults.
func (s *PlayerService) AddPlayer(ctx context.Context, roomID string, handle domain.PlayerHandle) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	handle.DisplayName = strings.TrimSpace(handle.DisplayName)
	handle.Tag = strings.TrimPrefix(strings.TrimSpace(handle.Tag), "#")

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("room_id", room.ID).Str("handle", handle.String()).Msg("adding player")

	verifyCtx, verifyCancel := context.WithTimeout(ctx, constants.RiotVerifyTimeout)
	riotPuuid, err := s.verifier.Verify(verifyCtx, handle)
	verifyCancel()
	if err != nil {
		return nil, fmt.Errorf("failed to verify %s: %w", handle, err)
	}

	result := s.aggregator.Aggregate(ctx, handle)

	puuid := result.Account.ID
	if puuid == "" {
		puuid = riotPuuid
	}
	account := result.Account
	account.ID = puuid

	player, err := s.players.Upsert(ctx, &domain.Player{
		RoomID:   room.ID,
		GameName: handle.DisplayName,
		TagLine:  handle.Tag,
		Puuid:    puuid,
		Account:  account,
		Rank:     result.Rank,
		Stats:    result.Stats,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("room_id", room.ID).
		Str("handle", handle.String()).
		Str("rank", player.Rank.TierName).
		Int("total_matches", player.Stats.TotalMatches).
		Msg("player added")
	return player, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context, roomID string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.players.ListByRoom(ctx, room.ID)
}

// RefreshRoom re-aggregates every player in the room, several at a time.
// Players whose account no longer resolves keep their previous snapshot.
func (s *PlayerService) RefreshRoom(ctx context.Context, roomID string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	players, err := s.players.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.refreshConcurrency)

	for _, p := range players {
		g.Go(func() error {
			result := s.aggregator.Aggregate(gCtx, p.Handle())
			if result.Account.ID == "" {
				s.logger.Warn().Int64("player_id", p.ID).Str("handle", p.Handle().String()).Msg("account unresolved, keeping previous snapshot")
				return nil
			}
			if err := s.players.UpdateAggregate(gCtx, p.ID, result); err != nil {
				return fmt.Errorf("failed to refresh %s: %w", p.Handle(), err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("room_id", room.ID).Msg("room refresh failed")
		return nil, err
	}

	s.logger.Info().
		Str("room_id", room.ID).
		Int("players", len(players)).
		Dur("duration", time.Since(start)).
		Msg("room refreshed")
	return s.players.ListByRoom(ctx, room.ID)
}
