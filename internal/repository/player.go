package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stack-scheduler/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: sqlDB, logger: logger}
}

const playerColumns = `id, room_id, game_name, tag_line, puuid,
	region, account_level, card_small,
	rank_tier, rank_name, rr, elo, peak_rank,
	total_matches, wins, losses, win_rate, avg_score, avg_kills, avg_deaths, avg_assists,
	kd_ratio, headshot_percent, most_played_agent,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*domain.Player, error) {
	var p domain.Player
	var card sql.NullString
	err := row.Scan(
		&p.ID, &p.RoomID, &p.GameName, &p.TagLine, &p.Puuid,
		&p.Account.Region, &p.Account.AccountLevel, &card,
		&p.Rank.TierCode, &p.Rank.TierName, &p.Rank.RankRating, &p.Rank.EloEstimate, &p.Rank.PeakTierName,
		&p.Stats.TotalMatches, &p.Stats.Wins, &p.Stats.Losses, &p.Stats.WinRate, &p.Stats.AvgScore,
		&p.Stats.AvgKills, &p.Stats.AvgDeaths, &p.Stats.AvgAssists,
		&p.Stats.KDRatio, &p.Stats.HeadshotPercent, &p.Stats.MostPlayedAgent,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Account.ID = p.Puuid
	if card.Valid {
		p.Account.IconRef = &card.String
	}
	return &p, nil
}

// Upsert stores a player keyed by (room, puuid). Re-adding the same account
// to a room replaces its snapshot instead of duplicating it.
func (r *PlayerRepository) Upsert(ctx context.Context, p *domain.Player) (*domain.Player, error) {
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (
			room_id, game_name, tag_line, puuid,
			region, account_level, card_small,
			rank_tier, rank_name, rr, elo, peak_rank,
			total_matches, wins, losses, win_rate, avg_score, avg_kills, avg_deaths, avg_assists,
			kd_ratio, headshot_percent, most_played_agent,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (room_id, puuid) DO UPDATE SET
			game_name = excluded.game_name,
			tag_line = excluded.tag_line,
			region = excluded.region,
			account_level = excluded.account_level,
			card_small = excluded.card_small,
			rank_tier = excluded.rank_tier,
			rank_name = excluded.rank_name,
			rr = excluded.rr,
			elo = excluded.elo,
			peak_rank = excluded.peak_rank,
			total_matches = excluded.total_matches,
			wins = excluded.wins,
			losses = excluded.losses,
			win_rate = excluded.win_rate,
			avg_score = excluded.avg_score,
			avg_kills = excluded.avg_kills,
			avg_deaths = excluded.avg_deaths,
			avg_assists = excluded.avg_assists,
			kd_ratio = excluded.kd_ratio,
			headshot_percent = excluded.headshot_percent,
			most_played_agent = excluded.most_played_agent,
			updated_at = excluded.updated_at`,
		p.RoomID, p.GameName, p.TagLine, p.Puuid,
		p.Account.Region, p.Account.AccountLevel, nullableString(p.Account.IconRef),
		p.Rank.TierCode, p.Rank.TierName, p.Rank.RankRating, p.Rank.EloEstimate, p.Rank.PeakTierName,
		p.Stats.TotalMatches, p.Stats.Wins, p.Stats.Losses, p.Stats.WinRate, p.Stats.AvgScore,
		p.Stats.AvgKills, p.Stats.AvgDeaths, p.Stats.AvgAssists,
		p.Stats.KDRatio, p.Stats.HeadshotPercent, p.Stats.MostPlayedAgent,
		now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("room_id", p.RoomID).Str("puuid", p.Puuid).Msg("failed to upsert player")
		return nil, fmt.Errorf("failed to upsert player %s: %w", p.Puuid, err)
	}

	stored, err := scanPlayer(r.db.QueryRowContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE room_id = ? AND puuid = ?`, p.RoomID, p.Puuid))
	if err != nil {
		return nil, fmt.Errorf("failed to read back player %s: %w", p.Puuid, err)
	}
	return stored, nil
}

// UpdateAggregate overwrites the rank and stats snapshot of an existing player.
func (r *PlayerRepository) UpdateAggregate(ctx context.Context, id int64, result domain.AggregateResult) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE players SET
			region = ?, account_level = ?, card_small = ?,
			rank_tier = ?, rank_name = ?, rr = ?, elo = ?, peak_rank = ?,
			total_matches = ?, wins = ?, losses = ?, win_rate = ?, avg_score = ?,
			avg_kills = ?, avg_deaths = ?, avg_assists = ?,
			kd_ratio = ?, headshot_percent = ?, most_played_agent = ?,
			updated_at = ?
		WHERE id = ?`,
		result.Account.Region, result.Account.AccountLevel, nullableString(result.Account.IconRef),
		result.Rank.TierCode, result.Rank.TierName, result.Rank.RankRating, result.Rank.EloEstimate, result.Rank.PeakTierName,
		result.Stats.TotalMatches, result.Stats.Wins, result.Stats.Losses, result.Stats.WinRate, result.Stats.AvgScore,
		result.Stats.AvgKills, result.Stats.AvgDeaths, result.Stats.AvgAssists,
		result.Stats.KDRatio, result.Stats.HeadshotPercent, result.Stats.MostPlayedAgent,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update player %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByRoom returns the room's players, highest elo first.
func (r *PlayerRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE room_id = ? ORDER BY elo DESC, id ASC`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for room %s: %w", roomID, err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
