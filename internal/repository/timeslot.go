package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stack-scheduler/internal/domain"

	"github.com/rs/zerolog"
)

type TimeSlotRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTimeSlotRepository(sqlDB *sql.DB, logger zerolog.Logger) *TimeSlotRepository {
	return &TimeSlotRepository{db: sqlDB, logger: logger}
}

func (r *TimeSlotRepository) Create(ctx context.Context, roomID, date, clock string) (*domain.TimeSlot, error) {
	slot := &domain.TimeSlot{RoomID: roomID, Date: date, Time: clock, CreatedAt: time.Now().UTC()}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO time_slots (room_id, date, time, created_at) VALUES (?, ?, ?, ?)`,
		slot.RoomID, slot.Date, slot.Time, slot.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert time slot: %w", err)
	}

	slot.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read time slot id: %w", err)
	}
	return slot, nil
}

func (r *TimeSlotRepository) Get(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	var slot domain.TimeSlot
	err := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.room_id, s.date, s.time, s.created_at,
			COALESCE(SUM(CASE WHEN v.available THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN v.available THEN 0 ELSE 1 END), 0)
		FROM time_slots s
		LEFT JOIN votes v ON v.slot_id = s.id
		WHERE s.id = ?
		GROUP BY s.id`, id).
		Scan(&slot.ID, &slot.RoomID, &slot.Date, &slot.Time, &slot.CreatedAt, &slot.AvailableCount, &slot.UnavailableCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time slot %d: %w", id, err)
	}
	return &slot, nil
}

// ListByRoom returns the room's slots in calendar order with their vote tallies.
func (r *TimeSlotRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.TimeSlot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.room_id, s.date, s.time, s.created_at,
			COALESCE(SUM(CASE WHEN v.available THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN v.available THEN 0 ELSE 1 END), 0)
		FROM time_slots s
		LEFT JOIN votes v ON v.slot_id = s.id
		WHERE s.room_id = ?
		GROUP BY s.id
		ORDER BY s.date ASC, s.time ASC, s.id ASC`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time slots for room %s: %w", roomID, err)
	}
	defer rows.Close()

	slots := []domain.TimeSlot{}
	for rows.Next() {
		var slot domain.TimeSlot
		if err := rows.Scan(&slot.ID, &slot.RoomID, &slot.Date, &slot.Time, &slot.CreatedAt, &slot.AvailableCount, &slot.UnavailableCount); err != nil {
			return nil, fmt.Errorf("failed to scan time slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

// Delete removes a slot together with its votes.
func (r *TimeSlotRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE slot_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete votes for slot %d: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM time_slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time slot %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// UpsertVote records a player's availability, replacing any earlier vote on the slot.
func (r *TimeSlotRepository) UpsertVote(ctx context.Context, vote domain.Vote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO votes (slot_id, player_name, available, voted_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (slot_id, player_name) DO UPDATE SET
			available = excluded.available,
			voted_at = excluded.voted_at`,
		vote.SlotID, vote.PlayerName, vote.Available, vote.VotedAt)
	if err != nil {
		r.logger.Error().Err(err).Int64("slot_id", vote.SlotID).Str("player_name", vote.PlayerName).Msg("failed to upsert vote")
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// ListVotes returns the slot's votes, most recent first.
func (r *TimeSlotRepository) ListVotes(ctx context.Context, slotID int64) ([]domain.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT slot_id, player_name, available, voted_at
		FROM votes
		WHERE slot_id = ?
		ORDER BY voted_at DESC, player_name ASC`, slotID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes for slot %d: %w", slotID, err)
	}
	defer rows.Close()

	votes := []domain.Vote{}
	for rows.Next() {
		var v domain.Vote
		if err := rows.Scan(&v.SlotID, &v.PlayerName, &v.Available, &v.VotedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
