package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stack-scheduler/internal/constants"
	"stack-scheduler/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

// room codes are short, so a collision is retried a few times before giving up
const roomIDAttempts = 5

type RoomRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRoomRepository(sqlDB *sql.DB, logger zerolog.Logger) *RoomRepository {
	return &RoomRepository{db: sqlDB, logger: logger}
}

func (r *RoomRepository) Create(ctx context.Context, name string) (*domain.Room, error) {
	room := &domain.Room{Name: name, CreatedAt: time.Now().UTC()}

	for attempt := 1; attempt <= roomIDAttempts; attempt++ {
		id, err := gonanoid.Generate(constants.RoomIDAlphabet, constants.RoomIDLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate room id: %w", err)
		}
		room.ID = id

		_, err = r.db.ExecContext(ctx,
			`INSERT INTO rooms (id, name, created_at) VALUES (?, ?, ?)`,
			room.ID, room.Name, room.CreatedAt)
		if err == nil {
			return room, nil
		}
		if !isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to insert room: %w", err)
		}
		r.logger.Debug().Str("room_id", id).Int("attempt", attempt).Msg("room id collision, retrying")
	}

	return nil, fmt.Errorf("failed to allocate a unique room id after %d attempts", roomIDAttempts)
}

func (r *RoomRepository) Get(ctx context.Context, id string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM rooms WHERE id = ?`, id).
		Scan(&room.ID, &room.Name, &room.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room %s: %w", id, err)
	}
	return &room, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
