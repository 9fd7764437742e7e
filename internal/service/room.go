package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stack-scheduler/internal/constants"
	"stack-scheduler/internal/domain"
	"stack-scheduler/internal/repository"

	"github.com/rs/zerolog"
)

type RoomService struct {
	rooms  *repository.RoomRepository
	logger zerolog.Logger
}

func NewRoomService(rooms *repository.RoomRepository, logger zerolog.Logger) *RoomService {
	return &RoomService{rooms: rooms, logger: logger}
}

func (s *RoomService) CreateRoom(ctx context.Context, name string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	room, err := s.rooms.Create(ctx, strings.TrimSpace(name))
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create room")
		return nil, err
	}

	s.logger.Info().Str("room_id", room.ID).Str("name", room.Name).Msg("room created")
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	room, err := s.rooms.Get(ctx, strings.ToUpper(id))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}
