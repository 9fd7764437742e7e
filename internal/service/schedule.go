package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stack-scheduler/internal/constants"
	"stack-scheduler/internal/domain"
	"stack-scheduler/internal/repository"

	"github.com/rs/zerolog"
)

// ScheduleService manages candidate session times and availability votes.
type ScheduleService struct {
	rooms  *RoomService
	slots  *repository.TimeSlotRepository
	logger zerolog.Logger
}

func NewScheduleService(rooms *RoomService, slots *repository.TimeSlotRepository, logger zerolog.Logger) *ScheduleService {
	return &ScheduleService{rooms: rooms, slots: slots, logger: logger}
}

func (s *ScheduleService) AddTimeSlot(ctx context.Context, roomID, date, clock string) (*domain.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.Create(ctx, room.ID, date, clock)
	if err != nil {
		s.logger.Error().Err(err).Str("room_id", room.ID).Msg("failed to add time slot")
		return nil, err
	}

	s.logger.Info().Str("room_id", room.ID).Int64("slot_id", slot.ID).Str("date", date).Str("time", clock).Msg("time slot added")
	return slot, nil
}

func (s *ScheduleService) ListTimeSlots(ctx context.Context, roomID string) ([]domain.TimeSlot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.slots.ListByRoom(ctx, room.ID)
}

func (s *ScheduleService) ListVotes(ctx context.Context, slotID int64) ([]domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.getSlot(ctx, slotID); err != nil {
		return nil, err
	}
	return s.slots.ListVotes(ctx, slotID)
}

func (s *ScheduleService) Vote(ctx context.Context, slotID int64, playerName string, available bool) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if _, err := s.getSlot(ctx, slotID); err != nil {
		return err
	}

	vote := domain.Vote{
		SlotID:     slotID,
		PlayerName: strings.TrimSpace(playerName),
		Available:  available,
		VotedAt:    time.Now().UTC(),
	}
	if err := s.slots.UpsertVote(ctx, vote); err != nil {
		return err
	}

	s.logger.Debug().Int64("slot_id", slotID).Str("player_name", vote.PlayerName).Bool("available", available).Msg("vote recorded")
	return nil
}

func (s *ScheduleService) DeleteTimeSlot(ctx context.Context, slotID int64) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	err := s.slots.Delete(ctx, slotID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTimeSlotNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete time slot: %w", err)
	}

	s.logger.Info().Int64("slot_id", slotID).Msg("time slot deleted")
	return nil
}

func (s *ScheduleService) getSlot(ctx context.Context, slotID int64) (*domain.TimeSlot, error) {
	slot, err := s.slots.Get(ctx, slotID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrTimeSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get time slot: %w", err)
	}
	return slot, nil
}
