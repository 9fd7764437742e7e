package service

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrTimeSlotNotFound = errors.New("time slot not found")
)
