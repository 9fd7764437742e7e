package server

import (
	"net/http"
	"strconv"

	"stack-scheduler/internal/domain"

	"github.com/go-chi/chi/v5"
)

type CreateRoomRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type AddPlayerRequest struct {
	GameName string `json:"gameName" validate:"required,max=32"`
	TagLine  string `json:"tagLine" validate:"required,max=8"`
}

type AddTimeSlotRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

type VoteRequest struct {
	PlayerName string `json:"playerName" validate:"required,max=64"`
	Available  *bool  `json:"available" validate:"required"`
}

type playerView struct {
	GameName string              `json:"gameName"`
	TagLine  string              `json:"tagLine"`
	Rank     domain.RankProfile  `json:"rank"`
	Stats    domain.StatsSummary `json:"stats"`
}

type addPlayerResponse struct {
	Success bool       `json:"success"`
	Player  playerView `json:"player"`
}

func (s *StackServer) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := s.db.PingContext(r.Context()); err != nil {
		status = "degraded"
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":     status,
		"rate_limit": s.hdev.GetRateLimitInfo(),
	})
}

func (s *StackServer) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := s.rooms.CreateRoom(r.Context(), req.Name)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, room)
}

func (s *StackServer) GetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.rooms.GetRoom(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, room)
}

func (s *StackServer) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var req AddPlayerRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	handle := domain.PlayerHandle{DisplayName: req.GameName, Tag: req.TagLine}
	player, err := s.players.AddPlayer(r.Context(), chi.URLParam(r, "roomID"), handle)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, addPlayerResponse{
		Success: true,
		Player: playerView{
			GameName: player.GameName,
			TagLine:  player.TagLine,
			Rank:     player.Rank,
			Stats:    player.Stats,
		},
	})
}

func (s *StackServer) ListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.ListPlayers(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, players)
}

func (s *StackServer) RefreshPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.RefreshRoom(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, players)
}

func (s *StackServer) AddTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req AddTimeSlotRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	slot, err := s.schedule.AddTimeSlot(r.Context(), chi.URLParam(r, "roomID"), req.Date, req.Time)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, slot)
}

func (s *StackServer) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := s.schedule.ListTimeSlots(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, slots)
}

func (s *StackServer) ListVotes(w http.ResponseWriter, r *http.Request) {
	slotID, ok := s.slotID(w, r)
	if !ok {
		return
	}

	votes, err := s.schedule.ListVotes(r.Context(), slotID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, votes)
}

func (s *StackServer) Vote(w http.ResponseWriter, r *http.Request) {
	slotID, ok := s.slotID(w, r)
	if !ok {
		return
	}

	var req VoteRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.schedule.Vote(r.Context(), slotID, req.PlayerName, *req.Available); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *StackServer) DeleteTimeSlot(w http.ResponseWriter, r *http.Request) {
	slotID, ok := s.slotID(w, r)
	if !ok {
		return
	}

	if err := s.schedule.DeleteTimeSlot(r.Context(), slotID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *StackServer) slotID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "slotID"), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "invalid time slot id")
		return 0, false
	}
	return id, true
}
