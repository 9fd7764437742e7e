package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"stack-scheduler/internal/api"
	"stack-scheduler/internal/metrics"
	"stack-scheduler/internal/middleware"
	"stack-scheduler/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type StackServer struct {
	rooms      *service.RoomService
	players    *service.PlayerService
	schedule   *service.ScheduleService
	aggregator *service.Aggregator
	hdev       *api.HDevClient
	db         *sql.DB
	validate   *validator.Validate
	logger     zerolog.Logger
}

func NewStackServer(
	rooms *service.RoomService,
	players *service.PlayerService,
	schedule *service.ScheduleService,
	aggregator *service.Aggregator,
	hdev *api.HDevClient,
	db *sql.DB,
	logger zerolog.Logger,
) *StackServer {
	return &StackServer{
		rooms:      rooms,
		players:    players,
		schedule:   schedule,
		aggregator: aggregator,
		hdev:       hdev,
		db:         db,
		validate:   validator.New(),
		logger:     logger,
	}
}

// Router mounts the REST API, the lookup RPC and the metrics endpoint.
func (s *StackServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID(s.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.Health)

		r.Post("/rooms", s.CreateRoom)
		r.Route("/rooms/{roomID}", func(r chi.Router) {
			r.Get("/", s.GetRoom)
			r.Post("/players", s.AddPlayer)
			r.Get("/players", s.ListPlayers)
			r.Post("/players/refresh", s.RefreshPlayers)
			r.Post("/timeslots", s.AddTimeSlot)
			r.Get("/timeslots", s.ListTimeSlots)
		})

		r.Route("/timeslots/{slotID}", func(r chi.Router) {
			r.Get("/votes", s.ListVotes)
			r.Post("/vote", s.Vote)
			r.Delete("/", s.DeleteTimeSlot)
		})
	})

	path, handler := s.LookupPlayerHandler()
	r.Handle(path, handler)

	r.Handle("/metrics", metrics.Handler())
	return r
}

func (s *StackServer) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *StackServer) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps service failures to HTTP statuses. Anything unexpected
// is logged and reported as a generic 500.
func (s *StackServer) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, api.ErrRiotIDNotFound):
		s.errorResponse(w, http.StatusNotFound, "Riot ID not found")
	case errors.Is(err, service.ErrRoomNotFound):
		s.errorResponse(w, http.StatusNotFound, "Room not found")
	case errors.Is(err, service.ErrTimeSlotNotFound):
		s.errorResponse(w, http.StatusNotFound, "Time slot not found")
	default:
		requestID := middleware.GetRequestID(r.Context())
		s.logger.Error().
			Err(err).
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		s.jsonResponse(w, http.StatusInternalServerError, map[string]string{
			"error":      "Internal server error",
			"request_id": requestID,
		})
	}
}

// decode reads a JSON body into dst and validates it.
func (s *StackServer) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return s.validate.Struct(dst)
}
