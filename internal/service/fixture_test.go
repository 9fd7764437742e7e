package service_test

import (
	"path/filepath"
	"testing"

	"stack-scheduler/internal/api"
	"stack-scheduler/internal/config"
	"stack-scheduler/internal/database"
	"stack-scheduler/internal/repository"
	"stack-scheduler/internal/service"

	"github.com/rs/zerolog"
)

type fixture struct {
	up       *fakeUpstream
	rooms    *service.RoomService
	players  *service.PlayerService
	schedule *service.ScheduleService
}

// newFixture wires the services against a temp SQLite file and a fake
// provider. The Riot client has no key, so verification uses the provider.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zerolog.Nop()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "svc.db"), RefreshConcurrency: 2}

	db, err := database.New(cfg, logger)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	up := newFakeUpstream()
	rooms := service.NewRoomService(repository.NewRoomRepository(db, logger), logger)
	verifier := service.NewIdentityVerifier(api.NewRiotClient(cfg, logger), up, logger)
	aggregator := service.NewAggregator(up, logger)

	return &fixture{
		up:       up,
		rooms:    rooms,
		players:  service.NewPlayerService(cfg, rooms, repository.NewPlayerRepository(db, logger), verifier, aggregator, logger),
		schedule: service.NewScheduleService(rooms, repository.NewTimeSlotRepository(db, logger), logger),
	}
}
