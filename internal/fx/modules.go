package fx

import (
	"stack-scheduler/internal/api"
	"stack-scheduler/internal/config"
	"stack-scheduler/internal/database"
	"stack-scheduler/internal/logger"
	"stack-scheduler/internal/repository"
	"stack-scheduler/internal/server"
	"stack-scheduler/internal/service"

	"go.uber.org/fx"
)

// ProvideUpstream exposes the statistics provider client as the pipeline's
// data source.
func ProvideUpstream(c *api.HDevClient) service.Upstream {
	return c
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewRoomRepository),
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewTimeSlotRepository),
	// api clients
	fx.Provide(api.NewHDevClient),
	fx.Provide(api.NewRiotClient),
	fx.Provide(ProvideUpstream),
	// svc
	fx.Provide(service.NewAggregator),
	fx.Provide(service.NewIdentityVerifier),
	fx.Provide(service.NewRoomService),
	fx.Provide(service.NewPlayerService),
	fx.Provide(service.NewScheduleService),
	// server
	fx.Provide(server.NewStackServer),
)
