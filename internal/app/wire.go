//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/startsmart/internal/api"
	"github.com/honeycarbs/startsmart/internal/config"
	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/pkg/logging"
)

var coreSet = wire.NewSet(
	provideRepository,
	provideJobProviders,
	provideLocator,
	provideTuning,
	job.NewServiceWithDeps,
	provideScheduler,
	newCore,
)

// InitializeCore wires the job service, store, providers and scheduler
func InitializeCore(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Core, func(), error) {
	wire.Build(coreSet)
	return nil, nil, nil
}

// InitializeApp wires the full server: core plus REST, MCP, favorites, AI and Sheets
func InitializeApp(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, func(), error) {
	wire.Build(
		coreSet,
		provideFavorites,
		provideAssistant,
		provideSheetsWriter,
		api.NewHandler,
		provideMCPServer,
		provideHTTPServer,
		newApp,
	)
	return nil, nil, nil
}
