package app

import (
	"github.com/honeycarbs/startsmart/internal/domain/job"
	"github.com/honeycarbs/startsmart/internal/ingest"
	"github.com/honeycarbs/startsmart/internal/server"
)

// Core is the job service with its store and providers, without any transport
type Core struct {
	Jobs      job.Service
	Repo      job.Repository
	Providers []job.Provider
	Scheduler *ingest.Scheduler
}

// App is the full server process
type App struct {
	Core
	Server *server.Server
}

func newCore(jobs job.Service, repo job.Repository, providers []job.Provider, scheduler *ingest.Scheduler) *Core {
	return &Core{
		Jobs:      jobs,
		Repo:      repo,
		Providers: providers,
		Scheduler: scheduler,
	}
}

func newApp(core *Core, srv *server.Server) *App {
	return &App{Core: *core, Server: srv}
}
