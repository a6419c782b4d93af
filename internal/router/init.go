package router

import (
	"github.com/oksasatya/hello-birthday/internal/application"
	"github.com/oksasatya/hello-birthday/internal/container"
	"github.com/oksasatya/hello-birthday/internal/domain/repository"
	"github.com/oksasatya/hello-birthday/internal/infrastructure/cache"
	handlers "github.com/oksasatya/hello-birthday/internal/interface/http"
	"github.com/oksasatya/hello-birthday/internal/router/modules"
)

type HelloModuleDeps struct {
	Repo    repository.UserRepository
	Service *application.Service
	Handler *handlers.HelloHandler
	Health  *handlers.HealthHandler
}

func buildHelloDeps() HelloModuleDeps {
	cfg := container.GetConfig()
	store := container.GetStore()

	var repo repository.UserRepository = store
	if rdb := container.GetRedis(); rdb != nil && cfg.CacheEnabled {
		repo = cache.NewUserRepository(store, rdb, cfg.CacheTTL, container.GetLogger())
	}

	service := application.NewService(repo, container.GetObserver())
	handler := handlers.NewHelloHandler(service, container.GetLogger())

	// health reports on the backing store, not the cache in front of it
	var pinger handlers.Pinger
	if p, ok := store.(handlers.Pinger); ok {
		pinger = p
	}

	return HelloModuleDeps{
		Repo:    repo,
		Service: service,
		Handler: handler,
		Health:  handlers.NewHealthHandler(pinger),
	}
}

// InitModules wires the application modules from the container and adds them
// to the registry. Call once at startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	rdb := container.GetRedis()
	deps := buildHelloDeps()

	r.Add(modules.NewHealthModule(deps.Health, rdb))
	r.Add(modules.NewHelloModule(deps.Handler, rdb, cfg.RateLimitPerMinute))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
