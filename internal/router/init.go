package router

import (
	appuser "github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/container"
	"github.com/oksasatya/go-account-service/internal/infrastructure/cache"
	"github.com/oksasatya/go-account-service/internal/infrastructure/media"
	"github.com/oksasatya/go-account-service/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/internal/router/modules"
)

type UserModuleDeps struct {
	Service *appuser.Service
	Handler *handlers.UserHandler
}

// BuildUserDeps assembles the account service from the container. Optional
// collaborators are attached only when their client was configured.
func BuildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	opts := []appuser.Option{
		appuser.WithAppName(cfg.AppName),
		appuser.WithEvents(container.GetAuthEvents()),
	}
	if rdb := container.GetRedis(); rdb != nil {
		opts = append(opts, appuser.WithCache(cache.NewProfileCache(rdb, cfg.ProfileCacheTTL)))
	}
	if es := container.GetES(); es != nil {
		opts = append(opts, appuser.WithIndexer(search.NewUserIndex(es, cfg.ESUsersIndex)))
	}
	if pub := container.GetRabbitPub(); pub != nil {
		opts = append(opts, appuser.WithPublisher(pub))
	}

	service := appuser.NewService(
		container.GetUserRepo(),
		container.GetJWT(),
		media.NewGCSHost(container.GetGCS(), cfg.GCSBucket, "users"),
		logger,
		opts...,
	)
	handler := handlers.NewUserHandler(service, logger, container.GetCookies(), cfg.UploadTempDir, cfg.UploadMaxBytes)
	return UserModuleDeps{Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := BuildUserDeps()
	guard := middleware.VerifyJWT(deps.Service, container.GetLogger())
	r.Add(modules.NewUserModule(deps.Handler, guard))

	if container.GetConfig().MetricsEnabled {
		r.Add(modules.NewDebugModule(container.GetMetricsRegistry()))
	}
}
