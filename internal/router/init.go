package router

import (
	"github.com/storelane/storelane-api/internal/application"
	"github.com/storelane/storelane-api/internal/container"
	pginfra "github.com/storelane/storelane-api/internal/infrastructure/postgres"
	handlers "github.com/storelane/storelane-api/internal/interface/http"
	"github.com/storelane/storelane-api/internal/router/modules"
)

func buildProductModule() Module {
	repo := pginfra.NewProductRepository(container.GetPGPool())
	events := application.NewEventPublisher(container.GetEventPub(), container.GetLogger())
	svc := application.NewProductService(
		repo,
		events,
		container.GetES(),
		container.GetConfig().ESProductsIndex,
		container.GetLogger(),
	)
	handler := handlers.NewProductHandler(svc, container.GetImageStore(), container.GetLogger())
	return modules.NewProductModule(handler, container.GetJWT())
}

func buildUserModules() (Module, Module) {
	repo := pginfra.NewUserRepository(container.GetPGPool())
	svc := application.NewUserService(
		repo,
		container.GetJWT(),
		container.GetMailPub(),
		container.GetLogger(),
	)
	auth := modules.NewAuthModule(handlers.NewAuthHandler(svc, container.GetLogger()))
	users := modules.NewUserModule(handlers.NewUserHandler(svc, container.GetLogger()), container.GetJWT())
	return auth, users
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	authMod, userMod := buildUserModules()
	r.Add(authMod)
	r.Add(userMod)
	r.Add(buildProductModule())
}
