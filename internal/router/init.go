package router

import (
	userapp "github.com/oksasatya/go-task-manager-api/internal/application"
	"github.com/oksasatya/go-task-manager-api/internal/container"
	pginfra "github.com/oksasatya/go-task-manager-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/go-task-manager-api/internal/interface/http"
	"github.com/oksasatya/go-task-manager-api/internal/router/modules"
)

// InitModules wires repositories, services and handlers from the
// container singletons and registers every feature module.
// Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	indexer := userapp.NewTaskIndexer(container.GetES(), cfg.ESTasksIndex, logger)

	// a nil *RabbitPublisher must stay a nil interface
	var pub userapp.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	userSvc := userapp.NewUserService(
		userRepo,
		container.GetJWT(),
		pub,
		logger,
		container.GetGCS(),
		cfg.GCSBucket,
		indexer,
		cfg.MailSendEnabled,
	)
	userHandler := handlers.NewUserHandler(userSvc, logger)

	taskRepo := pginfra.NewTaskRepository(container.GetPGPool())
	taskSvc := userapp.NewTaskService(taskRepo, logger, indexer)
	taskHandler := handlers.NewTaskHandler(taskSvc, logger)

	r.Add(modules.NewUserModule(userHandler, userSvc))
	r.Add(modules.NewTaskModule(taskHandler, userSvc))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
