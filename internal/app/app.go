package app

import (
	"net/http"

	"schedule-arranger-go/internal/config"
	"schedule-arranger-go/internal/db"
	scheduledomain "schedule-arranger-go/internal/domain/schedule"
	userdomain "schedule-arranger-go/internal/domain/user"
	schedulerepo "schedule-arranger-go/internal/repository/postgres/schedule"
	userrepo "schedule-arranger-go/internal/repository/postgres/user"
	"schedule-arranger-go/internal/transport/httpserver"
	"schedule-arranger-go/internal/transport/httpserver/handler"
	"schedule-arranger-go/pkg/logger"

	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	scheduleService := scheduledomain.NewService(schedulerepo.NewPostgres(dbConn))
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))
	handlers := handler.New(scheduleService, log)

	log.Info("app: initializing http server")
	router := httpserver.NewRouter(cfg, handlers, userService, log)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
