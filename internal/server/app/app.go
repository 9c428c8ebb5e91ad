package app

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	appconfig "github.com/pktikkani/forecastio/internal/server/config"
	httpserver "github.com/pktikkani/forecastio/internal/server/http"
	"github.com/pktikkani/forecastio/internal/server/http/handlers"
	"github.com/pktikkani/forecastio/internal/server/http/middleware"
	"github.com/pktikkani/forecastio/internal/server/password"
	"github.com/pktikkani/forecastio/internal/server/redisstore"
	"github.com/pktikkani/forecastio/internal/server/repository"
	"github.com/pktikkani/forecastio/internal/server/service"
	"github.com/pktikkani/forecastio/libs/db"
	libredis "github.com/pktikkani/forecastio/libs/redis"
)

// App wires dependencies for the forecasting backend.
type App struct {
	server *httpserver.Server
	db     *sql.DB
	logger *zap.Logger
}

// New builds application graph.
func New(ctx context.Context, cfg *appconfig.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	redisClient, err := libredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	customerRepo := repository.NewCustomerRepository(sqlDB)
	locationRepo := repository.NewLocationRepository(sqlDB)
	menuRepo := repository.NewMenuRepository(sqlDB)
	datapointRepo := repository.NewDatapointRepository(sqlDB)

	hasher := password.NewBcryptHasher(0)
	tokenSvc := service.NewTokenService(cfg.JWT.Secret, cfg.JWTExpiration())
	authSvc := service.NewAuthService(userRepo, hasher, tokenSvc, logger)
	ingestSvc := service.NewIngestService(datapointRepo, logger)
	modelStore := redisstore.NewModelStore(redisClient)
	forecastSvc := service.NewForecastService(datapointRepo, modelStore, logger)

	routes := httpserver.Routes{
		Signup: handlers.NewSignupHandler(authSvc),
		Login:  handlers.NewLoginHandler(authSvc),
		Health: handlers.NewHealthHandler(),

		ListCustomers:  handlers.NewListCustomersHandler(customerRepo),
		CreateCustomer: handlers.NewCreateCustomerHandler(customerRepo),
		GetCustomer:    handlers.NewGetCustomerHandler(customerRepo),
		UpdateCustomer: handlers.NewUpdateCustomerHandler(customerRepo),
		DeleteCustomer: handlers.NewDeleteCustomerHandler(customerRepo),

		ListLocations:  handlers.NewListLocationsHandler(locationRepo),
		CreateLocation: handlers.NewCreateLocationHandler(locationRepo),
		GetLocation:    handlers.NewGetLocationHandler(locationRepo),
		DeleteLocation: handlers.NewDeleteLocationHandler(locationRepo),

		ListMenus:  handlers.NewListMenusHandler(menuRepo),
		CreateMenu: handlers.NewCreateMenuHandler(menuRepo),
		DeleteMenu: handlers.NewDeleteMenuHandler(menuRepo),

		CSVUpload: handlers.NewCSVUploadHandler(ingestSvc),
		BulkAdd:   handlers.NewBulkAddHandler(ingestSvc),

		TrainModel: handlers.NewTrainModelHandler(forecastSvc),
		Forecast:   handlers.NewForecastHandler(forecastSvc),
	}

	router := middleware.Logging(logger)(middleware.Recover(logger)(httpserver.NewRouter(routes, tokenSvc)))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server: server,
		db:     sqlDB,
		logger: logger,
	}, nil
}

// Run starts serving HTTP traffic until context cancellation.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases acquired resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
}
