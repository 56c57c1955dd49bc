package router

import (
	analysissvc "proforma-backend/internal/application/analysis"
	simulationsvc "proforma-backend/internal/application/simulation"
	"proforma-backend/internal/cache"
	"proforma-backend/internal/config"
	"proforma-backend/internal/engine"
	"proforma-backend/internal/forecast"
	"proforma-backend/internal/infrastructure/database"
	analysishandler "proforma-backend/internal/interfaces/handlers/analysis"
	healthhandler "proforma-backend/internal/interfaces/handlers/health"
	simulationhandler "proforma-backend/internal/interfaces/handlers/simulation"
	"proforma-backend/internal/middleware"
	"proforma-backend/internal/montecarlo"
	"proforma-backend/internal/params"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all middleware and routes wired.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opts)
	}
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if db != nil {
		hh.DB = &gormDBPinger{db: db}
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/reset", hh.Reset)

	snapshot := params.Default()
	if cfg.ParamsPath != "" {
		var err error
		snapshot, err = params.Load(cfg.ParamsPath)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	metricsCfg := engine.Config{
		DiscountRate:       cfg.DiscountRate,
		DispositionCostPct: cfg.DispositionCostPct,
		Thresholds:         engine.DefaultThresholds(),
	}
	if cfg.HurdleRate > 0 {
		metricsCfg.Thresholds.HurdleRate = cfg.HurdleRate
	}

	resultCache := &cache.ResultCache{Rdb: rdb, TTL: cfg.CacheTTL}

	var provider forecast.Provider
	if db != nil {
		provider = &forecast.GormProvider{DB: db}
	} else {
		provider = &forecast.StaticProvider{Snapshot: snapshot}
	}

	as := &analysissvc.Service{
		DB:       db,
		Cache:    resultCache,
		Forecast: provider,
		Snapshot: snapshot,
		Metrics:  metricsCfg,
	}
	ah := &analysishandler.Handlers{Service: as}
	ag := app.Group("/api/v1/analysis")
	ag.Post("/run", ah.Run)
	ag.Get("/:id", ah.Get)

	mcEngine, err := montecarlo.New(snapshot, metricsCfg, cfg.SimWorkers, cfg.DegradedThreshold)
	if err != nil {
		return nil, nil, nil, err
	}
	ss := &simulationsvc.Service{
		DB:                db,
		Cache:             resultCache,
		Engine:            mcEngine,
		Snapshot:          snapshot,
		Metrics:           metricsCfg,
		Workers:           cfg.SimWorkers,
		DegradedThreshold: cfg.DegradedThreshold,
		DefaultScenarios:  cfg.DefaultScenarios,
		MaxScenarios:      cfg.MaxScenarios,
	}
	sh := &simulationhandler.Handlers{Service: ss}
	sg := app.Group("/api/v1/simulation")
	sg.Post("/run", sh.Run)
	sg.Get("/:id", sh.Get)

	return app, db, rdb, nil
}
