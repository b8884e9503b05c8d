package http

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "secondhand-market/internal/app"
	"secondhand-market/internal/bootstrap"
	"secondhand-market/internal/cache"
	"secondhand-market/internal/pkg/jwtutil"
	"secondhand-market/internal/platform/rabbitmq"
	"secondhand-market/internal/repository"
	"secondhand-market/internal/transport/http/handler"
	"secondhand-market/internal/transport/http/middleware"
)

type AuthService interface {
	handler.AuthService
	middleware.CallerResolver
}

type Deps struct {
	Logger   *slog.Logger
	GinMode  string
	Auth     AuthService
	Garments handler.GarmentService
	// Health is optional; /healthz is only mounted when set.
	Health *handler.HealthHandler
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	userRepo := repository.NewUserRepository(app.MySQL)
	garmentRepo := repository.NewGarmentRepository(app.MySQL)
	eventRepo := repository.NewGarmentEventRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		userRepo,
		jwtutil.NewIssuer(app.Config.Auth.JWTSecret, app.Config.TokenTTL()),
	)
	garmentService := appsvc.NewGarmentService(
		garmentRepo,
		eventRepo,
		cache.NewGarmentCache(app.Redis, app.Config.GarmentCacheTTL()),
		rabbitmq.NewGarmentEventPublisher(app.MQConn, app.Config.RabbitMQ.GarmentEventQueue),
	)

	health := handler.NewHealthHandler(app.Config.App.Name, app.Config.App.Env, app.StartedAt, map[string]handler.DependencyCheck{
		"mysql":    app.PingMySQL,
		"redis":    func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() },
		"rabbitmq": func(context.Context) error { return app.CheckRabbitMQ() },
	})

	return NewEngine(Deps{
		Logger:   app.Logger,
		GinMode:  app.Config.App.GinMode,
		Auth:     authService,
		Garments: garmentService,
		Health:   health,
	})
}

func NewEngine(deps Deps) *gin.Engine {
	if deps.GinMode != "" {
		gin.SetMode(deps.GinMode)
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger), metrics.Handler())

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	if deps.Health != nil {
		router.GET("/healthz", deps.Health.Check)
	}

	authHandler := handler.NewAuthHandler(deps.Auth)
	garmentHandler := handler.NewGarmentHandler(deps.Garments)

	api := router.Group("/api")
	api.Use(middleware.ResolveCaller(deps.Auth))
	api.POST("/register", authHandler.Register)
	api.POST("/authenticate", authHandler.Authenticate)
	api.GET("/me", authHandler.Me)
	api.GET("/users/:id/clothes", garmentHandler.ListByPublisher)

	clothes := api.Group("/clothes")
	clothes.GET("", garmentHandler.List)
	clothes.POST("/add", garmentHandler.Publish)
	clothes.GET("/:id", garmentHandler.Get)
	clothes.GET("/:id/history", garmentHandler.History)
	clothes.PUT("/:id", garmentHandler.Update)
	clothes.DELETE("/:id", garmentHandler.Unpublish)

	return router
}
