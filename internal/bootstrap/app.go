package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"secondhand-market/internal/config"
	"secondhand-market/internal/pkg/logger"
	mysqlClient "secondhand-market/internal/platform/mysql"
	rabbitmqClient "secondhand-market/internal/platform/rabbitmq"
	redisClient "secondhand-market/internal/platform/redis"
	"secondhand-market/internal/repository"
	"secondhand-market/internal/worker"
)

type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	EventWorker *worker.GarmentEventWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log := logger.New(cfg.App.LogLevel).With("app", cfg.App.Name, "env", cfg.App.Env)
	slog.SetDefault(log)

	app := &App{
		Config:    cfg,
		Logger:    log,
		StartedAt: time.Now(),
	}

	app.MySQL, err = mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlClient.Migrate(app.MySQL); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Redis, err = redisClient.New(ctx, redisClient.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	app.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	eventRepo := repository.NewGarmentEventRepository(app.MySQL)
	app.EventWorker = worker.NewGarmentEventWorker(app.MQConn, eventRepo, cfg.RabbitMQ.GarmentEventQueue, log)
	if err := app.EventWorker.Start(ctx); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("start garment event worker failed: %w", err)
	}

	log.Info("dependencies ready",
		"mysql", fmt.Sprintf("%s:%d/%s", cfg.MySQL.Host, cfg.MySQL.Port, cfg.MySQL.DB),
		"redis", cfg.Redis.Addr,
		"queue", cfg.RabbitMQ.GarmentEventQueue,
	)
	return app, nil
}

func (a *App) PingMySQL(ctx context.Context) error {
	if a.MySQL == nil {
		return errors.New("mysql not initialised")
	}
	sqlDB, err := a.MySQL.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (a *App) CheckRabbitMQ() error {
	if a.MQConn == nil || a.MQConn.IsClosed() {
		return errors.New("connection closed")
	}
	return nil
}

// Close releases resources in reverse start order. The worker stops before
// the connection it consumes from.
func (a *App) Close() error {
	var errs []error
	if a.EventWorker != nil {
		a.EventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.MySQL != nil {
		if sqlDB, err := a.MySQL.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close mysql: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
