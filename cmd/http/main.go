package main

import (
	"context"
	"log"
	"time"

	"github.com/hilthontt/codeboard/internal/domain"
	"github.com/hilthontt/codeboard/internal/infrastructure/configs"
	"github.com/hilthontt/codeboard/internal/infrastructure/events"
	"github.com/hilthontt/codeboard/internal/infrastructure/executor"
	"github.com/hilthontt/codeboard/internal/infrastructure/logging"
	"github.com/hilthontt/codeboard/internal/infrastructure/messaging"
	"github.com/hilthontt/codeboard/internal/infrastructure/metrics"
	"github.com/hilthontt/codeboard/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/codeboard/internal/infrastructure/repository"
	"github.com/hilthontt/codeboard/internal/infrastructure/tracing"
	"github.com/hilthontt/codeboard/internal/infrastructure/ws"
	"github.com/hilthontt/codeboard/internal/persistence/db"
	auditlog "github.com/hilthontt/codeboard/internal/persistence/repository"
	"github.com/hilthontt/codeboard/internal/presentation/api"
	"github.com/hilthontt/codeboard/internal/presentation/handler/audit"
	"github.com/hilthontt/codeboard/internal/presentation/handler/health"
	"github.com/hilthontt/codeboard/internal/presentation/handler/messages"
	"github.com/hilthontt/codeboard/internal/presentation/handler/rooms"
	"github.com/hilthontt/codeboard/internal/presentation/handler/run"
	"github.com/redis/go-redis/v9"

	_ "github.com/hilthontt/codeboard/docs"
)

//	@title			Codeboard API
//	@version		1.0
//	@description	Collaborative code editor and whiteboard rooms.
//	@BasePath		/

func main() {
	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sh, err := tracing.InitTracer(context.Background(), cfg.Tracing)
	if err != nil {
		logger.Fatal(logging.General, logging.Startup, "failed to initialize the tracer", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	m := metrics.New()
	checks := map[string]health.Check{}

	var trail domain.RoomAuditRepository
	if cfg.Audit.Enabled {
		if cfg.Audit.MongoURI != "" {
			mongoClient, err := db.NewMongoClient(ctx, cfg.Audit)
			if err != nil {
				logger.Fatal(logging.General, logging.Startup, "failed to connect to mongodb", map[logging.ExtraKey]any{
					logging.ErrorMessage: err.Error(),
				})
			}
			defer db.DisconnectMongo(context.Background(), mongoClient)

			trail = auditlog.NewRoomAuditLogRepository(mongoClient.Database(cfg.Audit.Database), cfg.Audit.Retention)
			checks["mongodb"] = func(ctx context.Context) error {
				return db.Ping(ctx, mongoClient)
			}
		} else {
			trail = repository.NewRoomAuditLogRepository(cfg.Audit.Capacity)
		}

		if err := trail.EnsureIndexes(ctx); err != nil {
			logger.Warn(logging.General, logging.Startup, "failed to create audit indexes", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}

	var sink domain.RoomEventPublisher
	if cfg.RabbitMQ.URI != "" {
		rabbitmq, err := messaging.NewRabbitMQ(cfg.RabbitMQ.URI)
		if err != nil {
			logger.Fatal(logging.RabbitMQ, logging.Startup, "failed to connect", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
		defer rabbitmq.Close()

		sink = events.NewRoomPublisher(rabbitmq)

		if trail != nil {
			consumer := events.NewRoomConsumer(rabbitmq, trail, logger)
			go func() {
				if err := consumer.Listen(); err != nil {
					logger.Error(logging.RabbitMQ, logging.Consume, "room consumer stopped", map[logging.ExtraKey]any{
						logging.ErrorMessage: err.Error(),
					})
				}
			}()
		}

		logger.Info(logging.RabbitMQ, logging.Startup, "room events enabled", nil)
	} else if trail != nil {
		sink = events.NewAuditPublisher(trail)
	}

	var publisher domain.RoomEventPublisher = events.NopPublisher{}
	var dispatcher *events.Dispatcher
	if sink != nil {
		dispatcher = events.NewDispatcher(sink, logger, events.DispatcherOptions{
			QueueSize:   cfg.RabbitMQ.QueueSize,
			Workers:     cfg.RabbitMQ.Workers,
			MaxRetry:    cfg.RabbitMQ.MaxRetry,
			BaseBackoff: 100 * time.Millisecond,
			MaxBackoff:  2 * time.Second,
		})
		publisher = dispatcher
	}

	hub := ws.NewHub(ws.Options{
		MaxRooms:            cfg.Rooms.MaxRooms,
		MaxMembers:          cfg.Rooms.MaxMembers,
		IdleTTL:             cfg.Rooms.IdleTTL,
		EnforceAdmin:        cfg.Rooms.EnforceAdmin,
		PromoteOnAdminLeave: cfg.Rooms.PromoteOnAdminLeave,
		SendBuffer:          cfg.WS.SendBuffer,
		ReadLimit:           cfg.WS.ReadLimit,
		WriteWait:           cfg.WS.WriteWait,
		PongWait:            cfg.WS.PongWait,
		AllowedOrigins:      cfg.HTTP.AllowedOrigins,
	}, logger, m, publisher)

	var store ratelimiter.Store
	if cfg.RateLimiter.RedisAddr != "" {
		shared := ratelimiter.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.RateLimiter.RedisAddr}))
		checks["redis"] = shared.Ping
		store = shared
	}

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		Store:            store,
		TTL:              cfg.RateLimiter.CacheTTL,
	})
	defer rl.Close()

	quota := ratelimiter.NewFixedWindow(cfg.RateLimiter.RunsPerMinute, time.Minute)
	defer quota.Close()

	exec := executor.NewClient(cfg.Executor.Endpoint, cfg.Executor.Timeout)

	roomHandler := rooms.NewHandler(hub, logger)
	healthHandler := health.NewHandler(hub, checks)
	messageHandler := messages.NewHandler(hub)
	runHandler := run.NewHandler(exec, quota, m, logger)
	auditHandler := audit.NewHandler(trail, logger)

	app := api.NewApplication(*cfg, roomHandler, healthHandler, messageHandler, runHandler, auditHandler, logger, rl, m)
	app.OnShutdown(hub.Close)
	if dispatcher != nil {
		app.OnShutdown(dispatcher.Close)
	}

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatal(logging.General, logging.Shutdown, "server exited", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
}
