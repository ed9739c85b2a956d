package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reelpilot/domain/repository"
	"reelpilot/infrastructure/cache"
	instagramclient "reelpilot/infrastructure/clients/instagram"
	renderclient "reelpilot/infrastructure/clients/render"
	tiktokclient "reelpilot/infrastructure/clients/tiktok"
	youtubeclient "reelpilot/infrastructure/clients/youtube"
	"reelpilot/infrastructure/configuration"
	"reelpilot/infrastructure/logger"
	"reelpilot/infrastructure/persistence"
	"reelpilot/infrastructure/pubsub"
	"reelpilot/infrastructure/realtime"
	"reelpilot/infrastructure/storage"
	httpHandler "reelpilot/interfaces/http"
	"reelpilot/server"
	"reelpilot/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to PostgreSQL")
		os.Exit(1)
	}
	if err := persistence.EnsureSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed ensuring database schema")
		os.Exit(1)
	}
	logger.GetLogger().WithField("PSQLDb", psqlDb.Ping()).Info("Database connected.")

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without lifecycle events")
		pubSubClient = nil
	}
	eventPublisher := pubsub.NewEventPublisher(pubSubClient)

	redisClient := cache.NewRedisClient(ctx)
	if redisClient == nil {
		logger.GetLogger().Warn("Redis not available - OAuth connect flows will fail until it comes back")
	}
	stateStore := cache.NewOAuthStateStore(redisClient)

	userRepository := persistence.NewUserRepository(psqlDb)
	seriesRepository := persistence.NewSeriesRepository(psqlDb)
	videoRepository := persistence.NewVideoRepository(psqlDb)
	jobRepository := persistence.NewJobRepository(psqlDb)
	connectionRepository := persistence.NewPlatformConnectionRepository(psqlDb)

	// One client per enabled platform. A platform with broken configuration is
	// skipped with a warning; everything else keeps working.
	var uploaders []repository.IPlatformUploader
	var connectors []repository.IOAuthConnector
	for _, platform := range configuration.C.Platforms.Enabled {
		cfg, err := configuration.GetPlatformOAuthConfig(platform)
		if err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"platform": platform, "error": err}).Warn("Platform configuration invalid - platform disabled")
			continue
		}
		switch platform {
		case "youtube":
			up := youtubeclient.NewUploader(cfg)
			uploaders = append(uploaders, up)
			connectors = append(connectors, up)
		case "tiktok":
			up := tiktokclient.NewUploader(cfg)
			uploaders = append(uploaders, up)
			connectors = append(connectors, up)
		case "instagram":
			up := instagramclient.NewUploader(cfg, app.BaseURL, configuration.C.Render.WorkDir)
			uploaders = append(uploaders, up)
			connectors = append(connectors, up)
		default:
			logger.GetLogger().WithField("platform", platform).Warn("Unknown platform in configuration - skipping")
		}
	}
	logger.GetLogger().WithField("count", len(uploaders)).Info("Platform clients initialized")

	renderClient := renderclient.NewClient(
		configuration.C.Render.Host,
		time.Duration(configuration.C.Render.TimeoutSeconds)*time.Second,
	)
	tempCleaner := storage.NewTempCleaner(configuration.C.Render.WorkDir)
	statusHub := realtime.NewStatusHub()

	userUsecase := usecase.NewUserUsecase(userRepository)
	seriesUsecase := usecase.NewSeriesUsecase(seriesRepository, userRepository)
	publishUsecase := usecase.NewPublishUsecase(videoRepository, seriesRepository, connectionRepository, uploaders, tempCleaner).
		WithEvents(eventPublisher).
		WithNotifier(statusHub.BroadcastPublishStatus)
	schedulerUsecase := usecase.NewSchedulerUsecase(seriesRepository, videoRepository, jobRepository, userRepository, renderClient).
		WithEvents(eventPublisher).
		WithLeadTime(time.Duration(configuration.C.Scheduler.LeadTimeMinutes) * time.Minute)
	videoUsecase := usecase.NewVideoUsecase(videoRepository, seriesRepository, jobRepository).
		WithPublisher(publishUsecase).
		WithEvents(eventPublisher).
		WithNotifier(statusHub.BroadcastVideoStatus)
	connectUsecase := usecase.NewConnectUsecase(connectionRepository, stateStore, connectors).
		WithStateTTL(time.Duration(configuration.C.Scheduler.OAuthStateTTLMin) * time.Minute)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	seriesHandler := httpHandler.NewSeriesHandler(seriesUsecase)
	videoHandler := httpHandler.NewVideoHandler(videoUsecase, schedulerUsecase)
	publishHandler := httpHandler.NewPublishHandler(publishUsecase, configuration.C.Platforms.Enabled)
	connectHandler := httpHandler.NewConnectHandler(connectUsecase)

	router := server.InitiateRouter(
		userHandler,
		seriesHandler,
		videoHandler,
		publishHandler,
		connectHandler,
		statusHub,
		userRepository,
		configuration.C.Render.WorkDir,
	)

	// Background generation loop. Each cycle walks active series and dispatches
	// render jobs for slots inside the lead window.
	if configuration.C.Scheduler.Enabled {
		interval := time.Duration(configuration.C.Scheduler.IntervalMinutes) * time.Minute
		logger.GetLogger().WithField("interval", interval.String()).Info("Scheduler enabled")
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-ticker.C:
					cycleCtx, cancelCycle := context.WithTimeout(ctx, 5*time.Minute)
					if err := schedulerUsecase.RunCycle(cycleCtx); err != nil {
						logger.GetLogger().WithField("error", err).Error("Schedule cycle failed")
					}
					cancelCycle()
				}
			}
		})
	} else {
		logger.GetLogger().Info("Scheduler disabled - only manual generation will run")
	}

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  0,
			WriteTimeout: 0,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
