package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/univance/kpi-workflow/internal/application/dispatcher"
	"github.com/univance/kpi-workflow/internal/application/service"
	appwf "github.com/univance/kpi-workflow/internal/application/workflow"
	"github.com/univance/kpi-workflow/internal/config"
	domainwf "github.com/univance/kpi-workflow/internal/domain/workflow"
	"github.com/univance/kpi-workflow/internal/infrastructure/persistence/repository"
	"github.com/univance/kpi-workflow/internal/infrastructure/persistence/sqlite"
	httpiface "github.com/univance/kpi-workflow/internal/interfaces/http"
	"github.com/univance/kpi-workflow/internal/notification"
	"github.com/univance/kpi-workflow/pkg/database"
	"github.com/univance/kpi-workflow/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Local .env files override nothing already set in the environment
	gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting KPI Update Workflow System",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	txManager := sqlite.NewDB(db.DB, logger)

	requestRepo := repository.NewRequestRepository(db.DB, logger)
	historyRepo := repository.NewHistoryRepository(db.DB, logger)
	orgRepo := repository.NewOrganizationRepository(db.DB, logger)
	kpiRepo := repository.NewKpiRepository(db.DB, logger)
	notificationRepo := repository.NewNotificationRepository(db.DB, logger)

	eventDispatcher := dispatcher.NewDispatcher(
		dispatcher.WithLogger(&zapLoggerAdapter{logger: logger.Named("dispatcher")}),
	)
	defer eventDispatcher.Close()

	if cfg.Notification.Enabled {
		outbox := notification.NewOutbox(notificationRepo, notification.NewLogSink(logger.Named("sink")), logger.Named("outbox"))
		outbox.Register(eventDispatcher)
	}

	def := domainwf.Default()

	engine := appwf.NewEngine(
		def,
		requestRepo,
		historyRepo,
		txManager,
		appwf.WithDispatcher(eventDispatcher),
		appwf.WithKpiRepository(kpiRepo),
	)

	serviceLogger := &zapLoggerAdapter{logger: logger.Named("service")}
	requestService := service.NewRequestService(def, requestRepo, orgRepo, kpiRepo, eventDispatcher, serviceLogger)
	kpiService := service.NewKpiService(orgRepo, kpiRepo, serviceLogger)

	server := httpiface.NewServer(
		httpiface.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		engine,
		requestService,
		kpiService,
		&zapLoggerAdapter{logger: logger.Named("http")},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// zapLoggerAdapter adapts zap.Logger to the key-value Logger interfaces
// used by the application and interface layers.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
