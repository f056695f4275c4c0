package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"zapisbot/internal/api"
	"zapisbot/internal/bot"
	"zapisbot/internal/config"
	"zapisbot/internal/database"
	"zapisbot/internal/events"
	"zapisbot/internal/google"
	"zapisbot/internal/logging"
	"zapisbot/internal/models"
	"zapisbot/internal/repository"
	"zapisbot/internal/service"
	"zapisbot/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, catalog, logger, closer, loadErr := loadConfigAndLogger()
	if loadErr != nil {
		return loadErr
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sheetsService, err := initGoogleSheets(ctx, cfg, &logger)
	if err != nil {
		return err
	}

	redisClient, sessionService := initSessionService(ctx, cfg, &logger)

	tgService, err := initTelegram(cfg, &logger)
	if err != nil {
		return err
	}

	notifier := service.NewOperatorNotifier(tgService, cfg.Telegram.OperatorID)

	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
	syncWorker := worker.NewSyncWorker(db, sheetsService, notifier, redisClient, retryPolicy, &logger)
	go syncWorker.Start(ctx)

	eventBus := events.NewEventBus()
	subscribeBookingEvents(eventBus, &logger)

	availability := service.NewAvailabilityService(sheetsService)
	finalizer := service.NewBookingService(sheetsService, notifier, syncWorker, eventBus, &logger)
	metrics := bot.NewMetrics()

	if cfg.Monitoring.PrometheusEnabled {
		monitoring := api.NewMonitoringServer(cfg.Monitoring.PrometheusPort, db, redisClient, &logger)
		go func() {
			if err := monitoring.Start(); err != nil {
				logger.Error().Err(err).Msg("Monitoring server error")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = monitoring.Shutdown(shutdownCtx)
		}()
	}

	telegramBot, err := bot.NewBot(
		tgService, cfg, catalog, sessionService,
		availability, finalizer, sheetsService, eventBus, metrics, &logger,
	)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания бота")
		return err
	}

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, models.Catalog, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, models.Catalog{}, zerolog.Logger{}, nil, err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, models.Catalog{}, zerolog.Logger{}, nil, err
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	servicesPath := os.Getenv("SERVICES_PATH")
	if servicesPath == "" {
		servicesPath = "configs/services.yaml"
	}
	servicesData, err := os.ReadFile(servicesPath)
	if err != nil {
		logger.Error().Err(err).Msgf("Ошибка чтения %s", servicesPath)
		return nil, models.Catalog{}, zerolog.Logger{}, closer, err
	}

	var servicesConfig struct {
		Services []models.Service `yaml:"services"`
	}
	if err := yaml.Unmarshal(servicesData, &servicesConfig); err != nil {
		logger.Error().Err(err).Msg("Ошибка парсинга services.yaml")
		return nil, models.Catalog{}, zerolog.Logger{}, closer, err
	}

	if err := config.ValidateServices(servicesConfig.Services); err != nil {
		logger.Error().Err(err).Msg("Services validation failed")
		return nil, models.Catalog{}, zerolog.Logger{}, closer, err
	}

	return cfg, models.NewCatalog(servicesConfig.Services), logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if cfg == nil {
		return os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initGoogleSheets(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*google.SheetsService, error) {
	if cfg.Google.CredentialsFile == "" || cfg.Google.SpreadsheetID == "" {
		logger.Error().Msg("Не хватает переменных для подключения к Google Sheets")
		return nil, os.ErrInvalid
	}

	sheetsSvc, err := google.NewSheetsService(
		ctx,
		cfg.Google.CredentialsFile,
		cfg.Google.SpreadsheetID,
		cfg.Google.SheetTab,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize Google Sheets service")
		return nil, err
	}

	if err := sheetsSvc.TestConnection(ctx); err != nil {
		logger.Error().Err(err).Msg("Google Sheets connection test failed")
		if email, emailErr := google.GetServiceAccountEmail(cfg.Google.CredentialsFile); emailErr == nil {
			logger.Info().Str("service_account", email).Msg("Проверьте, что у сервисного аккаунта есть доступ к таблице")
		}
		return nil, err
	}

	logger.Info().Msg("Google Sheets service initialized successfully")
	return sheetsSvc, nil
}

func initSessionService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.SessionService) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(cfg.Bot.SessionTTLSeconds) * time.Second
	primaryRepo := repository.NewRedisSessionRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemorySessionRepository(ttl)
	sessionRepo := repository.NewFailoverSessionRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewSessionService(sessionRepo, logger)
}

func initTelegram(cfg *config.Config, logger *zerolog.Logger) (*service.TelegramService, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return nil, err
	}
	botAPI.Debug = cfg.Telegram.Debug

	return service.NewTelegramService(bot.NewBotWrapper(botAPI)), nil
}

// subscribeBookingEvents подключает аудит-лог доменных событий. Сюда же
// позже можно добавить рассылку напоминаний или интеграции.
func subscribeBookingEvents(bus *events.EventBus, logger *zerolog.Logger) {
	audit := func(ev *events.Event) error {
		var payload events.BookingEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("event", ev.Type).
			Int64("user_id", payload.UserID).
			Str("service", payload.Service).
			Str("slot", payload.Slot).
			Msg("booking event")
		return nil
	}

	bus.Subscribe(events.EventBookingCreated, audit)
	bus.Subscribe(events.EventBookingCancelled, audit)
}
