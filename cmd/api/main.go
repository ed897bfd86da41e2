package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/HSE-api/docs"
	appanalytics "github.com/jhoicas/HSE-api/internal/application/analytics"
	"github.com/jhoicas/HSE-api/internal/application/auth"
	"github.com/jhoicas/HSE-api/internal/application/license"
	"github.com/jhoicas/HSE-api/internal/application/report"
	"github.com/jhoicas/HSE-api/internal/application/usecase"
	"github.com/jhoicas/HSE-api/internal/infrastructure/cache"
	"github.com/jhoicas/HSE-api/internal/infrastructure/dossier"
	"github.com/jhoicas/HSE-api/internal/infrastructure/events"
	"github.com/jhoicas/HSE-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/HSE-api/internal/infrastructure/pdf"
	"github.com/jhoicas/HSE-api/internal/infrastructure/postgres"
	"github.com/jhoicas/HSE-api/internal/infrastructure/storage"
	"github.com/jhoicas/HSE-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/HSE-api/internal/interfaces/http"
	"github.com/jhoicas/HSE-api/pkg/config"
	"github.com/jhoicas/HSE-api/pkg/logger"
)

// @title                       HSE API
// @version                     1.0
// @description                 Ciclo de vida y cumplimiento de licencias HSE.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	licenseRepo := postgres.NewLicenseRepositoryFromPool(pool)
	complianceRepo := postgres.NewComplianceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Métricas: registro propio expuesto en /metrics
	m := metrics.New()

	// Caché de lectura (Redis). REDIS_URL vacío = sin caché.
	var licenseCache license.Cache = license.NoopCache{}
	redisClient, err := cache.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("redis no disponible, caché deshabilitada")
	} else if redisClient != nil {
		defer redisClient.Close()
		licenseCache = cache.NewLicenseCache(redisClient, cfg.Redis.TTL())
	}

	// Eventos de ciclo de vida (Kafka). KAFKA_BROKERS vacío = sin publicación.
	var publisher license.EventPublisher = license.NoopPublisher{}
	var kafkaPing func(context.Context) error
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente kafka")
		}
		defer kp.Close()
		if err := kp.EnsureTopic(ctx, 3, 1); err != nil {
			log.Warn().Err(err).Str("topic", cfg.Kafka.Topic).Msg("no se pudo asegurar el tópico de eventos")
		}
		publisher = kp
		kafkaPing = kp.Ping
	}

	// Adjuntos (MinIO). MINIO_ENDPOINT vacío = memoria (solo desarrollo).
	var attachments license.AttachmentStorage
	if cfg.MinIO.Endpoint != "" {
		ms, err := storage.NewMinioStorage(ctx, cfg.MinIO)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de adjuntos")
		}
		attachments = ms
	} else {
		log.Warn().Msg("MINIO_ENDPOINT vacío: adjuntos en memoria")
		attachments = storage.NewMemoryStorage()
	}

	licenseUC := license.NewLicenseUseCase(license.Deps{
		Tx:      txRunner,
		Repo:    licenseRepo,
		Cache:   licenseCache,
		Events:  publisher,
		Storage: attachments,
		Metrics: m,
		Logger:  log.WithComponent("licenses"),
	})
	reportUC := report.NewReportUseCase(
		licenseUC, companyRepo,
		infrapdf.NewMarotoPDFGenerator(cfg.App.Locale),
		xlsx.NewRegisterExporter(),
		dossier.NewXMLBuilder(),
		nil,
	)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(complianceRepo, nil)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024, // adjuntos
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "HSE API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		// Kafka caído no tumba la API: los eventos se pierden pero las operaciones siguen.
		kafkaStatus := "disabled"
		if kafkaPing != nil {
			kafkaStatus = "ok"
			if err := kafkaPing(c.UserContext()); err != nil {
				kafkaStatus = "unreachable"
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "events": kafkaStatus})
	})

	var authLimiter *httpRouter.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		authLimiter = httpRouter.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		CompanyUC:       companyUC,
		ModuleService:   moduleSvc,
		UserUC:          userUC,
		LicenseUC:       licenseUC,
		ReportUC:        reportUC,
		DashboardUC:     dashboardUC,
		JWTSecret:       cfg.JWT.Secret,
		Logger:          log,
		HTTPMetrics:     m,
		MetricsHandler:  m.Handler(),
		AuthRateLimiter: authLimiter,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
