package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/HSE-api/internal/application/license"
	"github.com/jhoicas/HSE-api/internal/infrastructure/cache"
	"github.com/jhoicas/HSE-api/internal/infrastructure/events"
	"github.com/jhoicas/HSE-api/internal/infrastructure/metrics"
	"github.com/jhoicas/HSE-api/internal/infrastructure/postgres"
	"github.com/jhoicas/HSE-api/pkg/config"
	"github.com/jhoicas/HSE-api/pkg/logger"
)

// Barrido de vencimientos: pasa a EXPIRED las licencias vigentes cuya fecha de vencimiento ya pasó.
// SWEEP_INTERVAL_MINUTES=0 ejecuta una sola pasada (cron); >0 repite y expone /metrics.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	}).WithComponent("expiry_sweep")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	m := metrics.New()

	// Invalida la caché de lectura de la API para que no sirva licencias ya vencidas.
	var licenseCache license.Cache = license.NoopCache{}
	redisClient, err := cache.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("redis no disponible, caché deshabilitada")
	} else if redisClient != nil {
		defer redisClient.Close()
		licenseCache = cache.NewLicenseCache(redisClient, cfg.Redis.TTL())
	}

	var publisher license.EventPublisher = license.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente kafka")
		}
		defer kp.Close()
		publisher = kp
	}

	uc := license.NewLicenseUseCase(license.Deps{
		Tx:      postgres.NewTxRunner(pool),
		Repo:    postgres.NewLicenseRepositoryFromPool(pool),
		Cache:   licenseCache,
		Events:  publisher,
		Metrics: m,
		Logger:  log,
	})

	runOnce := func() {
		started := time.Now()
		res, err := uc.ExpireOverdue(ctx, cfg.Sweep.Actor, cfg.Sweep.BatchSize)
		m.SweepCompleted(res)
		evt := log.Info()
		if err != nil {
			evt = log.Error().Err(err)
		}
		evt.Int("scanned", res.Scanned).
			Int("expired", res.Expired).
			Int("skipped", res.Skipped).
			Int("failed", res.Failed).
			Dur("elapsed", time.Since(started)).
			Msg("barrido de vencimientos finalizado")
	}

	if cfg.Sweep.IntervalMinutes <= 0 {
		runOnce()
		return
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name + "-expiry-sweep", DisableStartupMessage: true})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "expiry_sweep"})
	})
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor de métricas finalizado")
		}
	}()

	interval := time.Duration(cfg.Sweep.IntervalMinutes) * time.Minute
	log.Info().Dur("interval", interval).Msg("barrido periódico iniciado")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	runOnce()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("señal de apagado recibida, deteniendo barrido...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := app.ShutdownWithContext(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("apagado del servidor de métricas")
			}
			cancel()
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
