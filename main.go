package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"go.uber.org/zap"

	"github.com/nothotgamer/hostelixpro/internals/configs"
	database "github.com/nothotgamer/hostelixpro/internals/databases"
	reportService "github.com/nothotgamer/hostelixpro/internals/features/reports/service"
	"github.com/nothotgamer/hostelixpro/internals/features/routines/scheduler"
	helper "github.com/nothotgamer/hostelixpro/internals/helpers"
	"github.com/nothotgamer/hostelixpro/internals/helpers/dbtime"
	"github.com/nothotgamer/hostelixpro/internals/metrics"
	"github.com/nothotgamer/hostelixpro/internals/middlewares"
	requestLogger "github.com/nothotgamer/hostelixpro/internals/middlewares/logger"
	routes "github.com/nothotgamer/hostelixpro/internals/route"
	"github.com/nothotgamer/hostelixpro/internals/seeds"
)

func main() {
	envNote := configs.LoadEnv()

	log := configs.NewLogger(configs.AppEnv)
	defer func() { _ = log.Sync() }()
	log.Info(envNote, zap.String("env", configs.AppEnv))

	if configs.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	loc := dbtime.LoadHostelLocation(configs.HostelTimezone)
	deadline, err := dbtime.Parse(configs.WakeUpDeadline)
	if err != nil {
		log.Fatal("invalid WAKE_UP_DEADLINE", zap.Error(err))
	}
	clock := dbtime.SystemClock{}

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB(log)
	database.TunePool(log)
	database.WarmUpQueries(log)

	bootCtx, cancelBoot := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := database.Migrate(bootCtx, database.DB, log); err != nil {
		cancelBoot()
		log.Fatal("migration failed", zap.Error(err))
	}
	if configs.RunSeeder {
		if err := seeds.RunAllSeeds(bootCtx, database.DB, configs.GetEnv("SEED_PASSWORD", "password123"), log.Named("seeds")); err != nil {
			cancelBoot()
			log.Fatal("seeding failed", zap.Error(err))
		}
	}
	cancelBoot()

	// ⏱ scheduler setelah DB siap
	sweep, err := scheduler.NewOverdueSweep(database.DB, clock, log).Start(configs.OverdueSweepCron)
	if err != nil {
		log.Fatal("scheduler failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(requestLogger.RequestID())
	app.Use(middlewares.RecoveryMiddleware(log))
	app.Use(middlewares.CorsMiddleware(strings.Split(configs.CorsOrigins, ",")))
	app.Use(middlewares.GlobalRateLimiter(configs.GetEnvInt("RATE_LIMIT_PER_MINUTE", 100)))
	app.Use(requestLogger.LoggerMiddleware(log.Named("http")))
	app.Use(metrics.Middleware())
	app.Use(requestTimeout(5 * time.Second))

	routes.SetupRoutes(app, routes.Deps{
		DB:        database.DB,
		Log:       log,
		Clock:     clock,
		Location:  loc,
		JWTSecret: configs.JWTSecret,
		TokenTTL:  configs.GetEnvDuration("ACCESS_TOKEN_TTL", 12*time.Hour),
		ReportPolicy: reportService.Policy{
			Window:       configs.ReportWindow,
			WakeDeadline: deadline,
			Location:     loc,
		},
	})

	go func() {
		log.Info("listening", zap.String("port", configs.Port))
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	<-sweep.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn("server shutdown", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		log.Warn("close database", zap.Error(err))
	}
}

// requestTimeout bounds every handler's UserContext, selaras dengan
// statement_timeout di DB.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return helper.JsonError(c, code, msg)
	}
}
