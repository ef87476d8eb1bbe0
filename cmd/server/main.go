// Command server runs the event hotel booking API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/event-hotel-booking/internal/config"
	"github.com/iliyamo/event-hotel-booking/internal/database"
	"github.com/iliyamo/event-hotel-booking/internal/handler"
	"github.com/iliyamo/event-hotel-booking/internal/queue"
	"github.com/iliyamo/event-hotel-booking/internal/repository"
	"github.com/iliyamo/event-hotel-booking/internal/router"
	"github.com/iliyamo/event-hotel-booking/internal/service"
)

func main() {
	cfg := config.Load()
	logger := log.New("booking")
	if cfg.Env == "dev" {
		logger.SetLevel(log.DEBUG)
	}

	db, err := database.Open(database.Options{
		User:     cfg.DBUser,
		Pass:     cfg.DBPass,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
		MaxConns: cfg.DBMaxConns,
	})
	if err != nil {
		logger.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logger.Fatalf("migrate: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Booking events are optional: without a broker the service keeps
	// working and events are dropped.
	var events service.EventPublisher = queue.Discard{}
	qcfg := config.LoadQueueConfig()
	if qcfg.Enabled {
		pub, err := queue.NewPublisher(qcfg.URL, qcfg.PublishTimeout)
		if err != nil {
			logger.Warnf("rabbitmq unavailable, booking events disabled: %v", err)
		} else {
			defer pub.Close()
			events = pub
		}
		if qcfg.ConsumeLogs {
			consumer := &queue.Consumer{URL: qcfg.URL, Dir: qcfg.LogDir, Log: log.New("booking-consumer")}
			go func() {
				if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Errorf("booking log consumer stopped: %v", err)
				}
			}()
		}
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb == nil {
		logger.Warn("redis unavailable, rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	store := repository.NewStore(db)
	bookings := service.NewBookingService(store, logger,
		service.WithStrictOwnership(cfg.StrictOwnership),
		service.WithEventPublisher(events),
	)
	tickets := service.NewTicketService(store, store, logger)
	enrollments := service.NewEnrollmentService(store)
	hotels := service.NewHotelService(store, store, store)

	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, router.Handlers{
		Booking:    handler.NewBookingHandler(bookings, cfg.RequestTimeout),
		Ticket:     handler.NewTicketHandler(tickets, cfg.RequestTimeout),
		Enrollment: handler.NewEnrollmentHandler(enrollments, cfg.RequestTimeout),
		Hotel:      handler.NewHotelHandler(hotels, cfg.RequestTimeout),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Redis:     rdb,
		DB:        db,
	})

	addr := ":" + cfg.Port
	logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}
