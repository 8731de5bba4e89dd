package main // Entry point package

import (
	"context"
	"errors"
	"log" // Logging library
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"                   // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // Echo's stock middlewares
	glog "github.com/labstack/gommon/log"           // Echo's logger levels
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bus-ticket-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/bus-ticket-booking/internal/database"   // MySQL pool and schema
	"github.com/iliyamo/bus-ticket-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/bus-ticket-booking/internal/middleware" // rate limiter
	"github.com/iliyamo/bus-ticket-booking/internal/queue"      // booking ledger consumer
	"github.com/iliyamo/bus-ticket-booking/internal/repository" // repositories
	"github.com/iliyamo/bus-ticket-booking/internal/router"     // Internal router setup
	"github.com/iliyamo/bus-ticket-booking/internal/service"    // seat inventory
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("schema: %v", err)
		}
		log.Printf("schema ensured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Booking events are optional; without a broker the inventory publishes nowhere.
	var events service.Publisher = service.NopPublisher{}
	if cfg.AMQPURL != "" {
		pub := service.NewAMQPPublisher(cfg.AMQPURL)
		defer pub.Close()
		events = pub
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.AMQPURL, cfg.LedgerPath); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking-consumer stopped: %v", err)
			}
		}()
	} else {
		log.Printf("AMQP_URL not set; booking events disabled")
	}

	rl := config.LoadRateLimitConfig()
	var rdb *redis.Client
	if rl.Enabled {
		if rdb = config.NewRedisClient(config.LoadRedisConfig()); rdb == nil {
			log.Printf("redis unavailable; rate limiting disabled")
		} else {
			defer rdb.Close()
		}
	}
	limiter := middleware.NewTokenBucket(rl, rdb)

	users := repository.NewUserRepo(db)
	buses := repository.NewBusRepo(db)
	bookings := repository.NewBookingRepo(db)
	inventory := service.NewSeatInventory(db, buses, bookings, events, cfg.DBTimeout)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Logger.SetLevel(glog.INFO)
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				c.Logger().Warnf("request_id=%s %s %s status=%d latency=%s err=%v", v.RequestID, v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			c.Logger().Infof("request_id=%s %s %s status=%d latency=%s", v.RequestID, v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	router.RegisterRoutes(e, handler.NewHealthHandler(db))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), handler.NewProfileHandler(users), cfg.JWTSecret, limiter)
	router.RegisterPublic(e, handler.NewBusHandler(buses))
	router.RegisterBookings(e, handler.NewBookingHandler(inventory, bookings), cfg.JWTSecret, limiter)

	srv := &http.Server{
		Addr:              ":" + cfg.Port, // Address string with port
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Printf("listening on %s (env=%s)", srv.Addr, cfg.Env) // Print startup info
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("server stopped")
}
