package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/lekhyo/booking-service/config"
	"github.com/lekhyo/booking-service/internal/consumer"
	"github.com/lekhyo/booking-service/internal/handler"
	"github.com/lekhyo/booking-service/internal/middleware"
	"github.com/lekhyo/booking-service/internal/repository"
	"github.com/lekhyo/booking-service/internal/service"
	"github.com/lekhyo/booking-service/internal/session"
	"github.com/lekhyo/booking-service/pkg/database"
	"github.com/lekhyo/booking-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db := database.NewPostgresDB(cfg.DSN())

	// Repositories
	propertyRepo := repository.NewPropertyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	registerRepo := repository.NewGuestRegisterRepository(db)
	exportRepo := repository.NewComplianceExportRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// RabbitMQ publisher: booking lifecycle events. Left nil when messaging is off.
	var publisher service.Publisher
	if cfg.RabbitEnabled {
		mqPublisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
	}

	// Services
	bookingSvc := service.NewBookingService(bookingRepo, propertyRepo, roomRepo, pricingRepo, publisher)
	catalogSvc := service.NewCatalogService(propertyRepo, roomRepo, pricingRepo, publisher)
	complianceSvc := service.NewComplianceService(bookingRepo, propertyRepo, registerRepo, exportRepo)
	authSvc := service.NewAuthService(userRepo, tokenRepo, session.NewManager(cfg.JWTSecret, cfg.JWTTTL), cfg.LoginURL)

	if err := authSvc.EnsureAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if n, err := tokenRepo.PurgeExpired(context.Background(), time.Now()); err != nil {
		log.Printf("[Auth] failed to purge revoked tokens: %v", err)
	} else if n > 0 {
		log.Printf("[Auth] purged %d expired revoked tokens", n)
	}

	// RabbitMQ consumer: payment gateway confirmations
	var (
		mqConsumer   *rabbitmq.Consumer
		consumerDone <-chan struct{}
	)
	if cfg.RabbitEnabled {
		var err error
		mqConsumer, err = rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			log.Fatalf("failed to connect to RabbitMQ: %v", err)
		}

		msgs, err := mqConsumer.Consume()
		if err != nil {
			log.Fatalf("failed to start consuming: %v", err)
		}
		consumerDone = consumer.NewPaymentConsumer(bookingSvc).Start(msgs)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "booking-service"})
	})

	api := e.Group("/api/v1")
	auth := middleware.JWTAuth(authSvc)
	manage := api.Group("/manage", auth, middleware.RequireManager())

	handler.NewAuthHandler(authSvc).RegisterRoutes(api, auth)
	handler.NewCatalogHandler(catalogSvc).RegisterRoutes(api, manage)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(api, auth, manage)
	handler.NewComplianceHandler(complianceSvc).RegisterRoutes(manage)

	go func() {
		log.Printf("Booking Service starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if mqConsumer != nil {
		// Ends the delivery stream. A payment still in flight is redelivered on restart.
		mqConsumer.Close()
		select {
		case <-consumerDone:
		case <-ctx.Done():
		}
	}
	log.Println("Booking Service stopped")
}
