package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/config"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/consumer"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/handler"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/middleware"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/repository"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/scheduler"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/service"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/pkg/database"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ consumer: sync the blocked-time overlay from the event system
	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}

	blockConsumer := consumer.NewBlockEventConsumer(db)
	blockConsumer.Start(msgs)

	// RabbitMQ publisher: payment and refund side effects for the
	// notification/report services
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect RabbitMQ publisher: %v", err)
	}
	defer publisher.Close()

	// Repositories
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	blockRepo := repository.NewBlockedEventRepository(db)

	// Services
	availability := service.NewAvailabilityChecker(bookingRepo, blockRepo, service.AvailabilityConfig{
		OpenHour:       cfg.OpenHour,
		CloseHour:      cfg.CloseHour,
		ClosureWeekday: time.Weekday(cfg.ClosureWeekday),
		ClosureHours:   cfg.ClosureHours,
	})
	fees := service.NewFeeCalculator(tariffFromConfig(cfg))
	resolver := service.NewPlayerResolver()
	allocator := service.NewPaymentAllocator(paymentRepo, publisher)
	reservationSvc := service.NewReservationService(
		bookingRepo, paymentRepo, memberRepo,
		availability, resolver, fees, allocator, publisher,
	)

	// Periodic no-show sweep
	sweep, err := scheduler.StartNoShowSweep(reservationSvc, time.Duration(cfg.NoShowSweepMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("failed to start no-show sweep: %v", err)
	}
	defer func() { _ = sweep.Shutdown() }()

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
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
		return c.JSON(200, map[string]string{"status": "ok", "service": "reservation-service"})
	})

	handler.NewBookingHandler(reservationSvc, availability, blockRepo).RegisterRoutes(e)

	log.Printf("Reservation Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

func tariffFromConfig(cfg config.Config) service.TariffConfig {
	peak := make(map[int]bool, len(cfg.PeakHours))
	for _, h := range cfg.PeakHours {
		peak[h] = true
	}
	return service.TariffConfig{
		OpenHour:            cfg.OpenHour,
		CloseHour:           cfg.CloseHour,
		PeakHours:           peak,
		PeakHourFee:         cfg.PeakHourFee,
		OffPeakHourFee:      cfg.OffPeakHourFee,
		GuestHourlyFee:      cfg.GuestHourlyFee,
		LegacyPeakFlatFee:   cfg.LegacyPeakFlatFee,
		LegacyMemberRate:    cfg.LegacyMemberRate,
		LegacyNonMemberRate: cfg.LegacyNonMemberRate,
		RoundingUnit:        cfg.FeeRoundingUnit,
	}
}
