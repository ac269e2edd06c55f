package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/metrics"
	"venuebook/internal/middleware"
	"venuebook/internal/modules/availability"
	"venuebook/internal/modules/booking"
	"venuebook/internal/modules/catalog"
	"venuebook/internal/modules/events"
	"venuebook/internal/modules/payment"
	"venuebook/internal/modules/pricing"
	"venuebook/internal/modules/recurring"
	jwtsvc "venuebook/internal/pkg/jwt"
	"venuebook/internal/repository"
	"venuebook/internal/scheduler"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "venuebook-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connect")
	}

	venueRepo := repository.NewVenueRepository(db)
	ruleRepo := repository.NewAvailabilityRuleRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	recurringRepo := repository.NewRecurringReservationRepository(db)
	paymentRuleRepo := repository.NewPaymentRuleRepository(db)
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	m := metrics.New("venuebook")
	hub := events.NewHub()

	availabilityService := availability.NewService(venueRepo, ruleRepo)
	pricingService := pricing.NewService(paymentRuleRepo, venueRepo, userRepo)
	collaborator := payment.LogCollaborator{Logger: logger}
	paymentService := payment.NewService(reservationRepo, logger)

	bookingService := booking.NewService(
		reservationRepo,
		venueRepo,
		availabilityService,
		pricingService,
		collaborator,
		hub,
	)
	recurringService := recurring.NewService(
		recurringRepo,
		reservationRepo,
		bookingService.Checker(),
		orgRepo,
		hub,
	)

	catalogService := catalog.NewService(venueRepo)

	availabilityHandler := availability.NewHandler(availabilityService)
	bookingHandler := booking.NewHandler(bookingService)
	recurringHandler := recurring.NewHandler(recurringService)
	pricingHandler := pricing.NewHandler(pricingService)
	paymentHandler := payment.NewHandler(paymentService)
	catalogHandler := catalog.NewHandler(catalogService)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.CORS())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws/events", func(c *gin.Context) {
		if err := hub.ServeWS(c.Writer, c.Request); err != nil {
			logger.Warn().Err(err).Msg("websocket upgrade failed")
		}
	})

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)
		pricingHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			recurringHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
		}

		// venue management
		ownership := middleware.NewOwnershipChecker(venueRepo)
		owner := v1.Group("/")
		owner.Use(middleware.JWTAuth(j), middleware.VenueOwnerOnly())
		{
			availabilityHandler.RegisterOwnerRoutes(owner.Group("/", ownership.CheckVenueOwnership()))
			pricingHandler.RegisterOwnerRoutes(owner.Group("/", ownership.CheckSpaceOwnership()))
		}

		// platform administration
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(j), middleware.AdminOnly())
		{
			recurringHandler.RegisterAdminRoutes(admin)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := scheduler.NewJob(recurringService, cfg.ExtendInterval, logger, m)
	go job.Start(ctx)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
