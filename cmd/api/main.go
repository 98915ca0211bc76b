package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/admin"
	"server/internal/coupon"
	"server/internal/domain"
	"server/internal/history"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/infra/google"
	"server/internal/lifecycle"
	"server/internal/middleware"
	"server/internal/providers/genai"
	"server/internal/providers/image"
	"server/internal/providers/prompt"
	"server/internal/providers/video"
	"server/internal/storage"
	"server/internal/subscription"
	"server/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// Without DATABASE_URL the service runs entirely on in-memory stores,
	// which is enough for local development against the frontend.
	var (
		userStore  users.Store
		subStore   domain.SubscriptionStore
		histStore  domain.HistoryStore
		couponRepo domain.CouponRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		runner := infra.NewSQLRunner(pool, logger)
		userStore = users.NewPostgresStore(runner)
		subStore = subscription.NewPostgresStore(runner)
		histStore = history.NewPostgresStore(runner)
		couponRepo = coupon.NewPostgresRepository(runner)
	} else {
		logger.Warn().Msg("DATABASE_URL not set; using in-memory stores")
		userStore = users.NewMemoryStore()
		subStore = subscription.NewMemoryStore()
		histStore = history.NewMemoryStore()
		couponRepo = coupon.NewSeededRepository()
	}

	files, err := storage.NewFileStore(cfg.StoragePath, cfg.StaticBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init file storage")
	}

	gemini, err := genai.NewClient(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		ImageModel: cfg.ImageModel,
		VideoModel: cfg.VideoModel,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init gemini client")
	}

	manager := lifecycle.NewManager(lifecycle.Options{
		Images:        image.NewGeminiGenerator(gemini),
		Videos:        video.NewGeminiJobClient(gemini),
		Subscriptions: subStore,
		History:       histStore,
		Blobs:         files,
		PollInterval:  cfg.PollInterval,
		PollMaxWait:   cfg.PollMaxWait,
		Logger:        &logger,
	})

	couponSvc := coupon.NewService(couponRepo, &logger)
	adminSvc := admin.NewService(admin.SeedData(), couponRepo, &logger)

	app := &handlers.App{
		Config:        cfg,
		Logger:        &logger,
		Users:         userStore,
		Subscriptions: subStore,
		History:       histStore,
		Lifecycle:     manager,
		Cooldowns:     lifecycle.NewCooldownTracker(cfg.Cooldown),
		Coupons:       couponSvc,
		Admin:         adminSvc,
		Files:         files,
		Google:        google.NewVerifier(cfg.GoogleIssuer, cfg.GoogleClientID),
		Prompts:       prompt.NewSuggester(nil),
	}

	var countries middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Error().Err(err).Msg("geoip unavailable; payment geo tags disabled")
	} else if resolver != nil {
		countries = resolver.CountryCode
		if closer, ok := resolver.(io.Closer); ok {
			defer closer.Close()
		}
	}

	router := httpapi.NewRouter(app, countries)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
