package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bidblab/bidblab-api/internal/config"
	"github.com/bidblab/bidblab-api/internal/domain/auction"
	"github.com/bidblab/bidblab-api/internal/domain/auth"
	"github.com/bidblab/bidblab-api/internal/domain/credit"
	"github.com/bidblab/bidblab-api/internal/domain/invite"
	"github.com/bidblab/bidblab-api/internal/domain/mail"
	"github.com/bidblab/bidblab-api/internal/domain/question"
	"github.com/bidblab/bidblab-api/internal/domain/report"
	"github.com/bidblab/bidblab-api/internal/domain/user"
	"github.com/bidblab/bidblab-api/internal/middleware"
	"github.com/bidblab/bidblab-api/internal/pkg/database"
	"github.com/bidblab/bidblab-api/internal/pkg/email"
	"github.com/bidblab/bidblab-api/internal/pkg/imaging"
	"github.com/bidblab/bidblab-api/internal/pkg/jwt"
	"github.com/bidblab/bidblab-api/internal/pkg/logger"
	pkgresponse "github.com/bidblab/bidblab-api/internal/pkg/response"
	"github.com/bidblab/bidblab-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Bidblab API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	r2Storage, err := storage.NewR2Storage(storage.R2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		AccessKeySecret: cfg.R2AccessKeySecret,
		BucketName:      cfg.R2BucketName,
		PublicURL:       cfg.R2PublicURL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create R2 storage")
	}

	emailService := email.NewService(email.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	})
	defer emailService.Close()

	imageProcessor := imaging.NewProcessor(imaging.DefaultConfig())

	// ---------- Live bid feed ----------
	bidFeed := auction.NewFeed(redis, cfg.AllowedOrigins)
	go bidFeed.Run()
	defer bidFeed.Stop()

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	auctionRepo := auction.NewRepository(db)
	questionRepo := question.NewRepository(db)
	inviteRepo := invite.NewRepository(db)
	mailRepo := mail.NewRepository(db)
	reportRepo := report.NewRepository(db)

	// ---------- Services ----------
	creditService := credit.NewService(creditRepo, userRepo)
	inviteService := invite.NewService(inviteRepo, userRepo, creditService, emailService, cfg.FrontendURL+"/signup")
	authService := auth.NewService(userRepo, jwtService, redis, inviteService)
	questionService := question.NewService(questionRepo, creditService)
	mailService := mail.NewService(mailRepo, userRepo, emailService, cfg.FrontendURL+"/mail")

	bidderProfiles := &bidderProfileAdapter{repo: userRepo}
	auctionService := auction.NewService(db, auctionRepo, creditService, bidderProfiles, bidFeed)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userRepo)
	creditHandler := credit.NewHandler(creditService)
	auctionHandler := auction.NewHandler(auctionService, r2Storage, imageProcessor)
	questionHandler := question.NewHandler(questionService, r2Storage)
	inviteHandler := invite.NewHandler(inviteService)
	mailHandler := mail.NewHandler(mailService)
	reportHandler := report.NewHandler(reportRepo)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws/auctions", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(bidFeed.ServeWS)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			pkgresponse.OK(w, map[string]string{"message": "pong"})
		})

		r.Mount("/auth", authHandler.Routes())
		r.Mount("/users", userHandler.Routes(authMiddleware))
		r.Mount("/credits", creditHandler.Routes(authMiddleware))
		r.Mount("/auctions", auctionHandler.Routes(authMiddleware))
		r.Mount("/questions", questionHandler.Routes(authMiddleware))
		r.Mount("/invites", inviteHandler.Routes(authMiddleware))
		r.Mount("/mail", mailHandler.Routes(authMiddleware))
		r.Mount("/reports", reportHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// Adapter implementations to bridge interface mismatches

// bidderProfileAdapter adapts user.Repository to auction.ProfileDirectory
type bidderProfileAdapter struct {
	repo user.Repository
}

func (a *bidderProfileAdapter) ProfileByID(ctx context.Context, userID uuid.UUID) (*auction.BidderProfile, error) {
	u, err := a.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &auction.BidderProfile{ID: u.ID, Name: u.Name}, nil
}
