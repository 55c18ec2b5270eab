package main

import (
	"context"
	"law-pilot-server/config"
	_ "law-pilot-server/docs"
	"law-pilot-server/internal/catalog"
	"law-pilot-server/internal/handler"
	"law-pilot-server/internal/repository"
	"law-pilot-server/internal/security"
	"law-pilot-server/internal/service"
	"law-pilot-server/internal/state"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Law-pilot-server
// @version 1.0
// @description REST API приёма иммиграционных заявок

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		log.Println("файл .env не найден, используется только config.yaml")
	}

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	serviceCatalog, err := catalog.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки каталога услуг: %v", err)
	}

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	jwtRepo := repository.NewJWTRepository(db)
	guestRepo := repository.NewGuestDocumentRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	docRepo := repository.NewDocumentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.S3AndRedis)*time.Second)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	intakeService := service.NewIntakeService(guestRepo, s3Service)
	associationService := service.NewAssociationService(guestRepo, caseRepo, docRepo, cacheRepo, s3Service)
	caseService := service.NewCaseService(caseRepo, docRepo, cacheRepo, s3Service, time.Duration(cfg.TTL.S3AndRedis)*time.Second)

	jwtService := security.NewJWTService(&cfg.JWT)
	authService := service.NewAuthenticationService(jwtRepo, cfg, jwtService, userRepo, profileRepo)

	stateManager := state.NewManager(24 * time.Hour)

	authHandler := handler.NewAuthenticationHandler(authService, associationService, stateManager, cfg.DashboardURL)
	intakeHandler := handler.NewIntakeHandler(intakeService, associationService, stateManager, serviceCatalog)
	caseHandler := handler.NewCaseHandler(caseService, serviceCatalog, time.Duration(cfg.TTL.S3AndRedis)*time.Second)

	router.Use(config.DBMiddleware(db))
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, authHandler, jwtService, jwtRepo, cfg)
	setupIntakeRoutes(router, intakeHandler, jwtService, jwtRepo, cfg)
	setupCaseRoutes(router, caseHandler, jwtService, jwtRepo, cfg)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Get("/auth/callback", h.OAuthCallback)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService))
			r.Get("/me", h.GetCurrentUser)
			r.Post("/refresh", h.RefreshToken)
			r.Delete("/logout", h.Logout)
		})
		r.Group(func(r chi.Router) {
			r.Post("/", h.Login)
		})
	})

	r.Post("/api/register", h.Register)
}

func setupIntakeRoutes(r chi.Router, h *handler.IntakeHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Route("/api/intake", func(r chi.Router) {
		r.Post("/docs", h.UploadGuestDocument)
		r.Get("/docs", h.ListGuestDocuments)
		r.Delete("/docs/{doc_id}", h.RemoveGuestDocument)
		r.Post("/draft", h.SaveDraft)
		r.Post("/files", h.SelectFile)
		r.Delete("/files/{id}", h.DeselectFile)

		r.Group(func(r chi.Router) {
			r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService))
			r.Post("/submit", h.SubmitApplication)
		})
	})
}

func setupCaseRoutes(r chi.Router, h *handler.CaseHandler, jwtService *security.JWTService, jwtRepo *repository.JWTRepository, cfg *config.AppConfig) {
	r.Get("/api/services", h.ListServices)

	r.Route("/api/cases", func(r chi.Router) {
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtRepo, jwtService))
		r.Get("/", h.ListCases)

		r.Route("/{case_id}", func(r chi.Router) {
			r.Get("/docs", h.ListCaseDocuments)
			r.Get("/docs/{doc_id}/url", h.GetDocumentURL)
		})
	})
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
