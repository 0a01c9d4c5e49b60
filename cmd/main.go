package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"file-sharing-server/config"
	"file-sharing-server/internal/handler"
	"file-sharing-server/internal/repository"
	"file-sharing-server/internal/security"
	"file-sharing-server/internal/service"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title File-sharing-server
// @version 1.0
// @description REST API для обмена файлами: загрузка, grant-доступ, share-ссылки

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	srv, router := config.SetupServer(cfg.ServerAddr)

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, time.Duration(cfg.TTL.CacheSeconds)*time.Second)

	blobService, err := service.NewBlobService(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания блоб-хранилища: %v", err)
	}
	accessService := service.NewAccessService(catalogRepo, ledgerRepo, blobService, userRepo, cacheRepo)

	jwtService := security.NewJWTService(&cfg.JWT)
	userService := service.NewUserService(userRepo, jwtService)

	objectHandler := handler.NewObjectHandler(accessService, &cfg.Upload)
	userHandler := handler.NewUserHandler(userService)

	if cfg.Reaper.Enabled {
		interval, err := time.ParseDuration(cfg.Reaper.Interval)
		if err != nil {
			log.Fatalf("Некорректный интервал reaper: %v", err)
		}
		go service.NewReaperService(ledgerRepo, interval).Run(ctx)
	}

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupAuthRoutes(router, userHandler)
	setupFileRoutes(router, objectHandler, jwtService, cfg)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.UserHandler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Register)
		r.Post("/login", h.Login)
	})
	r.Post("/api/users/find-by-email", h.FindByEmail)
}

func setupFileRoutes(r chi.Router, h *handler.ObjectHandler, jwtService *security.JWTService, cfg *config.AppConfig) {
	r.Route("/api/files", func(r chi.Router) {
		// всё под аутентификацией, включая доступ по share-ссылке
		r.Use(security.JWTMiddleware([]byte(cfg.JWT.SecretKey), jwtService))

		r.Post("/upload", h.Upload)
		r.Get("/list", h.List)
		r.Get("/shares/{object_id}", h.Shares)
		r.Get("/download/{object_id}", h.Download)

		r.Post("/share/link/{object_id}", h.CreateShareLink)
		r.Get("/access-link/{token}", h.AccessLink)
		r.Get("/access-info/{token}", h.AccessInfo)

		r.Post("/share/users/{object_id}", h.ShareWithUsers)
		r.Post("/revoke/user/{object_id}", h.RevokeUser)
		r.Post("/revoke/link/{token}", h.RevokeShareLink)

		r.Delete("/{object_id}", h.Delete)
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
