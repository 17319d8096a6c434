package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"winter-of-code-backend/internal/config"
	"winter-of-code-backend/internal/database"
	"winter-of-code-backend/internal/github"
	"winter-of-code-backend/internal/handlers"
	"winter-of-code-backend/internal/jobs"
	"winter-of-code-backend/internal/logging"
	"winter-of-code-backend/internal/metrics"
	"winter-of-code-backend/internal/middleware"
	"winter-of-code-backend/internal/models"
	"winter-of-code-backend/internal/repository/postgres"
	"winter-of-code-backend/internal/service"
	"winter-of-code-backend/internal/swr"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Infof("Winter of Code backend starting on port %s", cfg.ServerPort)
	log.Infof("database: %s@%s:%s/%s",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatalf("database not available - cannot start without database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	leaderboardRepo := postgres.NewLeaderboardRepository(db)
	projectRepo := postgres.NewProjectRepository(db)
	prRepo := postgres.NewPRRepository(db)
	badgeRepo := postgres.NewBadgeRepository(db)
	contactRepo := postgres.NewContactRepository(db)
	statsRepo := postgres.NewStatsRepository(db)

	// Shared SWR cache for server-side aggregates.
	cache := swr.New(swr.Options{OnResult: metrics.ObserveCache})

	// Services.
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, cache)
	projectService := service.NewProjectService(projectRepo)
	importService := service.NewImportService(projectRepo, log)
	userService := service.NewUserService(userRepo, badgeRepo)
	prService := service.NewPRService(prRepo, userRepo, badgeRepo, log)
	contactService := service.NewContactService(contactRepo)
	statsService := service.NewStatsService(statsRepo)
	authService := service.NewAuthService(
		userRepo, github.NewClient(), cfg.JWTSecret, cfg.JWTTTL, cfg.IDCardQuota, log)

	// Handlers.
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService, log)
	projectHandler := handlers.NewProjectHandler(projectService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	prHandler := handlers.NewPRHandler(prService, log)
	badgeHandler := handlers.NewBadgeHandler(badgeRepo, log)
	contactHandler := handlers.NewContactHandler(contactService, log)
	authHandler := handlers.NewAuthHandler(authService, log)
	adminHandler := handlers.NewAdminHandler(
		statsService, userService, projectService, prService, contactService, importService, log)
	idcardHandler := handlers.NewIDCardHandler(userService, log)

	auth := middleware.NewAuth(authService)
	gate := middleware.NewLaunchGate(cfg.LaunchTime, clock.New())

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log))

	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/verify", userHandler.Verify).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.Handle("/users/leaderboard",
		gate.Wrap(http.HandlerFunc(leaderboardHandler.Get))).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", userHandler.Get).Methods(http.MethodGet)

	api.HandleFunc("/projects", projectHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/projects/featured", projectHandler.Featured).Methods(http.MethodGet)
	api.HandleFunc("/projects/filters", projectHandler.Filters).Methods(http.MethodGet)
	api.Handle("/projects/my-projects",
		auth.RequireRole(models.RoleMentor, http.HandlerFunc(projectHandler.MyProjects))).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", projectHandler.Get).Methods(http.MethodGet)
	api.Handle("/projects",
		auth.RequireRole(models.RoleMentor, http.HandlerFunc(projectHandler.Create))).Methods(http.MethodPost)
	api.Handle("/projects/{id}",
		auth.RequireRole(models.RoleMentor, http.HandlerFunc(projectHandler.Update))).Methods(http.MethodPut)
	api.Handle("/projects/{id}/sync",
		auth.RequireRole(models.RoleMentor, http.HandlerFunc(projectHandler.Sync))).Methods(http.MethodPost)

	api.HandleFunc("/pull-requests", prHandler.List).Methods(http.MethodGet)
	api.Handle("/pull-requests",
		auth.RequireRole(models.RoleMentor, http.HandlerFunc(prHandler.Track))).Methods(http.MethodPost)
	api.Handle("/pull-requests/{id}/merge",
		auth.RequireRole(models.RoleMentor, http.HandlerFunc(prHandler.Merge))).Methods(http.MethodPost)
	api.HandleFunc("/badges", badgeHandler.Catalog).Methods(http.MethodGet)
	api.HandleFunc("/contact/submit", contactHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/auth/github/callback", authHandler.GithubCallback).Methods(http.MethodPost)
	api.Handle("/id/generate",
		auth.Require(http.HandlerFunc(idcardHandler.Generate))).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Handle("/overview", http.HandlerFunc(adminHandler.Overview)).Methods(http.MethodGet)
	admin.Handle("/users", http.HandlerFunc(adminHandler.Users)).Methods(http.MethodGet)
	admin.Handle("/projects", http.HandlerFunc(adminHandler.Projects)).Methods(http.MethodGet)
	admin.Handle("/prs", http.HandlerFunc(adminHandler.PullRequests)).Methods(http.MethodGet)
	admin.Handle("/contacts", http.HandlerFunc(adminHandler.Contacts)).Methods(http.MethodGet)
	admin.Handle("/import/projects", http.HandlerFunc(adminHandler.ImportProjects)).Methods(http.MethodPost)
	admin.Use(func(next http.Handler) http.Handler {
		return auth.RequireRole(models.RoleAdmin, next)
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	scheduler, err := jobs.New(cfg.WeeklyCronSpec, userRepo, cache, log)
	if err != nil {
		log.Fatalf("failed to build scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: corsHandler,
	}

	go func() {
		log.Infof("server is ready to handle requests")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infof("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Infof("server stopped gracefully")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","service":"Winter of Code Backend","version":"1.0.0"}`))
}
