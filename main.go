package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"taskify/backend/internal/cache"
	"taskify/backend/internal/config"
	"taskify/backend/internal/database"
	"taskify/backend/internal/handlers"
	"taskify/backend/internal/middleware"
	"taskify/backend/internal/models"
	"taskify/backend/internal/monitoring"
	"taskify/backend/internal/services"
	"taskify/backend/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()
	db := pool.DB

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisCache.Close()

	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return redisCache.Health()
	})

	taskService := services.NewTaskService()
	analyticsService := services.NewAnalyticsService()
	cached := services.NewCachedTaskService(taskService, analyticsService, redisCache)
	authService := services.NewAuthService(cfg.Auth)
	registerService := services.NewRegisterService()

	jobs := worker.NewJobQueue(redisCache.Client())
	jobWorker := worker.NewWorker(worker.WorkerConfig{
		RedisClient: redisCache.Client(),
		Queues:      cfg.Worker.Queues,
	})
	jobWorker.RegisterHandler(worker.JobTypeTaskReminder, func(ctx context.Context, job *worker.Job) error {
		log.Printf("Task reminder: %v is due soon (task %v)", job.Payload["title"], job.Payload["task_id"])
		return nil
	})
	jobWorker.RegisterHandler(worker.JobTypeTokenCleanup, func(ctx context.Context, job *worker.Job) error {
		return db.WithContext(ctx).
			Where("expires_at < ?", time.Now()).
			Delete(&models.Token{}).Error
	})
	jobWorker.Start(cfg.Worker.Concurrency)
	defer jobWorker.Stop()

	router := setupRouter(cfg, db, cached, authService, registerService, jobs)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server is running on http://%s", cfg.GetServerAddr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

func setupRouter(
	cfg *config.Config,
	db *gorm.DB,
	cached *services.CachedTaskService,
	authService services.AuthService,
	registerService services.RegisterService,
	jobs *worker.JobQueue,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryWithLog())
	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.ClientOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	taskHandler := handlers.NewTaskHandler(db, cached, jobs)
	analyticsHandler := handlers.NewAnalyticsHandler(db, cached)
	authHandler := handlers.NewAuthHandler(db, authService)
	registerHandler := handlers.NewRegisterHandler(db, registerService, authService)
	logoutHandler := handlers.NewLogoutHandler(db, authService)
	refreshHandler := handlers.NewRefreshHandler(db, authService)

	router.GET("/health", monitoring.HealthHandler)
	router.GET("/metrics", monitoring.MetricsHandler)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", registerHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", refreshHandler.Refresh)
		auth.POST("/logout", logoutHandler.Logout)
	}

	authorized := router.Group("/")
	authorized.Use(middleware.AuthMiddleware(cfg.Auth))
	{
		authorized.POST("/tasks", taskHandler.CreateTask)
		authorized.GET("/tasks", taskHandler.GetTasks)
		authorized.GET("/tasks/:id", taskHandler.GetTaskByID)
		authorized.PUT("/tasks/:id", taskHandler.UpdateTask)
		authorized.DELETE("/tasks/:id", taskHandler.DeleteTask)
		authorized.GET("/analytics", analyticsHandler.GetDashboardAnalytics)
	}

	return router
}
