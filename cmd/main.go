package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"gymstack/internal/caching"
	"gymstack/internal/handlers"
	"gymstack/internal/jobs/background"
	"gymstack/internal/middleware"
	"gymstack/internal/models"
	"gymstack/internal/repositories"
	"gymstack/internal/services"
	"gymstack/internal/token"
	"gymstack/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}
	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	tokenTTL := 6 * time.Hour
	if ttlStr := os.Getenv("TOKEN_TTL_HOURS"); ttlStr != "" {
		hours, err := strconv.Atoi(ttlStr)
		if err != nil || hours <= 0 {
			log.Fatalf("Invalid TOKEN_TTL_HOURS %q", ttlStr)
		}
		tokenTTL = time.Duration(hours) * time.Hour
	}
	tokenMaker := token.NewMaker(jwtSecret, tokenTTL)

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	for _, bucket := range []string{"plan-images", "supplement-images"} {
		if err := minioSvc.EnsureBucketExists(context.Background(), bucket); err != nil {
			log.Printf("WARN: failed to ensure bucket %s: %v", bucket, err)
		}
	}

	// SMTP configuration
	mailSvc := services.NewSMTPMailService(services.SMTPConfig{
		Host:            os.Getenv("SMTP_HOST"),
		Port:            getenvDefault("SMTP_PORT", "587"),
		Username:        os.Getenv("SMTP_USER"),
		Password:        os.Getenv("SMTP_PASS"),
		FromEmail:       os.Getenv("FROM_EMAIL"),
		ContactReceiver: os.Getenv("CONTACT_RECEIVER"),
	})

	frontendBaseURL := getenvDefault("FRONTEND_BASE_URL", "http://localhost:5173")

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	userTypeRepo := repositories.NewUserTypeRepo(pool)
	planRepo := repositories.NewPlanRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)
	paymentRepo := repositories.NewPaymentRepo(pool)
	paymentTypeRepo := repositories.NewPaymentTypeRepo(pool)
	supplementRepo := repositories.NewSupplementRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	authSvc := services.NewAuthService(userRepo, userTypeRepo, tokenMaker, cacheSvc, mailSvc, frontendBaseURL)
	planSvc := services.NewPlanService(planRepo, cacheSvc, minioSvc)
	subscriptionSvc := services.NewSubscriptionService(pool, planRepo, subscriptionRepo, paymentRepo, paymentTypeRepo)
	paymentSvc := services.NewPaymentService(paymentRepo)
	memberSvc := services.NewMemberService(userRepo)
	settingsSvc := services.NewSettingsService(paymentTypeRepo, userTypeRepo)
	supplementSvc := services.NewSupplementService(supplementRepo, minioSvc)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc)
	planHandlers := handlers.NewPlanHandlers(planSvc, subscriptionSvc, settingsSvc)
	memberHandlers := handlers.NewMemberHandlers(memberSvc, subscriptionSvc)
	paymentHandlers := handlers.NewPaymentHandlers(paymentSvc)
	settingsHandlers := handlers.NewSettingsHandlers(settingsSvc)
	supplementHandlers := handlers.NewSupplementHandlers(supplementSvc)
	contactHandlers := handlers.NewContactHandlers(mailSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc, minioSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.BodyLimit("6M"))
	corsOrigin := getenvDefault("CORS_ORIGIN", "*")
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: []string{corsOrigin},
	}))

	authenticate := middleware.Authenticate(tokenMaker)
	optionalAuthenticate := middleware.OptionalAuthenticate(tokenMaker)
	requireAdmin := middleware.RequireAdmin()

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", authHandlers.Login)
	auth.POST("/register", authHandlers.Register, optionalAuthenticate)
	auth.GET("/me", authHandlers.Me, authenticate)
	auth.POST("/request-password-reset", authHandlers.ForgotPassword)
	auth.POST("/reset-password", authHandlers.ResetPassword)

	// Plan catalog and checkout
	plans := e.Group("/plans")
	plans.GET("", planHandlers.ListPlans)
	plans.GET("/payment-types", planHandlers.ListPaymentTypes)
	plans.GET("/subscriptions", planHandlers.MySubscriptions, authenticate)
	plans.GET("/:id", planHandlers.GetPlan)
	plans.GET("/:id/image", planHandlers.GetPlanImage)
	plans.POST("", planHandlers.CreatePlan, authenticate, requireAdmin)
	plans.PUT("/:id", planHandlers.UpdatePlan, authenticate, requireAdmin)
	plans.DELETE("/:id", planHandlers.DeletePlan, authenticate, requireAdmin)
	plans.POST("/:id/subscribe", planHandlers.Subscribe, authenticate)

	// Member administration
	members := e.Group("/members", authenticate)
	members.GET("/members", memberHandlers.ListMembers,
		middleware.RequirePermission(func(p models.PermissionBundle) bool { return p.CanViewMembers }))
	members.GET("/members/:id", memberHandlers.GetMember,
		middleware.RequirePermission(func(p models.PermissionBundle) bool { return p.CanViewMembers }))
	members.PATCH("/members/:id", memberHandlers.UpdateMember, requireAdmin)
	members.GET("/subscriptions", memberHandlers.ListSubscriptions,
		middleware.RequirePermission(func(p models.PermissionBundle) bool { return p.CanViewSubscriptions }))

	// Payment dashboard
	payments := e.Group("/payments", authenticate)
	payments.GET("/payment", paymentHandlers.ListPayments,
		middleware.RequirePermission(func(p models.PermissionBundle) bool { return p.CanViewPayments }))

	// Settings
	settings := e.Group("/settings", authenticate, requireAdmin)
	settings.GET("/payment-types", settingsHandlers.ListPaymentTypes)
	settings.POST("/payment-types", settingsHandlers.CreatePaymentType)
	settings.PATCH("/payment-types/:id", settingsHandlers.UpdatePaymentType)
	settings.DELETE("/payment-types/:id", settingsHandlers.DeletePaymentType)
	settings.GET("/user-types", settingsHandlers.ListUserTypes)
	settings.POST("/user-types", settingsHandlers.CreateUserType)
	settings.PATCH("/user-types/:id", settingsHandlers.UpdateUserType)
	settings.DELETE("/user-types/:id", settingsHandlers.DeleteUserType)

	// Supplement shop
	supplements := e.Group("/suplements")
	supplements.GET("", supplementHandlers.ListSupplements)
	supplements.GET("/:id", supplementHandlers.GetSupplement)
	supplements.GET("/:id/image", supplementHandlers.GetSupplementImage)
	supplements.POST("/add", supplementHandlers.CreateSupplement, authenticate, requireAdmin)
	supplements.PUT("/:id", supplementHandlers.UpdateSupplement, authenticate, requireAdmin)
	supplements.DELETE("/:id", supplementHandlers.DeleteSupplement, authenticate, requireAdmin)

	// Contact form
	e.POST("/contact", contactHandlers.SendMessage)

	// Background jobs
	jobScheduler := background.NewJobScheduler(subscriptionSvc, subscriptionRepo, userRepo, mailSvc)
	jobScheduler.Start()
	defer func() {
		if err := jobScheduler.Stop(); err != nil {
			log.Printf("Failed to stop job scheduler: %v", err)
		}
	}()

	// Start server
	portStr := getenvDefault("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Gymstack server v%s starting on port %d", version, port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
