package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"leaduni/internal/config"
	"leaduni/internal/handlers"
	"leaduni/internal/middleware"
	"leaduni/internal/otp"
	"leaduni/internal/pdf"
	"leaduni/internal/repositories"
	"leaduni/internal/routes"
	"leaduni/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "leaduni/docs"
)

func Run() {
	cfg := config.LoadConfig()

	middleware.SetJWTKey(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("DB close failed: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	dbRepo := repositories.NewDBRepository(db)

	// === OTP store (process memory; sweeper bounds it) ===
	otpStore := otp.NewStore()
	stopSweeper := make(chan struct{})
	defer close(stopSweeper)
	otpStore.StartSweeper(time.Minute, stopSweeper)

	// === Services ===
	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), cfg.Auth.KDFIterations)
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	otpService := services.NewOTPService(otpStore, userRepo, emailService)
	otpService.CodeTTL = cfg.OTP.TTL()
	otpService.Cooldown = cfg.OTP.Cooldown()
	otpService.MaxAttempts = cfg.OTP.MaxAttempts
	otpService.CodeLength = cfg.OTP.CodeLength

	accountService := services.NewAccountService(userRepo, otpService, authService, emailService)

	telegramService := services.NewTelegramService(
		cfg.Telegram.BotToken,
		cfg.Telegram.ChatID,
		cfg.Telegram.DryRun,
	)
	notificationService := services.NewNotificationService(notificationRepo, telegramService)
	applicationService := services.NewApplicationService(applicationRepo, profileRepo, notificationService)

	cvGen := pdf.NewCVGenerator(cfg.Files.RootDir, "assets/fonts/DejaVuSans.ttf")
	profileService := services.NewProfileService(profileRepo, cvGen)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(accountService, otpService)
	profileHandler := handlers.NewProfileHandler(profileService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dbHandler := handlers.NewDBHandler(dbRepo)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.CORS.Whitelist))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", func(c *gin.Context) {
		c.String(200, "API backend corriendo ✅")
	})
	router.GET("/healthz", func(c *gin.Context) {
		if err := dbRepo.Ping(); err != nil {
			c.JSON(500, gin.H{"ok": false})
			return
		}
		c.JSON(200, gin.H{"ok": true})
	})

	routes.SetupRoutes(
		router,
		authHandler,
		profileHandler,
		applicationHandler,
		notificationHandler,
		dbHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Servidor escuchando en %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server start failed: ", err)
	}
}

// corsMiddleware — пустой whitelist пропускает всех (dev), иначе точное
// совпадение Origin. Запросы без Origin (curl, мобильные клиенты) проходят.
func corsMiddleware(whitelist []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(whitelist))
	for _, origin := range whitelist {
		allowed[origin] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if len(allowed) > 0 && !allowed[origin] {
				c.AbortWithStatusJSON(403, gin.H{"error": "Not allowed by CORS"})
				return
			}
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
