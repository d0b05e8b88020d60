package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnify_backend/internal/config"
	"learnify_backend/internal/controller"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/service"
	"learnify_backend/pkg/certgen"
	"learnify_backend/pkg/database"
	"learnify_backend/pkg/logger"
	"learnify_backend/pkg/monitoring"
	"learnify_backend/pkg/security"
	"learnify_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	enrollment  *repository.EnrollmentRepository
	progress    *repository.ProgressRepository
	achievement *repository.AchievementRepository
	streak      *repository.StreakRepository
	certificate *repository.CertificateRepository
	quiz        *repository.QuizRepository
	chat        *repository.ChatRepository
}

type services struct {
	storage      *service.StorageService
	notification *service.NotificationService
	achievement  *service.AchievementService
	streak       *service.StreakService
	certificate  *service.CertificateService
	progress     *service.ProgressService
	quiz         *service.QuizService
	catalog      *service.CatalogService
	auth         *service.AuthService
	dashboard    *service.DashboardService
	chatbot      *service.ChatbotService
	leaderboard  *service.LeaderboardService
}

type controllers struct {
	auth        *controller.AuthController
	course      *controller.CourseController
	learning    *controller.LearningController
	achievement *controller.AchievementController
	certificate *controller.CertificateController
	chat        *controller.ChatController
	leaderboard *controller.LeaderboardController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		progress:    repository.NewProgressRepository(db),
		achievement: repository.NewAchievementRepository(db),
		streak:      repository.NewStreakRepository(db),
		certificate: repository.NewCertificateRepository(db),
		quiz:        repository.NewQuizRepository(db),
		chat:        repository.NewChatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.notification = service.NewNotificationService(cfg.Mail)
	s.achievement = service.NewAchievementService(repos.achievement)
	s.streak = service.NewStreakService(repos.streak, s.achievement)

	renderer, err := certgen.NewRenderer(cfg.Certificate.FontPath, cfg.Certificate.OutputDir, cfg.Certificate.SiteName)
	if err != nil {
		logger.Log.Fatal("证书渲染器初始化失败", zap.Error(err))
	}
	s.certificate = service.NewCertificateService(repos.certificate, renderer, s.storage, s.notification, db)

	s.progress = service.NewProgressService(repos.progress, repos.enrollment, s.achievement, s.certificate, db)
	s.quiz = service.NewQuizService(repos.quiz, repos.enrollment, s.certificate, db)
	s.catalog = service.NewCatalogService(repos.course, repos.enrollment, s.achievement, db)
	s.auth = service.NewAuthService(repos.user, s.streak, cfg, db)
	s.dashboard = service.NewDashboardService(repos.enrollment, repos.certificate, s.achievement, s.streak)
	s.leaderboard = service.NewLeaderboardService(db, rdb)

	var primary service.Responder
	if cfg.AI.BaseURL != "" && cfg.AI.APIKey != "" {
		primary = service.NewAIResponder(cfg.AI)
	}
	var fallback service.Responder
	if faq, err := service.NewFAQResponder(cfg.Chatbot.FAQPath); err != nil {
		logger.Log.Warn("FAQ问答库加载失败，助手没有兜底回复", zap.String("path", cfg.Chatbot.FAQPath), zap.Error(err))
	} else {
		fallback = faq
	}
	s.chatbot = service.NewChatbotService(repos.chat, primary, fallback, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth, s.dashboard),
		course:      controller.NewCourseController(s.catalog, s.quiz),
		learning:    controller.NewLearningController(s.progress, s.streak),
		achievement: controller.NewAchievementController(s.achievement),
		certificate: controller.NewCertificateController(s.certificate),
		chat:        controller.NewChatController(s.chatbot),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 排行榜定期预热
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		for range ticker.C {
			if err := s.leaderboard.Refresh(context.Background()); err != nil {
				logger.Log.Error("排行榜刷新失败", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不迁移，除非显式带 -migrate 启动
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("learnify", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
