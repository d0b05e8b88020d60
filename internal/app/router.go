package app

import (
	"learnify_backend/internal/config"
	"learnify_backend/internal/middleware"
	"learnify_backend/internal/model"
	"learnify_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/certificates/verify", c.certificate.Verify)
	}

	// 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.Profile)
		authGroup.PUT("/profile", c.auth.UpdateProfile)
		authGroup.GET("/dashboard", c.auth.Dashboard)
		authGroup.GET("/streak", c.learning.Streak)

		authGroup.GET("/courses", c.course.List)
		authGroup.GET("/courses/:id", c.course.Detail)
		authGroup.POST("/courses/:id/enroll", c.course.Enroll)
		authGroup.GET("/enrollments", c.course.MyEnrollments)

		authGroup.GET("/courses/:id/progress", c.learning.CourseProgress)
		authGroup.POST("/courses/:id/modules/:moduleId/progress", c.learning.SubmitProgress)

		authGroup.GET("/courses/:id/quiz", c.course.QuizQuestions)
		authGroup.POST("/courses/:id/quiz", c.course.SubmitQuiz)
		authGroup.GET("/courses/:id/quiz/attempts", c.course.QuizAttempts)

		authGroup.GET("/achievements", c.achievement.Catalog)
		authGroup.GET("/achievements/mine", c.achievement.Mine)

		authGroup.GET("/certificates", c.certificate.Mine)
		authGroup.GET("/certificates/:id/download", c.certificate.Download)

		authGroup.POST("/chat", c.chat.Send)
		authGroup.GET("/chat/history", c.chat.History)

		authGroup.GET("/leaderboard", c.leaderboard.Standings)
	}

	// 管理员路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/courses", c.course.Create)
	}
}
