package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/siakadcloud/siakad-backend/internal/config"
	"github.com/siakadcloud/siakad-backend/internal/handler"
	"github.com/siakadcloud/siakad-backend/internal/middleware"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Class        *handler.ClassHandler
	Assignment   *handler.AssignmentHandler
	Material     *handler.MaterialHandler
	Score        *handler.ScoreHandler
	Attendance   *handler.AttendanceHandler
	Permit       *handler.PermitHandler
	Scholarship  *handler.ScholarshipHandler
	FeeRelief    *handler.FeeReliefHandler
	Penalty      *handler.PenaltyHandler
	Announcement *handler.AnnouncementHandler
	Critique     *handler.CritiqueHandler
	Report       *handler.ReportHandler
	WS           *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		authed := auth.Group("")
		authed.Use(middleware.RequireJWT(authService), middleware.CheckSingleDeviceSession(authService))
		{
			authed.POST("/logout", handlers.Auth.Logout)
			authed.GET("/me", handlers.Auth.Me)
			authed.PUT("/password", handlers.Auth.ChangePassword)
			authed.PUT("/device-token", handlers.Auth.RegisterDevice)
		}
	}

	// ─── 2. Admin Group (JWT + Role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireJWT(authService), middleware.RequireRoles(model.RoleAdmin))
	{
		// Account management
		adminAPI.GET("/users", handlers.User.List)
		adminAPI.POST("/users", handlers.User.Create)
		adminAPI.POST("/users/import", handlers.User.ImportCSV)
		adminAPI.GET("/users/:id", handlers.User.Get)
		adminAPI.PUT("/users/:id", handlers.User.Update)
		adminAPI.DELETE("/users/:id", handlers.User.Delete)
		adminAPI.POST("/users/:id/reset-session", handlers.Auth.ResetSession)

		// Class management
		adminAPI.GET("/classes", handlers.Class.List)
		adminAPI.POST("/classes", handlers.Class.Create)
		adminAPI.POST("/classes/import", handlers.Class.ImportCSV)
		adminAPI.GET("/classes/export", handlers.Class.ExportCSV)
		adminAPI.GET("/classes/:id", handlers.Class.Get)
		adminAPI.PUT("/classes/:id", handlers.Class.Update)
		adminAPI.DELETE("/classes/:id", handlers.Class.Delete)
		adminAPI.GET("/classes/:id/members", handlers.Class.Members)
		adminAPI.POST("/classes/:id/members", handlers.Class.AddMember)
		adminAPI.DELETE("/classes/:id/members/:studentId", handlers.Class.RemoveMember)

		// Student request review
		adminAPI.GET("/permits", handlers.Permit.List)
		adminAPI.POST("/permits/:id/decision", handlers.Permit.Decide)
		adminAPI.GET("/fee-reliefs", handlers.FeeRelief.List)
		adminAPI.POST("/fee-reliefs/:id/decision", handlers.FeeRelief.Decide)

		// Scholarships
		adminAPI.GET("/scholarships", handlers.Scholarship.ListPrograms)
		adminAPI.POST("/scholarships", handlers.Scholarship.CreateProgram)
		adminAPI.POST("/scholarships/applications/:id/decision", handlers.Scholarship.DecideApplication)
		adminAPI.GET("/scholarships/:id", handlers.Scholarship.GetProgram)
		adminAPI.PUT("/scholarships/:id", handlers.Scholarship.UpdateProgram)
		adminAPI.DELETE("/scholarships/:id", handlers.Scholarship.DeleteProgram)
		adminAPI.GET("/scholarships/:id/applications", handlers.Scholarship.ListApplications)

		// Discipline
		adminAPI.GET("/penalties", handlers.Penalty.List)
		adminAPI.POST("/penalties", handlers.Penalty.Record)
		adminAPI.PUT("/penalties/:id", handlers.Penalty.Update)
		adminAPI.DELETE("/penalties/:id", handlers.Penalty.Delete)

		// Announcements
		adminAPI.GET("/announcements", handlers.Announcement.ListAll)
		adminAPI.POST("/announcements", handlers.Announcement.Create)
		adminAPI.PUT("/announcements/:id", handlers.Announcement.Update)
		adminAPI.DELETE("/announcements/:id", handlers.Announcement.Delete)

		// Feedback
		adminAPI.GET("/critiques", handlers.Critique.List)

		// CSV reports
		adminAPI.GET("/reports/scores", handlers.Report.Scores)
		adminAPI.GET("/reports/attendance", handlers.Report.Attendances)
	}

	// ─── 3. Teacher Group (JWT + Role) ─────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(middleware.RequireJWT(authService), middleware.RequireRoles(model.RoleTeacher))
	{
		teacherAPI.GET("/classes", handlers.Class.OwnTeaching)
		teacherAPI.GET("/classes/:id/assignments", handlers.Assignment.ListByClass)
		teacherAPI.POST("/classes/:id/assignments", handlers.Assignment.Create)
		teacherAPI.GET("/classes/:id/materials", handlers.Material.ListByClass)
		teacherAPI.POST("/classes/:id/materials", handlers.Material.Create)
		teacherAPI.GET("/classes/:id/scores", handlers.Score.ListByClass)
		teacherAPI.POST("/classes/:id/scores", handlers.Score.Record)
		teacherAPI.GET("/classes/:id/attendances", handlers.Attendance.ListByClassDate)
		teacherAPI.POST("/classes/:id/attendances", handlers.Attendance.RecordSheet)

		teacherAPI.PUT("/assignments/:id", handlers.Assignment.Update)
		teacherAPI.DELETE("/assignments/:id", handlers.Assignment.Delete)
		teacherAPI.GET("/assignments/:id/submissions", handlers.Assignment.Submissions)
		teacherAPI.GET("/assignments/:id/submissions/download", handlers.Assignment.DownloadSubmissions)
		teacherAPI.PUT("/materials/:id", handlers.Material.Update)
		teacherAPI.DELETE("/materials/:id", handlers.Material.Delete)

		teacherAPI.GET("/announcements", handlers.Announcement.Feed)
	}

	// ─── 4. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(
		middleware.RequireJWT(authService),
		middleware.RequireRoles(model.RoleStudent),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/classes", handlers.Class.OwnSchedule)
		studentAPI.GET("/classes/:id/assignments", handlers.Assignment.ListByClass)
		studentAPI.GET("/classes/:id/materials", handlers.Material.ListByClass)

		studentAPI.POST("/assignments/:id/submissions", handlers.Assignment.Submit)
		studentAPI.GET("/assignments/:id/submissions/me", handlers.Assignment.OwnSubmission)

		studentAPI.GET("/scores", handlers.Score.OwnScores)
		studentAPI.GET("/attendances", handlers.Attendance.OwnHistory)

		studentAPI.GET("/permits", handlers.Permit.OwnPermits)
		studentAPI.POST("/permits", handlers.Permit.Submit)

		studentAPI.GET("/scholarships", handlers.Scholarship.ListPrograms)
		studentAPI.GET("/scholarships/applications", handlers.Scholarship.OwnApplications)
		studentAPI.POST("/scholarships/:id/applications", handlers.Scholarship.Apply)

		studentAPI.GET("/fee-reliefs", handlers.FeeRelief.OwnRequests)
		studentAPI.POST("/fee-reliefs", handlers.FeeRelief.Submit)

		studentAPI.GET("/penalties", handlers.Penalty.OwnPenalties)
		studentAPI.GET("/announcements", handlers.Announcement.Feed)
		studentAPI.POST("/critiques", handlers.Critique.Submit)
	}

	// ─── 5. WebSocket Group (Admin WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService, model.RoleAdmin))
	{
		ws.GET("/admin/announcements/stream", handlers.WS.AnnouncementStream)
	}

	return router
}
