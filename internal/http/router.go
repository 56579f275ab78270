package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lifelessons-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lifelessons-backend/internal/http/middleware"
	"github.com/yungbote/lifelessons-backend/internal/observability"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	LessonHandler     *httpH.LessonHandler
	EngagementHandler *httpH.EngagementHandler
	UserHandler       *httpH.UserHandler
	AdminHandler      *httpH.AdminHandler
	PaymentHandler    *httpH.PaymentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	auth := func(c *gin.Context) { c.Next() }
	admin := auth
	if cfg.AuthMiddleware != nil {
		auth = cfg.AuthMiddleware.RequireAuth()
		admin = cfg.AuthMiddleware.RequireAdmin()
	}

	// Lessons
	if h := cfg.LessonHandler; h != nil {
		r.POST("/lessons", auth, h.Create)
		r.PATCH("/update-lessons/:id", auth, h.Update)
		r.DELETE("/lessons/:id", auth, h.Delete)
		r.GET("/lessons/:id", h.Get)
		r.GET("/my-lessons/:email", h.ListByCreator)
		r.GET("/public-lessons", h.ListPublic)
		r.GET("/featured-lessons", h.Featured)
		r.GET("/favorite-lessons", auth, h.Favorites)
		r.GET("/allLessons/similar/:id", h.Similar)
		r.GET("/all-lessons/most-saved", h.MostSaved)
	}

	// Engagement
	if h := cfg.EngagementHandler; h != nil {
		r.PATCH("/lessons/like", auth, h.ToggleLike)
		r.PATCH("/lessons/save-to-favorites", auth, h.ToggleFavorite)
		r.POST("/create-comment", auth, h.AddComment)
		r.POST("/lessons/report", auth, h.FileReport)
	}

	// Users
	if h := cfg.UserHandler; h != nil {
		r.POST("/user", h.Upsert)
		r.GET("/single-user", auth, h.Me)
		r.GET("/user-by-email/:email", h.ByEmail)
		r.GET("/role", auth, h.Role)
		r.GET("/isPremium", auth, h.IsPremium)
		r.PATCH("/update-profile", auth, h.UpdateProfile)
		r.GET("/top-contributors", h.TopContributors)
		r.GET("/users/plan/:email", h.Plan)
		r.GET("/dashboard/summary", auth, h.DashboardSummary)
		r.GET("/all-users", auth, h.AllUsers)
		r.GET("/lesson-creator/:lessonId", auth, h.LessonCreator)
	}

	// Admin
	if h := cfg.AdminHandler; h != nil {
		g := r.Group("/admin", auth, admin)
		g.GET("/all-lessons", h.ListLessons)
		g.PATCH("/lessons/featured/:id", h.SetFeatured)
		g.PATCH("/lessons/reviewed/:id", h.SetReviewed)
		g.GET("/lesson-stats", h.Stats)
		g.GET("/reported-lessons", h.ListFlagged)
		g.GET("/reports/lesson/:id", h.ReportsForLesson)
		g.DELETE("/lessons/:id", h.DeleteLesson)
		g.DELETE("/reports/lesson/:id", h.IgnoreReports)
	}

	// Payments
	if h := cfg.PaymentHandler; h != nil {
		r.POST("/create-checkout-session", h.CreateCheckout)
		r.POST("/payment-success", h.ConfirmSuccess)
		r.POST("/webhook", h.Webhook)
	}

	return r
}
