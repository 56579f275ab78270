package app

import (
	"github.com/yungbote/lifelessons-backend/internal/http"
	httpH "github.com/yungbote/lifelessons-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lifelessons-backend/internal/http/middleware"
	"github.com/yungbote/lifelessons-backend/internal/observability"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Lesson     *httpH.LessonHandler
	Engagement *httpH.EngagementHandler
	User       *httpH.UserHandler
	Admin      *httpH.AdminHandler
	Payment    *httpH.PaymentHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Identity),
	}
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Lesson:     httpH.NewLessonHandler(log, services.Lesson),
		Engagement: httpH.NewEngagementHandler(log, services.Engagement),
		User:       httpH.NewUserHandler(log, services.User),
		Admin:      httpH.NewAdminHandler(log, services.Moderation),
		Payment:    httpH.NewPaymentHandler(log, services.Payment),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.OtelEnabled {
		serviceName = cfg.OtelServiceName
	}
	return http.NewServer(http.ServerConfig{Addr: cfg.Addr()}, http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.Origins(),
		Metrics:           metrics,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		LessonHandler:     handlers.Lesson,
		EngagementHandler: handlers.Engagement,
		UserHandler:       handlers.User,
		AdminHandler:      handlers.Admin,
		PaymentHandler:    handlers.Payment,
	})
}
