package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lifelessons-backend/internal/clients/redis"
	"github.com/yungbote/lifelessons-backend/internal/platform/logger"
	"github.com/yungbote/lifelessons-backend/internal/services"
)

type Services struct {
	Identity   services.IdentityService
	Lesson     services.LessonService
	Engagement services.EngagementService
	Moderation services.ModerationService
	User       services.UserService
	Payment    services.PaymentService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, r Repos) Services {
	log.Info("Wiring services...")

	var cache services.TokenCache
	if clients.Redis != nil {
		cache = redis.NewTokenCache(clients.Redis)
	}

	return Services{
		Identity: services.NewIdentityService(log, clients.Verifier, cache, r.User, cfg.AuthCacheTTL()),
		Lesson:   services.NewLessonService(db, log, r.Lesson, r.User),
		Engagement: services.NewEngagementService(
			db, log, r.Lesson, r.User,
			r.Like, r.Favorite, r.Comment, r.ReportSnapshot, r.Report,
		),
		Moderation: services.NewModerationService(db, log, r.Lesson, r.Report),
		User:       services.NewUserService(db, log, r.User, r.Lesson),
		Payment:    services.NewPaymentService(db, log, clients.Checkout, r.Payment, r.User, cfg.Payment()),
	}
}
