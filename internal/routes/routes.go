package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/config"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	moderationHandler *handlers.ModerationHandler,
	reviewHandler *handlers.ReviewHandler,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Reporter side (JWT required)
	api.Post("/reports/livestream", middleware.JWTProtected(cfg), moderationHandler.CreateLivestreamReport)
	api.Post("/reports/video", middleware.JWTProtected(cfg), moderationHandler.CreateVideoReport)
	api.Post("/livestreams/:id/scan", middleware.JWTProtected(cfg), moderationHandler.ScanLivestream)

	// Admin moderation panel. A valid X-Admin-Token is accepted in place of
	// a user token, so JWT verification is skipped for those requests.
	admin := api.Group("/admin", middleware.JWTUnlessAdminToken(cfg), middleware.AdminRequired(cfg))
	mod := admin.Group("/moderation")
	mod.Get("/inbox", moderationHandler.Inbox)
	mod.Get("/livestream-reports", moderationHandler.ListLivestreamReports)
	mod.Get("/video-reports", moderationHandler.ListVideoReports)
	mod.Get("/livestream-reports/:id", moderationHandler.GetLivestreamReport)
	mod.Get("/video-reports/:id", moderationHandler.GetVideoReport)
	mod.Put("/livestream-reports/:id", moderationHandler.ResolveLivestreamReport)
	mod.Put("/video-reports/:id", moderationHandler.ResolveVideoReport)
	mod.Get("/creators/:id", moderationHandler.GetCreator)
	mod.Put("/creators/:id", moderationHandler.ModerateCreator)

	mod.Get("/review", reviewHandler.Get)
	mod.Post("/review", reviewHandler.Select)
	mod.Put("/review/notes", reviewHandler.SetNotes)
	mod.Post("/review/resolve", reviewHandler.Resolve)
	mod.Post("/review/creator", reviewHandler.ModerateCreator)
	mod.Delete("/review", reviewHandler.Close)
}

