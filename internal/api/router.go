package api

import (
	"eldertech/internal/api/handlers"
	"eldertech/pkg/auth"
	"eldertech/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	faqHandler *handlers.FAQHandler,
	speechHandler *handlers.SpeechHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		// Whisper accepts uploads up to 25 MB; leave room for multipart
		// framing and batch requests.
		BodyLimit: 64 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ElderTech Voice Assistant API",
			"status":  "running",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "eldertech-voice-assistant",
		})
	})

	requireAuth := middleware.AuthMiddleware(jwtManager, appLogger)
	requireAdmin := middleware.AdminOnly(appLogger)

	api := app.Group("/api")

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", requireAuth, authHandler.Me)
	authRoutes.Post("/logout", requireAuth, authHandler.Logout)
	authRoutes.Put("/profile", requireAuth, authHandler.UpdateProfile)

	// Chat routes
	chat := api.Group("/chat", requireAuth)
	chat.Post("/send", chatHandler.SendMessage)
	chat.Get("/conversations", chatHandler.ListConversations)
	chat.Get("/conversations/:id/messages", chatHandler.GetMessages)
	chat.Delete("/conversations/:id", chatHandler.DeleteConversation)
	chat.Post("/conversations/:id/export", chatHandler.ExportConversation)

	// FAQ routes: reads and feedback are public, mutations are admin-only.
	faqs := api.Group("/faqs")
	faqs.Get("/", faqHandler.List)
	faqs.Get("/categories", faqHandler.Categories)
	faqs.Post("/search", faqHandler.Search)
	faqs.Post("/", requireAuth, requireAdmin, faqHandler.Create)
	faqs.Get("/:id", faqHandler.Get)
	faqs.Put("/:id", requireAuth, requireAdmin, faqHandler.Update)
	faqs.Delete("/:id", requireAuth, requireAdmin, faqHandler.Delete)
	faqs.Post("/:id/feedback", middleware.OptionalAuth(jwtManager), faqHandler.SubmitFeedback)

	// Speech routes
	whisper := api.Group("/whisper", requireAuth)
	whisper.Post("/speech-to-text", speechHandler.SpeechToText)
	whisper.Post("/text-to-speech", speechHandler.TextToSpeech)
	whisper.Get("/voices", speechHandler.Voices)
	whisper.Post("/transcribe-url", speechHandler.TranscribeURL)
	whisper.Post("/batch-transcribe", speechHandler.BatchTranscribe)

	return app
}
