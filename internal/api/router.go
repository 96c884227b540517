package api

import (
	"mueen-assist/docs"
	"mueen-assist/internal/api/handlers"
	"mueen-assist/pkg/auth"
	"mueen-assist/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	chatHandler *handlers.ChatHandler,
	faqHandler *handlers.FAQHandler,
	authHandler *handlers.AuthHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
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

	_ = docs.SwaggerInfo // ensure docs package is imported and init() is called
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Public routes
	app.Post("/get_response", chatHandler.GetResponse)
	app.Get("/session_history", chatHandler.SessionHistory)
	app.Post("/save_auth", chatHandler.SaveAuth)
	app.Post("/admin/login", authHandler.Login)

	// Operator routes
	protected := app.Group("/", middleware.AuthMiddleware(jwtManager, appLogger))
	protected.Get("/upload_faq", faqHandler.GetCorpus)
	protected.Post("/upload_faq", faqHandler.UploadCorpus)
	protected.Post("/clear_session_history", chatHandler.ClearSessionHistory)

	return app
}
