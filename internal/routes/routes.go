package routes

import (
	"time"

	"github.com/derrickhua/achieve-arcade-sub000/internal/config"
	"github.com/derrickhua/achieve-arcade-sub000/internal/handlers"
	"github.com/derrickhua/achieve-arcade-sub000/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	scheduleHandler *handlers.ScheduleHandler,
	habitHandler *handlers.HabitHandler,
	goalHandler *handlers.GoalHandler,
	rewardHandler *handlers.RewardHandler,
	dashboardHandler *handlers.DashboardHandler,
	suggestionHandler *handlers.SuggestionHandler,
	billingHandler *handlers.BillingHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected auth routes live outside the /auth group so the JWT
	// middleware never touches the public endpoints.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)
	api.Delete("/auth/account", middleware.JWTProtected(cfg), authHandler.DeleteAccount)

	// Stripe webhook — signature-verified, no JWT
	api.Post("/webhooks/stripe", billingHandler.HandleWebhook)

	// Everything below requires a valid access token.
	protected := api.Group("", middleware.JWTProtected(cfg))

	users := protected.Group("/users")
	users.Get("/me", userHandler.GetProfile)
	users.Put("/me", userHandler.UpdateProfile)
	users.Put("/me/preferences", userHandler.UpdatePreferences)
	users.Get("/me/coins", userHandler.GetCoins)

	tasks := protected.Group("/tasks")
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Post("/:id/complete", taskHandler.Complete)
	tasks.Delete("/:id", taskHandler.Delete)

	schedule := protected.Group("/daily-schedule")
	schedule.Get("/", scheduleHandler.GetToday)
	schedule.Put("/notes", scheduleHandler.UpdateNotes)
	schedule.Get("/weekly-metrics", scheduleHandler.GetWeeklyMetrics)
	schedule.Post("/time-blocks", scheduleHandler.AddTimeBlock)
	schedule.Put("/time-blocks/:id", scheduleHandler.UpdateTimeBlock)
	schedule.Delete("/time-blocks/:id", scheduleHandler.DeleteTimeBlock)
	schedule.Post("/time-blocks/:id/complete", scheduleHandler.CompleteTimeBlock)
	schedule.Post("/time-blocks/:id/incomplete", scheduleHandler.IncompleteTimeBlock)

	habits := protected.Group("/habits")
	habits.Get("/", habitHandler.List)
	habits.Post("/", habitHandler.Create)
	habits.Get("/:id", habitHandler.Get)
	habits.Put("/:id", habitHandler.Update)
	habits.Delete("/:id", habitHandler.Delete)
	habits.Post("/:id/completions", habitHandler.ChangeCompletion)
	habits.Get("/:id/streak", habitHandler.GetStreak)
	habits.Put("/:id/consistency-goal", habitHandler.UpdateConsistencyGoal)
	habits.Get("/:id/weekly-occurrences", habitHandler.GetWeeklyOccurrences)
	habits.Get("/:id/heatmap", habitHandler.GetHeatmap)
	habits.Get("/:id/performance-rate", habitHandler.GetPerformanceRate)

	goals := protected.Group("/goals")
	goals.Get("/", goalHandler.List)
	goals.Post("/", goalHandler.Create)
	goals.Get("/:id", goalHandler.Get)
	goals.Put("/:id", goalHandler.Update)
	goals.Put("/:id/category", goalHandler.UpdateCategory)
	goals.Delete("/:id", goalHandler.Delete)
	goals.Get("/:id/history", goalHandler.GetHistory)
	goals.Post("/:id/milestones", goalHandler.AddMilestone)
	goals.Put("/:id/milestones/:milestoneId", goalHandler.UpdateMilestone)
	goals.Delete("/:id/milestones/:milestoneId", goalHandler.DeleteMilestone)
	goals.Post("/:id/milestones/:milestoneId/complete", goalHandler.CompleteMilestone)
	goals.Post("/:id/generate-milestones", goalHandler.GenerateMilestones)

	rewards := protected.Group("/rewards")
	rewards.Get("/", rewardHandler.ListCatalog)
	rewards.Get("/owned", rewardHandler.ListOwned)
	rewards.Post("/purchase-chest", rewardHandler.PurchaseChest)

	protected.Get("/dashboard", dashboardHandler.GetMetrics)

	suggestions := protected.Group("/suggestions")
	suggestions.Get("/", suggestionHandler.ListOwn)
	suggestions.Post("/", suggestionHandler.Create)

	protected.Post("/stripe/checkout-session", billingHandler.CreateCheckoutSession)

	// Admin panel (JWT + admin required)
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.AdminRequired(db, cfg))
	admin.Post("/rewards", rewardHandler.CreateReward)
	admin.Put("/rewards/:id", rewardHandler.UpdateReward)
	admin.Delete("/rewards/:id", rewardHandler.DeleteReward)
	admin.Get("/suggestions", suggestionHandler.ListAll)
	admin.Put("/suggestions/:id", suggestionHandler.Action)
}
