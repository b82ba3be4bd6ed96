package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/habits/api/handler"
)

type Handlers struct {
	Profile    *apiHandler.ProfileHandler
	Task       *apiHandler.TaskHandler
	Completion *apiHandler.CompletionHandler
	Stats      *apiHandler.StatsHandler
	Health     *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	api := r.Group("/api/v1")

	api.GET("/profile", authMiddleware(handlers.Profile.GetProfile))
	api.PUT("/profile", authMiddleware(handlers.Profile.UpdateProfile))

	api.GET("/tasks", authMiddleware(handlers.Task.GetTasks))
	api.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	api.PUT("/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	api.DELETE("/tasks/{id}", authMiddleware(handlers.Task.ArchiveTask))

	api.POST("/completions", authMiddleware(handlers.Completion.LogCompletion))
	api.GET("/completions", authMiddleware(handlers.Completion.ListCompletions))

	api.GET("/dashboard", authMiddleware(handlers.Stats.Dashboard))
	api.GET("/insights", authMiddleware(handlers.Stats.Insights))
	api.GET("/leaderboard", authMiddleware(handlers.Stats.Leaderboard))
	api.GET("/admin/analytics", authMiddleware(handlers.Stats.Analytics))

	return r
}
