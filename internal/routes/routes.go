package routes

import (
	"coinlings/internal/handlers"
	"coinlings/internal/middlewares"
	"github.com/go-openapi/runtime/middleware"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"time"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Transactions *handlers.TransactionHandler
	Containers   *handlers.ContainerHandler
	Creatures    *handlers.CreatureHandler
	Journal      *handlers.JournalHandler
}

func InitRoutes(h Handlers, authMiddleware *middlewares.AuthMiddleware, observer middlewares.RequestObserver,
	metricsHandler http.Handler, corsOrigins []string) *gin.Engine {
	router := gin.Default()

	_ = router.SetTrustedProxies(nil)

	router.Use(middlewares.Metrics(observer))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.StaticFile("/swagger.yaml", "./swagger.yaml")

	opts := middleware.SwaggerUIOpts{SpecURL: "/swagger.yaml"}
	sh := middleware.SwaggerUI(opts, nil)

	router.GET("/swagger/*any", func(c *gin.Context) {
		sh.ServeHTTP(c.Writer, c.Request)
	})

	router.GET("/metrics", gin.WrapH(metricsHandler))

	api := router.Group("/api")

	// паблик роуты
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.GET("/journal/sprites", h.Journal.Sprites)
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// защищенные роуты
	protected := api.Group("", authMiddleware.Handle())
	{
		protected.POST("/transactions", h.Transactions.Record)
		protected.GET("/transactions", h.Transactions.List)
		protected.GET("/transactions/categories", h.Transactions.Categories)
		protected.GET("/transactions/analytics/summary", h.Transactions.Summary)
		protected.PATCH("/transactions/:id", h.Transactions.SetWorthIt)

		protected.GET("/containers", h.Containers.List)
		protected.POST("/containers/create", h.Containers.Create)
		protected.POST("/containers/merge", h.Containers.Merge)
		protected.GET("/containers/:id", h.Containers.Get)
		protected.PUT("/containers/:id/position", h.Containers.SetPosition)
		protected.PATCH("/containers/:id/name", h.Containers.Rename)
		protected.DELETE("/containers/:id", h.Containers.Delete)

		protected.GET("/creatures", h.Creatures.List)
		protected.POST("/creatures", h.Creatures.Create)
		protected.POST("/creatures/sync", h.Creatures.Sync)
		protected.DELETE("/creatures/:id", h.Creatures.Retire)
		protected.PATCH("/creatures/:id/name", h.Creatures.Rename)
		protected.PATCH("/creatures/:id/container", h.Creatures.Move)

		protected.GET("/journal/unlocked", h.Journal.Unlocked)
	}

	return router
}
