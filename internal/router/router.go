package router

import (
	"github.com/carman72tmn/foodtech/internal/config"
	adminhandlers "github.com/carman72tmn/foodtech/internal/http/handlers/admin"
	publichandlers "github.com/carman72tmn/foodtech/internal/http/handlers/public"
	"github.com/carman72tmn/foodtech/internal/logger"
	"github.com/carman72tmn/foodtech/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))

	apiV1 := r.Group("/api/v1")
	{
		public := apiV1.Group("/public")
		{
			public.GET("/branches", publicHandler.GetBranches)
			public.GET("/categories", publicHandler.GetCategories)
			public.GET("/products", publicHandler.GetProducts)
			public.GET("/products/:id", publicHandler.GetProduct)
		}

		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", publicHandler.AddCartItem)
			cart.DELETE("", publicHandler.ClearCart)
		}

		orders := apiV1.Group("/orders")
		{
			orders.POST("", publicHandler.CreateOrder)
			orders.POST("/preview", publicHandler.PreviewOrder)
			orders.GET("", publicHandler.ListOrders)
			orders.GET("/:id", publicHandler.GetOrder)
			orders.POST("/:id/cancel", publicHandler.CancelOrder)
		}

		webhooks := apiV1.Group("/webhooks")
		webhooks.Use(WebhookAuthMiddleware(cfg.Iiko.WebhookAuthToken))
		{
			webhooks.POST("/iiko", publicHandler.IikoWebhook)
		}

		admin := apiV1.Group("/admin")
		admin.Use(AdminAuthMiddleware(cfg.Admin.APIToken))
		{
			admin.POST("/sync/menu", adminHandler.SyncMenu)
			admin.POST("/sync/prices", adminHandler.SyncPrices)
			admin.POST("/sync/stop-lists", adminHandler.SyncStopLists)
			admin.GET("/sync/logs", adminHandler.ListSyncLogs)

			admin.GET("/orders", adminHandler.ListOrders)
			admin.GET("/orders/:id", adminHandler.GetOrder)
			admin.PUT("/orders/:id/status", adminHandler.UpdateOrderStatus)
			admin.POST("/orders/:id/cancel", adminHandler.CancelOrder)
			admin.POST("/orders/:id/resubmit", adminHandler.ResubmitOrder)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
