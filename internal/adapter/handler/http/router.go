package http

import (
	"github.com/Victor-cmda/serveon-sub001/internal/adapter/config"
	"github.com/Victor-cmda/serveon-sub001/internal/core/port"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	salesHandler *OrderHandler,
	purchasesHandler *OrderHandler,
	referenceHandler *ReferenceHandler,
	authHandler *AuthHandler) (*Router, error) {

	router := gin.New()

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	{
		api.POST("/auth/actor", authHandler.IssueActorToken)

		reference := api.Group("/reference")
		{
			reference.GET("/products", referenceHandler.ListProducts)
			reference.GET("/payment-methods", referenceHandler.ListPaymentMethods)
			reference.GET("/employees", referenceHandler.ListEmployees)
		}

		for _, mount := range []struct {
			path    string
			handler *OrderHandler
		}{
			{"/sales", salesHandler},
			{"/purchases", purchasesHandler},
		} {
			orders := api.Group(mount.path + "/orders")
			{
				orders.Use(actorContext(tokenService))
				orders.POST("", mount.handler.CreateOrder)
				orders.GET("", mount.handler.ListOrders)
				orders.GET("/duplicate", mount.handler.CheckDuplicate)
				orders.GET("/:id", mount.handler.GetOrder)
				orders.PATCH("/:id", mount.handler.UpdateOrder)
				orders.DELETE("/:id", mount.handler.DeleteOrder)
				orders.POST("/:id/approve", mount.handler.Approve)
				orders.POST("/:id/deny", mount.handler.Deny)
			}
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
