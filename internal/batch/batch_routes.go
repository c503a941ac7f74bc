package batch

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	batches := r.Group("/payroll/batches")
	batches.Use(middleware.AuthMiddleware())
	{
		batches.GET("", handler.GetAll)
		batches.GET("/targets", handler.GetTargets)
		batches.GET("/:id", handler.GetByID)
		batches.GET("/:id/payrolls", handler.GetPayrolls)

		if redisClient != nil {
			idem := middleware.Idempotency(redisClient)
			batches.POST("", idem, handler.Create)
			batches.POST("/:id/calculate", idem, handler.Calculate)
			batches.POST("/:id/confirm", idem, handler.Confirm)
			batches.POST("/:id/pay", idem, handler.Pay)
		} else {
			batches.POST("", handler.Create)
			batches.POST("/:id/calculate", handler.Calculate)
			batches.POST("/:id/confirm", handler.Confirm)
			batches.POST("/:id/pay", handler.Pay)
		}
	}

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware())
	{
		payrolls.GET("/:id/items", handler.GetPayrollItems)
	}
}
