package adjustment

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	payroll := r.Group("/payroll")
	payroll.Use(middleware.AuthMiddleware())
	{
		payroll.GET("/adjustments", handler.GetAdjustments)
		payroll.GET("/adjustments/net", handler.GetNetAdjustment)
		payroll.GET("/raises", handler.GetRaises)
	}
}
