package app

import (
	"database/sql"

	"go-payroll/internal/adjustment"
	"go-payroll/internal/attendance"
	"go-payroll/internal/batch"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	adjustmentRepo := adjustment.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	batchRepo := batch.NewBatchRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	paymentRepo := payment.NewRepository(gormDB)
	payrollRepo := batch.NewPayrollRepository(gormDB)

	// --- Services ---
	attendanceService := attendance.NewService(employeeRepo, attendanceRepo)
	adjustmentService := adjustment.NewService(db, adjustmentRepo, employeeRepo, payrollRepo)
	calculator := batch.NewCalculator(db, payrollRepo, attendanceService, adjustmentRepo)
	batchService := batch.NewServiceWithOutbox(
		db, batchRepo, payrollRepo, employeeRepo, paymentRepo, calculator, outboxRepo,
	)

	// --- Handlers ---
	adjustmentHandler := adjustment.NewHandler(adjustmentService)
	batchHandler := batch.NewHandlerWithRedis(batchService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		adjustment.RegisterRoutes(api, adjustmentHandler)
		batch.RegisterRoutes(api, batchHandler, rdb)
	}

	return nil
}
