package adjustment

import (
	"net/http"

	adjustmenterrors "go-payroll/internal/adjustment/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAdjustments(c *gin.Context) {
	payrollID := c.Query("payroll_id")
	if payrollID == "" {
		h.writeServiceError(c, adjustmenterrors.ErrInvalidPayrollID)
		return
	}

	resp, err := h.service.GetAdjustmentsByPayroll(c.Request.Context(), payrollID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRaises(c *gin.Context) {
	employeeID := c.Query("employee_id")
	if employeeID == "" {
		h.writeServiceError(c, adjustmenterrors.ErrInvalidEmployeeID)
		return
	}

	resp, err := h.service.GetRaisesByEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetNetAdjustment(c *gin.Context) {
	resp, err := h.service.GetNetAdjustment(
		c.Request.Context(),
		c.Query("employee_id"),
		c.Query("salary_month"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
