package batch

import (
	"encoding/json"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// releaseIdempotency drops the in-flight lock and, on success, caches
// the response body under the idempotency key.
func (h *Handler) releaseIdempotency(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}

	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		h.rdb.Del(c.Request.Context(), lk)
	}

	if resp == nil {
		return
	}
	if ck := c.GetString("idempotency_cache_key"); ck != "" {
		if payload, err := json.Marshal(resp); err == nil {
			_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
		}
	}
}

func (h *Handler) Create(c *gin.Context) {
	actorID := getActorID(c)

	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotency(c, nil)
		mapped := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}

	h.releaseIdempotency(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetTargets(c *gin.Context) {
	resp, err := h.service.GetTargets(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPayrolls(c *gin.Context) {
	resp, err := h.service.GetPayrolls(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetPayrollItems(c *gin.Context) {
	resp, err := h.service.GetPayrollItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.releaseIdempotency(c, nil)
			mapped := apperror.ToHTTP(apperror.MapValidationError(err))
			response.Error(c, mapped.Status, mapped.Code, mapped.Message, nil)
			return
		}
	}

	resp, err := h.service.Calculate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}

	h.releaseIdempotency(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Confirm(c *gin.Context) {
	resp, err := h.service.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}

	h.releaseIdempotency(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Pay(c *gin.Context) {
	resp, err := h.service.Pay(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.releaseIdempotency(c, nil)
		h.writeServiceError(c, err)
		return
	}

	h.releaseIdempotency(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}
