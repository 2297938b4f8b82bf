package handler

import (
	"net/http"

	"github.com/ken6921-byte/zuinsurance-app/internal/apierror"
	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CustomersHandler struct {
	svc      service.CustomerService
	policies service.PolicyService
}

func NewCustomersHandler(svc service.CustomerService, policies service.PolicyService) *CustomersHandler {
	return &CustomersHandler{svc: svc, policies: policies}
}

// Create upserts by identity rather than failing on duplicates, so posting
// the same person twice refreshes their contact fields.
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer, err := h.svc.Upsert(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), customer.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CustomersHandler) List(c *gin.Context) {
	resp, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("查詢客戶失敗"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID 格式錯誤"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CustomersHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID 格式錯誤"))
		return
	}
	var req dto.UpdateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes the customer and, through FK cascades, every policy and
// item under them.
func (h *CustomersHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID 格式錯誤"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CustomersHandler) ListPolicies(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID 格式錯誤"))
		return
	}
	if _, err := h.svc.Get(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	resp, err := h.policies.ListByCustomer(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("查詢保單失敗"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
