package handler

import (
	"net/http"

	"github.com/ken6921-byte/zuinsurance-app/internal/apierror"
	"github.com/ken6921-byte/zuinsurance-app/internal/middleware"
	"github.com/ken6921-byte/zuinsurance-app/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	svc   service.ReportService
	usage service.UsageService
}

func NewReportsHandler(svc service.ReportService, usage service.UsageService) *ReportsHandler {
	return &ReportsHandler{svc: svc, usage: usage}
}

func (h *ReportsHandler) CustomerOverview(c *gin.Context) {
	resp, err := h.svc.CustomerOverview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("產生客戶報表失敗"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportsHandler) CategoryStats(c *gin.Context) {
	resp, err := h.svc.CategoryStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("產生險種報表失敗"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Usage shows the caller's own AI-call counters for today.
func (h *ReportsHandler) Usage(c *gin.Context) {
	claims := middleware.GetClaims(c)
	resp, err := h.usage.Today(c.Request.Context(), claims.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("查詢用量失敗"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
