package handler

import (
	"net/http"

	"github.com/ken6921-byte/zuinsurance-app/internal/apierror"
	"github.com/ken6921-byte/zuinsurance-app/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin service.AdminService
	usage service.UsageService
	auth  service.AuthService
}

func NewAdminHandler(admin service.AdminService, usage service.UsageService, auth service.AuthService) *AdminHandler {
	return &AdminHandler{admin: admin, usage: usage, auth: auth}
}

// ResetUsage zeroes today's AI-call counters for every user.
func (h *AdminHandler) ResetUsage(c *gin.Context) {
	if err := h.usage.ResetToday(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("重置用量失敗"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// WipeData deletes every customer, policy, and item. Requires ?confirm=true
// so a stray DELETE cannot erase the book of business.
func (h *AdminHandler) WipeData(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, apierror.New("必須帶上 confirm=true 才會清除資料"))
		return
	}
	if err := h.admin.WipeData(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("清除資料失敗"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"wiped": true})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	resp, err := h.auth.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("查詢使用者失敗"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
