package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/ken6921-byte/zuinsurance-app/internal/apierror"
	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/middleware"
	"github.com/ken6921-byte/zuinsurance-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImageBytes caps uploaded sheet photos. Phone photos land well under
// this; anything bigger is almost certainly the wrong file.
const maxImageBytes = 10 << 20

type PoliciesHandler struct{ svc service.PolicyService }

func NewPoliciesHandler(svc service.PolicyService) *PoliciesHandler {
	return &PoliciesHandler{svc: svc}
}

// Extract ingests a policy-sheet photo: multipart "image" file plus optional
// manual customer fields. The manual name beats whatever the model reads off
// the sheet.
func (h *PoliciesHandler) Extract(c *gin.Context) {
	var req dto.ExtractRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("表單格式錯誤："+err.Error()))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("請附上保單條列式照片（image 欄位）"))
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, apierror.New("圖片超過 10MB，請壓縮後再上傳"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("讀取圖片失敗"))
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("讀取圖片失敗"))
		return
	}

	mime := http.DetectContentType(image)
	if mime != "image/jpeg" && mime != "image/png" {
		c.JSON(http.StatusBadRequest, apierror.New("只支援 JPEG 或 PNG 圖片"))
		return
	}

	claims := middleware.GetClaims(c)
	resp, err := h.svc.ExtractAndIngest(c.Request.Context(), claims.Username, image, mime, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PoliciesHandler) Get(c *gin.Context) {
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

func (h *PoliciesHandler) Delete(c *gin.Context) {
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

// Summary re-runs the health-check model over the stored extraction. Counts
// against the caller's daily text ceiling.
func (h *PoliciesHandler) Summary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID 格式錯誤"))
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.RegenerateSummary(c.Request.Context(), claims.Username, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PoliciesHandler) ReportPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID 格式錯誤"))
		return
	}
	data, filename, err := h.svc.RenderPDF(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *PoliciesHandler) Email(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID 格式錯誤"))
		return
	}
	// Body is optional; omitting it falls back to the customer's stored email.
	var req dto.EmailReportRequest
	if c.Request.ContentLength > 0 {
		if !bindAndValidate(c, &req) {
			return
		}
	}
	if err := h.svc.EmailReport(c.Request.Context(), id, req.To); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}
