package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ken6921-byte/zuinsurance-app/internal/apierror"
	"github.com/ken6921-byte/zuinsurance-app/internal/dto"
	"github.com/ken6921-byte/zuinsurance-app/internal/service"

	"github.com/gin-gonic/gin"
)

// maxTableBytes caps uploaded spreadsheets.
const maxTableBytes = 20 << 20

type ImportExportHandler struct{ svc service.ImportExportService }

func NewImportExportHandler(svc service.ImportExportService) *ImportExportHandler {
	return &ImportExportHandler{svc: svc}
}

func readUpload(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("請附上檔案（file 欄位）"))
		return "", nil, false
	}
	if fileHeader.Size > maxTableBytes {
		c.JSON(http.StatusBadRequest, apierror.New("檔案超過 20MB"))
		return "", nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("讀取檔案失敗"))
		return "", nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("讀取檔案失敗"))
		return "", nil, false
	}
	return fileHeader.Filename, data, true
}

// Inspect previews an uploaded table: columns, sample rows, row count.
func (h *ImportExportHandler) Inspect(c *gin.Context) {
	filename, data, ok := readUpload(c)
	if !ok {
		return
	}
	resp, err := h.svc.Inspect(filename, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ImportCustomers commits an import. The column mapping rides along as a JSON
// string in the "mapping" form field.
func (h *ImportExportHandler) ImportCustomers(c *gin.Context) {
	filename, data, ok := readUpload(c)
	if !ok {
		return
	}
	var mapping dto.ColumnMapping
	if err := json.Unmarshal([]byte(c.PostForm("mapping")), &mapping); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("mapping 欄位必須是 JSON："+err.Error()))
		return
	}
	if !validateStruct(c, &mapping) {
		return
	}
	resp, err := h.svc.ImportCustomers(c.Request.Context(), filename, data, mapping)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportExportHandler) serveFile(c *gin.Context, data []byte, err error, name, contentType string) {
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("匯出失敗"))
		return
	}
	filename := fmt.Sprintf("%s_%s", time.Now().Format("20060102"), name)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *ImportExportHandler) ExportCustomersCSV(c *gin.Context) {
	data, err := h.svc.ExportCustomersCSV(c.Request.Context())
	h.serveFile(c, data, err, "customers.csv", "text/csv; charset=utf-8")
}

func (h *ImportExportHandler) ExportPoliciesCSV(c *gin.Context) {
	data, err := h.svc.ExportPoliciesCSV(c.Request.Context())
	h.serveFile(c, data, err, "policies.csv", "text/csv; charset=utf-8")
}

func (h *ImportExportHandler) ExportPolicyItemsCSV(c *gin.Context) {
	data, err := h.svc.ExportPolicyItemsCSV(c.Request.Context())
	h.serveFile(c, data, err, "policy_items.csv", "text/csv; charset=utf-8")
}

func (h *ImportExportHandler) ExportBackupXLSX(c *gin.Context) {
	data, err := h.svc.ExportBackupXLSX(c.Request.Context())
	h.serveFile(c, data, err, "backup.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
}
