package handler

import (
	"net/http"

	"posmorales/internal/apierror"
	"posmorales/internal/dto"
	"posmorales/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Export schedules an Excel export of the sales in a date range. The workbook
// is written by the worker pool; 202 signals the job was accepted.
func (h *ReportsHandler) Export(c *gin.Context) {
	var req dto.ExportReportRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Export(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, resp)
}
