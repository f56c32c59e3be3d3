package handler

import (
	"errors"
	"net/http"

	"posmorales/internal/apierror"
	"posmorales/internal/dto"
	"posmorales/internal/service"

	"github.com/gin-gonic/gin"
)

type InvoicesHandler struct{ svc service.InvoiceService }

func NewInvoicesHandler(svc service.InvoiceService) *InvoicesHandler {
	return &InvoicesHandler{svc: svc}
}

// List returns invoices for a date range, partitioned by status.
func (h *InvoicesHandler) List(c *gin.Context) {
	var filter dto.InvoiceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InvoicesHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	inv, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Void marks a completed invoice ANULADA. The transition is one-way and the
// reason is mandatory.
func (h *InvoicesHandler) Void(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.VoidInvoiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	inv, err := h.svc.Void(c.Request.Context(), id, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyVoided) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// Dashboard returns today's sales summary.
func (h *InvoicesHandler) Dashboard(c *gin.Context) {
	resp, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
