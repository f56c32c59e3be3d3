package handler

import (
	"errors"
	"net/http"

	"posmorales/internal/apierror"
	"posmorales/internal/dto"
	"posmorales/internal/infra"
	"posmorales/internal/model"
	"posmorales/internal/service"
	"posmorales/internal/upstream"

	"github.com/gin-gonic/gin"
)

type CartHandler struct{ svc service.CartService }

func NewCartHandler(svc service.CartService) *CartHandler { return &CartHandler{svc: svc} }

// Get returns the current cart with derived totals.
func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot())
}

// AddItem adds one unit of a product, subject to the stock guard.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), req.ProductID)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Increment(c *gin.Context) {
	var req dto.QuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Increment(c.Request.Context(), req.ProductID)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) Decrement(c *gin.Context) {
	var req dto.QuantityRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.Decrement(req.ProductID))
}

func (h *CartHandler) Remove(c *gin.Context) {
	id, ok := pathID(c, "productId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Remove(id))
}

// Clear empties the lines but keeps the selected customer.
func (h *CartHandler) Clear(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Clear())
}

// Cancel abandons the sale entirely: lines, customer, discount, table.
func (h *CartHandler) Cancel(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Cancel())
}

func (h *CartHandler) SetDiscount(c *gin.Context) {
	var req dto.SetDiscountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetDiscount(model.Discount{Value: req.Value, Kind: req.Kind})
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) SetNotes(c *gin.Context) {
	var req dto.SetNotesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.SetNotes(req.Notes))
}

func (h *CartHandler) SetCustomer(c *gin.Context) {
	var req dto.SetCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SetCustomer(c.Request.Context(), req.CustomerID)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SelectTable attaches the sale to a table, or detaches it with null.
func (h *CartHandler) SelectTable(c *gin.Context) {
	var req dto.SelectTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.SelectTable(c.Request.Context(), req.TableID)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func writeCartError(c *gin.Context, err error) {
	var upErr *upstream.Error
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &upErr), errors.Is(err, infra.ErrCircuitOpen):
		c.JSON(http.StatusBadGateway, apierror.New(upstream.ServerMessage(err)))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
