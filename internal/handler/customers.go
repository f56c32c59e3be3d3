package handler

import (
	"net/http"

	"posmorales/internal/apierror"
	"posmorales/internal/dto"
	"posmorales/internal/service"
	"posmorales/internal/upstream"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Search looks up customers by name or document number.
func (h *CustomersHandler) Search(c *gin.Context) {
	customers, err := h.svc.Search(c.Request.Context(), c.Query("search"))
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New(upstream.ServerMessage(err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers})
}

func (h *CustomersHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.svc.CustomerByID(c.Request.Context(), id)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Create registers a customer upstream so it can be attached to the sale.
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	customer, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}
