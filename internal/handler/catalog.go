package handler

import (
	"net/http"
	"strconv"

	"posmorales/internal/apierror"
	"posmorales/internal/service"
	"posmorales/internal/upstream"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Products returns the mirrored catalog, optionally filtered by free-text
// search and category.
func (h *CatalogHandler) Products(c *gin.Context) {
	categoryID, _ := strconv.ParseInt(c.Query("category_id"), 10, 64)
	products, err := h.svc.Products(c.Request.Context(), c.Query("search"), categoryID)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New(upstream.ServerMessage(err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products, "total": len(products)})
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New(upstream.ServerMessage(err)))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// Refresh forces a catalog refetch, bypassing the snapshot.
func (h *CatalogHandler) Refresh(c *gin.Context) {
	if err := h.svc.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, apierror.New(upstream.ServerMessage(err)))
		return
	}
	c.Status(http.StatusNoContent)
}
