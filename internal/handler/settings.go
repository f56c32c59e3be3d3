package handler

import (
	"net/http"

	"posmorales/internal/apierror"
	"posmorales/internal/model"
	"posmorales/internal/settings"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct{ store *settings.Store }

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Get())
}

// Update replaces the whole settings blob and persists it to disk.
func (h *SettingsHandler) Update(c *gin.Context) {
	var next model.Settings
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return
	}
	if next.CompanyName == "" {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("El nombre de la empresa es obligatorio"))
		return
	}
	if next.TaxRate.IsNegative() {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("La tasa de impuesto no puede ser negativa"))
		return
	}
	if next.BusinessType != "restaurant" && next.BusinessType != "retail" {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("Tipo de negocio invalido"))
		return
	}
	if err := h.store.Save(next); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo guardar la configuracion"))
		return
	}
	c.JSON(http.StatusOK, h.store.Get())
}
