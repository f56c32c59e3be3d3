package handler

import (
	"net/http"

	"posmorales/internal/dto"
	"posmorales/internal/service"

	"github.com/gin-gonic/gin"
)

type TablesHandler struct{ svc service.TableService }

func NewTablesHandler(svc service.TableService) *TablesHandler {
	return &TablesHandler{svc: svc}
}

// List returns the mirrored table map with active sessions embedded.
func (h *TablesHandler) List(c *gin.Context) {
	tables, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tables})
}

func (h *TablesHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	table, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Session returns the open session of an occupied table.
func (h *TablesHandler) Session(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	session, err := h.svc.Session(c.Request.Context(), id)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Refresh forces a wholesale refetch of the table list.
func (h *TablesHandler) Refresh(c *gin.Context) {
	if err := h.svc.Refresh(c.Request.Context()); err != nil {
		writeCartError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Open starts a session for seated guests before any items are ordered.
func (h *TablesHandler) Open(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.OpenTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	session, err := h.svc.Open(c.Request.Context(), id, req)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// RemoveItem deletes one line from the table's session.
func (h *TablesHandler) RemoveItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RemoveSessionItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	session, err := h.svc.RemoveItem(c.Request.Context(), id, req.DetailID)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// ChangeStatus is the admin override between DISPONIBLE, RESERVADA and
// FUERA_DE_SERVICIO.
func (h *TablesHandler) ChangeStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ChangeTableStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	table, err := h.svc.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		writeCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}
