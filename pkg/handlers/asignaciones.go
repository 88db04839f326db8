package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/staffeo/camareros-api-go/pkg/models"
	"github.com/staffeo/camareros-api-go/pkg/suggest"
)

// CreateAsignacion assigns a chosen camarero to a pedido (writeback)
func (h *Handler) CreateAsignacion(c *gin.Context) {
	var req struct {
		PedidoID   uint `json:"pedido_id" binding:"required"`
		CamareroID uint `json:"camarero_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	asignacion, err := h.Suggester.Assign(c.Request.Context(), req.PedidoID, req.CamareroID)
	if err != nil {
		switch {
		case errors.Is(err, suggest.ErrPedidoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pedido not found"})
		case errors.Is(err, suggest.ErrCamareroNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Camarero not found"})
		case errors.Is(err, suggest.ErrPedidoCompleto):
			c.JSON(http.StatusConflict, gin.H{"error": "Pedido already fully staffed"})
		default:
			h.Logger.Error("assignment failed",
				zap.Uint("pedido_id", req.PedidoID),
				zap.Uint("camarero_id", req.CamareroID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create assignment"})
		}
		return
	}

	h.RecordUsage(c, 0, 0, 1)
	c.JSON(http.StatusOK, asignacion)
}

// ListAsignaciones returns assignments, optionally filtered by pedido,
// camarero or date
func (h *Handler) ListAsignaciones(c *gin.Context) {
	query := h.DB.Model(&models.AsignacionCamarero{})
	if v := c.Query("pedido_id"); v != "" {
		query = query.Where("pedido_id = ?", v)
	}
	if v := c.Query("camarero_id"); v != "" {
		query = query.Where("camarero_id = ?", v)
	}
	if v := c.Query("fecha"); v != "" {
		query = query.Where("fecha = ?", v)
	}

	var asignaciones []models.AsignacionCamarero
	if err := query.Find(&asignaciones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch assignments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"asignaciones": asignaciones})
}

// UpdateAsignacionEstado moves an assignment through its lifecycle:
// pendiente → enviada → confirmada | alta
func (h *Handler) UpdateAsignacionEstado(c *gin.Context) {
	var req struct {
		Estado string `json:"estado" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var asignacion models.AsignacionCamarero
	if err := h.DB.First(&asignacion, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}

	if !models.ValidTransition(asignacion.Estado, req.Estado) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid transition from " + asignacion.Estado + " to " + req.Estado,
		})
		return
	}

	if err := h.DB.Model(&asignacion).Update("estado", req.Estado).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update assignment"})
		return
	}
	c.JSON(http.StatusOK, asignacion)
}

// DeleteAsignacion removes an assignment (rejection)
func (h *Handler) DeleteAsignacion(c *gin.Context) {
	if err := h.DB.Delete(&models.AsignacionCamarero{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete assignment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment deleted"})
}
