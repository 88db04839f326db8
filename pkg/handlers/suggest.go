package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/staffeo/camareros-api-go/pkg/suggest"
)

// Sugerencias handles the candidate-suggestion request
func (h *Handler) Sugerencias(c *gin.Context) {
	var req struct {
		PedidoID uint `json:"pedido_id"`
		Limite   int  `json:"limite"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PedidoID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pedido_id is required"})
		return
	}

	result, err := h.Suggester.Suggest(c.Request.Context(), req.PedidoID, req.Limite)
	if err != nil {
		switch {
		case errors.Is(err, suggest.ErrPedidoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pedido not found"})
		default:
			h.Logger.Error("suggestion request failed",
				zap.Uint("pedido_id", req.PedidoID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	h.RecordUsage(c, 1, result.TotalCandidatos, 0)

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"pedido_id":        result.Pedido.ID,
		"evento":           result.Pedido,
		"total_candidatos": result.TotalCandidatos,
		"sugerencias":      result.Sugerencias,
		"resumen":          result.Resumen,
		"alertas":          result.Alertas,
		"timestamp":        time.Now().Format(time.RFC3339),
	})
}
