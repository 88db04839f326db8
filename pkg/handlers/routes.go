package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/staffeo/camareros-api-go/pkg/auth"
)

// Register wires all routes onto the engine. Shared by the server
// binary and the serverless entrypoint.
func Register(r *gin.Engine, h *Handler) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Camareros Staffing API",
			"version": "1.2.0",
		})
	})

	r.POST("/login", h.Login)

	// Admin endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware(), h.RequireRole(auth.RolAdmin))
	{
		admin.POST("/usuarios", h.CreateUsuario)
		admin.GET("/usage/:username", h.GetUserUsage)
	}

	// Coordination endpoints
	api := r.Group("/api")
	api.Use(h.AuthMiddleware(), h.RequireRole(auth.RolAdmin, auth.RolCoordinador))
	{
		api.POST("/sugerencias", h.Sugerencias)
		api.GET("/usage", h.GetMyUsage)

		api.GET("/asignaciones", h.ListAsignaciones)
		api.POST("/asignaciones", h.CreateAsignacion)
		api.PUT("/asignaciones/:id/estado", h.UpdateAsignacionEstado)
		api.DELETE("/asignaciones/:id", h.DeleteAsignacion)

		api.GET("/pedidos", h.ListPedidos)
		api.GET("/pedidos/:id", h.GetPedido)
		api.POST("/pedidos", h.CreatePedido)
		api.PUT("/pedidos/:id", h.UpdatePedido)
		api.DELETE("/pedidos/:id", h.DeletePedido)

		api.GET("/camareros", h.ListCamareros)
		api.POST("/camareros", h.CreateCamarero)
		api.PUT("/camareros/:id", h.UpdateCamarero)

		api.GET("/disponibilidades", h.ListDisponibilidades)
		api.POST("/disponibilidades", h.CreateDisponibilidad)
		api.DELETE("/disponibilidades/:id", h.DeleteDisponibilidad)

		api.GET("/valoraciones", h.ListValoraciones)
		api.POST("/valoraciones", h.CreateValoracion)

		api.GET("/reglas", h.ListReglas)
		api.POST("/reglas", h.CreateRegla)
		api.PUT("/reglas/:id", h.UpdateRegla)
		api.DELETE("/reglas/:id", h.DeleteRegla)
	}
}
