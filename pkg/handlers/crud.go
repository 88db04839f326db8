package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teambition/rrule-go"

	"github.com/staffeo/camareros-api-go/pkg/models"
)

// ListPedidos returns events, optionally filtered by client or date
// range
func (h *Handler) ListPedidos(c *gin.Context) {
	query := h.DB.Model(&models.Pedido{}).Preload("Turnos")
	if v := c.Query("cliente"); v != "" {
		query = query.Where("cliente = ?", v)
	}
	if v := c.Query("desde"); v != "" {
		query = query.Where("fecha >= ?", v)
	}
	if v := c.Query("hasta"); v != "" {
		query = query.Where("fecha <= ?", v)
	}

	var pedidos []models.Pedido
	if err := query.Find(&pedidos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch pedidos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pedidos": pedidos})
}

// GetPedido returns one event
func (h *Handler) GetPedido(c *gin.Context) {
	var pedido models.Pedido
	if err := h.DB.Preload("Turnos").First(&pedido, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido not found"})
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// CreatePedido creates an event
func (h *Handler) CreatePedido(c *gin.Context) {
	var pedido models.Pedido
	if err := c.ShouldBindJSON(&pedido); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if pedido.Cliente == "" || pedido.Fecha == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cliente and fecha are required"})
		return
	}

	if err := h.DB.Create(&pedido).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create pedido"})
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// UpdatePedido mutates an event as staffing needs change
func (h *Handler) UpdatePedido(c *gin.Context) {
	var pedido models.Pedido
	if err := h.DB.First(&pedido, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido not found"})
		return
	}

	var updates models.Pedido
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates.ID = pedido.ID

	if err := h.DB.Model(&pedido).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update pedido"})
		return
	}
	c.JSON(http.StatusOK, pedido)
}

// DeletePedido removes an event
func (h *Handler) DeletePedido(c *gin.Context) {
	if err := h.DB.Delete(&models.Pedido{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete pedido"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pedido deleted"})
}

// ListCamareros returns staff profiles; pass disponible=true to see
// only active ones
func (h *Handler) ListCamareros(c *gin.Context) {
	query := h.DB.Model(&models.Camarero{})
	if v := c.Query("disponible"); v != "" {
		query = query.Where("disponible = ?", v == "true")
	}
	if v := c.Query("especialidad"); v != "" {
		query = query.Where("especialidad = ?", v)
	}

	var camareros []models.Camarero
	if err := query.Find(&camareros).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch camareros"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"camareros": camareros})
}

// CreateCamarero onboards a staff profile. New profiles are available
// unless the payload says otherwise.
func (h *Handler) CreateCamarero(c *gin.Context) {
	var req struct {
		models.Camarero
		Disponible *bool `json:"disponible"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Codigo == "" || req.Nombre == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "codigo and nombre are required"})
		return
	}

	camarero := req.Camarero
	camarero.Disponible = req.Disponible == nil || *req.Disponible

	if err := h.DB.Create(&camarero).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create camarero"})
		return
	}
	c.JSON(http.StatusOK, camarero)
}

// UpdateCamarero updates a staff profile (admins also toggle the
// disponible/en_reserva flags here; deactivation is soft)
func (h *Handler) UpdateCamarero(c *gin.Context) {
	var camarero models.Camarero
	if err := h.DB.First(&camarero, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Camarero not found"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(updates, "id")

	if err := h.DB.Model(&camarero).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update camarero"})
		return
	}
	c.JSON(http.StatusOK, camarero)
}

// CreateDisponibilidad records an availability override. Recurring
// overrides must carry a parseable RRULE.
func (h *Handler) CreateDisponibilidad(c *gin.Context) {
	var dispo models.Disponibilidad
	if err := c.ShouldBindJSON(&dispo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dispo.CamareroID == 0 || dispo.Estado == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "camarero_id and estado are required"})
		return
	}
	if dispo.Fecha == "" && dispo.Regla == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either fecha or regla is required"})
		return
	}
	if dispo.Regla != "" {
		if _, err := rrule.StrToRRule(dispo.Regla); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid regla: " + err.Error()})
			return
		}
	}

	if err := h.DB.Create(&dispo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create disponibilidad"})
		return
	}
	c.JSON(http.StatusOK, dispo)
}

// ListDisponibilidades returns overrides for one camarero
func (h *Handler) ListDisponibilidades(c *gin.Context) {
	query := h.DB.Model(&models.Disponibilidad{})
	if v := c.Query("camarero_id"); v != "" {
		query = query.Where("camarero_id = ?", v)
	}

	var dispos []models.Disponibilidad
	if err := query.Find(&dispos).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch disponibilidades"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"disponibilidades": dispos})
}

// DeleteDisponibilidad removes an override
func (h *Handler) DeleteDisponibilidad(c *gin.Context) {
	if err := h.DB.Delete(&models.Disponibilidad{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete disponibilidad"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Disponibilidad deleted"})
}

// CreateValoracion records a rating and refreshes the camarero's
// stored average
func (h *Handler) CreateValoracion(c *gin.Context) {
	var valoracion models.Valoracion
	if err := c.ShouldBindJSON(&valoracion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if valoracion.CamareroID == 0 || valoracion.Puntuacion < 0 || valoracion.Puntuacion > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "camarero_id and puntuacion (0-5) are required"})
		return
	}

	if err := h.DB.Create(&valoracion).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create valoracion"})
		return
	}

	// Rating aggregation onto the profile
	var avg float64
	h.DB.Model(&models.Valoracion{}).
		Where("camarero_id = ?", valoracion.CamareroID).
		Select("avg(puntuacion)").Scan(&avg)
	h.DB.Model(&models.Camarero{}).
		Where("id = ?", valoracion.CamareroID).
		Update("valoracion_media", avg)

	c.JSON(http.StatusOK, valoracion)
}

// ListValoraciones returns ratings for one camarero
func (h *Handler) ListValoraciones(c *gin.Context) {
	query := h.DB.Model(&models.Valoracion{})
	if v := c.Query("camarero_id"); v != "" {
		query = query.Where("camarero_id = ?", v)
	}

	var valoraciones []models.Valoracion
	if err := query.Find(&valoraciones).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch valoraciones"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valoraciones": valoraciones})
}

// CreateRegla creates an assignment rule after struct-level
// validation. Rules are active unless the payload says otherwise.
func (h *Handler) CreateRegla(c *gin.Context) {
	var req struct {
		models.ReglaAsignacion
		Activa *bool `json:"activa"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	regla := req.ReglaAsignacion
	regla.Activa = req.Activa == nil || *req.Activa

	if err := h.validate.Struct(regla); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.DB.Create(&regla).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create regla"})
		return
	}
	c.JSON(http.StatusOK, regla)
}

// ListReglas returns all assignment rules
func (h *Handler) ListReglas(c *gin.Context) {
	var reglas []models.ReglaAsignacion
	if err := h.DB.Order("prioridad desc").Find(&reglas).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch reglas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reglas": reglas})
}

// UpdateRegla mutates a rule
func (h *Handler) UpdateRegla(c *gin.Context) {
	var regla models.ReglaAsignacion
	if err := h.DB.First(&regla, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Regla not found"})
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delete(updates, "id")

	if err := h.DB.Model(&regla).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update regla"})
		return
	}
	c.JSON(http.StatusOK, regla)
}

// DeleteRegla removes a rule
func (h *Handler) DeleteRegla(c *gin.Context) {
	if err := h.DB.Delete(&models.ReglaAsignacion{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete regla"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Regla deleted"})
}
