package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"leaduni/internal/models"
	"leaduni/internal/repositories"
	"leaduni/internal/services"
)

type ApplicationHandler struct {
	applications *services.ApplicationService
}

func NewApplicationHandler(applications *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

// @Summary      Listar postulaciones
// @Tags         Postulaciones
// @Produce      json
// @Success      200  {array}  models.Application
// @Router       /postulaciones [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	out, err := h.applications.List(100)
	if err != nil {
		log.Printf("[postulaciones][list] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Crear postulación
// @Tags         Postulaciones
// @Accept       json
// @Produce      json
// @Param        body  body      models.Application  true  "Postulación"
// @Success      201   {object}  models.Application
// @Failure      400   {object}  map[string]string
// @Router       /postulaciones [post]
func (h *ApplicationHandler) Create(c *gin.Context) {
	var app models.Application
	if err := c.ShouldBindJSON(&app); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if app.OfferID <= 0 || app.ProfileID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offer_id and profile_id are required"})
		return
	}
	if err := h.applications.Create(&app); err != nil {
		log.Printf("[postulaciones][create] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, app)
}

// @Summary      Actualizar postulación
// @Tags         Postulaciones
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "ID de la postulación"
// @Param        body  body      map[string]any  true  "Campos a actualizar"
// @Success      200   {object}  models.Application
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /postulaciones/{id} [patch]
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.applications.Update(id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNoFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[postulaciones][update] id=%d: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if app == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}
	c.JSON(http.StatusOK, app)
}
