package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"leaduni/internal/repositories"
	"leaduni/internal/services"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// @Summary      Listar perfiles
// @Tags         Perfiles
// @Produce      json
// @Success      200  {array}  models.Profile
// @Router       /perfiles [get]
func (h *ProfileHandler) List(c *gin.Context) {
	out, err := h.profiles.List(100)
	if err != nil {
		log.Printf("[perfiles][list] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Actualizar perfil
// @Tags         Perfiles
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "ID del perfil"
// @Param        body  body      map[string]any  true  "Campos a actualizar"
// @Success      200   {object}  models.Profile
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /perfiles/{id} [patch]
func (h *ProfileHandler) Update(c *gin.Context) {
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

	profile, err := h.profiles.Update(id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNoFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[perfiles][update] id=%d: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// @Summary      Exportar CV en PDF
// @Tags         Perfiles
// @Produce      application/pdf
// @Param        id  path  int  true  "ID del perfil"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /perfiles/{id}/cv [get]
func (h *ProfileHandler) ExportCV(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	path, err := h.profiles.ExportCV(id)
	if err != nil {
		log.Printf("[perfiles][cv] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.FileAttachment(path, "cv.pdf")
}
