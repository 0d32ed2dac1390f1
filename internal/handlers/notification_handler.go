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

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// @Summary      Listar notificaciones
// @Description  Sin parámetros devuelve las últimas 100; ?mine=1 filtra por el usuario autenticado
// @Tags         Notificaciones
// @Produce      json
// @Success      200  {array}  models.Notification
// @Router       /notificaciones [get]
func (h *NotificationHandler) List(c *gin.Context) {
	var (
		out []*models.Notification
		err error
	)
	if c.Query("mine") != "" {
		email := getStringFromCtx(c, "email")
		out, err = h.notifications.ListByEmail(email, 100)
	} else {
		out, err = h.notifications.List(100)
	}
	if err != nil {
		log.Printf("[notificaciones][list] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary      Crear notificación
// @Tags         Notificaciones
// @Accept       json
// @Produce      json
// @Param        body  body      models.Notification  true  "Notificación"
// @Success      201   {object}  models.Notification
// @Failure      400   {object}  map[string]string
// @Router       /notificaciones [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	var n models.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if n.UserEmail == "" || n.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_email and title are required"})
		return
	}
	if err := h.notifications.Create(&n); err != nil {
		log.Printf("[notificaciones][create] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusCreated, n)
}

// @Summary      Actualizar notificación
// @Tags         Notificaciones
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "ID de la notificación"
// @Param        body  body      map[string]any  true  "Campos a actualizar"
// @Success      200   {object}  models.Notification
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /notificaciones/{id} [patch]
func (h *NotificationHandler) Update(c *gin.Context) {
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

	n, err := h.notifications.Update(id, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrNoFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[notificaciones][update] id=%d: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if n == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, n)
}
