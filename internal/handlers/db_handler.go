package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"leaduni/internal/repositories"
)

// DBHandler — admin-only интроспекция БД (как в старом бэкенде).
type DBHandler struct {
	repo repositories.DBRepository
}

func NewDBHandler(repo repositories.DBRepository) *DBHandler {
	return &DBHandler{repo: repo}
}

// @Summary      Listar tablas
// @Tags         DB
// @Produce      json
// @Success      200  {array}  repositories.TableInfo
// @Router       /db/tables [get]
func (h *DBHandler) ListTables(c *gin.Context) {
	tables, err := h.repo.ListTables()
	if err != nil {
		log.Printf("[db][tables] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, tables)
}

// @Summary      Ping de la base de datos
// @Tags         DB
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /db/ping [get]
func (h *DBHandler) Ping(c *gin.Context) {
	if err := h.repo.Ping(); err != nil {
		log.Printf("[db][ping] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
