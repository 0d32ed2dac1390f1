package routes

import (
	"github.com/gin-gonic/gin"

	"leaduni/internal/handlers"
	"leaduni/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	applicationHandler *handlers.ApplicationHandler,
	notificationHandler *handlers.NotificationHandler,
	dbHandler *handlers.DBHandler,
) *gin.Engine {

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())

	// ---- public
	auth := api.Group("/auth")
	{
		auth.POST("/send-code", authHandler.SendCode)
		auth.POST("/register", authHandler.Register)
		auth.POST("/reset-password", authHandler.ResetPassword)
		auth.POST("/login", authHandler.Login)
	}

	// ---- protected (JWT внутри AuthMiddleware)
	perfiles := api.Group("/perfiles")
	{
		perfiles.GET("/", profileHandler.List)
		perfiles.PATCH("/:id", profileHandler.Update)
		perfiles.GET("/:id/cv", profileHandler.ExportCV)
	}

	postulaciones := api.Group("/postulaciones")
	{
		postulaciones.GET("/", applicationHandler.List)
		postulaciones.POST("/", applicationHandler.Create)
		postulaciones.PATCH("/:id", applicationHandler.Update)
	}

	notificaciones := api.Group("/notificaciones")
	{
		notificaciones.GET("/", notificationHandler.List)
		notificaciones.POST("/", notificationHandler.Create)
		notificaciones.PATCH("/:id", notificationHandler.Update)
	}

	// ---- admin
	db := api.Group("/db")
	db.Use(middleware.RequireAdmin())
	{
		db.GET("/tables", dbHandler.ListTables)
		db.GET("/ping", dbHandler.Ping)
	}

	return r
}
