package main

import "leaduni/internal/app"

// @title           LEAD UNI API
// @version         1.0
// @description     Backend de la bolsa de trabajo LEAD UNI: registro con código de verificación, perfiles, postulaciones y notificaciones.
// @BasePath        /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app.Run()
}
