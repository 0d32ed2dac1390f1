package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leaduni/internal/models"
	"leaduni/internal/services"
)

type AuthHandler struct {
	accounts *services.AccountService
	otp      *services.OTPService
}

func NewAuthHandler(accounts *services.AccountService, otpSvc *services.OTPService) *AuthHandler {
	return &AuthHandler{accounts: accounts, otp: otpSvc}
}

// otpStatus — единый маппинг ошибок OTP-протокола на статусы.
func otpStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, services.ErrNoPendingCode):
		return http.StatusNotFound, true
	case errors.Is(err, services.ErrCodeExpired):
		return http.StatusGone, true
	case errors.Is(err, services.ErrTooManyAttempts):
		return http.StatusTooManyRequests, true
	case errors.Is(err, services.ErrCodeInvalid):
		return http.StatusBadRequest, true
	}
	return 0, false
}

// @Summary      Solicitar código de verificación
// @Description  Envía un código de un solo uso al correo para registro o recuperación
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.SendCodeRequest  true  "Correo de destino"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/send-code [post]
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req models.SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.otp.RequestCode(req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Code sent"})
	case errors.Is(err, services.ErrEmailRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, services.ErrResendThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try later"})
	case errors.Is(err, services.ErrDeliveryFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not deliver code, try again later"})
	default:
		log.Printf("[auth][send-code] internal: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

// @Summary      Registro de candidato
// @Description  Crea la cuenta y el perfil usando un código de verificación vigente
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.RegisterRequest  true  "Datos de registro"
// @Success      201      {object}  services.AuthResult
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      409      {object}  map[string]string
// @Failure      410      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	start := time.Now()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.accounts.Register(&req)
	if err != nil {
		if status, ok := otpStatus(err); ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		switch {
		case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			log.Printf("[auth][register] internal: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	log.Printf("[auth][register] ok email=%q took=%s", result.User.Email, time.Since(start).Truncate(time.Millisecond))
	c.JSON(http.StatusCreated, result)
}

// @Summary      Restablecer contraseña
// @Description  Reemplaza la contraseña usando un código de verificación vigente
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.ResetPasswordRequest  true  "Correo, código y nueva contraseña"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Failure      410      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.accounts.ResetPassword(&req)
	if err != nil {
		if status, ok := otpStatus(err); ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		switch {
		case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		default:
			log.Printf("[auth][reset] internal: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// @Summary      Inicio de sesión
// @Description  Autentica al usuario y devuelve un token de sesión
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credenciales"
// @Success      200    {object}  services.AuthResult
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		default:
			log.Printf("[auth][login] internal: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
