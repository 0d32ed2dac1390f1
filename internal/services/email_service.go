package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendVerificationCode(email, code string) error
	SendWelcomeEmail(email, firstName string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendVerificationCode(email, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Tu código de verificación LEAD UNI")

	body := fmt.Sprintf(`
		<h3>Código de verificación</h3>
		<p>Tu código es: <strong>%s</strong></p>
		<p>El código expira en 10 minutos. Si no solicitaste este código, ignora este correo.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	return nil
}

func (s *emailService) SendWelcomeEmail(email, firstName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "¡Bienvenido a LEAD UNI!")

	body := fmt.Sprintf(`
		<h2>¡Bienvenido, %s!</h2>
		<p>Tu cuenta ha sido creada correctamente.</p>
		<p>Ya puedes completar tu perfil y postular a las ofertas publicadas.</p>
		<p>Equipo LEAD UNI</p>
	`, firstName)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	return nil
}
