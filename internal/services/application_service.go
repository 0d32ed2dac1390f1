package services

import (
	"fmt"
	"log"

	"leaduni/internal/models"
	"leaduni/internal/repositories"
)

type ApplicationService struct {
	Repo     repositories.ApplicationRepository
	Profiles repositories.ProfileRepository
	Notify   *NotificationService
}

func NewApplicationService(repo repositories.ApplicationRepository, profiles repositories.ProfileRepository, notify *NotificationService) *ApplicationService {
	return &ApplicationService{Repo: repo, Profiles: profiles, Notify: notify}
}

func (s *ApplicationService) List(limit int) ([]*models.Application, error) {
	return s.Repo.List(limit)
}

func (s *ApplicationService) Create(app *models.Application) error {
	if app.Status == "" {
		app.Status = "pending"
	}
	return s.Repo.Create(app)
}

// Update — смена статуса плюс уведомление кандидату (best-effort).
func (s *ApplicationService) Update(id int, fields map[string]any) (*models.Application, error) {
	app, err := s.Repo.Update(id, fields)
	if err != nil || app == nil {
		return app, err
	}

	if s.Notify == nil {
		return app, nil
	}
	profile, err := s.Profiles.GetByID(app.ProfileID)
	if err != nil || profile == nil {
		log.Printf("[application][update] profile lookup failed id=%d: %v", app.ProfileID, err)
		return app, nil
	}
	n := &models.Notification{
		ProfileID: profile.ID,
		UserEmail: profile.UserEmail,
		Kind:      "application_status",
		Title:     "Tu postulación cambió de estado",
		Message:   fmt.Sprintf("Postulación #%d: %s", app.ID, app.Status),
	}
	if err := s.Notify.Create(n); err != nil {
		log.Printf("[application][update] notification failed app_id=%d: %v", app.ID, err)
	}
	return app, nil
}
