package services

import (
	"log"

	"leaduni/internal/models"
	"leaduni/internal/repositories"
)

type NotificationService struct {
	Repo     repositories.NotificationRepository
	Telegram *TelegramService
}

func NewNotificationService(repo repositories.NotificationRepository, telegram *TelegramService) *NotificationService {
	return &NotificationService{Repo: repo, Telegram: telegram}
}

func (s *NotificationService) List(limit int) ([]*models.Notification, error) {
	return s.Repo.List(limit)
}

func (s *NotificationService) ListByEmail(email string, limit int) ([]*models.Notification, error) {
	return s.Repo.ListByEmail(email, limit)
}

// Create — пишем в БД; пуш в Telegram best-effort, ошибка не валит запись.
func (s *NotificationService) Create(n *models.Notification) error {
	if err := s.Repo.Create(n); err != nil {
		return err
	}
	if err := s.Telegram.Notify(n.Title, n.Message); err != nil {
		log.Printf("[notify][create] telegram push failed id=%d: %v", n.ID, err)
	}
	return nil
}

func (s *NotificationService) Update(id int, fields map[string]any) (*models.Notification, error) {
	return s.Repo.Update(id, fields)
}
