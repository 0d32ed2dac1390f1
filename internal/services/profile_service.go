package services

import (
	"leaduni/internal/models"
	"leaduni/internal/pdf"
	"leaduni/internal/repositories"
)

type ProfileService struct {
	Repo repositories.ProfileRepository
	PDF  pdf.Generator
}

func NewProfileService(repo repositories.ProfileRepository, gen pdf.Generator) *ProfileService {
	return &ProfileService{Repo: repo, PDF: gen}
}

func (s *ProfileService) List(limit int) ([]*models.Profile, error) {
	return s.Repo.List(limit)
}

func (s *ProfileService) Update(id int, fields map[string]any) (*models.Profile, error) {
	return s.Repo.Update(id, fields)
}

// ExportCV — рендерим PDF-резюме, возвращаем путь к файлу.
func (s *ProfileService) ExportCV(id int) (string, error) {
	profile, err := s.Repo.GetByID(id)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", nil
	}
	return s.PDF.GenerateCV(pdf.CVData{
		ProfileID:   profile.ID,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Email:       profile.UserEmail,
		Career:      profile.Career,
		CurrentTerm: profile.CurrentTerm,
		CreatedAt:   profile.CreatedAt,
	})
}
