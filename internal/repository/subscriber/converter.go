package repository

import (
	"strings"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

func EntityToModel(e *SubscriberEntity) *model.Subscriber {
	if e == nil {
		return nil
	}

	return &model.Subscriber{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		CreatedAt: e.CreatedAt,
	}
}

func EntityFromModel(s *model.Subscriber) *SubscriberEntity {
	if s == nil {
		return nil
	}

	return &SubscriberEntity{
		ID:        s.ID,
		Name:      s.Name,
		Email:     normalizeEmail(s.Email),
		CreatedAt: s.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
