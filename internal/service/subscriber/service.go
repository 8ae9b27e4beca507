package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

type SubscriberRepository interface {
	Create(ctx context.Context, sub *model.Subscriber) (string, error)
	SubscriberByEmail(ctx context.Context, email string) (*model.Subscriber, error)
}

type service struct {
	repo           SubscriberRepository
	writeDBTimeout time.Duration
}

func NewSubscriberService(repository SubscriberRepository, writeDBTimeout time.Duration) *service {
	return &service{repo: repository, writeDBTimeout: writeDBTimeout}
}

func (svc *service) Subscribe(ctx context.Context, sub model.Subscriber) (string, error) {
	const op string = "subscriber.service.Subscribe"

	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)

	if sub.Name == "" {
		return "", fmt.Errorf("%s: %w", op, model.NewValidationError("name is required"))
	}
	if sub.Email == "" {
		return "", fmt.Errorf("%s: %w", op, model.NewValidationError("email is required"))
	}
	if _, err := mail.ParseAddress(sub.Email); err != nil {
		return "", fmt.Errorf("%s: %w", op, model.NewValidationError("invalid email address"))
	}

	writeCtx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	id, err := svc.repo.Create(writeCtx, &sub)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}
