package service

import (
	"context"
	"sync"

	converter "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter/telegram"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type service struct {
	client  MessageSender
	mu      sync.RWMutex
	storage map[int64]struct{}
}

func NewNotifierService(client MessageSender, chatIDs []int64) *service {
	storage := make(map[int64]struct{}, len(chatIDs))
	for _, id := range chatIDs {
		storage[id] = struct{}{}
	}

	return &service{client: client, storage: storage}
}

func (svc *service) NotifyDonationValidated(ctx context.Context, event model.ValidatedDonation) error {
	msg, err := converter.BuildDonationValidated(event)
	if err != nil {
		return err
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	for chatID := range svc.storage {
		if err := svc.client.SendMessage(ctx, chatID, msg); err != nil {
			return err
		}
	}

	return nil
}

func (svc *service) AddChatID(_ context.Context, chatID int64) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.storage[chatID] = struct{}{}
}
