package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
)

type repository struct {
	coll *mongo.Collection
}

func NewSubscriberRepository(collection *mongo.Collection) *repository {
	return &repository{coll: collection}
}

func (r *repository) Create(ctx context.Context, sub *model.Subscriber) (string, error) {
	const op = "repository.Create"

	ent := EntityFromModel(sub)
	if ent.ID == "" {
		ent.ID = uuid.NewString()
	}
	if ent.CreatedAt == nil || ent.CreatedAt.IsZero() {
		ent.CreatedAt = lo.ToPtr(time.Now())
	}

	if _, err := r.coll.InsertOne(ctx, ent); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", model.ErrDuplicateEmail
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return ent.ID, nil
}

func (r *repository) SubscriberByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	const op = "repository.SubscriberByEmail"

	var ent SubscriberEntity
	err := r.coll.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return EntityToModel(&ent), nil
}

func (r *repository) List(ctx context.Context) ([]*model.Subscriber, error) {
	const op = "repository.List"

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = cur.Close(ctx)
	}()

	out := make([]*model.Subscriber, 0)
	for cur.Next(ctx) {
		var ent SubscriberEntity
		if err := cur.Decode(&ent); err != nil {
			return nil, fmt.Errorf("%s decode: %w", op, err)
		}
		out = append(out, EntityToModel(&ent))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s cursor: %w", op, err)
	}

	return out, nil
}
