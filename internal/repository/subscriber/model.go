package repository

import (
	"time"
)

type SubscriberEntity struct {
	ID        string     `bson:"_id"`
	Name      string     `bson:"name"`
	Email     string     `bson:"email"`
	CreatedAt *time.Time `bson:"created_at,omitempty"`
}
