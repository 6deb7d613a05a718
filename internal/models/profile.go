package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile carries the auxiliary attributes of an account. Exactly one
// profile exists per account; it is created together with the account at
// signup and only ever mutated by its owner.
type Profile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID   primitive.ObjectID `bson:"accountId" json:"accountId"`
	DisplayName string             `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Bio         string             `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarPath  string             `bson:"avatarPath,omitempty" json:"avatarPath,omitempty"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
